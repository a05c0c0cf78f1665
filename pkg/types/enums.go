package types

import (
	"fmt"
	"strings"
)

// FieldKind identifies one of the three logical columns.
type FieldKind int

const (
	KindTime FieldKind = iota
	KindUvw
	KindData
)

var fieldKindNames = []struct {
	kind FieldKind
	name string
}{
	{KindTime, "TIME"},
	{KindUvw, "UVW"},
	{KindData, "DATA"},
}

func (k FieldKind) String() string {
	for _, e := range fieldKindNames {
		if e.kind == k {
			return e.name
		}
	}
	return fmt.Sprintf("FieldKind(%d)", int(k))
}

// Target selects which field or cross-field mode a run exercises.
type Target int

const (
	TargetTime Target = iota
	TargetUvw
	TargetData
	TargetColumnwise
	TargetRowwise
)

// targetNames is the single ordered source of truth for both display and
// parsing, so the tag set and the name table cannot drift apart.
var targetNames = []struct {
	tag  Target
	name string
}{
	{TargetTime, "TIME"},
	{TargetUvw, "UVW"},
	{TargetData, "DATA"},
	{TargetColumnwise, "COLUMNWISE"},
	{TargetRowwise, "ROWWISE"},
}

func (t Target) String() string {
	for _, e := range targetNames {
		if e.tag == t {
			return e.name
		}
	}
	return fmt.Sprintf("Target(%d)", int(t))
}

// ParseTarget parses a target name, folding case. "ALL" is accepted as an
// alias for COLUMNWISE for compatibility with older invocations.
func ParseTarget(s string) (Target, error) {
	folded := strings.ToUpper(strings.TrimSpace(s))
	if folded == "ALL" {
		return TargetColumnwise, nil
	}
	for _, e := range targetNames {
		if e.name == folded {
			return e.tag, nil
		}
	}
	return 0, fmt.Errorf("unknown target %q (want TIME, UVW, DATA, COLUMNWISE or ROWWISE)", s)
}

// FieldKinds returns the field columns a target covers, in write order.
func (t Target) FieldKinds() []FieldKind {
	switch t {
	case TargetTime:
		return []FieldKind{KindTime}
	case TargetUvw:
		return []FieldKind{KindUvw}
	case TargetData:
		return []FieldKind{KindData}
	default:
		return []FieldKind{KindTime, KindUvw, KindData}
	}
}

// WriteMode is the granularity the access-pattern strategy slices writes at.
type WriteMode int

const (
	// ModeCell writes one row per store call.
	ModeCell WriteMode = iota
	// ModeCells writes one time-step chunk (all baselines at that time)
	// per store call.
	ModeCells
	// ModeColumn writes the whole field in a single store call.
	ModeColumn
)

var writeModeNames = []struct {
	tag  WriteMode
	name string
}{
	{ModeCell, "CELL"},
	{ModeCells, "CELLS"},
	{ModeColumn, "COLUMN"},
}

func (m WriteMode) String() string {
	for _, e := range writeModeNames {
		if e.tag == m {
			return e.name
		}
	}
	return fmt.Sprintf("WriteMode(%d)", int(m))
}

// ParseWriteMode parses a write mode name, folding case.
func ParseWriteMode(s string) (WriteMode, error) {
	folded := strings.ToUpper(strings.TrimSpace(s))
	for _, e := range writeModeNames {
		if e.name == folded {
			return e.tag, nil
		}
	}
	return 0, fmt.Errorf("unknown write mode %q (want CELL, CELLS or COLUMN)", s)
}
