// Package types provides the core data types for visbench.
package types

import "fmt"

// Dimension defaults describe a 128-antenna array (autocorrelations
// included) observing 24 coarse channels of 128 fine channels each.
const (
	DefaultTimeSteps     = 120
	DefaultBaselines     = 128 * (128 + 1) / 2
	DefaultChannels      = 24 * 128
	DefaultPolarizations = 4
)

// UvwLen is the fixed per-row length of the UVW vector field.
const UvwLen = 3

// Shape describes the geometry of one synthesized observation set.
// All four dimensions are strictly positive; a Shape is constructed once
// from configuration and never mutated afterwards.
type Shape struct {
	TimeSteps     uint32 `json:"time_steps" yaml:"time_steps"`
	Baselines     uint32 `json:"baselines" yaml:"baselines"`
	Channels      uint32 `json:"channels" yaml:"channels"`
	Polarizations uint32 `json:"polarizations" yaml:"polarizations"`
}

// DefaultShape returns the default observation geometry.
func DefaultShape() Shape {
	return Shape{
		TimeSteps:     DefaultTimeSteps,
		Baselines:     DefaultBaselines,
		Channels:      DefaultChannels,
		Polarizations: DefaultPolarizations,
	}
}

// NewShape validates and constructs a Shape. Every dimension must be
// positive; the store cannot allocate fields of degenerate geometry.
func NewShape(timeSteps, baselines, channels, polarizations uint32) (Shape, error) {
	s := Shape{
		TimeSteps:     timeSteps,
		Baselines:     baselines,
		Channels:      channels,
		Polarizations: polarizations,
	}
	if err := s.Validate(); err != nil {
		return Shape{}, err
	}
	return s, nil
}

// Validate checks that every dimension is positive.
func (s Shape) Validate() error {
	for _, d := range []struct {
		name  string
		value uint32
	}{
		{"time_steps", s.TimeSteps},
		{"baselines", s.Baselines},
		{"channels", s.Channels},
		{"polarizations", s.Polarizations},
	} {
		if d.value == 0 {
			return fmt.Errorf("shape: %s must be positive", d.name)
		}
	}
	return nil
}

// RowCount is the number of logical rows: one per (time-step, baseline) pair.
func (s Shape) RowCount() int {
	return int(s.TimeSteps) * int(s.Baselines)
}

// DataRowShape is the per-row matrix shape of the DATA field,
// polarizations by channels.
func (s Shape) DataRowShape() []int {
	return []int{int(s.Polarizations), int(s.Channels)}
}

// String formats the shape as TxBxCxP.
func (s Shape) String() string {
	return fmt.Sprintf("%dx%dx%dx%d", s.TimeSteps, s.Baselines, s.Channels, s.Polarizations)
}
