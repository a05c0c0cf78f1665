// Package report assembles and publishes the JSON record of one run.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/visbench/visbench/internal/storage"
	"github.com/visbench/visbench/pkg/types"
)

// Outcome of a validation run.
const (
	OutcomePass = "PASS"
	OutcomeFail = "FAIL"
)

// Report is the machine-readable record of one run.
type Report struct {
	RunID     string      `json:"run_id"`
	CreatedAt time.Time   `json:"created_at"`
	Shape     types.Shape `json:"shape"`
	Target    string      `json:"target"`
	WriteMode string      `json:"write_mode"`
	Streaming bool        `json:"streaming"`

	// Checksum is the murmur3 hash of the synthesized reference buffers;
	// identical shapes always report identical checksums.
	Checksum uint64 `json:"checksum"`

	// Benchmark results. Iterations is zero for validation runs.
	Iterations    int     `json:"iterations"`
	UserSeconds   float64 `json:"user_seconds"`
	SystemSeconds float64 `json:"system_seconds"`
	RealSeconds   float64 `json:"real_seconds"`

	// Validation results. Outcome is empty for benchmark runs.
	Outcome  string `json:"outcome,omitempty"`
	Mismatch string `json:"mismatch,omitempty"`
}

// New stamps a fresh report with a run ID and creation time.
func New(shape types.Shape, target types.Target, mode types.WriteMode, streaming bool, checksum uint64) *Report {
	return &Report{
		RunID:     uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Shape:     shape,
		Target:    target.String(),
		WriteMode: mode.String(),
		Streaming: streaming,
		Checksum:  checksum,
	}
}

// ObjectName is the report's name in a sink, unique per run.
func (r *Report) ObjectName(prefix string) string {
	return path.Join(prefix, fmt.Sprintf("visbench-%s-%s.json",
		r.CreatedAt.Format("20060102T150405Z"), r.RunID))
}

// Publish marshals the report and uploads it to the sink.
func (r *Report) Publish(ctx context.Context, sink storage.ObjectStorage, prefix string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("report: marshaling: %w", err)
	}
	if err := sink.Upload(ctx, r.ObjectName(prefix), data); err != nil {
		return fmt.Errorf("report: publishing: %w", err)
	}
	return nil
}

// Load fetches a previously published report back from the sink.
func Load(ctx context.Context, sink storage.ObjectStorage, objectPath string) (*Report, error) {
	data, err := sink.Download(ctx, objectPath)
	if err != nil {
		return nil, fmt.Errorf("report: fetching: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("report: decoding: %w", err)
	}
	return &r, nil
}
