// Package harness composes synthesis, planning, the store and validation
// into one run: synthesize once, create the backing table fresh, then either
// validate a single fill or time N repeated fills.
package harness

import (
	"log"

	"github.com/visbench/visbench/internal/config"
	"github.com/visbench/visbench/internal/plan"
	"github.com/visbench/visbench/internal/report"
	"github.com/visbench/visbench/internal/store"
	"github.com/visbench/visbench/internal/synth"
	"github.com/visbench/visbench/internal/validate"
)

// State tracks the run lifecycle. Transitions are strictly forward:
// Configured -> Synthesized -> TableReady -> {Validating -> Passed|Failed}
// or {Benchmarking -> Reported}.
type State int

const (
	StateConfigured State = iota
	StateSynthesized
	StateTableReady
	StateValidating
	StatePassed
	StateFailed
	StateBenchmarking
	StateReported
)

func (s State) String() string {
	switch s {
	case StateConfigured:
		return "Configured"
	case StateSynthesized:
		return "Synthesized"
	case StateTableReady:
		return "TableReady"
	case StateValidating:
		return "Validating"
	case StatePassed:
		return "Passed"
	case StateFailed:
		return "Failed"
	case StateBenchmarking:
		return "Benchmarking"
	case StateReported:
		return "Reported"
	default:
		return "Unknown"
	}
}

// Runner owns the reference fields and the backing table for one run. The
// strategy and validator only borrow them read-only; nothing else may create
// or destroy the table.
type Runner struct {
	cfg   *config.Config
	ref   *synth.Reference
	tab   *store.SQLiteTable
	state State
}

// New validates the configuration and constructs a runner. Configuration
// errors, including the streaming+validation conflict, are raised here,
// before any store activity.
func New(cfg *config.Config) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Runner{cfg: cfg, state: StateConfigured}, nil
}

// State returns the runner's current lifecycle state.
func (r *Runner) State() State { return r.state }

// Run executes the configured run and returns its report. The run is
// single-threaded and synchronous throughout; a store failure anywhere
// aborts it.
func (r *Runner) Run() (*report.Report, error) {
	ref, err := synth.Synthesize(r.cfg.Shape)
	if err != nil {
		return nil, err
	}
	r.ref = ref
	r.state = StateSynthesized
	r.debugf("synthesized %d rows (shape %s, checksum %x)",
		r.cfg.Shape.RowCount(), r.cfg.Shape, ref.Checksum())

	tab, err := store.Create(r.cfg.TablePath, r.cfg.Shape)
	if err != nil {
		return nil, err
	}
	defer tab.Close()
	r.tab = tab
	r.state = StateTableReady
	r.debugf("table ready at %s", r.cfg.TablePath)

	rep := report.New(r.cfg.Shape, r.cfg.Target, r.cfg.WriteMode, r.cfg.Streaming, ref.Checksum())

	if r.cfg.ValidateMode {
		if err := r.runValidation(rep); err != nil {
			return nil, err
		}
	} else {
		if err := r.runBenchmark(rep); err != nil {
			return nil, err
		}
	}
	return rep, nil
}

// runValidation fills once, reads every targeted field back whole and
// compares it against the reference.
func (r *Runner) runValidation(rep *report.Report) error {
	r.state = StateValidating
	if err := r.fillPass(); err != nil {
		return err
	}
	mismatch, err := validate.Table(r.tab, r.ref, r.cfg.Target.FieldKinds(), validate.Options{
		Verbose: r.cfg.Verbosity > 1,
	})
	if err != nil {
		return err
	}
	if mismatch != nil {
		r.state = StateFailed
		rep.Outcome = report.OutcomeFail
		rep.Mismatch = mismatch.Details()
		return nil
	}
	r.state = StatePassed
	rep.Outcome = report.OutcomePass
	return nil
}

// runBenchmark times n repeated fill passes with no intervening reads.
// Zero iterations performs zero writes and still reports.
func (r *Runner) runBenchmark(rep *report.Report) error {
	r.state = StateBenchmarking
	timer := StartTimer()
	for i := 0; i < r.cfg.Iterations; i++ {
		if err := r.fillPass(); err != nil {
			return err
		}
	}
	elapsed := timer.Elapsed()
	rep.Iterations = r.cfg.Iterations
	rep.UserSeconds = elapsed.User.Seconds()
	rep.SystemSeconds = elapsed.System.Seconds()
	rep.RealSeconds = elapsed.Real.Seconds()
	r.state = StateReported
	return nil
}

func (r *Runner) planOpts() plan.Options {
	return plan.Options{
		Streaming: r.cfg.Streaming,
		Logf:      log.Printf,
	}
}

func (r *Runner) debugf(format string, args ...interface{}) {
	if r.cfg.Verbosity > 0 {
		log.Printf(format, args...)
	}
}
