// Command visbench benchmarks and validates write patterns against a
// columnar table store holding observation-shaped rows: a scalar TIME, a
// 3-vector UVW and a polarizations-by-channels complex DATA matrix per row.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/visbench/visbench/internal/config"
	"github.com/visbench/visbench/internal/harness"
	"github.com/visbench/visbench/internal/report"
	"github.com/visbench/visbench/internal/storage"
	"github.com/visbench/visbench/pkg/types"
)

// countFlag counts repeated occurrences of a boolean flag.
type countFlag int

func (c *countFlag) String() string     { return strconv.Itoa(int(*c)) }
func (c *countFlag) Set(s string) error { *c++; return nil }
func (c *countFlag) IsBoolFlag() bool   { return true }

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// Optional .env, used for S3 report sink credentials.
	_ = godotenv.Load()

	fs := flag.NewFlagSet("visbench", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: visbench [-h] [-v|-q] [-V] [-s] [-i <iterations>] [-t <target>] [-w <writemode>]\n")
		fmt.Fprintf(fs.Output(), "                [-T <times>] [-B <baselines>] [-C <chans>] [-P <pols>] [-d <table>] [-config <file>]\n")
		fs.PrintDefaults()
	}

	var (
		verbose, quiet countFlag
		validateMode   = fs.Bool("V", false, "validation mode instead of benchmark mode")
		streaming      = fs.Bool("s", false, "streaming payloads (write-only, never validated)")
		iterations     = fs.Int("i", 100, "benchmark iteration count")
		targetName     = fs.String("t", "TIME", "target: TIME, UVW, DATA, COLUMNWISE or ROWWISE")
		modeName       = fs.String("w", "CELL", "write granularity: CELL, CELLS or COLUMN")
		timeSteps      = fs.Uint("T", types.DefaultTimeSteps, "time steps")
		baselines      = fs.Uint("B", types.DefaultBaselines, "baselines")
		channels       = fs.Uint("C", types.DefaultChannels, "channels")
		pols           = fs.Uint("P", types.DefaultPolarizations, "polarizations")
		tablePath      = fs.String("d", "table.data", "backing table path (destroyed and recreated)")
		configPath     = fs.String("config", "", "optional YAML config file")
		reportDir      = fs.String("report-dir", "", "local directory to publish the run report to")
		reportBucket   = fs.String("report-bucket", "", "S3 bucket to publish the run report to")
		reportRegion   = fs.String("report-region", "", "AWS region for the report bucket")
		reportEndpoint = fs.String("report-endpoint", "", "custom S3 endpoint for the report bucket")
		reportPrefix   = fs.String("report-prefix", "visbench", "object prefix for published reports")
	)
	fs.Var(&verbose, "v", "increase verbosity (repeatable)")
	fs.Var(&quiet, "q", "decrease verbosity (repeatable)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	cfg := config.Default()
	if *configPath != "" {
		if err := cfg.LoadFile(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	}

	// Explicit CLI flags override config file values.
	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		if flagErr != nil {
			return
		}
		switch f.Name {
		case "t":
			cfg.Target, flagErr = types.ParseTarget(*targetName)
		case "w":
			cfg.WriteMode, flagErr = types.ParseWriteMode(*modeName)
		case "i":
			cfg.Iterations = *iterations
		case "V":
			cfg.ValidateMode = *validateMode
		case "s":
			cfg.Streaming = *streaming
		case "T":
			cfg.Shape.TimeSteps = uint32(*timeSteps)
		case "B":
			cfg.Shape.Baselines = uint32(*baselines)
		case "C":
			cfg.Shape.Channels = uint32(*channels)
		case "P":
			cfg.Shape.Polarizations = uint32(*pols)
		case "d":
			cfg.TablePath = *tablePath
		case "report-dir":
			cfg.Report.Dir = *reportDir
		case "report-bucket":
			cfg.Report.Bucket = *reportBucket
		case "report-region":
			cfg.Report.Region = *reportRegion
		case "report-endpoint":
			cfg.Report.Endpoint = *reportEndpoint
		case "report-prefix":
			cfg.Report.Prefix = *reportPrefix
		}
	})
	if flagErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", flagErr)
		return 1
	}
	cfg.Verbosity = int(verbose) - int(quiet)

	runner, err := harness.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if cfg.Verbosity >= 0 {
		if cfg.ValidateMode {
			fmt.Printf("target: %s writemode: %s validate\n", cfg.Target, cfg.WriteMode)
		} else {
			fmt.Printf("target: %s writemode: %s iterations: %d\n", cfg.Target, cfg.WriteMode, cfg.Iterations)
		}
	}

	rep, err := runner.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	exit := 0
	if cfg.ValidateMode {
		fmt.Println(rep.Outcome)
		if rep.Outcome == report.OutcomeFail {
			fmt.Fprintf(os.Stderr, "error: %s\n", rep.Mismatch)
			exit = 1
		}
	} else {
		fmt.Printf("user:   %.3f\n", rep.UserSeconds)
		fmt.Printf("system: %.3f\n", rep.SystemSeconds)
		fmt.Printf("real:   %.3f\n", rep.RealSeconds)
	}

	if err := publish(cfg, rep); err != nil {
		log.Printf("report: %v", err)
	}
	return exit
}

// publish sends the run report to the configured sinks, if any.
func publish(cfg *config.Config, rep *report.Report) error {
	ctx := context.Background()
	if cfg.Report.Dir != "" {
		sink, err := storage.NewLocalStorage(cfg.Report.Dir)
		if err != nil {
			return err
		}
		if err := rep.Publish(ctx, sink, cfg.Report.Prefix); err != nil {
			return err
		}
	}
	if cfg.Report.Bucket != "" {
		sink, err := storage.NewS3Storage(ctx, cfg.Report.Bucket, storage.S3Config{
			Region:   cfg.Report.Region,
			Endpoint: cfg.Report.Endpoint,
		})
		if err != nil {
			return err
		}
		if err := rep.Publish(ctx, sink, cfg.Report.Prefix); err != nil {
			return err
		}
	}
	return nil
}
