// Package config provides the run configuration for visbench.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	verrors "github.com/visbench/visbench/internal/errors"
	"github.com/visbench/visbench/pkg/types"
)

// Config holds everything one run needs. It is assembled from defaults, an
// optional YAML file and CLI flags, then validated once before any store
// activity.
type Config struct {
	// Target selects which field(s) the run exercises.
	Target types.Target

	// WriteMode is the write granularity.
	WriteMode types.WriteMode

	// Shape is the observation geometry.
	Shape types.Shape

	// Iterations is the benchmark fill-pass count. Zero is valid and
	// performs no writes.
	Iterations int

	// ValidateMode switches from benchmark mode to a single validated fill.
	ValidateMode bool

	// Streaming replaces payloads with a reused junk buffer. Incompatible
	// with ValidateMode.
	Streaming bool

	// Verbosity counts -v minus -q occurrences; above zero enables debug
	// logging, below zero silences progress output.
	Verbosity int

	// TablePath is where the backing store is (re)created.
	TablePath string

	// Report configures the optional run-report sink.
	Report ReportConfig
}

// ReportConfig configures where the JSON run report is published. Both
// sinks are optional; with neither set the report is only printed.
type ReportConfig struct {
	// Dir is a local directory sink.
	Dir string `yaml:"dir"`

	// Bucket is an S3 bucket sink.
	Bucket string `yaml:"bucket"`

	// Region is the AWS region for the bucket.
	Region string `yaml:"region"`

	// Endpoint is an optional custom S3 endpoint (MinIO, LocalStack).
	Endpoint string `yaml:"endpoint"`

	// Prefix is prepended to report object names.
	Prefix string `yaml:"prefix"`
}

// Default returns the default configuration, matching the historical
// defaults of the write benchmark.
func Default() *Config {
	return &Config{
		Target:     types.TargetTime,
		WriteMode:  types.ModeCell,
		Shape:      types.DefaultShape(),
		Iterations: 100,
		TablePath:  "table.data",
		Report:     ReportConfig{Prefix: "visbench"},
	}
}

// fileConfig is the YAML form: enums as names, shape flattened.
type fileConfig struct {
	Target     string       `yaml:"target"`
	WriteMode  string       `yaml:"write_mode"`
	Shape      types.Shape  `yaml:"shape"`
	Iterations *int         `yaml:"iterations"`
	Validate   *bool        `yaml:"validate"`
	Streaming  *bool        `yaml:"streaming"`
	TablePath  string       `yaml:"table_path"`
	Report     ReportConfig `yaml:"report"`
}

// LoadFile overlays the YAML file at path onto c. Unset file fields leave
// the current values alone.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return verrors.Wrap(verrors.ErrCategoryConfig, verrors.CodeBadConfigFile,
			fmt.Sprintf("reading config file %s", path), err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return verrors.Wrap(verrors.ErrCategoryConfig, verrors.CodeBadConfigFile,
			fmt.Sprintf("parsing config file %s", path), err)
	}

	if fc.Target != "" {
		t, err := types.ParseTarget(fc.Target)
		if err != nil {
			return verrors.Wrap(verrors.ErrCategoryConfig, verrors.CodeUnknownTarget, "config file", err)
		}
		c.Target = t
	}
	if fc.WriteMode != "" {
		m, err := types.ParseWriteMode(fc.WriteMode)
		if err != nil {
			return verrors.Wrap(verrors.ErrCategoryConfig, verrors.CodeUnknownWriteMode, "config file", err)
		}
		c.WriteMode = m
	}
	if fc.Shape.TimeSteps != 0 {
		c.Shape.TimeSteps = fc.Shape.TimeSteps
	}
	if fc.Shape.Baselines != 0 {
		c.Shape.Baselines = fc.Shape.Baselines
	}
	if fc.Shape.Channels != 0 {
		c.Shape.Channels = fc.Shape.Channels
	}
	if fc.Shape.Polarizations != 0 {
		c.Shape.Polarizations = fc.Shape.Polarizations
	}
	if fc.Iterations != nil {
		c.Iterations = *fc.Iterations
	}
	if fc.Validate != nil {
		c.ValidateMode = *fc.Validate
	}
	if fc.Streaming != nil {
		c.Streaming = *fc.Streaming
	}
	if fc.TablePath != "" {
		c.TablePath = fc.TablePath
	}
	if fc.Report.Dir != "" {
		c.Report.Dir = fc.Report.Dir
	}
	if fc.Report.Bucket != "" {
		c.Report.Bucket = fc.Report.Bucket
	}
	if fc.Report.Region != "" {
		c.Report.Region = fc.Report.Region
	}
	if fc.Report.Endpoint != "" {
		c.Report.Endpoint = fc.Report.Endpoint
	}
	if fc.Report.Prefix != "" {
		c.Report.Prefix = fc.Report.Prefix
	}
	return nil
}

// Validate checks the configuration. Every violation here is a
// ConfigurationError: it is reported before any store mutation occurs.
func (c *Config) Validate() error {
	if err := c.Shape.Validate(); err != nil {
		return verrors.Wrap(verrors.ErrCategoryConfig, verrors.CodeBadDimension, "invalid shape", err)
	}
	if c.Iterations < 0 {
		return verrors.NewConfigError(verrors.CodeBadIterations,
			fmt.Sprintf("iterations must be non-negative, got %d", c.Iterations))
	}
	if c.Streaming && c.ValidateMode {
		return verrors.NewConfigError(verrors.CodeStreamingValidate,
			"streaming writes junk payloads and cannot be validated; drop -s or -V")
	}
	if c.Target == types.TargetRowwise && c.WriteMode == types.ModeColumn {
		return verrors.NewConfigError(verrors.CodeColumnRowwise,
			"COLUMN granularity cannot be combined with ROWWISE writing")
	}
	if c.TablePath == "" {
		return verrors.NewConfigError(verrors.CodeBadDimension, "table path must not be empty")
	}
	return nil
}
