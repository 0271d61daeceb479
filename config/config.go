package config

import (
	"fmt"

	"github.com/mduppes/fairseq2/logger"
)

// Config is the root configuration of a data-loading job.
type Config struct {
	Name        string `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`

	Logging    logger.Config    `yaml:"logging" mapstructure:"logging"`
	Pipeline   PipelineConfig   `yaml:"pipeline" mapstructure:"pipeline"`
	Tokenizer  TokenizerConfig  `yaml:"tokenizer" mapstructure:"tokenizer"`
	Checkpoint CheckpointConfig `yaml:"checkpoint" mapstructure:"checkpoint"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" mapstructure:"telemetry"`
}

// PipelineConfig holds the tunable stage parameters of a pipeline. A zero
// value for a stage parameter leaves that stage out.
type PipelineConfig struct {
	// ShuffleWindow is the shuffle buffer size; 0 disables shuffling.
	ShuffleWindow int `yaml:"shuffle_window" mapstructure:"shuffle_window" validate:"min=0"`
	// Seed drives the shuffle order.
	Seed int64 `yaml:"seed" mapstructure:"seed"`
	// BatchSize groups records into lists; 0 disables batching.
	BatchSize int `yaml:"batch_size" mapstructure:"batch_size" validate:"min=0"`
	// DropRemainder discards a trailing partial batch.
	DropRemainder bool `yaml:"drop_remainder" mapstructure:"drop_remainder"`
	// PrefetchDepth is the background read-ahead; 0 disables prefetching.
	PrefetchDepth int `yaml:"prefetch_depth" mapstructure:"prefetch_depth" validate:"min=0"`
	// MaxRecords caps the number of records per epoch; 0 means unlimited.
	MaxRecords int `yaml:"max_records" mapstructure:"max_records" validate:"min=0"`
}

// TokenizerConfig locates and configures the tokenizer model.
type TokenizerConfig struct {
	ModelPath     string   `yaml:"model_path" mapstructure:"model_path"`
	ControlTokens []string `yaml:"control_tokens" mapstructure:"control_tokens"`
}

// CheckpointConfig configures position persistence.
type CheckpointConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// TelemetryConfig configures the OTLP exporters.
type TelemetryConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"min=0,max=1"`
}

// ApplyDefaults fills in defaults for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	c.Logging.ApplyDefaults()
	if c.Checkpoint.Dir == "" {
		c.Checkpoint.Dir = "checkpoints"
	}
	if c.Telemetry.Endpoint == "" {
		c.Telemetry.Endpoint = "localhost:4318"
	}
	if c.Telemetry.SampleRate == 0 {
		c.Telemetry.SampleRate = 1.0
	}
}

// Validate checks the configuration, combining struct-tag validation with
// per-section rules.
func (c *Config) Validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}
