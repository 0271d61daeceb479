package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mduppes/fairseq2/errors"
	"github.com/mduppes/fairseq2/logger"
)

// envPrefix namespaces the environment variables the loader reads, e.g.
// FAIRSEQ2_PIPELINE_SHUFFLE_WINDOW overrides pipeline.shuffle_window.
const envPrefix = "FAIRSEQ2"

// LoaderOption customizes Load.
type LoaderOption func(*loaderConfig)

type loaderConfig struct {
	envFile string
}

// WithEnvFile overlays a .env file before reading environment variables.
func WithEnvFile(path string) LoaderOption {
	return func(lc *loaderConfig) { lc.envFile = path }
}

// Load reads the YAML file at path, applies the .env overlay and
// environment overrides, fills in defaults, and validates the result.
// An empty path starts from defaults and environment only.
func Load(path string, opts ...LoaderOption) (*Config, error) {
	var lc loaderConfig
	for _, opt := range opts {
		opt(&lc)
	}

	if lc.envFile != "" {
		if err := godotenv.Load(lc.envFile); err != nil {
			return nil, errors.FromFile(lc.envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.FromFile(path, err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.MalformedInput("cannot parse "+path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.MalformedInput("cannot decode configuration", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.WithComponent("config").Debug("configuration loaded", map[string]interface{}{
		"name": cfg.Name,
		"file": path,
	})
	return &cfg, nil
}

// setDefaults registers every key with viper so environment overrides are
// visible to Unmarshal even when the key is absent from the config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("name", "")
	v.SetDefault("environment", "")

	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.output", "")
	v.SetDefault("logging.no_color", false)
	v.SetDefault("logging.timestamp", true)
	v.SetDefault("logging.caller", false)

	v.SetDefault("pipeline.shuffle_window", 0)
	v.SetDefault("pipeline.seed", 0)
	v.SetDefault("pipeline.batch_size", 0)
	v.SetDefault("pipeline.drop_remainder", false)
	v.SetDefault("pipeline.prefetch_depth", 0)
	v.SetDefault("pipeline.max_records", 0)

	v.SetDefault("tokenizer.model_path", "")
	v.SetDefault("tokenizer.control_tokens", []string{})

	v.SetDefault("checkpoint.dir", "")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.endpoint", "")
	v.SetDefault("telemetry.insecure", true)
	v.SetDefault("telemetry.sample_rate", 0.0)
}
