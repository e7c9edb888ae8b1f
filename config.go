package elisa

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// LogConfig defines logging configuration.
type LogConfig struct {
	Level            string `yaml:"level"`
	Format           string `yaml:"format"` // json or console
	EnableSampling   bool   `yaml:"enable_sampling"`
	SampleInitial    int    `yaml:"sample_initial"`
	SampleThereafter int    `yaml:"sample_thereafter"`
	Development      bool   `yaml:"development"`
}

// Config describes how a driver sets up a world.
type Config struct {
	Log LogConfig `yaml:"log"`
	// Workers sizes the pool of parallel systems; 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`
	// Capacity is the number of entities to preallocate room for.
	Capacity int `yaml:"capacity"`
	// FixedStep is the tick length in seconds for drivers running a fixed
	// time step.
	FixedStep float64 `yaml:"fixed_step"`
}

// DefaultConfig returns the configuration used when a key is absent.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Capacity:  1024,
		FixedStep: 1.0 / 60.0,
	}
}

// LoadConfig reads a YAML configuration from r on top of DefaultConfig.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer func() { _ = f.Close() }()
	return LoadConfig(f)
}

// Validate checks the configuration for values no driver can use.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.Capacity < 0 {
		return fmt.Errorf("%w: capacity must not be negative, got %d", ErrInvalidConfig, c.Capacity)
	}
	if c.FixedStep <= 0 {
		return fmt.Errorf("%w: fixed_step must be positive, got %v", ErrInvalidConfig, c.FixedStep)
	}
	switch c.Log.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("%w: log format %q, want json or console", ErrInvalidConfig, c.Log.Format)
	}
	if c.Log.EnableSampling && (c.Log.SampleInitial <= 0 || c.Log.SampleThereafter <= 0) {
		return fmt.Errorf("%w: sampling needs positive sample_initial and sample_thereafter", ErrInvalidConfig)
	}
	return nil
}

// Options converts the configuration into world options, building the logger.
func (c Config) Options() ([]Option, error) {
	logger, err := c.Log.Build()
	if err != nil {
		return nil, err
	}
	return []Option{WithLogger(logger), WithCapacity(c.Capacity)}, nil
}

// Build creates a zap logger from the configuration. An unknown level falls
// back to info.
func (c LogConfig) Build() (*zap.Logger, error) {
	var zapConfig zap.Config

	if c.Development {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	if c.Format == "console" {
		zapConfig.Encoding = "console"
	} else {
		zapConfig.Encoding = "json"
	}

	if c.EnableSampling {
		zapConfig.Sampling = &zap.SamplingConfig{
			Initial:    c.SampleInitial,
			Thereafter: c.SampleThereafter,
		}
	} else {
		zapConfig.Sampling = nil
	}

	logger, err := zapConfig.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
