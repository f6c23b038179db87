package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Server struct {
		Port string `env:"PORT" envDefault:"5250"`

		// Origins allowed by the CORS middleware
		AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

		// Graceful shutdown budget in seconds
		ShutdownTimeout int `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	}

	Database struct {
		Path string `env:"DATABASE_PATH" envDefault:"database/dealdesk.db"`
	}

	Cache struct {
		// redis://host:port/db; empty keeps results in process memory
		RedisURL string `env:"REDIS_URL"`

		// How long a computed run stays cached, in seconds
		TTL int `env:"CACHE_TTL" envDefault:"900"`
	}

	Underwriting struct {
		// Longest exit year a request may ask for
		MaxProjectionYears int `env:"PROJECTION_MAX_YEARS" envDefault:"30"`

		BatchWorkers int `env:"UNDERWRITING_BATCH_WORKERS" envDefault:"4"`
		BatchMax     int `env:"UNDERWRITING_BATCH_MAX" envDefault:"25"`

		// Runs per minute allowed per client on the run endpoint
		RateLimitPerMinute int `env:"UNDERWRITING_RATE_LIMIT" envDefault:"20"`

		// Optional YAML file overriding the baseline assumptions and buy-box
		ProfilePath string `env:"ASSUMPTIONS_PROFILE"`

		// Days of run history kept; 0 keeps everything
		RunRetentionDays int `env:"RUN_RETENTION_DAYS" envDefault:"180"`

		// Cron spec for the retention job
		RunRetentionSchedule string `env:"RUN_RETENTION_SCHEDULE" envDefault:"0 3 * * *"`
	}

	// BatchProcessing configures run audit persistence
	BatchProcessing struct {
		// Number of audit batches the queue buffers before rejecting
		QueueSize int `env:"BATCH_QUEUE_SIZE" envDefault:"100"`

		// Number of concurrent batch processors
		ProcessorCount int `env:"BATCH_PROCESSOR_COUNT" envDefault:"2"`

		// Maximum number of retries for failed batches
		MaxRetries int `env:"BATCH_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"BATCH_RETRY_DELAY" envDefault:"5"`
	}
}

// CacheTTL returns the configured cache lifetime
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTL) * time.Second
}

// Level parses LogLevel, falling back to info
func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// LoadConfig reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Underwriting.MaxProjectionYears < 1 {
		return fmt.Errorf("PROJECTION_MAX_YEARS must be positive, got %d", c.Underwriting.MaxProjectionYears)
	}
	if c.Underwriting.BatchWorkers < 1 {
		return fmt.Errorf("UNDERWRITING_BATCH_WORKERS must be positive, got %d", c.Underwriting.BatchWorkers)
	}
	if c.Underwriting.BatchMax < 1 {
		return fmt.Errorf("UNDERWRITING_BATCH_MAX must be positive, got %d", c.Underwriting.BatchMax)
	}
	if c.Underwriting.RunRetentionDays < 0 {
		return fmt.Errorf("RUN_RETENTION_DAYS must not be negative, got %d", c.Underwriting.RunRetentionDays)
	}
	if c.BatchProcessing.QueueSize < 1 {
		return fmt.Errorf("BATCH_QUEUE_SIZE must be positive, got %d", c.BatchProcessing.QueueSize)
	}
	return nil
}
