package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the full runtime configuration, loaded from the environment.
// A .env file in the working directory is merged in first when present.
type Config struct {
	BotToken    string `envconfig:"BOT_TOKEN" required:"true"`
	AdminUserID int64  `envconfig:"ADMIN_USER_ID"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" required:"true"`

	DownloadDir string `envconfig:"DOWNLOAD_DIR" default:"downloads"`
	SizeCeiling int64  `envconfig:"SIZE_CEILING_BYTES" default:"2147483648"`

	ProgressInterval time.Duration `envconfig:"PROGRESS_INTERVAL" default:"3s"`
	SweepInterval    time.Duration `envconfig:"SWEEP_INTERVAL" default:"30m"`
	SweepRetention   time.Duration `envconfig:"SWEEP_RETENTION" default:"30m"`
	SessionTTL       time.Duration `envconfig:"SESSION_TTL" default:"1h"`

	AdminAddr string `envconfig:"ADMIN_ADDR" default:":8080"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads configuration from the environment, merging a local .env file
// when one exists.
func Load() (Config, error) {
	// Missing .env is the normal case in production.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("processing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	// envconfig only enforces required tags for unset variables; a variable
	// exported as an empty string slips through.
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN must not be empty")
	}
	if c.PostgresDSN == "" {
		return fmt.Errorf("POSTGRES_DSN must not be empty")
	}
	if c.SizeCeiling <= 0 {
		return fmt.Errorf("size ceiling must be positive, got %d", c.SizeCeiling)
	}
	if c.ProgressInterval <= 0 {
		return fmt.Errorf("progress interval must be positive, got %s", c.ProgressInterval)
	}
	return nil
}
