// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the service. It is built once at
// startup and passed explicitly to the components that need it.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"10s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	DBDriver string `envconfig:"DB_DRIVER" default:"sqlite"`
	DBDSN    string `envconfig:"DB_DSN" default:"file:data.sqlite"`

	BotToken      string  `envconfig:"BOT_TOKEN"`
	AdminIDs      []int64 `envconfig:"ADMIN_TG_IDS"`
	NotifyChatIDs []int64 `envconfig:"NOTIFY_CHAT_IDS"`

	// DevAllowUnsafe skips Telegram signature checks for requests without
	// initData. Never enable outside local development.
	DevAllowUnsafe bool          `envconfig:"DEV_ALLOW_UNSAFE" default:"false"`
	DevUserID      int64         `envconfig:"DEV_USER_ID" default:"1"`
	InitDataMaxAge time.Duration `envconfig:"INIT_DATA_MAX_AGE" default:"0"`

	SessionSecret string        `envconfig:"SESSION_SECRET"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"12h"`

	TelegramAPIEndpoint string        `envconfig:"TELEGRAM_API_ENDPOINT" default:"https://api.telegram.org/bot%s/%s"`
	NotifyTimeout       time.Duration `envconfig:"NOTIFY_TIMEOUT" default:"20s"`
	NotifyRetries       uint64        `envconfig:"NOTIFY_RETRIES" default:"3"`

	RedisAddr string `envconfig:"REDIS_ADDR"`

	RateLimitPerMinute int `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if len(cfg.NotifyChatIDs) == 0 {
		cfg.NotifyChatIDs = slices.Clone(cfg.AdminIDs)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks combinations envconfig cannot express.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q (supported: sqlite, postgres)", c.DBDriver)
	}
	if c.DevAllowUnsafe && c.IsProduction() {
		return errors.New("config: DEV_ALLOW_UNSAFE must not be enabled in production")
	}
	if c.AppWriteTimeout > 0 && c.AppRequestTimeout >= c.AppWriteTimeout {
		return errors.New("config: APP_REQUEST_TIMEOUT must be shorter than APP_WRITE_TIMEOUT")
	}
	if c.RateLimitPerMinute <= 0 {
		return errors.New("config: RATE_LIMIT_PER_MINUTE must be positive")
	}
	return nil
}

// IsProduction returns true when the service runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// IsAdmin reports whether the Telegram user id is on the admin allow-list.
func (c *Config) IsAdmin(tgUserID int64) bool {
	return slices.Contains(c.AdminIDs, tgUserID)
}
