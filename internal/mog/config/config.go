package config

import (
	"errors"
	"strings"

	"github.com/caarlos0/env/v6"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Version is reported in the default application name.
const Version = "1.0.0"

// DefaultAppName is used when no application name is configured.
const DefaultAppName = "Mog v" + Version

// Config holds everything needed to open a Connection.
type Config struct {
	// URL is the MongoDB connection string.
	URL string `env:"MOG_URL,required"`
	// Database selects the database every operation runs against.
	Database string `env:"MOG_DB,required"`
	// AppName is reported to the server in the handshake.
	AppName string `env:"MOG_APP_NAME"`
	// DefaultCollection is used when an operation does not name its own collection.
	DefaultCollection string `env:"MOG_DEFAULT_COLLECTION"`
	// AutoTouch makes the gate produce createdAt/updatedAt/authority attachments.
	AutoTouch bool `env:"MOG_AUTO_TOUCH" envDefault:"true"`
	// OperationLogging emits one debug line per operation.
	OperationLogging bool `env:"MOG_OPERATION_LOGGING" envDefault:"false"`
	// DisabledVerbs fail with NotImplemented without touching the store.
	DisabledVerbs []string `env:"MOG_DISABLED_VERBS" envSeparator:","`

	// Pass-through driver options, never read from the environment.
	ClientOptions   *options.ClientOptions   `env:"-"`
	DatabaseOptions *options.DatabaseOptions `env:"-"`
}

// DefaultConfig returns a Config with defaults applied. URL and Database still need to be set.
func DefaultConfig() Config {
	return Config{
		AppName:   DefaultAppName,
		AutoTouch: true,
	}
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	if err := env.Parse(&cfg); err != nil {
		return nil, errors.New("failed to load mog configuration from environment: " + err.Error())
	}
	if cfg.AppName == "" {
		cfg.AppName = DefaultAppName
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields and normalises the disabled verb list.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return errors.New("mog url is required")
	}
	if strings.TrimSpace(c.Database) == "" {
		return errors.New("mog database name is required")
	}
	verbs := make([]string, 0, len(c.DisabledVerbs))
	for _, v := range c.DisabledVerbs {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			verbs = append(verbs, v)
		}
	}
	c.DisabledVerbs = verbs
	return nil
}

// ResolvedAppName returns AppName or DefaultAppName when unset.
func (c *Config) ResolvedAppName() string {
	if c.AppName == "" {
		return DefaultAppName
	}
	return c.AppName
}
