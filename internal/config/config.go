package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	DefaultEnvFile = ".env"
)

type Config struct {
	Environment string           `envconfig:"APP_ENV" default:"development" validate:"oneof=development production test"`
	Server      ServerConfig     `envconfig:"SERVER"`
	Session     SessionConfig    `envconfig:"SESSION"`
	Auth        AuthConfig       `envconfig:"AUTH"`
	RateLimit   RateLimitConfig  `envconfig:"RATE_LIMIT"`
	SMTP        SMTPConfig       `envconfig:"SMTP"`
	Monitoring  MonitoringConfig `envconfig:"METRICS"`
	Log         LogConfig        `envconfig:"LOG"`
}

type ServerConfig struct {
	Port            int           `split_words:"true" default:"3000" validate:"min=1,max=65535"`
	ShutdownTimeout time.Duration `split_words:"true" default:"5s"`
	RequestTimeout  time.Duration `split_words:"true" default:"30s"`
	// Empty trusts no proxy: ClientIP is the socket peer.
	TrustedProxies  []string      `split_words:"true"`
}

type SessionConfig struct {
	Secret     string        `split_words:"true" validate:"required"`
	TTL        time.Duration `split_words:"true" default:"24h"`
	CookieName string        `split_words:"true" default:"careportal.sid"`
	Store      string        `split_words:"true" default:"memory" validate:"oneof=memory redis"`
	RedisURL   string        `split_words:"true" validate:"required_if=Store redis"`
}

type AuthConfig struct {
	BcryptCost int `split_words:"true" default:"10" validate:"min=4,max=31"`
}

type RateLimitConfig struct {
	RPS   float64 `split_words:"true" default:"5" validate:"gt=0"`
	Burst int     `split_words:"true" default:"10" validate:"min=1"`
}

type SMTPConfig struct {
	Host     string `split_words:"true"`
	Port     int    `split_words:"true" default:"587"`
	Username string `split_words:"true"`
	Password string `split_words:"true"`
	From     string `split_words:"true" default:"no-reply@careportal.local"`
}

type MonitoringConfig struct {
	Namespace string `split_words:"true" default:"careportal"`
	Path      string `split_words:"true" default:"/metrics"`
}

type LogConfig struct {
	Level string `split_words:"true" default:"info"`
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// LoadConfig reads the environment into a Config. Outside production the
// variables in envFile are exported first, without overriding ones that are
// already set.
func LoadConfig(envFile string) (*Config, error) {
	if os.Getenv("APP_ENV") != EnvProduction {
		if err := loadDotEnv(envFile); err != nil {
			return nil, err
		}
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func loadDotEnv(path string) error {
	if path == "" {
		path = DefaultEnvFile
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat env file: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read env file: %w", err)
	}

	for _, key := range v.AllKeys() {
		name := strings.ToUpper(key)
		if _, ok := os.LookupEnv(name); ok {
			continue
		}
		if err := os.Setenv(name, v.GetString(key)); err != nil {
			return fmt.Errorf("failed to export %s: %w", name, err)
		}
	}
	return nil
}
