package config

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/ilyakaznacheev/cleanenv"
)

var (
	ErrConfigNotLoaded = errors.New("config not loaded")
	ErrInsecureConfig  = errors.New("insecure config")
)

// DefaultJWTSecret is the placeholder shipped in the sample config.
const DefaultJWTSecret = "change-me"

const minSecretLength = 32

type Environment string

const (
	Production  Environment = "prod"
	Development Environment = "dev"
)

func (e *Environment) SetValue(s string) error {
	*e = Environment(s)
	if *e != Production && *e != Development {
		return configNotLoadedErr(`only "prod" and "dev" environments are allowed`)
	}
	return nil
}

type Config struct {
	App struct {
		Env      Environment `yaml:"env" env:"ENV" env-required:""`
		Timezone string      `yaml:"timezone" env:"TIMEZONE" env-default:"UTC"`
	} `yaml:"app" env-prefix:"APP_" env-required:""`

	Server struct {
		Host string `yaml:"host" env:"HOST" env-default:"localhost"`
		Port int    `yaml:"port" env:"PORT" env-default:"8080"`
	} `yaml:"server" env-prefix:"SERVER_"`

	DB struct {
		DSN          string `yaml:"dsn" env:"DSN" env-required:""`
		MaxOpenConns int    `yaml:"max_open_conns" env:"MAX_OPEN_CONNS" env-default:"10"`
	} `yaml:"db" env-prefix:"DB_" env-required:""`

	JWT struct {
		AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"ACCESS_TOKEN_TTL" env-default:"2h"`
		Secret         string        `yaml:"secret" env:"SECRET" env-required:""`
	} `yaml:"jwt" env-prefix:"JWT_" env-required:""`

	Telemetry struct {
		Namespace string `yaml:"namespace" env:"NAMESPACE" env-default:"gym_tracker"`
	} `yaml:"telemetry" env-prefix:"TELEMETRY_"`
}

func Load(filePath string) (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadConfig(filePath, cfg); err != nil {
		return nil, configNotLoadedErr("config not loaded: %w", err)
	}

	if err := cfg.App.Env.SetValue(string(cfg.App.Env)); err != nil {
		return nil, err
	}

	if _, err := cfg.Location(); err != nil {
		return nil, configNotLoadedErr("invalid timezone %q: %w", cfg.App.Timezone, err)
	}

	return cfg, nil
}

func MustLoad(filePath string) *Config {
	cfg, err := Load(filePath)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Location resolves the time zone used to split activity into days.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.App.Timezone)
}

// Validate reports insecure settings. They are fatal in production and
// returned as warnings in development.
func (c *Config) Validate() (warnings []string, err error) {
	var problems []string

	switch {
	case c.JWT.Secret == DefaultJWTSecret:
		problems = append(problems, "jwt secret is the default value")
	case len(c.JWT.Secret) < minSecretLength:
		problems = append(problems, fmt.Sprintf("jwt secret is shorter than %d bytes", minSecretLength))
	}

	if c.JWT.AccessTokenTTL <= 0 {
		problems = append(problems, "jwt access token ttl must be positive")
	}

	if len(problems) == 0 {
		return nil, nil
	}

	if c.App.Env == Production {
		return nil, fmt.Errorf("%w: %v", ErrInsecureConfig, problems)
	}
	return problems, nil
}

func configNotLoadedErr(format string, args ...any) error {
	return errors.Join(fmt.Errorf(format, args...), ErrConfigNotLoaded)
}
