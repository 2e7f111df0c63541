package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
)

var validEnvs = map[string]bool{
	"local": true,
	"alpha": true,
	"beta":  true,
	"prod":  true,
}

var validDrivers = map[string]bool{
	"memory":   true,
	"dynamodb": true,
	"postgres": true,
}

type Config struct {
	ServerPort string
	AppEnv     string
	LogLevel   string
	Store      StoreConfig
}

func (c Config) ParseLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("invalid SERVER_PORT %q: %w", c.ServerPort, err)
	}
	if !validEnvs[c.AppEnv] {
		return fmt.Errorf("invalid APP_ENV %q: must be one of local, alpha, beta, prod", c.AppEnv)
	}
	if !validDrivers[c.Store.Driver] {
		return fmt.Errorf("invalid STORE_DRIVER %q: must be one of memory, dynamodb, postgres", c.Store.Driver)
	}
	if c.Store.Driver == "memory" && c.AppEnv != "local" {
		return fmt.Errorf("STORE_DRIVER memory must not be used in %s environment", c.AppEnv)
	}
	if c.Store.Driver == "dynamodb" && c.Store.Dynamo.Table == "" {
		return fmt.Errorf("DYNAMO_TABLE is required when STORE_DRIVER is dynamodb")
	}
	return nil
}

type StoreConfig struct {
	Driver string
	Dynamo DynamoConfig
	DB     DBConfig
}

type DynamoConfig struct {
	Region   string
	Table    string
	Endpoint string // override for a local DynamoDB
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (d DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     d.Name,
		RawQuery: fmt.Sprintf("sslmode=%s", url.QueryEscape(d.SSLMode)),
	}
	return u.String()
}

func Load() Config {
	return Config{
		ServerPort: envOrDefault("SERVER_PORT", "8080"),
		AppEnv:     envOrDefault("APP_ENV", "local"),
		LogLevel:   envOrDefault("LOG_LEVEL", "info"),
		Store: StoreConfig{
			Driver: envOrDefault("STORE_DRIVER", "memory"),
			Dynamo: DynamoConfig{
				Region:   envOrDefault("DYNAMO_REGION", "ap-northeast-1"),
				Table:    os.Getenv("DYNAMO_TABLE"),
				Endpoint: os.Getenv("DYNAMO_ENDPOINT"),
			},
			DB: DBConfig{
				Host:     envOrDefault("DB_HOST", "localhost"),
				Port:     envOrDefault("DB_PORT", "5432"),
				User:     envOrDefault("DB_USER", "taskdeck"),
				Password: envOrDefault("DB_PASSWORD", "taskdeck"),
				Name:     envOrDefault("DB_NAME", "taskdeck"),
				SSLMode:  envOrDefault("DB_SSLMODE", "disable"),
			},
		},
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
