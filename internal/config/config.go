package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server  ServerConfig
	Worker  WorkerConfig
	Hub     HubConfig
	SMTP    SMTPConfig
	DB      DatabaseConfig
	Auth    AuthConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Host string
	Port int
}

// WorkerConfig bounds the notification fan-out.
type WorkerConfig struct {
	Count int
}

type HubConfig struct {
	RecentLimit  int
	PollInterval time.Duration // advertised to pull-fallback clients
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type DatabaseConfig struct {
	Path string
}

type AuthConfig struct {
	Token string
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Worker: WorkerConfig{
			Count: getEnvInt("WORKER_COUNT", 8),
		},
		Hub: HubConfig{
			RecentLimit:  getEnvInt("HUB_RECENT_LIMIT", 20),
			PollInterval: getEnvDuration("HUB_POLL_INTERVAL", 15*time.Second),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     getEnvInt("SMTP_PORT", 1025),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "alerts@safelanka.lk"),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/alert-engine.db"),
		},
		Auth: AuthConfig{
			Token: getEnv("AUTH_TOKEN", ""),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Worker.Count < 1 {
		return fmt.Errorf("worker count must be at least 1")
	}
	if c.Hub.RecentLimit < 1 {
		return fmt.Errorf("hub recent limit must be at least 1")
	}
	if c.Auth.Token == "" {
		return fmt.Errorf("AUTH_TOKEN is required")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
