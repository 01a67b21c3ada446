package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Webhook WebhookConfig
	Admin   AdminConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DBConfig struct {
	Host    string
	Port    int
	User    string
	Pass    string
	Name    string
	SSLMode string
	DSN     string
}

type WebhookConfig struct {
	// MaxRequestsPerUser caps the retained history per user; inserting past
	// the cap evicts the oldest record first.
	MaxRequestsPerUser int64
}

type AdminConfig struct {
	Username string
	Password string
}

func LoadConfig() (*Config, error) {
	dbPort, err := strconv.Atoi(os.Getenv("DB_PORT"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %v", err)
	}

	dBConfig := DBConfig{
		Host:    os.Getenv("DB_HOST"),
		Port:    dbPort,
		User:    os.Getenv("DB_USER"),
		Pass:    os.Getenv("DB_PASS"),
		Name:    os.Getenv("DB_NAME"),
		SSLMode: os.Getenv("DB_SSLMODE"),
	}
	dBConfig.DSN = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dBConfig.Host, dBConfig.Port, dBConfig.User, dBConfig.Pass, dBConfig.Name, dBConfig.SSLMode,
	)

	serverConfig := ServerConfig{
		Port:         os.Getenv("SERVER_PORT"),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	webhookConfig := WebhookConfig{
		MaxRequestsPerUser: 100000,
	}
	if raw := os.Getenv("MAX_REQUESTS_PER_USER"); raw != "" {
		maxRequests, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || maxRequests < 1 {
			return nil, fmt.Errorf("invalid MAX_REQUESTS_PER_USER: %q", raw)
		}
		webhookConfig.MaxRequestsPerUser = maxRequests
	}

	adminConfig := AdminConfig{
		Username: envOrDefault("ADMIN_USERNAME", "admin"),
		Password: envOrDefault("ADMIN_PASSWORD", "admin"),
	}

	return &Config{
		Server:  serverConfig,
		DB:      dBConfig,
		Webhook: webhookConfig,
		Admin:   adminConfig,
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
