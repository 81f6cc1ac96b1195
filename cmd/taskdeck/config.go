package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppConfig holds all configuration, loaded from the environment and
// config.yaml.
type AppConfig struct {
	Port        string
	DatabaseURL string
	RedisAddr   string
	SecretKey   string
	GeminiKey   string

	// SelfBaseURL is where the assistant's tools reach this service's own
	// HTTP API. Defaults to localhost on the configured port.
	SelfBaseURL string

	TokenTTL time.Duration
	Agent    AgentConfig
}

// AgentConfig is the assistant section of config.yaml.
type AgentConfig struct {
	Model                 string `yaml:"model"`
	IterationBudget       int    `yaml:"iteration_budget"`
	ChatRequestsPerMinute int    `yaml:"chat_requests_per_minute"`
}

type yamlConfig struct {
	Agent AgentConfig `yaml:"agent"`
}

// LoadConfig loads configuration from a .env file, environment variables,
// and config.yaml.
func LoadConfig() (*AppConfig, error) {
	// Only load a .env file in local development. In Docker (where
	// GIN_MODE="release") configuration arrives as environment variables.
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil {
			log.Println("WARNING: No .env file found for local development.")
		}
	}

	cfg := &AppConfig{
		Port:        os.Getenv("PORT"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		SecretKey:   os.Getenv("SECRET_KEY"),
		GeminiKey:   os.Getenv("GEMINI_API_KEY"),
		SelfBaseURL: os.Getenv("TASK_MANAGER_BASE_URL"),
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	for name, value := range map[string]string{
		"DATABASE_URL":   cfg.DatabaseURL,
		"REDIS_ADDR":     cfg.RedisAddr,
		"SECRET_KEY":     cfg.SecretKey,
		"GEMINI_API_KEY": cfg.GeminiKey,
	} {
		if value == "" {
			return nil, fmt.Errorf("%s environment variable is not set", name)
		}
	}
	if cfg.SelfBaseURL == "" {
		cfg.SelfBaseURL = fmt.Sprintf("http://localhost:%s", cfg.Port)
	}

	expireMinutes := 30
	if v := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid ACCESS_TOKEN_EXPIRE_MINUTES: %w", err)
		}
		expireMinutes = minutes
	}
	cfg.TokenTTL = time.Duration(expireMinutes) * time.Minute

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	raw, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", configPath, err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(raw, &yc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
	}
	cfg.Agent = yc.Agent
	if cfg.Agent.Model == "" {
		return nil, fmt.Errorf("agent.model is not set in %s", configPath)
	}

	return cfg, nil
}
