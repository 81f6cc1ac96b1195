package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeAgentConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GIN_MODE", "release")
	t.Setenv("DATABASE_URL", "postgres://localhost/taskdeck")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("SECRET_KEY", "secret")
	t.Setenv("GEMINI_API_KEY", "key")
}

func TestLoadConfig(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "45")
	t.Setenv("CONFIG_PATH", writeAgentConfig(t, `
agent:
  model: gemini-2.0-flash
  iteration_budget: 7
  chat_requests_per_minute: 3
`))

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("got port %q", cfg.Port)
	}
	if cfg.SelfBaseURL != "http://localhost:9090" {
		t.Errorf("got self base URL %q", cfg.SelfBaseURL)
	}
	if cfg.TokenTTL != 45*time.Minute {
		t.Errorf("got token TTL %v", cfg.TokenTTL)
	}
	if cfg.Agent.Model != "gemini-2.0-flash" {
		t.Errorf("got model %q", cfg.Agent.Model)
	}
	if cfg.Agent.IterationBudget != 7 {
		t.Errorf("got iteration budget %d", cfg.Agent.IterationBudget)
	}
	if cfg.Agent.ChatRequestsPerMinute != 3 {
		t.Errorf("got chat rate limit %d", cfg.Agent.ChatRequestsPerMinute)
	}
}

func TestLoadConfigMissingEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SECRET_KEY", "")
	t.Setenv("CONFIG_PATH", writeAgentConfig(t, "agent:\n  model: gemini-2.0-flash\n"))

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for missing SECRET_KEY")
	}
}

func TestLoadConfigMissingModel(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CONFIG_PATH", writeAgentConfig(t, "agent:\n  iteration_budget: 5\n"))

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for missing agent.model")
	}
}

func TestLoadConfigExplicitBaseURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TASK_MANAGER_BASE_URL", "https://tasks.example.com")
	t.Setenv("CONFIG_PATH", writeAgentConfig(t, "agent:\n  model: gemini-2.0-flash\n"))

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.SelfBaseURL != "https://tasks.example.com" {
		t.Errorf("got self base URL %q", cfg.SelfBaseURL)
	}
}
