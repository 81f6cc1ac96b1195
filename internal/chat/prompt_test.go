package chat

import (
	"strings"
	"testing"
	"time"
)

func TestSetupPromptIncludesDatetime(t *testing.T) {
	now := time.Date(2025, 3, 19, 14, 30, 5, 0, time.UTC)
	prompt := SetupPrompt(now)

	if !strings.Contains(prompt, "Current datetime: 2025-03-19 14:30:05.") {
		t.Errorf("prompt missing formatted datetime:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Task Manager API assistant") {
		t.Error("prompt missing role framing")
	}
	if strings.Contains(prompt, "%s") {
		t.Error("prompt left a format verb unexpanded")
	}
}
