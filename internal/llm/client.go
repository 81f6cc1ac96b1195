// Package llm contains the model-facing side of the assistant: the
// conversation message types, the provider client interface with its
// Gemini implementation, the gateway that binds the tool catalog, and
// redis-backed call statistics.
package llm

import (
	"context"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/tools"
)

// Role identifies the originator of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one entry in a conversation transcript. Messages are treated
// as immutable once appended; the transcript only ever grows.
//
// ToolCallID and ToolName are set on RoleTool messages and link the result
// back to the assistant's originating tool call. ToolCalls is set on
// RoleAssistant messages that request tool executions.
type Message struct {
	Role       Role              `json:"role"`
	Content    string            `json:"content"`
	ToolCallID string            `json:"tool_call_id,omitempty"`
	ToolName   string            `json:"tool_name,omitempty"`
	ToolCalls  []*tools.ToolCall `json:"tool_calls,omitempty"`
}

// GenerationConfig controls the model's generation behavior. Pointer fields
// distinguish "unset" from an explicit zero.
type GenerationConfig struct {
	Model       string
	Temperature *float32
	TopP        *float32
	MaxTokens   int
}

// GenerationResult is the complete output of one model call: the text
// content, any tool calls the model requested, and token usage.
type GenerationResult struct {
	Content   string
	ToolCalls []*tools.ToolCall
	Usage     api.Usage
}

// ModelClient is the provider-agnostic interface for one blocking model
// call over the full conversation history. Passing a nil or empty tool
// slice invokes the model without any tools bound.
type ModelClient interface {
	Generate(
		ctx context.Context,
		messages []Message,
		config *GenerationConfig,
		availableTools []tools.Tool,
	) (*GenerationResult, error)
}
