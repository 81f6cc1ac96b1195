package llm

import (
	"strings"
	"sync"
	"testing"

	"github.com/taskdeck/taskdeck/internal/tools"

	"github.com/google/generative-ai-go/genai"
)

// Concurrent calls must each get their own model value: a tool-disabled
// call running next to a tool-enabled one must never observe the other's
// tool binding or sampling settings.
func TestRequestModelPerCallIsolation(t *testing.T) {
	client, err := NewGeminiClient("test-key", "gemini-2.0-flash")
	if err != nil {
		t.Fatalf("NewGeminiClient returned error: %v", err)
	}
	catalog := tools.NewCatalog()
	temp := float32(0)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		withTools := i%2 == 0
		wg.Add(1)
		go func() {
			defer wg.Done()
			var bound []tools.Tool
			if withTools {
				bound = catalog.List()
			}
			model := client.requestModel(&GenerationConfig{Temperature: &temp, MaxTokens: 2048}, bound)
			if withTools && len(model.Tools) == 0 {
				t.Error("tool-enabled call got a model without tools")
			}
			if !withTools && model.Tools != nil {
				t.Error("tool-disabled call got a model with tools bound")
			}
			if model.Temperature == nil || *model.Temperature != 0 {
				t.Errorf("temperature not applied: %v", model.Temperature)
			}
		}()
	}
	wg.Wait()
}

func TestSplitGeminiConversation(t *testing.T) {
	t.Run("system and user only", func(t *testing.T) {
		history, sendParts, system, err := splitGeminiConversation([]Message{
			{Role: RoleSystem, Content: "be helpful"},
			{Role: RoleUser, Content: "list my tasks"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if system != "be helpful" {
			t.Errorf("got system %q", system)
		}
		if len(history) != 0 {
			t.Errorf("expected empty history, got %d entries", len(history))
		}
		if len(sendParts) != 1 {
			t.Fatalf("expected 1 send part, got %d", len(sendParts))
		}
		if text, ok := sendParts[0].(genai.Text); !ok || string(text) != "list my tasks" {
			t.Errorf("unexpected send part %v", sendParts[0])
		}
	})

	t.Run("trailing tool results are grouped into one send", func(t *testing.T) {
		messages := []Message{
			{Role: RoleSystem, Content: "be helpful"},
			{Role: RoleUser, Content: "do two things"},
			{
				Role: RoleAssistant,
				ToolCalls: []*tools.ToolCall{
					{ID: "c1", Type: tools.ToolTypeFunction, Function: tools.ToolCallFunction{Name: "task_list", Arguments: `{"limit":5}`}},
					{ID: "c2", Type: tools.ToolTypeFunction, Function: tools.ToolCallFunction{Name: "collection_list", Arguments: "{}"}},
				},
			},
			{Role: RoleTool, ToolCallID: "c1", ToolName: "task_list", Content: "Function result is: []"},
			{Role: RoleTool, ToolCallID: "c2", ToolName: "collection_list", Content: "Function result is: []"},
		}

		history, sendParts, _, err := splitGeminiConversation(messages)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// History holds the user turn and the assistant's function calls;
		// both tool results travel together as the final send.
		if len(history) != 2 {
			t.Fatalf("expected 2 history entries, got %d", len(history))
		}
		if history[1].Role != "model" {
			t.Errorf("assistant turn has role %q", history[1].Role)
		}
		calls := 0
		for _, part := range history[1].Parts {
			if fc, ok := part.(genai.FunctionCall); ok {
				calls++
				if fc.Name == "task_list" && fc.Args["limit"] != float64(5) {
					t.Errorf("arguments lost in conversion: %v", fc.Args)
				}
			}
		}
		if calls != 2 {
			t.Errorf("expected 2 function calls in history, got %d", calls)
		}

		if len(sendParts) != 2 {
			t.Fatalf("expected 2 send parts, got %d", len(sendParts))
		}
		for i, part := range sendParts {
			fr, ok := part.(genai.FunctionResponse)
			if !ok {
				t.Fatalf("send part %d is not a function response: %v", i, part)
			}
			if fr.Response["result"] != "Function result is: []" {
				t.Errorf("unexpected response payload %v", fr.Response)
			}
		}
	})

	t.Run("bad tool call arguments fail the conversion", func(t *testing.T) {
		messages := []Message{
			{Role: RoleUser, Content: "hi"},
			{
				Role: RoleAssistant,
				ToolCalls: []*tools.ToolCall{
					{ID: "c1", Function: tools.ToolCallFunction{Name: "task_list", Arguments: "{broken"}},
				},
			},
			{Role: RoleUser, Content: "still there?"},
		}
		if _, _, _, err := splitGeminiConversation(messages); err == nil {
			t.Fatal("expected error for malformed arguments")
		}
	})
}

func TestToGeminiTools(t *testing.T) {
	catalog := tools.NewCatalog()
	converted := toGeminiTools(catalog.List())

	if len(converted) != 1 {
		t.Fatalf("expected a single tool wrapper, got %d", len(converted))
	}
	declarations := converted[0].FunctionDeclarations
	if len(declarations) != catalog.Len() {
		t.Fatalf("expected %d declarations, got %d", catalog.Len(), len(declarations))
	}

	var createTask *genai.FunctionDeclaration
	for _, decl := range declarations {
		if decl.Name == "create_task" {
			createTask = decl
		}
	}
	if createTask == nil {
		t.Fatal("create_task declaration missing")
	}
	if createTask.Parameters.Type != genai.TypeObject {
		t.Errorf("got parameter type %v", createTask.Parameters.Type)
	}
	if _, ok := createTask.Parameters.Properties["title"]; !ok {
		t.Error("title property missing from create_task schema")
	}
	for _, required := range createTask.Parameters.Required {
		if required == "token" {
			t.Error("credential leaked into the advertised schema")
		}
	}
}

func TestConvertSchemaArray(t *testing.T) {
	schema := convertSchema(tools.JSONSchema{
		Type: "array",
		Items: &tools.JSONSchema{
			Type: "integer",
		},
	})
	if schema.Type != genai.TypeArray {
		t.Errorf("got type %v", schema.Type)
	}
	if schema.Items == nil || schema.Items.Type != genai.TypeInteger {
		t.Errorf("items not converted: %+v", schema.Items)
	}
}

func TestParseGeminiResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role: "model",
				Parts: []genai.Part{
					genai.Text("working on it"),
					genai.FunctionCall{Name: "task_list", Args: map[string]any{"limit": float64(5)}},
					genai.FunctionCall{Name: "collection_list", Args: map[string]any{}},
				},
			},
		}},
		UsageMetadata: &genai.UsageMetadata{
			PromptTokenCount:     100,
			CandidatesTokenCount: 20,
			TotalTokenCount:      120,
		},
	}

	result, err := parseGeminiResponse(resp)
	if err != nil {
		t.Fatalf("parseGeminiResponse returned error: %v", err)
	}
	if result.Content != "working on it" {
		t.Errorf("got content %q", result.Content)
	}
	if len(result.ToolCalls) != 2 {
		t.Fatalf("expected 2 tool calls, got %d", len(result.ToolCalls))
	}

	first := result.ToolCalls[0]
	if first.Function.Name != "task_list" {
		t.Errorf("got first call %q", first.Function.Name)
	}
	if !strings.Contains(first.Function.Arguments, `"limit":5`) {
		t.Errorf("arguments lost: %q", first.Function.Arguments)
	}
	if first.ID == result.ToolCalls[1].ID {
		t.Error("tool call ids must be unique within a turn")
	}

	if result.Usage.PromptTokens != 100 || result.Usage.CompletionTokens != 20 || result.Usage.TotalTokens != 120 {
		t.Errorf("usage not captured: %+v", result.Usage)
	}
}

func TestParseGeminiResponseEmpty(t *testing.T) {
	if _, err := parseGeminiResponse(&genai.GenerateContentResponse{}); err == nil {
		t.Fatal("expected error for empty response")
	}
}
