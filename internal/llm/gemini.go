package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/taskdeck/taskdeck/internal/tools"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient is the ModelClient implementation for Google's Gemini models.
// Only the underlying SDK client is shared between requests; the model
// value carrying tool bindings and sampling settings is built fresh for
// every call, so concurrent generations never see each other's state.
type GeminiClient struct {
	client  *genai.Client
	modelID string
}

var _ ModelClient = (*GeminiClient)(nil)

func NewGeminiClient(apiKey, modelID string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key cannot be empty")
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, modelID: modelID}, nil
}

// Generate performs a standard, blocking request to the Gemini API.
func (c *GeminiClient) Generate(
	ctx context.Context,
	messages []Message,
	config *GenerationConfig,
	availableTools []tools.Tool,
) (*GenerationResult, error) {
	if len(messages) == 0 {
		return nil, errors.New("conversation is empty")
	}
	model := c.requestModel(config, availableTools)

	history, sendParts, system, err := splitGeminiConversation(messages)
	if err != nil {
		return nil, err
	}
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	chat := model.StartChat()
	chat.History = history
	resp, err := chat.SendMessage(ctx, sendParts...)
	if err != nil {
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}
	return parseGeminiResponse(resp)
}

// requestModel builds the model value for one call, applying the
// generation settings through the SDK's setters. The returned model is
// owned by the call and never reused.
func (c *GeminiClient) requestModel(config *GenerationConfig, availableTools []tools.Tool) *genai.GenerativeModel {
	model := c.client.GenerativeModel(c.modelID)

	maxTokens := 4096
	if config != nil {
		if config.Temperature != nil {
			model.SetTemperature(*config.Temperature)
		}
		if config.TopP != nil {
			model.SetTopP(*config.TopP)
		}
		if config.MaxTokens > 0 {
			maxTokens = config.MaxTokens
		}
	}
	model.SetMaxOutputTokens(int32(maxTokens))

	if len(availableTools) > 0 {
		model.Tools = toGeminiTools(availableTools)
	}
	return model
}

// splitGeminiConversation converts the transcript into the chat-session
// shape the SDK expects: everything before the final turn becomes history,
// and the final turn becomes the parts to send. A run of trailing tool
// results counts as one turn, since the model expects all function
// responses for an assistant turn to arrive together.
func splitGeminiConversation(messages []Message) ([]*genai.Content, []genai.Part, string, error) {
	tail := len(messages) - 1
	if messages[tail].Role == RoleTool {
		for tail > 0 && messages[tail-1].Role == RoleTool {
			tail--
		}
	}

	var system string
	var history []*genai.Content
	for _, msg := range messages[:tail] {
		switch msg.Role {
		case RoleSystem:
			system = msg.Content
		case RoleUser:
			history = append(history, &genai.Content{
				Role:  "user",
				Parts: []genai.Part{genai.Text(msg.Content)},
			})
		case RoleAssistant:
			content, err := assistantToGeminiContent(msg)
			if err != nil {
				return nil, nil, "", err
			}
			history = append(history, content)
		case RoleTool:
			history = append(history, &genai.Content{
				Role:  "function",
				Parts: []genai.Part{toolResultPart(msg)},
			})
		}
	}

	var sendParts []genai.Part
	for _, msg := range messages[tail:] {
		if msg.Role == RoleTool {
			sendParts = append(sendParts, toolResultPart(msg))
		} else {
			sendParts = append(sendParts, genai.Text(msg.Content))
		}
	}
	return history, sendParts, system, nil
}

func assistantToGeminiContent(msg Message) (*genai.Content, error) {
	var parts []genai.Part
	if msg.Content != "" {
		parts = append(parts, genai.Text(msg.Content))
	}
	for _, call := range msg.ToolCalls {
		args := make(map[string]any)
		if call.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
				return nil, fmt.Errorf("failed to decode arguments of tool call %s: %w", call.ID, err)
			}
		}
		parts = append(parts, genai.FunctionCall{Name: call.Function.Name, Args: args})
	}
	if len(parts) == 0 {
		parts = append(parts, genai.Text(""))
	}
	return &genai.Content{Role: "model", Parts: parts}, nil
}

func toolResultPart(msg Message) genai.Part {
	return genai.FunctionResponse{
		Name:     msg.ToolName,
		Response: map[string]any{"result": msg.Content},
	}
}

// toGeminiTools converts the catalog definitions to the Gemini SDK format.
func toGeminiTools(toolsToConvert []tools.Tool) []*genai.Tool {
	declarations := make([]*genai.FunctionDeclaration, 0, len(toolsToConvert))
	for _, t := range toolsToConvert {
		declarations = append(declarations, &genai.FunctionDeclaration{
			Name:        t.Function.Name,
			Description: t.Function.Description,
			Parameters:  convertSchema(t.Function.Parameters),
		})
	}
	return []*genai.Tool{{FunctionDeclarations: declarations}}
}

// convertSchema maps our JSONSchema subset onto the Gemini schema type.
func convertSchema(s tools.JSONSchema) *genai.Schema {
	out := &genai.Schema{
		Description: s.Description,
		Required:    s.Required,
	}
	switch s.Type {
	case "object":
		out.Type = genai.TypeObject
	case "string":
		out.Type = genai.TypeString
	case "number":
		out.Type = genai.TypeNumber
	case "integer":
		out.Type = genai.TypeInteger
	case "boolean":
		out.Type = genai.TypeBoolean
	case "array":
		out.Type = genai.TypeArray
	}
	if s.Items != nil {
		out.Items = convertSchema(*s.Items)
	}
	if s.Properties != nil {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = convertSchema(*prop)
		}
	}
	return out
}

// parseGeminiResponse converts an API response into a GenerationResult.
// Gemini function calls carry no identifier, so one is synthesized per
// call, unique within the turn, to link tool results back unambiguously.
func parseGeminiResponse(resp *genai.GenerateContentResponse) (*GenerationResult, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errors.New("no content returned from Gemini")
	}

	var contentBuilder strings.Builder
	var toolCalls []*tools.ToolCall
	for _, part := range resp.Candidates[0].Content.Parts {
		switch v := part.(type) {
		case genai.Text:
			contentBuilder.WriteString(string(v))
		case genai.FunctionCall:
			args, err := json.Marshal(v.Args)
			if err != nil {
				log.Printf("Warning: could not marshal tool call args for %s: %v", v.Name, err)
				continue
			}
			toolCalls = append(toolCalls, &tools.ToolCall{
				ID:   fmt.Sprintf("gemini-call-%d-%s", len(toolCalls), v.Name),
				Type: tools.ToolTypeFunction,
				Function: tools.ToolCallFunction{
					Name:      v.Name,
					Arguments: string(args),
				},
			})
		}
	}

	result := &GenerationResult{
		Content:   strings.TrimSpace(contentBuilder.String()),
		ToolCalls: toolCalls,
	}
	if resp.UsageMetadata != nil {
		result.Usage.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		result.Usage.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		result.Usage.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}
	return result, nil
}
