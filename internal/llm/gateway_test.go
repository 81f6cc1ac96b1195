package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/taskdeck/taskdeck/internal/tools"
)

type fakeClient struct {
	result    *GenerationResult
	err       error
	lastTools []tools.Tool
	lastCfg   *GenerationConfig
}

func (f *fakeClient) Generate(_ context.Context, _ []Message, config *GenerationConfig, availableTools []tools.Tool) (*GenerationResult, error) {
	f.lastTools = availableTools
	f.lastCfg = config
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func TestGatewayBindsToolsConditionally(t *testing.T) {
	client := &fakeClient{result: &GenerationResult{Content: "ok"}}
	toolset := tools.NewCatalog().List()
	gateway := NewGateway(client, "gemini-2.0-flash", toolset, nil)

	messages := []Message{{Role: RoleUser, Content: "hi"}}

	if _, err := gateway.Generate(context.Background(), messages, true); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(client.lastTools) != len(toolset) {
		t.Errorf("expected %d tools bound, got %d", len(toolset), len(client.lastTools))
	}

	if _, err := gateway.Generate(context.Background(), messages, false); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if client.lastTools != nil {
		t.Errorf("expected no tools bound, got %d", len(client.lastTools))
	}
}

func TestGatewayPinsTemperature(t *testing.T) {
	client := &fakeClient{result: &GenerationResult{}}
	gateway := NewGateway(client, "gemini-2.0-flash", nil, nil)

	if _, err := gateway.Generate(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, true); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if client.lastCfg == nil || client.lastCfg.Temperature == nil || *client.lastCfg.Temperature != 0 {
		t.Errorf("temperature not pinned to zero: %+v", client.lastCfg)
	}
	if client.lastCfg.Model != "gemini-2.0-flash" {
		t.Errorf("got model %q", client.lastCfg.Model)
	}
}

func TestGatewayWrapsProviderErrors(t *testing.T) {
	client := &fakeClient{err: errors.New("quota exceeded")}
	gateway := NewGateway(client, "gemini-2.0-flash", nil, nil)

	_, err := gateway.Generate(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, true)
	if !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}
