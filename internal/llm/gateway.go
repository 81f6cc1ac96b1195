package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/taskdeck/taskdeck/internal/tools"
)

// ErrModelUnavailable marks a failed model provider call (transport, auth,
// quota). The conversation loop has no fallback content generator, so this
// is always fatal for the run that hit it.
var ErrModelUnavailable = errors.New("model unavailable")

// Gateway is the single entry point the conversation loop uses to talk to
// the model. It binds the advertised tool catalog, keeps the generation
// config in one place, and converts provider failures into
// ErrModelUnavailable instead of leaking SDK error types upward.
type Gateway struct {
	client  ModelClient
	config  *GenerationConfig
	toolset []tools.Tool
	stats   *Stats
}

// NewGateway wires a model client to the tool catalog it may advertise.
// Temperature is pinned to zero: the agent's job is to extract parameters
// and call tools, not to be creative. stats may be nil.
func NewGateway(client ModelClient, modelID string, toolset []tools.Tool, stats *Stats) *Gateway {
	temperature := float32(0)
	return &Gateway{
		client: client,
		config: &GenerationConfig{
			Model:       modelID,
			Temperature: &temperature,
		},
		toolset: toolset,
		stats:   stats,
	}
}

// Generate invokes the model over the full history. With withTools=false
// the catalog is not bound, so the response cannot request executions; the
// conversation loop uses that mode for the forced budget-exhausted turn.
func (g *Gateway) Generate(ctx context.Context, messages []Message, withTools bool) (*GenerationResult, error) {
	var boundTools []tools.Tool
	if withTools {
		boundTools = g.toolset
	}

	start := time.Now()
	result, err := g.client.Generate(ctx, messages, g.config, boundTools)
	if err != nil {
		log.Printf("Model call failed after %s: %v", time.Since(start), err)
		if g.stats != nil {
			g.stats.RecordFailure(ctx, g.config.Model)
		}
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	if g.stats != nil {
		g.stats.RecordSuccess(ctx, g.config.Model, time.Since(start), result.Usage)
	}
	return result, nil
}
