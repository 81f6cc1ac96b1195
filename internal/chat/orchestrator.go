package chat

import (
	"context"
	"log"

	"github.com/taskdeck/taskdeck/internal/llm"
	"github.com/taskdeck/taskdeck/internal/tools"

	"golang.org/x/sync/errgroup"
)

// DefaultIterationBudget caps how many model calls a single user message may
// trigger before the run is forced to wrap up.
const DefaultIterationBudget = 25

// limitPrompt is appended as a user message when the iteration budget runs
// out, steering the final tools-disabled model call toward a summary.
const limitPrompt = "The chatbot has reached its maximum number of LLM API calls for this single user message. Please summarize the results obtained from previous API calls and inform the user that processing has stopped due to this limitation. Let them know they can continue by sending a new message with additional instructions, rather than this being a permanent limit on their account. Use a clear and friendly tone to explain this technical limitation."

// ModelGateway is the orchestrator's view of the model: one blocking call
// over the full transcript, with or without the tool catalog bound.
type ModelGateway interface {
	Generate(ctx context.Context, messages []llm.Message, withTools bool) (*llm.GenerationResult, error)
}

// ToolInvoker executes a single tool call on behalf of the authenticated
// user. Domain failures are reported in the returned text; an error return
// is reserved for calls that cannot be dispatched at all.
type ToolInvoker interface {
	Invoke(ctx context.Context, call tools.ToolCall, token string) (string, error)
}

// runState is the phase of one conversation run.
type runState int

const (
	stateAwaitModel runState = iota
	stateAwaitTools
	stateLimitReached
	stateDone
)

// Orchestrator drives the model/tool loop for one user message: call the
// model, execute whatever tools it requested, feed the results back, and
// repeat until the model answers in plain text or the iteration budget is
// spent.
type Orchestrator struct {
	gateway ModelGateway
	invoker ToolInvoker
	budget  int
}

// NewOrchestrator builds an orchestrator with the given per-message model
// call budget. A non-positive budget falls back to DefaultIterationBudget.
func NewOrchestrator(gateway ModelGateway, invoker ToolInvoker, budget int) *Orchestrator {
	if budget <= 0 {
		budget = DefaultIterationBudget
	}
	return &Orchestrator{
		gateway: gateway,
		invoker: invoker,
		budget:  budget,
	}
}

// Run processes one user message to completion and returns the assistant's
// final text reply. The transcript only grows: every model response and
// every tool result is appended before the next step is decided. token is
// the caller's bearer credential, injected into every tool execution and
// never exposed to the model.
func (o *Orchestrator) Run(ctx context.Context, systemPrompt, userText, token string) (string, error) {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: userText},
	}
	remaining := o.budget
	state := stateAwaitModel

	var pendingCalls []*tools.ToolCall
	var reply string

	for state != stateDone {
		switch state {
		case stateAwaitModel:
			result, err := o.gateway.Generate(ctx, messages, true)
			if err != nil {
				return "", err
			}
			remaining--
			messages = append(messages, llm.Message{
				Role:      llm.RoleAssistant,
				Content:   result.Content,
				ToolCalls: result.ToolCalls,
			})
			if len(result.ToolCalls) == 0 {
				reply = result.Content
				state = stateDone
				break
			}
			pendingCalls = result.ToolCalls
			state = stateAwaitTools

		case stateAwaitTools:
			results, err := o.executeCalls(ctx, pendingCalls, token)
			if err != nil {
				return "", err
			}
			messages = append(messages, results...)
			pendingCalls = nil
			if remaining <= 0 {
				state = stateLimitReached
			} else {
				state = stateAwaitModel
			}

		case stateLimitReached:
			messages = append(messages, llm.Message{Role: llm.RoleUser, Content: limitPrompt})
			result, err := o.gateway.Generate(ctx, messages, false)
			if err != nil {
				return "", err
			}
			messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: result.Content})
			reply = result.Content
			state = stateDone
		}
	}
	return reply, nil
}

// executeCalls runs one turn's tool calls concurrently and returns their
// result messages in the order the model requested them. Only dispatch
// failures (an unknown tool name) abort the run; execution failures come
// back as result text for the model to react to.
func (o *Orchestrator) executeCalls(ctx context.Context, calls []*tools.ToolCall, token string) ([]llm.Message, error) {
	results := make([]llm.Message, len(calls))
	g, gctx := errgroup.WithContext(ctx)

	for i, call := range calls {
		g.Go(func() error {
			log.Printf("Calling function %s with args %s", call.Function.Name, call.Function.Arguments)
			content, err := o.invoker.Invoke(gctx, *call, token)
			if err != nil {
				return err
			}
			results[i] = llm.Message{
				Role:       llm.RoleTool,
				Content:    content,
				ToolCallID: call.ID,
				ToolName:   call.Function.Name,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
