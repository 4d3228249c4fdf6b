// Package agent runs the shopping assistant tool loop and streams its turns.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
	"storefront-admin/internal/llm"
)

// DefaultMaxSteps bounds model turns per chat request.
const DefaultMaxSteps = 10

// Model streams one assistant turn.
type Model interface {
	StreamChat(ctx context.Context, req llm.ChatRequest, onText func(string) error) (llm.Reply, error)
}

type Agent struct {
	model    Model
	products ProductSearcher
	orders   OrderLister
	maxSteps int
	logger   *log.Logger
}

func New(model Model, products ProductSearcher, orders OrderLister, maxSteps int, logger *log.Logger) *Agent {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &Agent{model: model, products: products, orders: orders, maxSteps: maxSteps, logger: logger}
}

// Tools returns the tools available to a caller; order lookup needs a user.
func (a *Agent) Tools(userID string) []Tool {
	tools := []Tool{NewSearchProductsTool(a.products, a.logger)}
	if userID != "" {
		tools = append(tools, NewMyOrdersTool(a.orders, userID, a.logger))
	}
	return tools
}

// Run streams model turns to out, executing requested tools between turns,
// until the model answers without tool calls or the step limit is reached.
func (a *Agent) Run(ctx context.Context, userID string, history []llm.Message, out *UIStream) error {
	tools := a.Tools(userID)
	byName := make(map[string]Tool, len(tools))
	specs := make([]llm.ToolSpec, 0, len(tools))
	for _, t := range tools {
		spec := t.Spec()
		byName[spec.Name] = t
		specs = append(specs, spec)
	}
	req := llm.ChatRequest{
		System:   Instructions(userID),
		Messages: append([]llm.Message(nil), history...),
		Tools:    specs,
	}

	authenticated := userID != ""
	a.logger.Printf("agent: run authenticated=%t messages=%d", authenticated, len(history))
	if err := out.Start(uuid.NewString()); err != nil {
		return err
	}

	for step := 0; step < a.maxSteps; step++ {
		if err := out.StartStep(); err != nil {
			return err
		}
		textID := fmt.Sprintf("text-%d", step)
		textStarted := false
		reply, err := a.model.StreamChat(ctx, req, func(delta string) error {
			if !textStarted {
				textStarted = true
				if err := out.TextStart(textID); err != nil {
					return err
				}
			}
			return out.TextDelta(textID, delta)
		})
		if err != nil {
			a.logger.Printf("agent: step=%d error=%v", step, err)
			if out.Err() == nil {
				_ = out.Error(errorText(err))
				_ = out.Done()
			}
			return err
		}
		if textStarted {
			if err := out.TextEnd(textID); err != nil {
				return err
			}
		}

		req.Messages = append(req.Messages, llm.Message{Role: llm.RoleAssistant, Content: reply.Text, ToolCalls: reply.ToolCalls})
		if len(reply.ToolCalls) == 0 {
			if err := out.FinishStep(); err != nil {
				return err
			}
			a.logger.Printf("agent: finished steps=%d", step+1)
			break
		}

		for _, call := range reply.ToolCalls {
			result := a.callTool(ctx, byName, call, out)
			req.Messages = append(req.Messages, llm.Message{Role: llm.RoleTool, ToolCallID: call.ID, Content: result})
		}
		if err := out.FinishStep(); err != nil {
			return err
		}
		if step == a.maxSteps-1 {
			a.logger.Printf("agent: step limit reached steps=%d", a.maxSteps)
		}
	}

	if err := out.Finish(); err != nil {
		return err
	}
	return out.Done()
}

// callTool executes one call, streams its input and output, and returns the
// JSON fed back to the model.
func (a *Agent) callTool(ctx context.Context, tools map[string]Tool, call llm.ToolCall, out *UIStream) string {
	input := json.RawMessage(call.Arguments)
	if !json.Valid(input) {
		input = json.RawMessage("{}")
	}
	_ = out.ToolInput(call.ID, call.Name, input)

	tool, ok := tools[call.Name]
	if !ok {
		msg := fmt.Sprintf("unknown tool %s", call.Name)
		_ = out.ToolError(call.ID, msg)
		return errorJSON(msg)
	}
	result, err := tool.Execute(ctx, json.RawMessage(call.Arguments))
	if err != nil {
		a.logger.Printf("agent: tool=%s error=%v", call.Name, err)
		_ = out.ToolError(call.ID, err.Error())
		return errorJSON(err.Error())
	}
	data, err := json.Marshal(result)
	if err != nil {
		_ = out.ToolError(call.ID, err.Error())
		return errorJSON(err.Error())
	}
	_ = out.ToolOutput(call.ID, json.RawMessage(data))
	return string(data)
}

func errorJSON(msg string) string {
	data, _ := json.Marshal(map[string]string{"error": msg})
	return string(data)
}

func errorText(err error) string {
	if errors.Is(err, context.Canceled) {
		return "request cancelled"
	}
	return err.Error()
}
