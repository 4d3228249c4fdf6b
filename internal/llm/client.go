// Package llm talks to an OpenAI-compatible chat completions endpoint.
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"storefront-admin/internal/config"
)

const (
	CohereBaseURL = "https://api.cohere.ai/compatibility/v1"
	CohereModel   = "command-r-08-2024"
)

// ErrDisabled is returned when no API key is configured.
var ErrDisabled = errors.New("llm: no api key configured")

type Role string

const (
	RoleUser      Role = openai.ChatMessageRoleUser
	RoleAssistant Role = openai.ChatMessageRoleAssistant
	RoleTool      Role = openai.ChatMessageRoleTool
)

type Message struct {
	Role       Role
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
}

type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ToolSpec declares a function the model may call.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  jsonschema.Definition
}

type ChatRequest struct {
	System   string
	Messages []Message
	Tools    []ToolSpec
}

// Reply is one assembled assistant turn.
type Reply struct {
	Text         string
	ToolCalls    []ToolCall
	FinishReason string
}

type Client struct {
	api           *openai.Client
	provider      string
	chatModel     string
	insightsModel string
	logger        *log.Logger
}

// New prefers the Cohere compatibility endpoint when a Cohere key is set,
// otherwise the configured gateway. Without any key the client is disabled.
func New(cfg config.LLM, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	c := &Client{chatModel: cfg.ChatModel, insightsModel: cfg.InsightsModel, logger: logger}
	switch {
	case cfg.CohereAPIKey != "":
		oc := openai.DefaultConfig(cfg.CohereAPIKey)
		oc.BaseURL = CohereBaseURL
		c.api = openai.NewClientWithConfig(oc)
		c.provider = "cohere"
		c.chatModel = CohereModel
		c.insightsModel = CohereModel
	case cfg.APIKey != "":
		oc := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
		}
		c.api = openai.NewClientWithConfig(oc)
		c.provider = "gateway"
	}
	return c
}

func (c *Client) Enabled() bool {
	return c != nil && c.api != nil
}

// Provider names the selected upstream, or "" when disabled.
func (c *Client) Provider() string {
	if !c.Enabled() {
		return ""
	}
	return c.provider
}

// Complete runs a single non-streaming completion with the insights model.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.insightsModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		c.logger.Printf("llm: complete provider=%s model=%s error=%v", c.provider, c.insightsModel, err)
		return "", fmt.Errorf("llm complete: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("llm complete: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

// StreamChat streams one assistant turn with the chat model. onText receives
// text deltas as they arrive; tool call fragments are assembled by index.
func (c *Client) StreamChat(ctx context.Context, req ChatRequest, onText func(string) error) (Reply, error) {
	if !c.Enabled() {
		return Reply{}, ErrDisabled
	}
	stream, err := c.api.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    c.chatModel,
		Messages: toOpenAIMessages(req.System, req.Messages),
		Tools:    toOpenAITools(req.Tools),
	})
	if err != nil {
		c.logger.Printf("llm: stream provider=%s model=%s error=%v", c.provider, c.chatModel, err)
		return Reply{}, fmt.Errorf("llm stream: %w", err)
	}
	defer stream.Close()

	var text strings.Builder
	calls := newCallAccumulator()
	var reply Reply
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Reply{}, fmt.Errorf("llm stream recv: %w", err)
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		choice := chunk.Choices[0]
		if delta := choice.Delta.Content; delta != "" {
			text.WriteString(delta)
			if onText != nil {
				if err := onText(delta); err != nil {
					return Reply{}, err
				}
			}
		}
		for _, tc := range choice.Delta.ToolCalls {
			calls.add(tc)
		}
		if choice.FinishReason != "" {
			reply.FinishReason = string(choice.FinishReason)
		}
	}
	reply.Text = text.String()
	reply.ToolCalls = calls.result()
	return reply, nil
}

type partialCall struct {
	id   string
	name string
	args strings.Builder
}

type callAccumulator struct {
	byIndex map[int]*partialCall
	next    int
}

func newCallAccumulator() *callAccumulator {
	return &callAccumulator{byIndex: make(map[int]*partialCall)}
}

func (a *callAccumulator) add(tc openai.ToolCall) {
	idx := a.next
	if tc.Index != nil {
		idx = *tc.Index
	} else if tc.ID == "" && len(a.byIndex) > 0 {
		idx = a.next - 1
	}
	p, ok := a.byIndex[idx]
	if !ok {
		p = &partialCall{}
		a.byIndex[idx] = p
		if idx >= a.next {
			a.next = idx + 1
		}
	}
	if tc.ID != "" {
		p.id = tc.ID
	}
	if tc.Function.Name != "" {
		p.name = tc.Function.Name
	}
	p.args.WriteString(tc.Function.Arguments)
}

func (a *callAccumulator) result() []ToolCall {
	indexes := make([]int, 0, len(a.byIndex))
	for idx := range a.byIndex {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)
	var out []ToolCall
	for _, idx := range indexes {
		p := a.byIndex[idx]
		if p.name == "" {
			continue
		}
		args := p.args.String()
		if strings.TrimSpace(args) == "" {
			args = "{}"
		}
		id := p.id
		if id == "" {
			id = fmt.Sprintf("call_%d", idx)
		}
		out = append(out, ToolCall{ID: id, Name: p.name, Arguments: args})
	}
	return out
}

func toOpenAIMessages(system string, msgs []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(msgs)+1)
	if system != "" {
		out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	for _, m := range msgs {
		msg := openai.ChatCompletionMessage{
			Role:       string(m.Role),
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		for _, tc := range m.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
				ID:   tc.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			})
		}
		out = append(out, msg)
	}
	return out
}

func toOpenAITools(specs []ToolSpec) []openai.Tool {
	if len(specs) == 0 {
		return nil
	}
	out := make([]openai.Tool, 0, len(specs))
	for _, s := range specs {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        s.Name,
				Description: s.Description,
				Parameters:  s.Parameters,
			},
		})
	}
	return out
}
