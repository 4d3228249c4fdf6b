package agent

import (
	"encoding/json"
	"strings"

	"storefront-admin/internal/llm"
)

// UIMessage is a chat message as the chat panel sends it.
type UIMessage struct {
	ID    string   `json:"id"`
	Role  string   `json:"role"`
	Parts []UIPart `json:"parts"`
}

// UIPart is one part of a UIMessage. Text parts carry Text; tool parts have
// type "tool-<name>" (or "dynamic-tool" with ToolName) and carry input/output.
type UIPart struct {
	Type       string          `json:"type"`
	Text       string          `json:"text,omitempty"`
	ToolCallID string          `json:"toolCallId,omitempty"`
	ToolName   string          `json:"toolName,omitempty"`
	State      string          `json:"state,omitempty"`
	Input      json.RawMessage `json:"input,omitempty"`
	Output     json.RawMessage `json:"output,omitempty"`
}

const toolPartPrefix = "tool-"

func (p UIPart) toolName() (string, bool) {
	if p.Type == "dynamic-tool" {
		return p.ToolName, p.ToolName != ""
	}
	if name, ok := strings.CutPrefix(p.Type, toolPartPrefix); ok && name != "" {
		return name, true
	}
	return "", false
}

// ConvertMessages turns UI messages into model messages. Text parts are
// joined with newlines; completed tool parts become a tool call plus its result.
// System messages are dropped since instructions are set server side.
func ConvertMessages(in []UIMessage) []llm.Message {
	var out []llm.Message
	for _, m := range in {
		var texts []string
		var calls []llm.ToolCall
		var results []llm.Message
		for _, p := range m.Parts {
			if p.Type == "text" {
				if p.Text != "" {
					texts = append(texts, p.Text)
				}
				continue
			}
			name, ok := p.toolName()
			if !ok || len(p.Output) == 0 || p.ToolCallID == "" {
				continue
			}
			args := string(p.Input)
			if args == "" || args == "null" {
				args = "{}"
			}
			calls = append(calls, llm.ToolCall{ID: p.ToolCallID, Name: name, Arguments: args})
			results = append(results, llm.Message{Role: llm.RoleTool, ToolCallID: p.ToolCallID, Content: string(p.Output)})
		}
		content := strings.Join(texts, "\n")

		switch m.Role {
		case "user":
			if content != "" {
				out = append(out, llm.Message{Role: llm.RoleUser, Content: content})
			}
		case "assistant":
			if content == "" && len(calls) == 0 {
				continue
			}
			out = append(out, llm.Message{Role: llm.RoleAssistant, Content: content, ToolCalls: calls})
			out = append(out, results...)
		}
	}
	return out
}
