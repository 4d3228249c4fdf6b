package agent

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// StreamHeader identifies the UI message stream protocol to the chat client.
const (
	StreamHeader        = "x-vercel-ai-ui-message-stream"
	StreamHeaderVersion = "v1"
)

// UIStream writes UI message stream parts as SSE data frames.
type UIStream struct {
	w   io.Writer
	err error
}

func NewUIStream(w io.Writer) *UIStream {
	return &UIStream{w: w}
}

// Err returns the first write error; later writes are skipped.
func (s *UIStream) Err() error {
	return s.err
}

func (s *UIStream) part(v map[string]any) error {
	if s.err != nil {
		return s.err
	}
	data, err := json.Marshal(v)
	if err != nil {
		s.err = err
		return err
	}
	return s.frame(string(data))
}

func (s *UIStream) frame(data string) error {
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		s.err = err
		return err
	}
	if f, ok := s.w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}

func (s *UIStream) Start(messageID string) error {
	return s.part(map[string]any{"type": "start", "messageId": messageID})
}

func (s *UIStream) StartStep() error {
	return s.part(map[string]any{"type": "start-step"})
}

func (s *UIStream) TextStart(id string) error {
	return s.part(map[string]any{"type": "text-start", "id": id})
}

func (s *UIStream) TextDelta(id, delta string) error {
	return s.part(map[string]any{"type": "text-delta", "id": id, "delta": delta})
}

func (s *UIStream) TextEnd(id string) error {
	return s.part(map[string]any{"type": "text-end", "id": id})
}

func (s *UIStream) ToolInput(callID, name string, input json.RawMessage) error {
	return s.part(map[string]any{"type": "tool-input-available", "toolCallId": callID, "toolName": name, "input": input})
}

func (s *UIStream) ToolOutput(callID string, output any) error {
	return s.part(map[string]any{"type": "tool-output-available", "toolCallId": callID, "output": output})
}

func (s *UIStream) ToolError(callID, text string) error {
	return s.part(map[string]any{"type": "tool-output-error", "toolCallId": callID, "errorText": text})
}

func (s *UIStream) FinishStep() error {
	return s.part(map[string]any{"type": "finish-step"})
}

func (s *UIStream) Finish() error {
	return s.part(map[string]any{"type": "finish"})
}

func (s *UIStream) Error(text string) error {
	return s.part(map[string]any{"type": "error", "errorText": text})
}

// Done terminates the stream.
func (s *UIStream) Done() error {
	if s.err != nil {
		return s.err
	}
	return s.frame("[DONE]")
}
