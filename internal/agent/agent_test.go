package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"storefront-admin/internal/domain"
	"storefront-admin/internal/llm"
	productrepo "storefront-admin/internal/repository/product"
)

type scriptedModel struct {
	replies  []llm.Reply
	texts    [][]string
	err      error
	requests []llm.ChatRequest
}

func (m *scriptedModel) StreamChat(_ context.Context, req llm.ChatRequest, onText func(string) error) (llm.Reply, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return llm.Reply{}, m.err
	}
	i := len(m.requests) - 1
	if i >= len(m.replies) {
		i = len(m.replies) - 1
	}
	if i < len(m.texts) {
		for _, d := range m.texts[i] {
			if err := onText(d); err != nil {
				return llm.Reply{}, err
			}
		}
	}
	return m.replies[i], nil
}

type stubSearcher struct {
	products []domain.Product
	err      error
	last     productrepo.SearchQuery
}

func (s *stubSearcher) Search(_ context.Context, q productrepo.SearchQuery) ([]domain.Product, error) {
	s.last = q
	return s.products, s.err
}

type stubOrders struct {
	orders []domain.Order
	err    error
	user   string
	status string
}

func (s *stubOrders) ListByUser(_ context.Context, userID, status string) ([]domain.Order, error) {
	s.user, s.status = userID, status
	return s.orders, s.err
}

func parseFrames(t *testing.T, body string) ([]map[string]any, bool) {
	t.Helper()
	var parts []map[string]any
	done := false
	for _, frame := range strings.Split(strings.TrimSpace(body), "\n\n") {
		data, ok := strings.CutPrefix(frame, "data: ")
		require.True(t, ok, "frame %q", frame)
		if data == "[DONE]" {
			done = true
			continue
		}
		var part map[string]any
		require.NoError(t, json.Unmarshal([]byte(data), &part))
		parts = append(parts, part)
	}
	return parts, done
}

func partTypes(parts []map[string]any) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, p["type"].(string))
	}
	return out
}

func TestTools_DependOnAuthentication(t *testing.T) {
	a := New(&scriptedModel{}, &stubSearcher{}, &stubOrders{}, 0, nil)
	assert.Len(t, a.Tools(""), 1)
	tools := a.Tools("user-1")
	require.Len(t, tools, 2)
	assert.Equal(t, "getMyOrders", tools[1].Spec().Name)
	assert.Equal(t, DefaultMaxSteps, a.maxSteps)
}

func TestInstructions(t *testing.T) {
	signedIn := Instructions("user-1")
	assert.Contains(t, signedIn, "## getMyOrders Tool Usage")
	assert.NotContains(t, signedIn, "Orders - Not Available")

	signedOut := Instructions("")
	assert.Contains(t, signedOut, "Orders - Not Available")
	assert.Contains(t, signedOut, "```json")
}

func TestRun_ToolLoop(t *testing.T) {
	model := &scriptedModel{
		replies: []llm.Reply{
			{Text: "Let me check.", ToolCalls: []llm.ToolCall{{ID: "call_1", Name: "searchProducts", Arguments: `{"query":"sofa"}`}}},
			{Text: "Here is a sofa."},
		},
		texts: [][]string{{"Let me ", "check."}, {"Here is a sofa."}},
	}
	searcher := &stubSearcher{products: []domain.Product{{ID: "p1", Name: "Velvet Sofa", Slug: "velvet-sofa", PricePence: 59900}}}
	a := New(model, searcher, &stubOrders{}, 5, nil)

	var buf bytes.Buffer
	history := []llm.Message{{Role: llm.RoleUser, Content: "any sofas?"}}
	require.NoError(t, a.Run(context.Background(), "", history, NewUIStream(&buf)))

	parts, done := parseFrames(t, buf.String())
	assert.True(t, done)
	assert.Equal(t, []string{
		"start",
		"start-step", "text-start", "text-delta", "text-delta", "text-end",
		"tool-input-available", "tool-output-available", "finish-step",
		"start-step", "text-start", "text-delta", "text-end", "finish-step",
		"finish",
	}, partTypes(parts))

	output := parts[7]["output"].(map[string]any)
	assert.Equal(t, true, output["found"])
	assert.Equal(t, "Found 1 product matching your search.", output["message"])
	assert.Equal(t, "sofa", searcher.last.Query)

	require.Len(t, model.requests, 2)
	second := model.requests[1].Messages
	require.Len(t, second, 3)
	assert.Equal(t, llm.RoleAssistant, second[1].Role)
	assert.Equal(t, llm.RoleTool, second[2].Role)
	assert.Equal(t, "call_1", second[2].ToolCallID)
	assert.Len(t, model.requests[0].Tools, 1)
	assert.Contains(t, model.requests[0].System, "Orders - Not Available")
}

func TestRun_StopsAtStepLimit(t *testing.T) {
	model := &scriptedModel{replies: []llm.Reply{
		{ToolCalls: []llm.ToolCall{{ID: "c", Name: "searchProducts", Arguments: `{}`}}},
	}}
	a := New(model, &stubSearcher{}, &stubOrders{}, 2, nil)

	var buf bytes.Buffer
	require.NoError(t, a.Run(context.Background(), "", nil, NewUIStream(&buf)))
	assert.Len(t, model.requests, 2)

	parts, done := parseFrames(t, buf.String())
	assert.True(t, done)
	assert.Equal(t, "finish", parts[len(parts)-1]["type"])
}

func TestRun_UnknownToolAndBadArgs(t *testing.T) {
	model := &scriptedModel{replies: []llm.Reply{
		{ToolCalls: []llm.ToolCall{
			{ID: "a", Name: "getMyOrders", Arguments: `{}`},
			{ID: "b", Name: "searchProducts", Arguments: `{"material":"plastic"}`},
		}},
		{Text: "Sorry."},
	}}
	a := New(model, &stubSearcher{}, &stubOrders{}, 5, nil)

	var buf bytes.Buffer
	require.NoError(t, a.Run(context.Background(), "", nil, NewUIStream(&buf)))
	parts, _ := parseFrames(t, buf.String())

	var errorsSeen []string
	for _, p := range parts {
		if p["type"] == "tool-output-error" {
			errorsSeen = append(errorsSeen, p["toolCallId"].(string))
		}
	}
	assert.Equal(t, []string{"a", "b"}, errorsSeen)
	toolMsgs := model.requests[1].Messages
	assert.Contains(t, toolMsgs[len(toolMsgs)-2].Content, "unknown tool getMyOrders")
}

func TestRun_ModelErrorStreamsError(t *testing.T) {
	boom := errors.New("upstream unavailable")
	a := New(&scriptedModel{err: boom}, &stubSearcher{}, &stubOrders{}, 5, nil)

	var buf bytes.Buffer
	err := a.Run(context.Background(), "", nil, NewUIStream(&buf))
	require.ErrorIs(t, err, boom)

	parts, done := parseFrames(t, buf.String())
	assert.True(t, done)
	last := parts[len(parts)-1]
	assert.Equal(t, "error", last["type"])
	assert.Equal(t, "upstream unavailable", last["errorText"])
}
