package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"storefront-admin/internal/domain"
)

func receive(t *testing.T, ch <-chan domain.ChangeEvent) domain.ChangeEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "channel closed")
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return domain.ChangeEvent{}
}

func assertQuiet(t *testing.T, ch <-chan domain.ChangeEvent, wait time.Duration) {
	t.Helper()
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(wait):
	}
}

func TestFilter_Matches(t *testing.T) {
	ev := domain.ChangeEvent{DocumentID: "drafts.p1", DocumentType: domain.DocumentTypeProduct, Action: domain.ActionEdit}
	assert.True(t, Filter{}.Matches(ev))
	assert.True(t, Filter{Type: "product", ID: "p1"}.Matches(ev))
	assert.True(t, Filter{ID: "drafts.p1"}.Matches(ev))
	assert.False(t, Filter{Type: "order"}.Matches(ev))
	assert.False(t, Filter{ID: "p2"}.Matches(ev))
}

func TestHub_CoalescesBurstPerDocument(t *testing.T) {
	hub := NewHub(20*time.Millisecond, nil)
	defer hub.Close()

	ch, cancel := hub.Subscribe(Filter{Type: domain.DocumentTypeProduct})
	defer cancel()

	hub.Publish(domain.ChangeEvent{DocumentID: "p1", DocumentType: "product", Action: domain.ActionEdit})
	hub.Publish(domain.ChangeEvent{DocumentID: "p1", DocumentType: "product", Action: domain.ActionPublish})
	hub.Publish(domain.ChangeEvent{DocumentID: "o1", DocumentType: "order", Action: domain.ActionEdit})

	ev := receive(t, ch)
	assert.Equal(t, "p1", ev.DocumentID)
	assert.Equal(t, domain.ActionPublish, ev.Action)
	assertQuiet(t, ch, 60*time.Millisecond)
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub(5*time.Millisecond, nil)
	defer hub.Close()

	ch, cancel := hub.Subscribe(Filter{})
	require.Equal(t, 1, hub.Subscribers())
	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, hub.Subscribers())
}

func TestHub_CloseEndsSubscriptions(t *testing.T) {
	hub := NewHub(5*time.Millisecond, nil)
	ch, cancel := hub.Subscribe(Filter{})
	hub.Close()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
}
