// Package events fans document change notifications out to subscribers.
package events

import (
	"io"
	"log"
	"sync"
	"time"

	"storefront-admin/internal/debounce"
	"storefront-admin/internal/domain"
)

const bufferSize = 16

// Filter narrows a subscription by document type and base id. Empty fields match all.
type Filter struct {
	Type string
	ID   string
}

func (f Filter) Matches(ev domain.ChangeEvent) bool {
	if f.Type != "" && f.Type != ev.DocumentType {
		return false
	}
	if f.ID != "" && domain.BaseID(f.ID) != domain.BaseID(ev.DocumentID) {
		return false
	}
	return true
}

type subscriber struct {
	filter Filter
	ch     chan domain.ChangeEvent
}

// Hub delivers the last change of each burst per document to matching subscribers.
type Hub struct {
	mu       sync.Mutex
	subs     map[*subscriber]struct{}
	debounce *debounce.Debouncer
	logger   *log.Logger
}

func NewHub(delay time.Duration, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Hub{
		subs:     make(map[*subscriber]struct{}),
		debounce: debounce.New(delay),
		logger:   logger,
	}
}

// Subscribe registers a subscriber; call the returned func to unsubscribe.
func (h *Hub) Subscribe(f Filter) (<-chan domain.ChangeEvent, func()) {
	sub := &subscriber{filter: f, ch: make(chan domain.ChangeEvent, bufferSize)}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			h.mu.Lock()
			if _, ok := h.subs[sub]; ok {
				delete(h.subs, sub)
				close(sub.ch)
			}
			h.mu.Unlock()
		})
	}
}

// Publish queues ev; repeated events for the same document within the delay collapse into one.
func (h *Hub) Publish(ev domain.ChangeEvent) {
	key := ev.DocumentType + "/" + domain.BaseID(ev.DocumentID)
	h.debounce.Trigger(key, func() { h.deliver(ev) })
}

func (h *Hub) deliver(ev domain.ChangeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		if !sub.filter.Matches(ev) {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			h.logger.Printf("events: dropped document_id=%s action=%s slow subscriber", ev.DocumentID, ev.Action)
		}
	}
}

// Subscribers reports the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close stops pending deliveries and closes every subscription.
func (h *Hub) Close() {
	h.debounce.Stop()
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		delete(h.subs, sub)
		close(sub.ch)
	}
}
