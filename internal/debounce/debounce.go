// Package debounce delays calls until a key has been quiet for a while.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay matches the search box and change feed debounce.
const DefaultDelay = 300 * time.Millisecond

type Debouncer struct {
	delay   time.Duration
	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
}

func New(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay, timers: make(map[string]*time.Timer)}
}

// Trigger schedules fn after the delay, replacing any call pending for key.
func (d *Debouncer) Trigger(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current := d.timers[key] == t
		if current {
			delete(d.timers, key)
		}
		stopped := d.stopped
		d.mu.Unlock()
		if current && !stopped {
			fn()
		}
	})
	d.timers[key] = t
}

// Pending reports how many keys have a scheduled call.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

// Stop cancels all pending calls; later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}
