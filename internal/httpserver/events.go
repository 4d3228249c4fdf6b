package httpserver

import (
	"io"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"storefront-admin/internal/events"
)

const (
	changeEvent       = "change"
	heartbeatInterval = 25 * time.Second
)

// eventsHandler streams document changes as SSE until the client leaves.
// ?type= and ?id= narrow the subscription.
func eventsHandler(src EventSource, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := events.Filter{Type: c.Query("type"), ID: c.Query("id")}
		ch, cancel := src.Subscribe(filter)
		defer cancel()
		logger.Printf("http: events subscribe type=%q id=%q", filter.Type, filter.ID)

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		c.Header("Cache-Control", "no-cache")
		c.Header("X-Accel-Buffering", "no")
		c.Stream(func(w io.Writer) bool {
			select {
			case <-c.Request.Context().Done():
				return false
			case <-heartbeat.C:
				c.SSEvent("ping", "")
				return true
			case ev, ok := <-ch:
				if !ok {
					return false
				}
				c.SSEvent(changeEvent, ev)
				return true
			}
		})
	}
}
