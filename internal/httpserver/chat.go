package httpserver

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"storefront-admin/internal/agent"
)

type chatRequest struct {
	Messages json.RawMessage `json:"messages"`
}

// chatHandler streams the assistant's answer. A bearer session token, when
// valid, signs the shopper in for the order tools.
func chatHandler(chat ChatAgent, sessions SessionResolver, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req chatRequest
		if err := c.ShouldBindJSON(&req); err != nil || !isArray(req.Messages) {
			badRequest(c, "Invalid messages format")
			return
		}
		var messages []agent.UIMessage
		if err := json.Unmarshal(req.Messages, &messages); err != nil {
			badRequest(c, "Invalid messages format")
			return
		}
		if chat == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Chat is unavailable: no LLM is configured"})
			return
		}

		ctx := c.Request.Context()
		userID := ""
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok && sessions != nil {
			userID, _ = sessions.Resolve(ctx, token)
		}

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header(agent.StreamHeader, agent.StreamHeaderVersion)
		c.Status(http.StatusOK)

		out := agent.NewUIStream(c.Writer)
		if err := chat.Run(ctx, userID, agent.ConvertMessages(messages), out); err != nil {
			logger.Printf("http: chat error=%v", err)
			if !c.Writer.Written() {
				c.Writer.Header().Del("Content-Type")
				c.Writer.Header().Del(agent.StreamHeader)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process chat message", "details": err.Error()})
			}
		}
	}
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func bearerToken(header string) (string, bool) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}
