package httpserver

import (
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const adminKeyHeader = "X-Admin-Key"

// adminMiddleware requires the X-Admin-Key header when a key is configured.
func adminMiddleware(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		got := c.GetHeader(adminKeyHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// editRequest is the body of a field edit. A missing value means null.
type editRequest struct {
	Field string          `json:"field" binding:"required"`
	Value json.RawMessage `json:"value"`
}

func (r editRequest) raw() []byte {
	if len(r.Value) == 0 {
		return []byte("null")
	}
	return r.Value
}

// page reads limit and offset; malformed values fall back to the defaults.
func page(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.Query("limit"))
	offset, _ = strconv.Atoi(c.Query("offset"))
	return limit, offset
}

func dashboardHandler(svc DashboardService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := svc.Summary(c.Request.Context())
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func categoriesHandler(svc CategoryService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cats, err := svc.List(c.Request.Context())
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": cats})
	}
}
