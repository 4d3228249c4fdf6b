package httpserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

func insightsHandler(svc InsightsService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := svc.Generate(c.Request.Context())
		if err != nil {
			logger.Printf("http: insights error=%v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to generate insights"})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}
