package httpserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"storefront-admin/internal/domain"
	productsvc "storefront-admin/internal/service/product"
)

// writeError maps domain errors to status codes. Unexpected errors are
// logged and reported without detail.
func writeError(c *gin.Context, logger *log.Logger, err error) {
	var ref *productsvc.ReferencedError
	switch {
	case errors.As(err, &ref):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "referencingOrders": ref.OrderIDs})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidField):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNoDraft), errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrReferenced):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Printf("http: %s %s error=%v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
