package httpserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

func registerOrderRoutes(g *gin.RouterGroup, svc OrderService, logger *log.Logger) {
	h := orderHandlers{svc: svc, logger: logger}
	g.GET("/orders", h.list)
	g.GET("/orders/:id", h.get)
	g.PATCH("/orders/:id", h.edit)
	g.PUT("/orders/:id/status", h.status)
	g.POST("/orders/:id/publish", h.publish)
	g.POST("/orders/:id/discard", h.discard)
}

type orderHandlers struct {
	svc    OrderService
	logger *log.Logger
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h orderHandlers) list(c *gin.Context) {
	limit, offset := page(c)
	res, err := h.svc.List(c.Request.Context(), c.Query("q"), c.Query("status"), limit, offset)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h orderHandlers) get(c *gin.Context) {
	o, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h orderHandlers) edit(c *gin.Context) {
	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid edit body")
		return
	}
	o, err := h.svc.Edit(c.Request.Context(), c.Param("id"), req.Field, req.raw())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h orderHandlers) status(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status is required")
		return
	}
	o, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h orderHandlers) publish(c *gin.Context) {
	o, err := h.svc.Publish(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h orderHandlers) discard(c *gin.Context) {
	o, err := h.svc.Discard(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
