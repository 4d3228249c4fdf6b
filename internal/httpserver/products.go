package httpserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	productsvc "storefront-admin/internal/service/product"
)

const imagesField = "files"

func registerProductRoutes(g *gin.RouterGroup, svc ProductService, logger *log.Logger) {
	h := productHandlers{svc: svc, logger: logger}
	g.GET("/products", h.list)
	g.POST("/products", h.create)
	g.GET("/products/:id", h.get)
	g.PATCH("/products/:id", h.edit)
	g.DELETE("/products/:id", h.delete)
	g.POST("/products/:id/publish", h.publish)
	g.POST("/products/:id/discard", h.discard)
	g.POST("/products/:id/images", h.images)
}

type productHandlers struct {
	svc    ProductService
	logger *log.Logger
}

func (h productHandlers) list(c *gin.Context) {
	limit, offset := page(c)
	res, err := h.svc.List(c.Request.Context(), c.Query("q"), c.Query("lowStock") == "true", limit, offset)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h productHandlers) create(c *gin.Context) {
	p, err := h.svc.Create(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h productHandlers) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h productHandlers) edit(c *gin.Context) {
	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid edit body")
		return
	}
	p, err := h.svc.Edit(c.Request.Context(), c.Param("id"), req.Field, req.raw())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h productHandlers) publish(c *gin.Context) {
	p, err := h.svc.Publish(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// discard answers 204 when reverting removed a never-published product.
func (h productHandlers) discard(c *gin.Context) {
	p, err := h.svc.Discard(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if p == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h productHandlers) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h productHandlers) images(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, "expected multipart form")
		return
	}
	files := form.File[imagesField]
	if len(files) == 0 {
		badRequest(c, "no files uploaded")
		return
	}
	uploads := make([]productsvc.Upload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			writeError(c, h.logger, err)
			return
		}
		defer f.Close()
		uploads = append(uploads, productsvc.Upload{Name: fh.Filename, Body: f})
	}
	p, err := h.svc.AddImages(c.Request.Context(), c.Param("id"), uploads)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
