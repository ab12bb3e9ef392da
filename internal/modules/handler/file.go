package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-showcase/portfolio-api/internal/infra/blob"
	"github.com/portfolio-showcase/portfolio-api/internal/modules/serializer"
)

type FileHandler struct {
	store *blob.FileStore
}

func NewFileHandler(store *blob.FileStore) *FileHandler {
	return &FileHandler{store: store}
}

// ServeFile streams a local upload or redirects to a presigned object URL.
func (h *FileHandler) ServeFile(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("filename"), "/")
	ctx := c.Request.Context()

	ok, err := h.store.Exists(ctx, name)
	if err != nil || !ok {
		c.JSON(http.StatusNotFound, serializer.Err("File not found", nil))
		return
	}

	loc, err := h.store.Locate(ctx, name)
	if err != nil {
		c.JSON(http.StatusNotFound, serializer.Err("File not found", nil))
		return
	}
	if loc.URL != "" {
		c.Redirect(http.StatusTemporaryRedirect, loc.URL)
		return
	}
	c.File(loc.Path)
}
