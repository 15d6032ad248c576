package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PageHandler serves the single-page front end.
type PageHandler struct {
	version string
}

func NewPageHandler(version string) *PageHandler {
	return &PageHandler{version: version}
}

func (h *PageHandler) IndexHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"AppVersion": h.version,
	})
}
