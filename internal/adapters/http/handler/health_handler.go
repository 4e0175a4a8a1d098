package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RootMessage is returned by GET /
const RootMessage = "O backend de análise de e-mail está funcionando!"

// HealthHandler handles health check endpoints
type HealthHandler struct {
	provider   string
	normalizer string
}

// NewHealthHandler creates a new health handler reporting the active provider and normalizer mode
func NewHealthHandler(provider, normalizer string) *HealthHandler {
	return &HealthHandler{
		provider:   provider,
		normalizer: normalizer,
	}
}

// Root handles GET /
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": RootMessage,
	})
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"provider":   h.provider,
		"normalizer": h.normalizer,
	})
}
