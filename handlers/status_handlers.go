package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 2 * time.Second

// Home godoc
// @Summary Liveness text
// @Produce plain
// @Success 200 {string} string
// @Router / [get]
func Home(c *gin.Context) {
	c.String(http.StatusOK, "Bienvenue sur le serveur Pokemon!")
}

// HealthHandler reports whether the service can reach its database.
type HealthHandler struct {
	ping func(ctx context.Context) error
}

// NewHealthHandler uses ping to check the database. A nil ping always reports UP.
func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

// Health godoc
// @Summary Health check
// @Produce json
// @Success 200 {object} map[string]string "status UP"
// @Failure 503 {object} map[string]string "status DOWN"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			log.Printf("Health check failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN", "details": "database unreachable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}
