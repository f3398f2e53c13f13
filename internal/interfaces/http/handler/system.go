package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SystemHandler serves liveness endpoints outside the versioned API.
type SystemHandler struct {
	appName string
	env     string
}

// NewSystemHandler creates a system handler
func NewSystemHandler(appName, env string) *SystemHandler {
	return &SystemHandler{appName: appName, env: env}
}

// Register registers the system routes on the engine root
func (h *SystemHandler) Register(engine *gin.Engine) {
	engine.GET("/health", h.Health)
}

// Health handles GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"app":    h.appName,
		"env":    h.env,
	})
}
