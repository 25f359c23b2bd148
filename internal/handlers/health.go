package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping() error
}

type HealthHandler struct {
	store Pinger
}

func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// HealthCheck reports service and database status
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	data := gin.H{
		"status":    "ok",
		"database":  "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := h.store.Ping(); err != nil {
		data["status"] = "degraded"
		data["database"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, data)
		return
	}

	c.JSON(http.StatusOK, data)
}
