package handlers

import (
	"context"
	"net/http"
	"time"

	"cultivation-service/internal/event"

	"github.com/gin-gonic/gin"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type PublisherHealth interface {
	HealthCheck() event.PublisherHealthStatus
}

// HealthHandler reports the database as critical. A broken publisher only
// degrades the service since notifications are still stored.
type HealthHandler struct {
	db        Pinger
	publisher PublisherHealth
}

// NewHealthHandler accepts a nil publisher when RabbitMQ is not configured.
func NewHealthHandler(db Pinger, publisher PublisherHealth) *HealthHandler {
	return &HealthHandler{db: db, publisher: publisher}
}

func (h *HealthHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/cultivation/public/api/v1/health", h.Health)
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	httpStatus := http.StatusOK
	body := gin.H{}

	if err := h.db.PingContext(ctx); err != nil {
		status = "down"
		httpStatus = http.StatusServiceUnavailable
		body["database"] = gin.H{"is_healthy": false, "error": err.Error()}
	} else {
		body["database"] = gin.H{"is_healthy": true}
	}

	if h.publisher != nil {
		pub := h.publisher.HealthCheck()
		body["publisher"] = pub
		if !pub.IsHealthy && status == "ok" {
			status = "degraded"
		}
	}

	body["status"] = status
	c.JSON(httpStatus, body)
}
