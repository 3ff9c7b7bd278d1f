package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"arb-dashboard/internal/bootstrap"
)

type HealthHandler struct {
	app *bootstrap.App
}

type dependencyStatus struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

func NewHealthHandler(app *bootstrap.App) *HealthHandler {
	return &HealthHandler{app: app}
}

// Check reports this process's own dependencies. The ARB backend is listed
// but does not make the dashboard unhealthy; the status tile shows it.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	deps := gin.H{
		"backend": h.checkBackend(ctx),
	}
	allOK := true
	if h.app.Redis != nil {
		status := h.checkRedis(ctx)
		deps["redis"] = status
		allOK = allOK && status.OK
	}
	if h.app.MQConn != nil {
		status := h.checkRabbitMQ()
		deps["rabbitmq"] = status
		allOK = allOK && status.OK
	}

	statusCode := http.StatusOK
	if !allOK {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, gin.H{
		"app":            h.app.Config.App.Name,
		"env":            h.app.Config.App.Env,
		"uptime_sec":     int(time.Since(h.app.StartedAt).Seconds()),
		"context_driver": h.app.Config.Context.Driver,
		"dependencies":   deps,
	})
}

func (h *HealthHandler) checkBackend(ctx context.Context) dependencyStatus {
	if _, err := h.app.Backend.Health(ctx); err != nil {
		return dependencyStatus{OK: false, Message: err.Error()}
	}
	return dependencyStatus{OK: true}
}

func (h *HealthHandler) checkRedis(ctx context.Context) dependencyStatus {
	if err := h.app.Redis.Ping(ctx).Err(); err != nil {
		return dependencyStatus{OK: false, Message: err.Error()}
	}
	return dependencyStatus{OK: true}
}

func (h *HealthHandler) checkRabbitMQ() dependencyStatus {
	if h.app.MQConn.IsClosed() {
		return dependencyStatus{OK: false, Message: "connection closed"}
	}
	return dependencyStatus{OK: true}
}
