package notification

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/service/notification"
	apperrors "github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/errors"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/httputil"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/metrics"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/sse"
)

type Handler struct {
	service  notification.Servicer
	registry *sse.Registry
	metrics  *metrics.Metrics
}

func NewHandler(service notification.Servicer, registry *sse.Registry, m *metrics.Metrics) *Handler {
	return &Handler{
		service:  service,
		registry: registry,
		metrics:  m,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	{
		notifications.GET("", h.ListPending)
		notifications.GET("/stream", h.Stream)
	}
}

func (h *Handler) ListPending(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("userId"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid user ID", err))
		return
	}

	notifications, err := h.service.ListPending(c.Request.Context(), userID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, notifications)
}

// Stream holds an SSE channel open for the user and forwards every
// dispatched notification as one `data:` frame. A second stream for the
// same user replaces the first, which is closed here rather than leaked.
func (h *Handler) Stream(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("userId"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid user ID", err))
		return
	}

	stream := sse.NewStream()
	if prev := h.registry.Register(userID, stream); prev != nil {
		prev.Close()
	}
	if h.metrics != nil {
		h.metrics.SSEConnections.Inc()
	}
	defer func() {
		h.registry.Unregister(userID, stream)
		stream.Close()
		if h.metrics != nil {
			h.metrics.SSEConnections.Dec()
		}
	}()

	header := c.Writer.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()
	for {
		select {
		case <-clientGone:
			return
		case <-stream.Done():
			return
		case payload := <-stream.Events():
			fmt.Fprintf(c.Writer, "data: %s\n\n", payload)
			c.Writer.Flush()
		}
	}
}
