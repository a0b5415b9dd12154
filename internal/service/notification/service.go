package notification

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/model"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/repository"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/logger"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/messaging"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/metrics"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/sse"
)

const eventChannel = "notifications"

// Dispatcher pushes a persisted notification to its recipient's live
// channel, if one is open. Delivery is fire-and-forget: the durable
// record is the only guaranteed path.
type Dispatcher interface {
	Deliver(ctx context.Context, notification *model.Notification)
}

// Servicer exposes notification reads alongside dispatch.
type Servicer interface {
	Dispatcher
	ListPending(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error)
}

type Service struct {
	repo     repository.NotificationRepository
	registry *sse.Registry
	broker   messaging.Broker
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

// NewService constructs the notification service. The broker is optional;
// when present, every dispatched notification is also published on the
// notifications channel for external consumers.
func NewService(repo repository.NotificationRepository, registry *sse.Registry, broker messaging.Broker, log *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		repo:     repo,
		registry: registry,
		broker:   broker,
		logger:   log,
		metrics:  m,
	}
}

func (s *Service) Deliver(ctx context.Context, notification *model.Notification) {
	payload, err := json.Marshal(notification)
	if err != nil {
		s.logger.Error(err, "failed to serialize notification",
			"notification_id", notification.ID)
		return
	}

	if s.broker != nil {
		if err := s.broker.Publish(ctx, eventChannel, messaging.Message{
			Type:    string(notification.Status),
			Payload: notification,
		}); err != nil {
			s.logger.Warn("failed to publish notification event",
				"notification_id", notification.ID, "error", err.Error())
		}
	}

	stream, ok := s.registry.Lookup(notification.To)
	if !ok {
		// Recipient has no open channel; the durable record will be
		// picked up from the store.
		if s.metrics != nil {
			s.metrics.NotificationsQueued.Inc()
		}
		return
	}

	if stream.Send(payload) {
		if s.metrics != nil {
			s.metrics.NotificationsDelivered.Inc()
		}
		return
	}

	s.logger.Warn("dropped live notification frame",
		"notification_id", notification.ID, "to", notification.To)
	if s.metrics != nil {
		s.metrics.NotificationsQueued.Inc()
	}
}

// ListPending returns the recipient's actionable invites.
func (s *Service) ListPending(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error) {
	status := model.NotificationStatusInvite
	needsSend := true

	return s.repo.List(ctx, &model.NotificationFilter{
		To:        &userID,
		Status:    &status,
		NeedsSend: &needsSend,
	})
}
