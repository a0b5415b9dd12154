package notification

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/model"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/logger"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/sse"
)

type fakeNotificationRepo struct {
	records []*model.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	f.records = append(f.records, n)
	return nil
}

func (f *fakeNotificationRepo) List(_ context.Context, filter *model.NotificationFilter) ([]*model.Notification, error) {
	var out []*model.Notification
	for _, n := range f.records {
		if filter.To != nil && n.To != *filter.To {
			continue
		}
		if filter.Status != nil && n.Status != *filter.Status {
			continue
		}
		if filter.NeedsSend != nil && n.NeedsSend != *filter.NeedsSend {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (f *fakeNotificationRepo) UpdateOne(_ context.Context, _ *model.NotificationFilter, _ *model.NotificationPatch) error {
	return nil
}

func (f *fakeNotificationRepo) UpdateMany(_ context.Context, _ *model.NotificationFilter, _ *model.NotificationPatch) (int64, error) {
	return 0, nil
}

type fakeBroker struct {
	published []string
	err       error
}

func (f *fakeBroker) Publish(_ context.Context, channel string, _ interface{}) error {
	f.published = append(f.published, channel)
	return f.err
}

func (f *fakeBroker) Subscribe(_ context.Context, _ string) (<-chan []byte, error) {
	return nil, nil
}

func (f *fakeBroker) Close() error { return nil }

func testLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
}

func invite(to uuid.UUID) *model.Notification {
	return &model.Notification{
		Base:      model.Base{ID: uuid.New()},
		Content:   "alice invited you to join morning-runners",
		From:      uuid.New(),
		To:        to,
		GroupID:   uuid.New(),
		Status:    model.NotificationStatusInvite,
		NeedsSend: true,
	}
}

func TestDeliverPushesToOpenStream(t *testing.T) {
	registry := sse.NewRegistry()
	svc := NewService(&fakeNotificationRepo{}, registry, nil, testLogger(), nil)

	recipient := uuid.New()
	stream := sse.NewStream()
	registry.Register(recipient, stream)
	defer stream.Close()

	n := invite(recipient)
	svc.Deliver(context.Background(), n)

	select {
	case frame := <-stream.Events():
		var got model.Notification
		require.NoError(t, json.Unmarshal(frame, &got))
		assert.Equal(t, n.ID, got.ID)
		assert.Equal(t, n.Content, got.Content)
		assert.True(t, got.NeedsSend)
	default:
		t.Fatal("expected a frame on the recipient's stream")
	}
}

func TestDeliverWithoutStreamIsSilent(t *testing.T) {
	registry := sse.NewRegistry()
	repo := &fakeNotificationRepo{}
	svc := NewService(repo, registry, nil, testLogger(), nil)

	n := invite(uuid.New())
	require.NoError(t, repo.Create(context.Background(), n))

	// No stream registered for the recipient; dispatch must not fail and
	// the durable record stays retrievable.
	svc.Deliver(context.Background(), n)

	pending, err := svc.ListPending(context.Background(), n.To)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, n.ID, pending[0].ID)
}

func TestDeliverClosedStream(t *testing.T) {
	registry := sse.NewRegistry()
	svc := NewService(&fakeNotificationRepo{}, registry, nil, testLogger(), nil)

	recipient := uuid.New()
	stream := sse.NewStream()
	registry.Register(recipient, stream)
	stream.Close()

	// Must not panic or block.
	svc.Deliver(context.Background(), invite(recipient))
}

func TestDeliverPublishesToBroker(t *testing.T) {
	registry := sse.NewRegistry()
	broker := &fakeBroker{}
	svc := NewService(&fakeNotificationRepo{}, registry, broker, testLogger(), nil)

	svc.Deliver(context.Background(), invite(uuid.New()))

	assert.Equal(t, []string{"notifications"}, broker.published)
}

func TestDeliverBrokerFailureIsNonFatal(t *testing.T) {
	registry := sse.NewRegistry()
	broker := &fakeBroker{err: errors.New("connection refused")}
	svc := NewService(&fakeNotificationRepo{}, registry, broker, testLogger(), nil)

	recipient := uuid.New()
	stream := sse.NewStream()
	registry.Register(recipient, stream)
	defer stream.Close()

	svc.Deliver(context.Background(), invite(recipient))

	select {
	case <-stream.Events():
	default:
		t.Fatal("broker failure must not block live delivery")
	}
}

func TestListPendingExcludesResolved(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewService(repo, sse.NewRegistry(), nil, testLogger(), nil)

	recipient := uuid.New()
	active := invite(recipient)
	resolved := invite(recipient)
	resolved.NeedsSend = false
	repo.records = append(repo.records, active, resolved)

	pending, err := svc.ListPending(context.Background(), recipient)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, active.ID, pending[0].ID)
}
