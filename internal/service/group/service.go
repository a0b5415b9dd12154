package group

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/model"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/repository"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/service/notification"
	apperrors "github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/errors"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/metrics"
)

type GroupServicer interface {
	CreateGroup(ctx context.Context, groupName string, creatorID uuid.UUID) (*model.Group, error)
	GetGroup(ctx context.Context, id, userID uuid.UUID) (*model.Group, bool, error)
	AddMember(ctx context.Context, groupID, userID uuid.UUID) error
	Invite(ctx context.Context, groupID, fromUserID, toUserID uuid.UUID) (*model.Notification, error)
	GetDailyHabits(ctx context.Context, groupID uuid.UUID, date time.Time) ([]*model.MemberDailyHabits, error)
}

type Service struct {
	repo          repository.GroupRepository
	users         repository.UserRepository
	habits        repository.HabitRepository
	notifications repository.NotificationRepository
	dispatcher    notification.Dispatcher
	metrics       *metrics.Metrics
}

func NewService(
	repo repository.GroupRepository,
	users repository.UserRepository,
	habits repository.HabitRepository,
	notifications repository.NotificationRepository,
	dispatcher notification.Dispatcher,
	m *metrics.Metrics,
) *Service {
	return &Service{
		repo:          repo,
		users:         users,
		habits:        habits,
		notifications: notifications,
		dispatcher:    dispatcher,
		metrics:       m,
	}
}

func (s *Service) CreateGroup(ctx context.Context, groupName string, creatorID uuid.UUID) (*model.Group, error) {
	exists, err := s.repo.ExistsByName(ctx, groupName)
	if err != nil {
		return nil, fmt.Errorf("failed to check group name: %w", err)
	}
	if exists {
		return nil, apperrors.GroupAlreadyExists()
	}

	if _, err := s.users.Get(ctx, creatorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.UserNotFound()
		}
		return nil, fmt.Errorf("failed to get creator: %w", err)
	}

	group := &model.Group{
		GroupName: groupName,
		Members:   []uuid.UUID{creatorID},
	}
	if err := s.repo.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	return group, nil
}

func (s *Service) GetGroup(ctx context.Context, id, userID uuid.UUID) (*model.Group, bool, error) {
	group, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, apperrors.GroupNotFound()
		}
		return nil, false, fmt.Errorf("failed to get group: %w", err)
	}

	isMember := userID != uuid.Nil && group.HasMember(userID)
	return group, isMember, nil
}

// AddMember joins a user to a group and closes the invite lifecycle:
// once membership lands, any pending invite for this recipient and group
// is no longer actionable.
func (s *Service) AddMember(ctx context.Context, groupID, userID uuid.UUID) error {
	group, err := s.repo.Get(ctx, groupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.GroupNotFound()
		}
		return fmt.Errorf("failed to get group: %w", err)
	}

	if _, err := s.users.Get(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.UserNotFound()
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if group.HasMember(userID) {
		return apperrors.UserAlreadyInGroup()
	}

	if err := s.repo.AddMember(ctx, groupID, userID); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	status := model.NotificationStatusInvite
	needsSend := true
	resolved := false
	if _, err := s.notifications.UpdateMany(ctx,
		&model.NotificationFilter{
			To:        &userID,
			GroupID:   &groupID,
			Status:    &status,
			NeedsSend: &needsSend,
		},
		&model.NotificationPatch{NeedsSend: &resolved},
	); err != nil {
		return fmt.Errorf("failed to resolve invite: %w", err)
	}

	return nil
}

// Invite records an invitation and pushes it to the recipient's live
// channel when one is open. Prior pending invites for the same recipient
// and group are superseded first, so at most one invite per (recipient,
// group) stays actionable. Two racing invites for the same pair can
// still both land pending; acceptance heals that by resolving every
// matching record.
func (s *Service) Invite(ctx context.Context, groupID, fromUserID, toUserID uuid.UUID) (*model.Notification, error) {
	group, err := s.repo.Get(ctx, groupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.GroupNotFound()
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	fromUser, err := s.users.Get(ctx, fromUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.UserNotFound()
		}
		return nil, fmt.Errorf("failed to get inviting user: %w", err)
	}

	if _, err := s.users.Get(ctx, toUserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.UserNotFound()
		}
		return nil, fmt.Errorf("failed to get invited user: %w", err)
	}

	if !group.HasMember(fromUserID) {
		return nil, apperrors.SenderNotInGroup()
	}
	if group.HasMember(toUserID) {
		return nil, apperrors.RecipientAlreadyMember()
	}

	// Latest invite wins: supersede must complete before the new record
	// is inserted.
	status := model.NotificationStatusInvite
	superseded := false
	count, err := s.notifications.UpdateMany(ctx,
		&model.NotificationFilter{
			To:      &toUserID,
			GroupID: &groupID,
			Status:  &status,
		},
		&model.NotificationPatch{NeedsSend: &superseded},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to supersede prior invites: %w", err)
	}
	if s.metrics != nil && count > 0 {
		s.metrics.InvitesSuperseded.Add(float64(count))
	}

	invite := &model.Notification{
		Content:   fmt.Sprintf("%s invited you to join %s", fromUser.Nickname, group.GroupName),
		From:      fromUserID,
		To:        toUserID,
		GroupID:   groupID,
		Status:    model.NotificationStatusInvite,
		NeedsSend: true,
	}
	if err := s.notifications.Create(ctx, invite); err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}
	if s.metrics != nil {
		s.metrics.InvitesCreated.Inc()
	}

	s.dispatcher.Deliver(ctx, invite)

	return invite, nil
}

func (s *Service) GetDailyHabits(ctx context.Context, groupID uuid.UUID, date time.Time) ([]*model.MemberDailyHabits, error) {
	group, err := s.repo.Get(ctx, groupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.GroupNotFound()
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	habits, err := s.habits.ListByUsers(ctx, group.Members)
	if err != nil {
		return nil, fmt.Errorf("failed to list member habits: %w", err)
	}

	weekday := strings.ToLower(date.Weekday().String())[:3]
	byUser := make(map[uuid.UUID][]*model.Habit)
	for _, h := range habits {
		if h.ScheduledOn(weekday) {
			byUser[h.UserID] = append(byUser[h.UserID], h)
		}
	}

	result := make([]*model.MemberDailyHabits, 0, len(group.Members))
	for _, memberID := range group.Members {
		member, err := s.users.Get(ctx, memberID)
		if err != nil {
			return nil, fmt.Errorf("failed to get member: %w", err)
		}
		result = append(result, &model.MemberDailyHabits{
			UserID:   memberID,
			Nickname: member.Nickname,
			Habits:   byUser[memberID],
		})
	}

	return result, nil
}
