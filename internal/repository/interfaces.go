package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/model"
)

// All repository interfaces in one file
type (
	// UserRepository handles user persistence
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		ExistsByNickname(ctx context.Context, nickname string) (bool, error)
		ListGroups(ctx context.Context, userID uuid.UUID) ([]*model.Group, error)
	}

	// GroupRepository handles group and membership persistence. Membership
	// is one row per (group, user); adding a member is a single atomic write.
	GroupRepository interface {
		Create(ctx context.Context, group *model.Group) error
		Get(ctx context.Context, id uuid.UUID) (*model.Group, error)
		ExistsByName(ctx context.Context, groupName string) (bool, error)
		AddMember(ctx context.Context, groupID, userID uuid.UUID) error
	}

	// HabitRepository handles habit persistence
	HabitRepository interface {
		Create(ctx context.Context, habit *model.Habit) error
		Get(ctx context.Context, id uuid.UUID) (*model.Habit, error)
		Update(ctx context.Context, habit *model.Habit) error
		ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Habit, error)
		ListByUsers(ctx context.Context, userIDs []uuid.UUID) ([]*model.Habit, error)
	}

	// NotificationRepository is the persistence boundary for notification
	// records. Filters are conjunctions over the notification fields; nil
	// filter members are unconstrained.
	NotificationRepository interface {
		Create(ctx context.Context, notification *model.Notification) error
		List(ctx context.Context, filter *model.NotificationFilter) ([]*model.Notification, error)
		UpdateOne(ctx context.Context, filter *model.NotificationFilter, patch *model.NotificationPatch) error
		UpdateMany(ctx context.Context, filter *model.NotificationFilter, patch *model.NotificationPatch) (int64, error)
	}
)
