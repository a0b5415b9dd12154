package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/model"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/repository"
)

type groupRepository struct {
	BaseRepository
}

func NewGroupRepository(base BaseRepository) repository.GroupRepository {
	return &groupRepository{base}
}

func (r *groupRepository) Create(ctx context.Context, group *model.Group) error {
	groupQuery := `
		INSERT INTO groups (id, group_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`
	memberQuery := `
		INSERT INTO group_members (group_id, user_id, created_at)
		VALUES ($1, $2, $3)
	`

	group.ID = uuid.New()
	group.CreatedAt = time.Now()
	group.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, groupQuery,
			group.ID,
			group.GroupName,
			group.CreatedAt,
			group.UpdatedAt,
		); err != nil {
			return err
		}

		for _, memberID := range group.Members {
			if _, err := tx.ExecContext(ctx, memberQuery, group.ID, memberID, time.Now()); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *groupRepository) Get(ctx context.Context, id uuid.UUID) (*model.Group, error) {
	query := `SELECT * FROM groups WHERE id = $1`

	var group model.Group
	if err := r.db.GetContext(ctx, &group, query, id); err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	memberQuery := `
		SELECT user_id FROM group_members
		WHERE group_id = $1
		ORDER BY created_at
	`
	if err := r.db.SelectContext(ctx, &group.Members, memberQuery, id); err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}

	return &group, nil
}

func (r *groupRepository) ExistsByName(ctx context.Context, groupName string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM groups WHERE group_name = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, groupName); err != nil {
		return false, fmt.Errorf("failed to check group name: %w", err)
	}

	return exists, nil
}

// AddMember appends the user to the group's membership. The join table
// keeps group and user sides in one row, so acceptance is a single
// atomic write rather than two independent document updates.
func (r *groupRepository) AddMember(ctx context.Context, groupID, userID uuid.UUID) error {
	query := `
		INSERT INTO group_members (group_id, user_id, created_at)
		VALUES ($1, $2, $3)
	`

	if _, err := r.db.ExecContext(ctx, query, groupID, userID, time.Now()); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	return nil
}
