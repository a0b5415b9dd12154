package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/model"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/repository"
)

type userRepository struct {
	BaseRepository
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{base}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (
			id, email, nickname, password_hash, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			user.ID,
			user.Email,
			user.Nickname,
			user.PasswordHash,
			user.CreatedAt,
			user.UpdatedAt,
		)
		return err
	})
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT * FROM users WHERE id = $1`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT * FROM users WHERE email = $1`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

func (r *userRepository) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE nickname = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, nickname); err != nil {
		return false, fmt.Errorf("failed to check nickname: %w", err)
	}

	return exists, nil
}

func (r *userRepository) ListGroups(ctx context.Context, userID uuid.UUID) ([]*model.Group, error) {
	query := `
		SELECT g.* FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = $1
		ORDER BY g.created_at
	`

	var groups []*model.Group
	if err := r.db.SelectContext(ctx, &groups, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list user groups: %w", err)
	}
	if len(groups) == 0 {
		return groups, nil
	}

	groupIDs := make([]uuid.UUID, len(groups))
	byID := make(map[uuid.UUID]*model.Group, len(groups))
	for i, g := range groups {
		groupIDs[i] = g.ID
		byID[g.ID] = g
	}

	memberQuery := `
		SELECT group_id, user_id FROM group_members
		WHERE group_id = ANY($1)
		ORDER BY created_at
	`
	var rows []struct {
		GroupID uuid.UUID `db:"group_id"`
		UserID  uuid.UUID `db:"user_id"`
	}
	if err := r.db.SelectContext(ctx, &rows, memberQuery, pq.Array(groupIDs)); err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}

	for _, row := range rows {
		if g, ok := byID[row.GroupID]; ok {
			g.Members = append(g.Members, row.UserID)
		}
	}

	return groups, nil
}
