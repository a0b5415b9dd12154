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

type habitRepository struct {
	BaseRepository
}

func NewHabitRepository(base BaseRepository) repository.HabitRepository {
	return &habitRepository{base}
}

func (r *habitRepository) Create(ctx context.Context, habit *model.Habit) error {
	query := `
		INSERT INTO habits (
			id, user_id, title, start_time, end_time, do_days, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	habit.ID = uuid.New()
	habit.CreatedAt = time.Now()
	habit.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			habit.ID,
			habit.UserID,
			habit.Title,
			habit.StartTime,
			habit.EndTime,
			habit.DoDays,
			habit.CreatedAt,
			habit.UpdatedAt,
		)
		return err
	})
}

func (r *habitRepository) Get(ctx context.Context, id uuid.UUID) (*model.Habit, error) {
	query := `SELECT * FROM habits WHERE id = $1`

	var habit model.Habit
	if err := r.db.GetContext(ctx, &habit, query, id); err != nil {
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}

	return &habit, nil
}

func (r *habitRepository) Update(ctx context.Context, habit *model.Habit) error {
	query := `
		UPDATE habits SET
			title = $1,
			start_time = $2,
			end_time = $3,
			do_days = $4,
			updated_at = $5
		WHERE id = $6
	`

	result, err := r.db.ExecContext(ctx, query,
		habit.Title,
		habit.StartTime,
		habit.EndTime,
		habit.DoDays,
		time.Now(),
		habit.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("habit not found")
	}

	return nil
}

func (r *habitRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Habit, error) {
	query := `SELECT * FROM habits WHERE user_id = $1 ORDER BY created_at`

	var habits []*model.Habit
	if err := r.db.SelectContext(ctx, &habits, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}

	return habits, nil
}

func (r *habitRepository) ListByUsers(ctx context.Context, userIDs []uuid.UUID) ([]*model.Habit, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query := `SELECT * FROM habits WHERE user_id = ANY($1) ORDER BY user_id, start_time`

	var habits []*model.Habit
	if err := r.db.SelectContext(ctx, &habits, query, pq.Array(userIDs)); err != nil {
		return nil, fmt.Errorf("failed to list member habits: %w", err)
	}

	return habits, nil
}
