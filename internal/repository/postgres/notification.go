package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/model"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/repository"
)

type notificationRepository struct {
	BaseRepository
}

func NewNotificationRepository(base BaseRepository) repository.NotificationRepository {
	return &notificationRepository{base}
}

func (r *notificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	query := `
		INSERT INTO notifications (
			id, content, from_user_id, to_user_id, group_id, status, needs_send,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	notification.ID = uuid.New()
	notification.CreatedAt = time.Now()
	notification.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			notification.ID,
			notification.Content,
			notification.From,
			notification.To,
			notification.GroupID,
			notification.Status,
			notification.NeedsSend,
			notification.CreatedAt,
			notification.UpdatedAt,
		)
		return err
	})
}

func (r *notificationRepository) List(ctx context.Context, filter *model.NotificationFilter) ([]*model.Notification, error) {
	where, args := buildNotificationFilter(filter, 1)
	query := `SELECT * FROM notifications`
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY created_at DESC"

	var notifications []*model.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return notifications, nil
}

func (r *notificationRepository) UpdateOne(ctx context.Context, filter *model.NotificationFilter, patch *model.NotificationPatch) error {
	set, args := buildNotificationPatch(patch, 1)
	if set == "" {
		return nil
	}

	where, whereArgs := buildNotificationFilter(filter, len(args)+1)
	query := fmt.Sprintf(`
		UPDATE notifications SET %s
		WHERE id = (SELECT id FROM notifications WHERE %s ORDER BY created_at LIMIT 1)
	`, set, where)

	if _, err := r.db.ExecContext(ctx, query, append(args, whereArgs...)...); err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}

	return nil
}

func (r *notificationRepository) UpdateMany(ctx context.Context, filter *model.NotificationFilter, patch *model.NotificationPatch) (int64, error) {
	set, args := buildNotificationPatch(patch, 1)
	if set == "" {
		return 0, nil
	}

	where, whereArgs := buildNotificationFilter(filter, len(args)+1)
	query := fmt.Sprintf(`UPDATE notifications SET %s WHERE %s`, set, where)

	result, err := r.db.ExecContext(ctx, query, append(args, whereArgs...)...)
	if err != nil {
		return 0, fmt.Errorf("failed to update notifications: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

// buildNotificationFilter renders the conjunction of the filter's set
// members as a WHERE fragment with positional args starting at argIdx.
// An empty filter renders as TRUE so update queries stay well-formed.
func buildNotificationFilter(filter *model.NotificationFilter, argIdx int) (string, []interface{}) {
	if filter == nil {
		return "TRUE", nil
	}

	var clauses []string
	var args []interface{}

	add := func(column string, value interface{}) {
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if filter.From != nil {
		add("from_user_id", *filter.From)
	}
	if filter.To != nil {
		add("to_user_id", *filter.To)
	}
	if filter.GroupID != nil {
		add("group_id", *filter.GroupID)
	}
	if filter.Status != nil {
		add("status", *filter.Status)
	}
	if filter.NeedsSend != nil {
		add("needs_send", *filter.NeedsSend)
	}

	if len(clauses) == 0 {
		return "TRUE", nil
	}
	return strings.Join(clauses, " AND "), args
}

func buildNotificationPatch(patch *model.NotificationPatch, argIdx int) (string, []interface{}) {
	if patch == nil {
		return "", nil
	}

	var sets []string
	var args []interface{}

	if patch.NeedsSend != nil {
		sets = append(sets, fmt.Sprintf("needs_send = $%d", argIdx))
		args = append(args, *patch.NeedsSend)
		argIdx++
	}

	if len(sets) == 0 {
		return "", nil
	}

	sets = append(sets, fmt.Sprintf("updated_at = $%d", argIdx))
	args = append(args, time.Now())

	return strings.Join(sets, ", "), args
}
