package model

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Habit is a recurring routine a user commits to on given weekdays,
// within a daily time window.
type Habit struct {
	Base
	UserID    uuid.UUID      `json:"userId" db:"user_id"`
	Title     string         `json:"title" db:"title"`
	StartTime string         `json:"startTime" db:"start_time"`
	EndTime   string         `json:"endTime" db:"end_time"`
	DoDays    pq.StringArray `json:"doDays" db:"do_days"`
}

// ScheduledOn reports whether the habit runs on the given weekday
// ("mon" .. "sun").
func (h *Habit) ScheduledOn(weekday string) bool {
	for _, d := range h.DoDays {
		if d == weekday {
			return true
		}
	}
	return false
}

// CreateHabitRequest represents habit creation parameters
type CreateHabitRequest struct {
	UserID    uuid.UUID `json:"userId" binding:"required"`
	Title     string    `json:"title" binding:"required,min=1,max=50"`
	StartTime string    `json:"startTime" binding:"required,hhmm"`
	EndTime   string    `json:"endTime" binding:"required,hhmm"`
	DoDays    []string  `json:"doDays" binding:"required,min=1,dive,oneof=mon tue wed thu fri sat sun"`
}

// UpdateHabitRequest represents habit update parameters
type UpdateHabitRequest struct {
	Title     *string  `json:"title" binding:"omitempty,min=1,max=50"`
	StartTime *string  `json:"startTime" binding:"omitempty,hhmm"`
	EndTime   *string  `json:"endTime" binding:"omitempty,hhmm"`
	DoDays    []string `json:"doDays" binding:"omitempty,min=1,dive,oneof=mon tue wed thu fri sat sun"`
}
