package habit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/model"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/repository"
	apperrors "github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/errors"
)

type HabitServicer interface {
	CreateHabit(ctx context.Context, req *model.CreateHabitRequest) (*model.Habit, error)
	GetHabit(ctx context.Context, id uuid.UUID) (*model.Habit, error)
	UpdateHabit(ctx context.Context, id uuid.UUID, req *model.UpdateHabitRequest) (*model.Habit, error)
	ListHabits(ctx context.Context, userID uuid.UUID) ([]*model.Habit, error)
}

type Service struct {
	repo  repository.HabitRepository
	users repository.UserRepository
}

func NewService(repo repository.HabitRepository, users repository.UserRepository) *Service {
	return &Service{
		repo:  repo,
		users: users,
	}
}

func (s *Service) CreateHabit(ctx context.Context, req *model.CreateHabitRequest) (*model.Habit, error) {
	if _, err := s.users.Get(ctx, req.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.UserNotFound()
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	habit := &model.Habit{
		UserID:    req.UserID,
		Title:     req.Title,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		DoDays:    req.DoDays,
	}
	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}

	return habit, nil
}

func (s *Service) GetHabit(ctx context.Context, id uuid.UUID) (*model.Habit, error) {
	habit, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.HabitNotFound()
		}
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}
	return habit, nil
}

func (s *Service) UpdateHabit(ctx context.Context, id uuid.UUID, req *model.UpdateHabitRequest) (*model.Habit, error) {
	habit, err := s.GetHabit(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		habit.Title = *req.Title
	}
	if req.StartTime != nil {
		habit.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		habit.EndTime = *req.EndTime
	}
	if req.DoDays != nil {
		habit.DoDays = req.DoDays
	}

	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, fmt.Errorf("failed to update habit: %w", err)
	}

	return habit, nil
}

func (s *Service) ListHabits(ctx context.Context, userID uuid.UUID) ([]*model.Habit, error) {
	habits, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	return habits, nil
}
