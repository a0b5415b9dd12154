package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"

	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/model"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/repository"
	apperrors "github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/errors"
)

const (
	bcryptCost = 12

	nicknameCacheTTL     = 5 * time.Minute
	nicknameCacheCleanup = 10 * time.Minute
)

type UserServicer interface {
	CreateUser(ctx context.Context, req *model.CreateUserRequest) (*model.User, error)
	GetUser(ctx context.Context, id uuid.UUID, include model.UserInclude) (*model.User, error)
	CheckNickname(ctx context.Context, email string) (*model.UserCheckResponse, error)
}

type Service struct {
	repo   repository.UserRepository
	habits repository.HabitRepository

	// nicknames caches email -> nickname for the signup availability check,
	// the hottest read in the API.
	nicknames *cache.Cache
}

func NewService(repo repository.UserRepository, habits repository.HabitRepository) *Service {
	return &Service{
		repo:      repo,
		habits:    habits,
		nicknames: cache.New(nicknameCacheTTL, nicknameCacheCleanup),
	}
}

func (s *Service) CreateUser(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	duplicate, err := s.repo.ExistsByNickname(ctx, req.Nickname)
	if err != nil {
		return nil, fmt.Errorf("failed to check nickname: %w", err)
	}
	if duplicate {
		return nil, apperrors.DuplicateNickname()
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        req.Email,
		Nickname:     req.Nickname,
		PasswordHash: string(hashedPassword),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.nicknames.Set(user.Email, user.Nickname, cache.DefaultExpiration)

	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID, include model.UserInclude) (*model.User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.UserNotFound()
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	switch include {
	case model.IncludeGroups:
		groups, err := s.repo.ListGroups(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load groups: %w", err)
		}
		user.Groups = groups
	case model.IncludeHabits:
		habits, err := s.habits.ListByUser(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load habits: %w", err)
		}
		user.Habits = habits
	}

	return user, nil
}

// CheckNickname resolves the nickname registered for an email address,
// reporting exists=false for unknown addresses.
func (s *Service) CheckNickname(ctx context.Context, email string) (*model.UserCheckResponse, error) {
	if nickname, ok := s.nicknames.Get(email); ok {
		return &model.UserCheckResponse{Exists: true, Nickname: nickname.(string)}, nil
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &model.UserCheckResponse{Exists: false}, nil
		}
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	s.nicknames.Set(email, user.Nickname, cache.DefaultExpiration)

	return &model.UserCheckResponse{Exists: true, Nickname: user.Nickname}, nil
}
