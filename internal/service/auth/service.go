package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/model"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/repository"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/auth"
	apperrors "github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/errors"
)

type AuthServicer interface {
	Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error)
}

type Service struct {
	users  repository.UserRepository
	tokens auth.TokenService
}

func NewService(users repository.UserRepository, tokens auth.TokenService) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
	}
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.InvalidCredentials()
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.InvalidCredentials()
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Nickname)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &model.TokenResponse{
		AccessToken: token,
		Nickname:    user.Nickname,
	}, nil
}
