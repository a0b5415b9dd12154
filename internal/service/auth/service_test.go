package auth

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/model"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/auth"
	apperrors "github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/errors"
)

type fakeUserRepo struct {
	byEmail map[string]*model.User
}

func (f *fakeUserRepo) Create(_ context.Context, _ *model.User) error { return nil }

func (f *fakeUserRepo) Get(_ context.Context, _ uuid.UUID) (*model.User, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (f *fakeUserRepo) ExistsByNickname(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (f *fakeUserRepo) ListGroups(_ context.Context, _ uuid.UUID) ([]*model.Group, error) {
	return nil, nil
}

func newFixture(t *testing.T) (*Service, *model.User, auth.TokenService) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)

	alice := &model.User{
		Base:         model.Base{ID: uuid.New()},
		Email:        "alice@example.com",
		Nickname:     "alice",
		PasswordHash: string(hash),
	}
	repo := &fakeUserRepo{byEmail: map[string]*model.User{alice.Email: alice}}
	tokens := auth.NewJWTService("test-secret", time.Hour)

	return NewService(repo, tokens), alice, tokens
}

func TestLoginIssuesValidToken(t *testing.T) {
	svc, alice, tokens := newFixture(t)

	res, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", res.Nickname)

	claims, err := tokens.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Nickname)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newFixture(t)

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong",
	})

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrInvalidCredentials, appErr.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newFixture(t)

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "ghost@example.com",
		Password: "correct horse",
	})

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrInvalidCredentials, appErr.Code)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := auth.NewJWTService("secret-a", time.Hour)
	verifier := auth.NewJWTService("secret-b", time.Hour)

	token, err := issuer.GenerateAccessToken(uuid.New(), "alice")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}
