package habit

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/model"
	apperrors "github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/errors"
)

type fakeUserRepo struct {
	known map[uuid.UUID]bool
}

func (f *fakeUserRepo) Create(_ context.Context, _ *model.User) error { return nil }

func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	if !f.known[id] {
		return nil, sql.ErrNoRows
	}
	return &model.User{Base: model.Base{ID: id}}, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, _ string) (*model.User, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) ExistsByNickname(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (f *fakeUserRepo) ListGroups(_ context.Context, _ uuid.UUID) ([]*model.Group, error) {
	return nil, nil
}

type fakeHabitRepo struct {
	habits map[uuid.UUID]*model.Habit
}

func (f *fakeHabitRepo) Create(_ context.Context, habit *model.Habit) error {
	habit.ID = uuid.New()
	f.habits[habit.ID] = habit
	return nil
}

func (f *fakeHabitRepo) Get(_ context.Context, id uuid.UUID) (*model.Habit, error) {
	habit, ok := f.habits[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return habit, nil
}

func (f *fakeHabitRepo) Update(_ context.Context, habit *model.Habit) error {
	f.habits[habit.ID] = habit
	return nil
}

func (f *fakeHabitRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*model.Habit, error) {
	var out []*model.Habit
	for _, h := range f.habits {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeHabitRepo) ListByUsers(_ context.Context, _ []uuid.UUID) ([]*model.Habit, error) {
	return nil, nil
}

func newFixture() (*Service, *fakeHabitRepo, uuid.UUID) {
	userID := uuid.New()
	users := &fakeUserRepo{known: map[uuid.UUID]bool{userID: true}}
	habits := &fakeHabitRepo{habits: make(map[uuid.UUID]*model.Habit)}
	return NewService(habits, users), habits, userID
}

func TestCreateHabit(t *testing.T) {
	svc, repo, userID := newFixture()

	habit, err := svc.CreateHabit(context.Background(), &model.CreateHabitRequest{
		UserID:    userID,
		Title:     "run",
		StartTime: "06:00",
		EndTime:   "07:00",
		DoDays:    []string{"mon", "wed", "fri"},
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, habit.ID)
	assert.Len(t, repo.habits, 1)
	assert.True(t, habit.ScheduledOn("wed"))
	assert.False(t, habit.ScheduledOn("sun"))
}

func TestCreateHabitUnknownUser(t *testing.T) {
	svc, repo, _ := newFixture()

	_, err := svc.CreateHabit(context.Background(), &model.CreateHabitRequest{
		UserID:    uuid.New(),
		Title:     "run",
		StartTime: "06:00",
		EndTime:   "07:00",
		DoDays:    []string{"mon"},
	})

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUserNotFound, appErr.Code)
	assert.Empty(t, repo.habits)
}

func TestGetHabitNotFound(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.GetHabit(context.Background(), uuid.New())

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrHabitNotFound, appErr.Code)
}

func TestUpdateHabitPartialPatch(t *testing.T) {
	svc, _, userID := newFixture()
	ctx := context.Background()

	habit, err := svc.CreateHabit(ctx, &model.CreateHabitRequest{
		UserID:    userID,
		Title:     "run",
		StartTime: "06:00",
		EndTime:   "07:00",
		DoDays:    []string{"mon"},
	})
	require.NoError(t, err)

	title := "morning run"
	updated, err := svc.UpdateHabit(ctx, habit.ID, &model.UpdateHabitRequest{
		Title:  &title,
		DoDays: []string{"tue", "thu"},
	})
	require.NoError(t, err)

	assert.Equal(t, "morning run", updated.Title)
	assert.Equal(t, "06:00", updated.StartTime, "unset fields stay untouched")
	assert.ElementsMatch(t, []string{"tue", "thu"}, []string(updated.DoDays))
}

func TestListHabits(t *testing.T) {
	svc, _, userID := newFixture()
	ctx := context.Background()

	for _, title := range []string{"run", "read"} {
		_, err := svc.CreateHabit(ctx, &model.CreateHabitRequest{
			UserID:    userID,
			Title:     title,
			StartTime: "06:00",
			EndTime:   "07:00",
			DoDays:    []string{"mon"},
		})
		require.NoError(t, err)
	}

	habits, err := svc.ListHabits(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, habits, 2)
}
