package group

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/model"
	apperrors "github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/errors"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/httputil"
)

type fakeGroupService struct {
	inviteErr    error
	invited      []uuid.UUID
	addMemberErr error
	added        []uuid.UUID
}

func (f *fakeGroupService) CreateGroup(_ context.Context, groupName string, creatorID uuid.UUID) (*model.Group, error) {
	return &model.Group{GroupName: groupName, Members: []uuid.UUID{creatorID}}, nil
}

func (f *fakeGroupService) GetGroup(_ context.Context, id, _ uuid.UUID) (*model.Group, bool, error) {
	return &model.Group{Base: model.Base{ID: id}}, false, nil
}

func (f *fakeGroupService) AddMember(_ context.Context, groupID, userID uuid.UUID) error {
	if f.addMemberErr != nil {
		return f.addMemberErr
	}
	f.added = append(f.added, userID)
	return nil
}

func (f *fakeGroupService) Invite(_ context.Context, _, fromUserID, toUserID uuid.UUID) (*model.Notification, error) {
	if f.inviteErr != nil {
		return nil, f.inviteErr
	}
	f.invited = append(f.invited, fromUserID, toUserID)
	return &model.Notification{From: fromUserID, To: toUserID, NeedsSend: true}, nil
}

func (f *fakeGroupService) GetDailyHabits(_ context.Context, _ uuid.UUID, _ time.Time) ([]*model.MemberDailyHabits, error) {
	return nil, nil
}

func setupRouter(svc *fakeGroupService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) httputil.Response {
	t.Helper()

	var res httputil.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestInviteEndpoint(t *testing.T) {
	svc := &fakeGroupService{}
	r := setupRouter(svc)

	from, to := uuid.New(), uuid.New()
	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/groups/%s/invite", uuid.New()), gin.H{
		"fromUserId": from,
		"toUserId":   to,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	res := decode(t, w)
	assert.True(t, res.Success)
	assert.Equal(t, []uuid.UUID{from, to}, svc.invited)
}

func TestInviteEndpointRejectsMissingFields(t *testing.T) {
	svc := &fakeGroupService{}
	r := setupRouter(svc)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/groups/%s/invite", uuid.New()), gin.H{
		"fromUserId": uuid.New(),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	res := decode(t, w)
	assert.False(t, res.Success)
	require.NotNil(t, res.Error)
	assert.Equal(t, apperrors.ErrBadRequest, res.Error.Code)
	assert.Empty(t, svc.invited)
}

func TestInviteEndpointBadGroupID(t *testing.T) {
	r := setupRouter(&fakeGroupService{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/groups/not-a-uuid/invite", gin.H{
		"fromUserId": uuid.New(),
		"toUserId":   uuid.New(),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInviteEndpointMapsServiceErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   apperrors.ErrorCode
	}{
		{"group missing", apperrors.GroupNotFound(), http.StatusNotFound, apperrors.ErrGroupNotFound},
		{"sender outside group", apperrors.SenderNotInGroup(), http.StatusForbidden, apperrors.ErrSenderNotInGroup},
		{"recipient already member", apperrors.RecipientAlreadyMember(), http.StatusConflict, apperrors.ErrRecipientAlreadyMember},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouter(&fakeGroupService{inviteErr: tc.err})

			w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/groups/%s/invite", uuid.New()), gin.H{
				"fromUserId": uuid.New(),
				"toUserId":   uuid.New(),
			})

			assert.Equal(t, tc.status, w.Code)
			res := decode(t, w)
			require.NotNil(t, res.Error)
			assert.Equal(t, tc.code, res.Error.Code)
		})
	}
}

func TestAddMemberEndpoint(t *testing.T) {
	svc := &fakeGroupService{}
	r := setupRouter(svc)

	groupID, userID := uuid.New(), uuid.New()
	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/groups/%s/members", groupID), gin.H{
		"userId": userID,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	res := decode(t, w)
	assert.True(t, res.Success)

	data, ok := res.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "joined the group", data["message"])
	assert.Equal(t, groupID.String(), data["groupId"])
	assert.Equal(t, []uuid.UUID{userID}, svc.added)
}

func TestAddMemberEndpointConflict(t *testing.T) {
	r := setupRouter(&fakeGroupService{addMemberErr: apperrors.UserAlreadyInGroup()})

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/groups/%s/members", uuid.New()), gin.H{
		"userId": uuid.New(),
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	res := decode(t, w)
	require.NotNil(t, res.Error)
	assert.Equal(t, apperrors.ErrUserAlreadyInGroup, res.Error.Code)
}

func TestCreateGroupEndpoint(t *testing.T) {
	r := setupRouter(&fakeGroupService{})

	w := doJSON(t, r, http.MethodPost, "/api/v1/groups", gin.H{
		"groupName": "morning-runners",
		"creatorId": uuid.New(),
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	res := decode(t, w)
	assert.True(t, res.Success)
}
