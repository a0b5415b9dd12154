package group

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/model"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/service/group"
	apperrors "github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/errors"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/httputil"
)

type Handler struct {
	service group.GroupServicer
}

func NewHandler(service group.GroupServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	groups := r.Group("/groups")
	{
		groups.POST("", h.CreateGroup)
		groups.GET("/:id", h.GetGroup)
		groups.POST("/:id/members", h.AddMember)
		groups.POST("/:id/invite", h.Invite)
		groups.GET("/:id/daily-habits", h.GetDailyHabits)
	}
}

func (h *Handler) CreateGroup(c *gin.Context) {
	var req model.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid group payload", err))
		return
	}

	created, err := h.service.CreateGroup(c.Request.Context(), req.GroupName, req.CreatorID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, created)
}

func (h *Handler) GetGroup(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid group ID", err))
		return
	}

	var userID uuid.UUID
	if raw := c.Query("userId"); raw != "" {
		userID, err = uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid user ID", err))
			return
		}
	}

	fetched, isMember, err := h.service.GetGroup(c.Request.Context(), id, userID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{
		"group":    fetched,
		"isMember": isMember,
	})
}

func (h *Handler) AddMember(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid group ID", err))
		return
	}

	var req model.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid member payload", err))
		return
	}

	if err := h.service.AddMember(c.Request.Context(), groupID, req.UserID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{
		"message": "joined the group",
		"groupId": groupID,
	})
}

func (h *Handler) Invite(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid group ID", err))
		return
	}

	var req model.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid invite payload", err))
		return
	}

	// Delivery outcome is not part of the contract; the caller only
	// learns the invite was recorded.
	if _, err := h.service.Invite(c.Request.Context(), groupID, req.FromUserID, req.ToUserID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{
		"message": "invitation sent",
	})
}

func (h *Handler) GetDailyHabits(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid group ID", err))
		return
	}

	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		date, err = time.Parse("2006-01-02", raw)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid date, expected YYYY-MM-DD", err))
			return
		}
	}

	habits, err := h.service.GetDailyHabits(c.Request.Context(), groupID, date)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, habits)
}
