package habit

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/model"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/service/habit"
	apperrors "github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/errors"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/httputil"
)

type Handler struct {
	service habit.HabitServicer
}

func NewHandler(service habit.HabitServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	habits := r.Group("/habits")
	{
		habits.POST("", h.CreateHabit)
		habits.GET("", h.ListHabits)
		habits.GET("/:id", h.GetHabit)
		habits.PATCH("/:id", h.UpdateHabit)
	}
}

func (h *Handler) CreateHabit(c *gin.Context) {
	var req model.CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid habit payload", err))
		return
	}

	created, err := h.service.CreateHabit(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, created)
}

func (h *Handler) GetHabit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid habit ID", err))
		return
	}

	fetched, err := h.service.GetHabit(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, fetched)
}

func (h *Handler) UpdateHabit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid habit ID", err))
		return
	}

	var req model.UpdateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid habit payload", err))
		return
	}

	updated, err := h.service.UpdateHabit(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, updated)
}

func (h *Handler) ListHabits(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("userId"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid user ID", err))
		return
	}

	habits, err := h.service.ListHabits(c.Request.Context(), userID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, habits)
}
