package user

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/model"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/service/user"
	apperrors "github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/errors"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/httputil"
)

type Handler struct {
	service user.UserServicer
}

func NewHandler(service user.UserServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.GET("/check", h.CheckNickname)
		users.POST("", h.CreateUser)
		users.GET("/:id", h.GetUser)
	}
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid user payload", err))
		return
	}

	created, err := h.service.CreateUser(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, created)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid user ID", err))
		return
	}

	include := model.ParseUserInclude(c.Query("include"))
	withUserData := c.Query("withUserData") != ""

	fetched, err := h.service.GetUser(c.Request.Context(), id, include)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	// Without withUserData the relation projection is returned on its
	// own rather than embedded in the user document.
	if !withUserData {
		switch include {
		case model.IncludeGroups:
			httputil.RespondWithSuccess(c, fetched.Groups)
			return
		case model.IncludeHabits:
			httputil.RespondWithSuccess(c, fetched.Habits)
			return
		}
	}

	httputil.RespondWithSuccess(c, fetched)
}

func (h *Handler) CheckNickname(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		httputil.RespondWithError(c, apperrors.BadRequest("email is required", nil))
		return
	}

	result, err := h.service.CheckNickname(c.Request.Context(), email)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, result)
}
