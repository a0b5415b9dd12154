package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/model"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/internal/service/auth"
	apperrors "github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/errors"
	"github.com/Last-Survivors-3-8/Wathcher-Habit-Server/pkg/httputil"
)

type Handler struct {
	service auth.AuthServicer
}

func NewHandler(service auth.AuthServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid login payload", err))
		return
	}

	token, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, token)
}
