package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medinfo/medinfo-api/internal/model"
	"github.com/medinfo/medinfo-api/internal/service/auth"
	apperrors "github.com/medinfo/medinfo-api/pkg/errors"
	"github.com/medinfo/medinfo-api/pkg/httputil"
)

type Handler struct {
	service auth.AuthService
}

func NewHandler(service auth.AuthService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.InvalidInput(err.Error()))
		return
	}

	user, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, httputil.Response{
		Success: true,
		Data:    gin.H{"username": user.Username},
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.InvalidInput(err.Error()))
		return
	}

	tokens, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, tokens)
}
