package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carebooker/carebooker-api/internal/handler"
	"github.com/carebooker/carebooker-api/internal/middleware"
	"github.com/carebooker/carebooker-api/internal/model"
	"github.com/carebooker/carebooker-api/internal/service/auth"
	"github.com/carebooker/carebooker-api/internal/service/patient"
)

type Handler struct {
	authService    *auth.Service
	patientService *patient.Service
}

func NewHandler(authService *auth.Service, patientService *patient.Service) *Handler {
	return &Handler{
		authService:    authService,
		patientService: patientService,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.POST("/refresh", h.Refresh)
}

// RegisterProtectedRoutes registers the routes that need a valid token.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.GET("/me", h.Me)
	r.POST("/logout", h.Logout)
}

// Register signs up a new patient account.
func (h *Handler) Register(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.patientService.Register(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(resp))
}

func (h *Handler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	tokens, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(tokens))
}

// Me returns the profile behind the caller's token.
func (h *Handler) Me(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	profile, err := h.authService.Me(c.Request.Context(), claims)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(profile))
}

func (h *Handler) Logout(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
