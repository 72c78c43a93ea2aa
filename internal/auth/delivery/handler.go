package delivery

import (
	"net/http"

	authdto "fittrack-backend/internal/auth/dto"
	"fittrack-backend/internal/auth/usecase"
	"fittrack-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler handles account and session HTTP requests
type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	log         *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authUsecase usecase.AuthUsecase, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		log:         log,
	}
}

// Register creates an account and logs it in
// POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req authdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, h.log, apperror.FromBinding(err))
		return
	}

	resp, err := h.authUsecase.Register(c.Request.Context(), &req)
	if err != nil {
		apperror.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login
// POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req authdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, h.log, apperror.FromBinding(err))
		return
	}

	resp, err := h.authUsecase.Login(c.Request.Context(), &req)
	if err != nil {
		apperror.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Logout blacklists the session behind the refresh token
// POST /api/logout {"refresh": "..."}
func (h *AuthHandler) Logout(c *gin.Context) {
	var req authdto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, h.log, apperror.Validation("refresh token is required"))
		return
	}

	if err := h.authUsecase.Logout(c.Request.Context(), req.Refresh); err != nil {
		apperror.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// RefreshToken rotates the refresh session
// POST /api/token/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req authdto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, h.log, apperror.Validation("refresh token is required"))
		return
	}

	resp, err := h.authUsecase.RefreshToken(c.Request.Context(), req.Refresh)
	if err != nil {
		apperror.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated user as resolved by the middleware
// GET /api/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := c.Get(ctxUserKey)
	if !ok {
		apperror.Respond(c, h.log, apperror.Authentication("user not found"))
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetProfile
// GET /api/profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := h.authUsecase.GetProfile(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		apperror.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile applies the fields present in the body
// PUT /api/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req authdto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, h.log, apperror.FromBinding(err))
		return
	}

	user, err := h.authUsecase.UpdateProfile(c.Request.Context(), CurrentUserID(c), &req)
	if err != nil {
		apperror.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ChangePassword
// POST /api/change_password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req authdto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, h.log, apperror.FromBinding(err))
		return
	}

	if err := h.authUsecase.ChangePassword(c.Request.Context(), CurrentUserID(c), &req); err != nil {
		apperror.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated successfully"})
}

// RegisterDevice stores a push token for the caller
// POST /api/devices
func (h *AuthHandler) RegisterDevice(c *gin.Context) {
	var req authdto.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, h.log, apperror.FromBinding(err))
		return
	}

	if err := h.authUsecase.RegisterDevice(c.Request.Context(), CurrentUserID(c), &req); err != nil {
		apperror.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "device registered"})
}

// UnregisterDevice
// DELETE /api/devices/:token
func (h *AuthHandler) UnregisterDevice(c *gin.Context) {
	if err := h.authUsecase.UnregisterDevice(c.Request.Context(), CurrentUserID(c), c.Param("token")); err != nil {
		apperror.Respond(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
