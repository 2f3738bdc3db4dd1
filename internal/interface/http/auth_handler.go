package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/portalnorte/noticias-backend/internal/application"
	"github.com/portalnorte/noticias-backend/pkg/response"
	"github.com/portalnorte/noticias-backend/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Age      int    `json:"age" binding:"required"`
	Password string `json:"password" binding:"required,pwd"`
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type verifyCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6,numeric"`
	NewPassword string `json:"new_password" binding:"required,pwd"`
}

// deliveryPayload shapes a CodeDelivery for the response body. The code is
// present only when delivery was simulated.
func deliveryPayload(d *application.CodeDelivery) gin.H {
	out := gin.H{"delivered": d.Delivered}
	if d.Simulated {
		out["simulated"] = true
		out["simulated_code"] = d.SimulatedCode
	}
	return out
}

// authError maps service errors onto status codes and stable reasons.
func authError(c *gin.Context, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, application.ErrInvalidAge):
		response.Error[any](c, http.StatusBadRequest, "invalid_age", "age must be between 13 and 120", nil)
	case errors.Is(err, application.ErrDuplicateEmail):
		response.Error[any](c, http.StatusBadRequest, "duplicate_email", "email already registered", nil)
	case errors.Is(err, application.ErrUnknownEmail):
		response.Error[any](c, http.StatusNotFound, "unknown_email", "no account for that email", nil)
	case errors.Is(err, application.ErrInvalidOrExpiredCode):
		response.Error[any](c, http.StatusBadRequest, "invalid_or_expired", "invalid or expired code", nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", nil)
	case errors.Is(err, application.ErrNotVerified):
		response.Error[any](c, http.StatusUnauthorized, "not_verified", "email not verified", nil)
	case errors.Is(err, application.ErrAccessDenied):
		response.Error[any](c, http.StatusForbidden, "access_denied", "access denied", nil)
	default:
		if logger != nil {
			logger.WithError(err).Error("auth request failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal", "internal error", nil)
	}
}

// Register POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation", "invalid payload", validation.ToDetails(err))
		return
	}
	d, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Age:      req.Age,
		Password: req.Password,
	})
	if err != nil {
		authError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, deliveryPayload(d), "registered, verification code sent", nil)
}

// SendVerificationCode POST /api/send-verification-code
func (h *AuthHandler) SendVerificationCode(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation", "invalid payload", validation.ToDetails(err))
		return
	}
	d, err := h.Svc.ResendCode(c.Request.Context(), req.Email)
	if err != nil {
		authError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, deliveryPayload(d), "verification code sent", nil)
}

// VerifyCode POST /api/verify-code
func (h *AuthHandler) VerifyCode(c *gin.Context) {
	var req verifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation", "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.VerifyCode(c.Request.Context(), req.Email, req.Code); err != nil {
		authError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"verified": true}, "email verified", nil)
}

// Login POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation", "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		authError(c, h.Logger, err)
		return
	}
	role := "standard"
	if res.Admin {
		role = "admin"
	}
	response.Success(c, http.StatusOK, gin.H{"token": res.Token, "role": role},
		"login successful", gin.H{"expires_at": res.ExpiresAt})
}

// AdminLogin POST /api/admin/login
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation", "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.AdminLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		authError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"token": res.Token},
		"admin login successful", gin.H{"expires_at": res.ExpiresAt})
}

// SendPasswordReset POST /api/send-password-reset
func (h *AuthHandler) SendPasswordReset(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation", "invalid payload", validation.ToDetails(err))
		return
	}
	d, err := h.Svc.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		authError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, deliveryPayload(d), "reset code sent", nil)
}

// ResetPassword POST /api/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation", "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		authError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"reset": true}, "password updated", nil)
}
