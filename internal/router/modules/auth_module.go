package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/portalnorte/noticias-backend/internal/container"
	handlers "github.com/portalnorte/noticias-backend/internal/interface/http"
	"github.com/portalnorte/noticias-backend/internal/interface/middleware"
)

// AuthModule wires the account lifecycle endpoints.
// All of them are public; the tight per-IP-and-path limits slow down code
// guessing and enumeration.
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	codeLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.POST("/send-verification-code", codeLimiter, m.Handler.SendVerificationCode)
	rg.POST("/verify-code", codeLimiter, m.Handler.VerifyCode)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/admin/login", loginLimiter, m.Handler.AdminLogin)
	rg.POST("/send-password-reset", codeLimiter, m.Handler.SendPasswordReset)
	rg.POST("/reset-password", codeLimiter, m.Handler.ResetPassword)
}
