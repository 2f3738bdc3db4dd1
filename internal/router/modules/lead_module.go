package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/portalnorte/noticias-backend/internal/container"
	handlers "github.com/portalnorte/noticias-backend/internal/interface/http"
	"github.com/portalnorte/noticias-backend/internal/interface/middleware"
)

// LeadModule wires the public submission endpoint and the admin lead CRUD.
type LeadModule struct {
	Handler *handlers.LeadHandler
}

func NewLeadModule(h *handlers.LeadHandler) *LeadModule {
	return &LeadModule{Handler: h}
}

func (m *LeadModule) Register(rg *gin.RouterGroup) {
	submitLimiter := middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/leads", submitLimiter, m.Handler.Submit)

	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(container.GetJWT()), middleware.RequireAdmin())
	{
		admin.POST("/leads", m.Handler.Create)
		admin.GET("/leads", m.Handler.List)
		admin.PUT("/leads/:id", m.Handler.Update)
		admin.DELETE("/leads/:id", m.Handler.Delete)
	}
}
