package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/portalnorte/noticias-backend/internal/container"
	handlers "github.com/portalnorte/noticias-backend/internal/interface/http"
	"github.com/portalnorte/noticias-backend/internal/interface/middleware"
)

// AdminModule wires the dashboard, user management, and generic upload.
type AdminModule struct {
	Handler *handlers.AdminHandler
}

func NewAdminModule(h *handlers.AdminHandler) *AdminModule {
	return &AdminModule{Handler: h}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(container.GetJWT()), middleware.RequireAdmin())
	{
		admin.GET("/dashboard", m.Handler.Dashboard)
		admin.GET("/users", m.Handler.ListUsers)
		admin.GET("/users/export", m.Handler.ExportUsersCSV)
		admin.POST("/upload", m.Handler.Upload)
	}
}
