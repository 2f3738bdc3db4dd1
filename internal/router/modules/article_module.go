package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/portalnorte/noticias-backend/internal/container"
	handlers "github.com/portalnorte/noticias-backend/internal/interface/http"
	"github.com/portalnorte/noticias-backend/internal/interface/middleware"
)

// ArticleModule wires the public read endpoints and the admin article CRUD.
type ArticleModule struct {
	Handler *handlers.ArticleHandler
}

func NewArticleModule(h *handlers.ArticleHandler) *ArticleModule {
	return &ArticleModule{Handler: h}
}

func (m *ArticleModule) Register(rg *gin.RouterGroup) {
	readLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil)

	rg.GET("/articles", readLimiter, m.Handler.List)
	rg.GET("/articles/:id", readLimiter, m.Handler.Get)
	rg.GET("/search", readLimiter, m.Handler.Search)

	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(container.GetJWT()), middleware.RequireAdmin())
	{
		admin.POST("/articles", m.Handler.Create)
		admin.PUT("/articles/:id", m.Handler.Update)
		admin.DELETE("/articles/:id", m.Handler.Delete)
	}
}
