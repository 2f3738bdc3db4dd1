package router

import (
	app "github.com/portalnorte/noticias-backend/internal/application"
	"github.com/portalnorte/noticias-backend/internal/container"
	pginfra "github.com/portalnorte/noticias-backend/internal/infrastructure/postgres"
	handlers "github.com/portalnorte/noticias-backend/internal/interface/http"
	"github.com/portalnorte/noticias-backend/internal/router/modules"
)

// InitModules builds every feature module from the container singletons and
// registers it with the registry. Called once during startup, after the
// container has been populated.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	files := container.GetFiles()

	users := pginfra.NewUserRepository(container.GetPGPool())
	articles := pginfra.NewArticleRepository(container.GetPGPool())
	leads := pginfra.NewLeadRepository(container.GetPGPool())

	authSvc := app.NewAuthService(
		users,
		container.GetCodes(),
		container.GetNotifier(),
		container.GetJWT(),
		logger,
		cfg.AdminEmail,
	)
	articleSvc := app.NewArticleService(articles, files, logger, container.GetES(), cfg.ESArticlesIndex)
	leadSvc := app.NewLeadService(leads, files, logger)
	statsSvc := app.NewStatsService(users, articles, leads, container.GetRedis(), logger)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, logger)))
	r.Add(modules.NewArticleModule(handlers.NewArticleHandler(articleSvc, files, logger)))
	r.Add(modules.NewLeadModule(handlers.NewLeadHandler(leadSvc, files, logger)))
	r.Add(modules.NewAdminModule(handlers.NewAdminHandler(statsSvc, users, files, logger)))

	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
