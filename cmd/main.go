package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/portalnorte/noticias-backend/config"
	app "github.com/portalnorte/noticias-backend/internal/application"
	"github.com/portalnorte/noticias-backend/internal/container"
	pginfra "github.com/portalnorte/noticias-backend/internal/infrastructure/postgres"
	"github.com/portalnorte/noticias-backend/internal/interface/middleware"
	"github.com/portalnorte/noticias-backend/internal/router"
	"github.com/portalnorte/noticias-backend/internal/verification"
	"github.com/portalnorte/noticias-backend/pkg/filestore"
	"github.com/portalnorte/noticias-backend/pkg/helpers"
	"github.com/portalnorte/noticias-backend/pkg/mailer"
	"github.com/portalnorte/noticias-backend/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// Postgres pool
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	// Run migrations using database/sql with pgx stdlib
	if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("migration failed: %v", err)
	}

	// Redis
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	// File storage: GCS when a bucket is configured, local disk otherwise
	files, diskStore, err := buildFileStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to init file storage: %v", err)
	}

	// Elasticsearch is optional; without it article search falls back to SQL
	var esClient = buildES(cfg, logger)

	// Email delivery: RabbitMQ queue > direct Mailgun > simulated
	notifier := buildNotifier(cfg, logger)

	jwtManager := helpers.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	codes := verification.NewRegistry(cfg.CodeTTL)

	// Provide infra singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetPGPool(pool)
	container.SetRedis(rdb)
	container.SetES(esClient)
	container.SetFiles(files)
	container.SetJWT(jwtManager)
	container.SetCodes(codes)
	container.SetNotifier(notifier)

	// Bootstrap the administrator account
	authSvc := app.NewAuthService(pginfra.NewUserRepository(pool), codes, notifier, jwtManager, logger, cfg.AdminEmail)
	if err := authSvc.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminPassword); err != nil {
		log.Fatalf("failed to ensure admin account: %v", err)
	}

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}

	// Serve local uploads when the disk store is in use
	if diskStore != nil {
		r.Static(cfg.UploadPublicPrefix, cfg.UploadDir)
	}

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

func buildFileStore(ctx context.Context, cfg *config.Config) (filestore.Store, *filestore.Disk, error) {
	if cfg.GCSBucket != "" {
		client, err := filestore.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return nil, nil, err
		}
		return filestore.NewGCS(client, cfg.GCSBucket, cfg.UploadMaxBytes), nil, nil
	}
	disk, err := filestore.NewDisk(cfg.UploadDir, cfg.UploadPublicPrefix, cfg.UploadMaxBytes)
	if err != nil {
		return nil, nil, err
	}
	return disk, disk, nil
}

func buildES(cfg *config.Config, logger *logrus.Logger) *elasticsearch.Client {
	addrs := cfg.ESAddrs()
	if len(addrs) == 0 {
		return nil
	}
	es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		logger.Warnf("elasticsearch unavailable, search falls back to sql: %v", err)
		return nil
	}
	return es
}

func buildNotifier(cfg *config.Config, logger *logrus.Logger) mailer.Notifier {
	var pub *helpers.RabbitPublisher
	if cfg.RabbitMQURL != "" {
		p, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.Warnf("rabbitmq unavailable, falling back to direct delivery: %v", err)
		} else {
			pub = p
		}
	}
	var mg *mailer.Mailgun
	if cfg.MailgunDomain != "" && cfg.MailgunAPIKey != "" {
		mg = mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	}
	return mailer.NewNotifier(pub, mg, logger)
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
