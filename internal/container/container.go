package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/portalnorte/noticias-backend/config"
	"github.com/portalnorte/noticias-backend/internal/verification"
	"github.com/portalnorte/noticias-backend/pkg/filestore"
	"github.com/portalnorte/noticias-backend/pkg/helpers"
	"github.com/portalnorte/noticias-backend/pkg/mailer"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	esClient    *elasticsearch.Client
	files       filestore.Store
	jwtManager  *helpers.JWTManager
	codes       *verification.Registry
	notifier    mailer.Notifier
)

func SetConfig(c *config.Config)              { cfg = c }
func GetConfig() *config.Config               { return cfg }
func SetLogger(l *logrus.Logger)              { logger = l }
func GetLogger() *logrus.Logger               { return logger }
func SetPGPool(p *pgxpool.Pool)               { pgPool = p }
func GetPGPool() *pgxpool.Pool                { return pgPool }
func SetRedis(r *redis.Client)                { redisClient = r }
func GetRedis() *redis.Client                 { return redisClient }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }
func SetFiles(s filestore.Store)              { files = s }
func GetFiles() filestore.Store               { return files }
func SetJWT(m *helpers.JWTManager)            { jwtManager = m }
func GetJWT() *helpers.JWTManager             { return jwtManager }
func SetCodes(r *verification.Registry)       { codes = r }
func GetCodes() *verification.Registry        { return codes }
func SetNotifier(n mailer.Notifier)           { notifier = n }
func GetNotifier() mailer.Notifier            { return notifier }
