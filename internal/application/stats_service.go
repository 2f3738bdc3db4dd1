package application

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/portalnorte/noticias-backend/internal/domain/entity"
	repo "github.com/portalnorte/noticias-backend/internal/domain/repository"
	"github.com/portalnorte/noticias-backend/pkg/helpers"
)

const statsCacheKey = "admin:dashboard:stats"

// DashboardStats is the admin landing-page summary.
type DashboardStats struct {
	Users        int64 `json:"users"`
	Articles     int64 `json:"articles"`
	Leads        int64 `json:"leads"`
	PendingLeads int64 `json:"pending_leads"`
}

// StatsService aggregates counts for the admin dashboard, with a short
// Redis cache in front of the counting queries.
type StatsService struct {
	Users    repo.UserRepository
	Articles repo.ArticleRepository
	Leads    repo.LeadRepository
	Redis    *redis.Client
	Logger   *logrus.Logger
	CacheTTL time.Duration
}

func NewStatsService(users repo.UserRepository, articles repo.ArticleRepository, leads repo.LeadRepository, rdb *redis.Client, logger *logrus.Logger) *StatsService {
	return &StatsService{
		Users:    users,
		Articles: articles,
		Leads:    leads,
		Redis:    rdb,
		Logger:   logger,
		CacheTTL: time.Minute,
	}
}

func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	if s.Redis != nil {
		var cached DashboardStats
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, statsCacheKey, &cached); err == nil && ok {
			return &cached, nil
		}
	}

	stats := &DashboardStats{}
	var err error
	if stats.Users, err = s.Users.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Articles, err = s.Articles.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Leads, err = s.Leads.Count(ctx); err != nil {
		return nil, err
	}
	if stats.PendingLeads, err = s.Leads.CountByStatus(ctx, entity.LeadStatusPending); err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, statsCacheKey, stats, s.CacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("dashboard stats cache write failed")
		}
	}
	return stats, nil
}
