package repository

import (
	"context"

	"github.com/portalnorte/noticias-backend/internal/domain/entity"
)

// ArticleRepository persists news articles.
type ArticleRepository interface {
	Create(ctx context.Context, a *entity.Article) error
	GetByID(ctx context.Context, id string) (*entity.Article, error)
	List(ctx context.Context, category string) ([]*entity.Article, error)
	Search(ctx context.Context, query string, limit int) ([]*entity.Article, error)
	Update(ctx context.Context, a *entity.Article) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
