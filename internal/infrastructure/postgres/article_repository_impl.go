package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/portalnorte/noticias-backend/internal/domain/entity"
	"github.com/portalnorte/noticias-backend/internal/domain/repository"
)

const articleColumns = `id, title, summary, body, category, image_path, created_at, updated_at`

type ArticleRepository struct {
	pool *pgxpool.Pool
}

func NewArticleRepository(pool *pgxpool.Pool) *ArticleRepository {
	return &ArticleRepository{pool: pool}
}

func (r *ArticleRepository) Create(ctx context.Context, a *entity.Article) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO articles (title, summary, body, category, image_path)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, a.Title, a.Summary, a.Body, a.Category, a.ImagePath)
	return row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *ArticleRepository) GetByID(ctx context.Context, id string) (*entity.Article, error) {
	return scanArticle(r.pool.QueryRow(ctx, `
		SELECT `+articleColumns+` FROM articles WHERE id = $1
	`, id))
}

func (r *ArticleRepository) List(ctx context.Context, category string) ([]*entity.Article, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if category != "" {
		rows, err = r.pool.Query(ctx, `
			SELECT `+articleColumns+` FROM articles
			WHERE category = $1
			ORDER BY created_at DESC
		`, category)
	} else {
		rows, err = r.pool.Query(ctx, `
			SELECT `+articleColumns+` FROM articles
			ORDER BY created_at DESC
		`)
	}
	if err != nil {
		return nil, err
	}
	return collectArticles(rows)
}

// Search is the ILIKE fallback used when Elasticsearch is not configured.
func (r *ArticleRepository) Search(ctx context.Context, query string, limit int) ([]*entity.Article, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+articleColumns+` FROM articles
		WHERE title ILIKE '%' || $1 || '%'
		   OR summary ILIKE '%' || $1 || '%'
		   OR body ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
		LIMIT $2
	`, query, limit)
	if err != nil {
		return nil, err
	}
	return collectArticles(rows)
}

func (r *ArticleRepository) Update(ctx context.Context, a *entity.Article) error {
	a.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE articles
		SET title = $1, summary = $2, body = $3, category = $4, image_path = $5, updated_at = $6
		WHERE id = $7
	`, a.Title, a.Summary, a.Body, a.Category, a.ImagePath, a.UpdatedAt, a.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ArticleRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ArticleRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM articles`).Scan(&n)
	return n, err
}

func scanArticle(row pgx.Row) (*entity.Article, error) {
	a := &entity.Article{}
	if err := row.Scan(&a.ID, &a.Title, &a.Summary, &a.Body, &a.Category,
		&a.ImagePath, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func collectArticles(rows pgx.Rows) ([]*entity.Article, error) {
	defer rows.Close()
	var out []*entity.Article
	for rows.Next() {
		a := &entity.Article{}
		if err := rows.Scan(&a.ID, &a.Title, &a.Summary, &a.Body, &a.Category,
			&a.ImagePath, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

var _ repository.ArticleRepository = (*ArticleRepository)(nil)
