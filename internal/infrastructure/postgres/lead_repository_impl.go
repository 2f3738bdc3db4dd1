package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/portalnorte/noticias-backend/internal/domain/entity"
	"github.com/portalnorte/noticias-backend/internal/domain/repository"
)

const leadColumns = `id, name, company, contact, kind, message, image_path, status, created_at`

type LeadRepository struct {
	pool *pgxpool.Pool
}

func NewLeadRepository(pool *pgxpool.Pool) *LeadRepository {
	return &LeadRepository{pool: pool}
}

func (r *LeadRepository) Create(ctx context.Context, l *entity.Lead) error {
	if l.Status == "" {
		l.Status = entity.LeadStatusPending
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (name, company, contact, kind, message, image_path, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, l.Name, l.Company, l.Contact, l.Kind, l.Message, l.ImagePath, l.Status)
	return row.Scan(&l.ID, &l.CreatedAt)
}

func (r *LeadRepository) GetByID(ctx context.Context, id string) (*entity.Lead, error) {
	l := &entity.Lead{}
	err := r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+` FROM leads WHERE id = $1
	`, id).Scan(&l.ID, &l.Name, &l.Company, &l.Contact, &l.Kind, &l.Message,
		&l.ImagePath, &l.Status, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (r *LeadRepository) List(ctx context.Context, status string) ([]*entity.Lead, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if status != "" {
		rows, err = r.pool.Query(ctx, `
			SELECT `+leadColumns+` FROM leads
			WHERE status = $1
			ORDER BY created_at DESC
		`, status)
	} else {
		rows, err = r.pool.Query(ctx, `
			SELECT `+leadColumns+` FROM leads
			ORDER BY created_at DESC
		`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Lead
	for rows.Next() {
		l := &entity.Lead{}
		if err := rows.Scan(&l.ID, &l.Name, &l.Company, &l.Contact, &l.Kind,
			&l.Message, &l.ImagePath, &l.Status, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *LeadRepository) Update(ctx context.Context, l *entity.Lead) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET name = $1, company = $2, contact = $3, kind = $4, message = $5,
		    image_path = $6, status = $7
		WHERE id = $8
	`, l.Name, l.Company, l.Contact, l.Kind, l.Message, l.ImagePath, l.Status, l.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *LeadRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM leads`).Scan(&n)
	return n, err
}

func (r *LeadRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM leads WHERE status = $1`, status).Scan(&n)
	return n, err
}

var _ repository.LeadRepository = (*LeadRepository)(nil)
