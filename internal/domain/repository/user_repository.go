package repository

import (
	"context"

	"github.com/portalnorte/noticias-backend/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
// Implementations translate a unique-email violation into application-level
// duplicate handling via ErrDuplicateEmail from the postgres package.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	SetVerified(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	List(ctx context.Context) ([]*entity.User, error)
	Count(ctx context.Context) (int64, error)
}
