package repository

import (
	"context"

	"github.com/carsphere/carsphere-api/internal/domain/entity"
)

// UserRepository defines storage operations for users. Getters return
// (nil, nil) when no row matches; the application layer decides whether
// that is a not-found error.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, u *entity.User) (int64, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	// Delete is unrouted; kept for symmetry with the car repository.
	Delete(ctx context.Context, id int64) (bool, error)
}
