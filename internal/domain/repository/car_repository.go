package repository

import (
	"context"

	"github.com/carsphere/carsphere-api/internal/domain/entity"
)

// CarRepository defines storage operations for the car catalog.
type CarRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Car, error)
	GetAll(ctx context.Context) ([]*entity.Car, error)
	GetByModel(ctx context.Context, model string) (*entity.Car, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, car *entity.Car) (int64, error)
	Update(ctx context.Context, car *entity.Car) error
	Delete(ctx context.Context, id int64) (bool, error)
	SetPhotoURL(ctx context.Context, id int64, url string) error
}
