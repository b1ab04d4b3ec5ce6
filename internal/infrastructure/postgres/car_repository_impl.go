package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carsphere/carsphere-api/internal/domain/entity"
	"github.com/carsphere/carsphere-api/internal/domain/repository"
)

type CarRepository struct {
	pool *pgxpool.Pool
}

func NewCarRepository(pool *pgxpool.Pool) *CarRepository {
	return &CarRepository{pool: pool}
}

const carColumns = `id, brand, model, price, photo_url, created_at, updated_at`

func scanCar(row pgx.Row) (*entity.Car, error) {
	c := &entity.Car{}
	err := row.Scan(&c.ID, &c.Brand, &c.Model, &c.Price, &c.PhotoURL, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CarRepository) GetByID(ctx context.Context, id int64) (*entity.Car, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+carColumns+`
		FROM cars
		WHERE id = $1
	`, id)
	return scanCar(row)
}

func (r *CarRepository) GetAll(ctx context.Context) ([]*entity.Car, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+carColumns+`
		FROM cars
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cars := make([]*entity.Car, 0)
	for rows.Next() {
		c := &entity.Car{}
		if err := rows.Scan(&c.ID, &c.Brand, &c.Model, &c.Price, &c.PhotoURL, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		cars = append(cars, c)
	}
	return cars, rows.Err()
}

func (r *CarRepository) GetByModel(ctx context.Context, model string) (*entity.Car, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+carColumns+`
		FROM cars
		WHERE model = $1
	`, model)
	return scanCar(row)
}

func (r *CarRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM cars WHERE id = $1)
	`, id).Scan(&exists)
	return exists, err
}

func (r *CarRepository) Create(ctx context.Context, car *entity.Car) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO cars (brand, model, price, photo_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, car.Brand, car.Model, car.Price, car.PhotoURL, car.CreatedAt, car.UpdatedAt).Scan(&id)
	return id, err
}

func (r *CarRepository) Update(ctx context.Context, car *entity.Car) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE cars
		SET brand = $1, model = $2, price = $3, updated_at = $4
		WHERE id = $5
	`, car.Brand, car.Model, car.Price, car.UpdatedAt, car.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *CarRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.pool.Exec(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (r *CarRepository) SetPhotoURL(ctx context.Context, id int64, url string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE cars
		SET photo_url = $1, updated_at = now()
		WHERE id = $2
	`, url, id)
	return err
}

var _ repository.CarRepository = (*CarRepository)(nil)
