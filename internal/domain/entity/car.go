package entity

import (
	"strings"
	"time"
)

// Car is a catalog listing. Model is unique across the catalog; the
// repository layer scans stored rows straight into the struct without
// re-running validation (trusted source), so all user-supplied input must
// come through NewCar or Update.
type Car struct {
	ID        int64
	Brand     string
	Model     string
	Price     float64
	PhotoURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCar validates user-supplied fields and sets both timestamps to now,
// so updated_at == created_at for a freshly constructed car.
func NewCar(brand, model string, price float64) (*Car, error) {
	if err := checkCarFields(brand, model, price); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Car{
		Brand:     brand,
		Model:     model,
		Price:     price,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Update applies a validated mutation and bumps UpdatedAt. CreatedAt is
// never touched after construction.
func (c *Car) Update(brand, model string, price float64) error {
	if err := checkCarFields(brand, model, price); err != nil {
		return err
	}
	c.Brand = brand
	c.Model = model
	c.Price = price
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func checkCarFields(brand, model string, price float64) error {
	if strings.TrimSpace(brand) == "" {
		return invalidArg("brand", "cannot be empty")
	}
	if strings.TrimSpace(model) == "" {
		return invalidArg("model", "cannot be empty")
	}
	if price <= 0 {
		return invalidArg("price", "must be greater than zero")
	}
	return nil
}
