package application

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/carsphere/carsphere-api/internal/domain/entity"
	repo "github.com/carsphere/carsphere-api/internal/domain/repository"
	"github.com/carsphere/carsphere-api/pkg/helpers"
	"github.com/carsphere/carsphere-api/pkg/validation"
)

const (
	carCacheTTL     = 5 * time.Minute
	carListCacheKey = "cars:all"
)

func carCacheKey(id int64) string {
	return "cars:id:" + strconv.FormatInt(id, 10)
}

// CarInput is the payload for both create and update; the price ceiling is
// a business rule carried over from the catalog's pricing policy.
type CarInput struct {
	Brand string  `json:"brand" validate:"required,max=100"`
	Model string  `json:"model" validate:"required,max=100"`
	Price float64 `json:"price" validate:"required,gt=0,lt=10000"`
}

type CarDTO struct {
	ID        int64     `json:"id"`
	Brand     string    `json:"brand"`
	Model     string    `json:"model"`
	Price     float64   `json:"price"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CarService orchestrates validation, the model-uniqueness guard, entity
// construction, persistence, and the canonical re-read. Redis and
// Elasticsearch are optional; when nil the service degrades to plain
// repository access.
type CarService struct {
	Repo        repo.CarRepository
	Validate    *validator.Validate
	Redis       *redis.Client
	ES          *elasticsearch.Client
	ESCarsIndex string
	GCS         *storage.Client
	GCSBucket   string
	Logger      *logrus.Logger
}

func NewCarService(r repo.CarRepository, v *validator.Validate, rdb *redis.Client, es *elasticsearch.Client, esIndex string, gcs *storage.Client, gcsBucket string, logger *logrus.Logger) *CarService {
	return &CarService{
		Repo:        r,
		Validate:    v,
		Redis:       rdb,
		ES:          es,
		ESCarsIndex: esIndex,
		GCS:         gcs,
		GCSBucket:   gcsBucket,
		Logger:      logger,
	}
}

func (s *CarService) GetByID(ctx context.Context, id int64) (*CarDTO, error) {
	if s.Redis != nil {
		var cached CarDTO
		if ok, err := helpers.CacheGetJSON(ctx, s.Redis, carCacheKey(id), &cached); err == nil && ok {
			return &cached, nil
		}
	}
	car, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if car == nil {
		return nil, fmt.Errorf("id %d: %w", id, ErrCarNotFound)
	}
	dto := carToDTO(car)
	s.cacheSet(ctx, carCacheKey(id), dto)
	return dto, nil
}

func (s *CarService) GetAll(ctx context.Context) ([]*CarDTO, error) {
	if s.Redis != nil {
		var cached []*CarDTO
		if ok, err := helpers.CacheGetJSON(ctx, s.Redis, carListCacheKey, &cached); err == nil && ok {
			return cached, nil
		}
	}
	cars, err := s.Repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*CarDTO, 0, len(cars))
	for _, c := range cars {
		out = append(out, carToDTO(c))
	}
	s.cacheSet(ctx, carListCacheKey, out)
	return out, nil
}

func (s *CarService) Create(ctx context.Context, in CarInput) (*CarDTO, error) {
	if msgs := validation.Messages(s.Validate.Struct(in)); msgs != nil {
		return nil, &ValidationError{Messages: msgs}
	}

	// Uniqueness guard: best-effort pre-check; the unique index on model is
	// the real arbiter under concurrent creates.
	existing, err := s.Repo.GetByModel(ctx, in.Model)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("model %s: %w", in.Model, ErrCarModelExists)
	}

	car, err := entity.NewCar(in.Brand, in.Model, in.Price)
	if err != nil {
		return nil, err
	}
	id, err := s.Repo.Create(ctx, car)
	if err != nil {
		return nil, err
	}

	created, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("id %d: %w", id, ErrCarNotFound)
	}

	s.cacheInvalidate(ctx, id)
	s.indexCar(ctx, created)
	return carToDTO(created), nil
}

func (s *CarService) Update(ctx context.Context, id int64, in CarInput) (*CarDTO, error) {
	if msgs := validation.Messages(s.Validate.Struct(in)); msgs != nil {
		return nil, &ValidationError{Messages: msgs}
	}

	car, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if car == nil {
		return nil, fmt.Errorf("id %d: %w", id, ErrCarNotFound)
	}

	// The model-uniqueness guard only re-runs when the model is changing.
	if car.Model != in.Model {
		existing, err := s.Repo.GetByModel(ctx, in.Model)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("model %s: %w", in.Model, ErrCarModelExists)
		}
	}

	if err := car.Update(in.Brand, in.Model, in.Price); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, car); err != nil {
		return nil, err
	}

	updated, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("id %d: %w", id, ErrCarNotFound)
	}

	s.cacheInvalidate(ctx, id)
	s.indexCar(ctx, updated)
	return carToDTO(updated), nil
}

func (s *CarService) Delete(ctx context.Context, id int64) error {
	exists, err := s.Repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("id %d: %w", id, ErrCarNotFound)
	}
	if _, err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cacheInvalidate(ctx, id)
	s.deleteCarIndex(ctx, id)
	return nil
}

// UploadPhoto stores a listing photo in GCS and persists its public URL.
func (s *CarService) UploadPhoto(ctx context.Context, id int64, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", fmt.Errorf("photo storage not configured")
	}
	exists, err := s.Repo.Exists(ctx, id)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("id %d: %w", id, ErrCarNotFound)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("cars", strconv.FormatInt(id, 10), uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	if err := s.Repo.SetPhotoURL(ctx, id, url); err != nil {
		return "", err
	}
	s.cacheInvalidate(ctx, id)
	return url, nil
}

// Search runs a multi_match query against the car index. Returns raw source
// documents; an unconfigured ES yields an empty result, not an error.
func (s *CarService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESCarsIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"model^2", "brand"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESCarsIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func (s *CarService) cacheSet(ctx context.Context, key string, value any) {
	if s.Redis == nil {
		return
	}
	if err := helpers.CacheSetJSON(ctx, s.Redis, key, value, carCacheTTL); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("key", key).Warn("cache set failed")
	}
}

func (s *CarService) cacheInvalidate(ctx context.Context, id int64) {
	if s.Redis == nil {
		return
	}
	if err := helpers.CacheDel(ctx, s.Redis, carListCacheKey, carCacheKey(id)); err != nil && s.Logger != nil {
		s.Logger.WithError(err).Warn("cache invalidate failed")
	}
}

// indexCar mirrors the stored car into Elasticsearch. Indexing is
// best-effort: a failure is logged and never fails the request.
func (s *CarService) indexCar(ctx context.Context, car *entity.Car) {
	if s.ES == nil || s.ESCarsIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         car.ID,
		"brand":      car.Brand,
		"model":      car.Model,
		"price":      car.Price,
		"created_at": car.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": car.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{
		Index:      s.ESCarsIndex,
		DocumentID: strconv.FormatInt(car.ID, 10),
		Body:       strings.NewReader(string(b)),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("car_id", car.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("car_id", car.ID).Warn("es index response error")
	}
}

func (s *CarService) deleteCarIndex(ctx context.Context, id int64) {
	if s.ES == nil || s.ESCarsIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESCarsIndex, DocumentID: strconv.FormatInt(id, 10)}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("car_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

func carToDTO(c *entity.Car) *CarDTO {
	return &CarDTO{
		ID:        c.ID,
		Brand:     c.Brand,
		Model:     c.Model,
		Price:     c.Price,
		PhotoURL:  c.PhotoURL,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
