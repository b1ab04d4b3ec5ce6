package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carsphere/carsphere-api/internal/application"
	"github.com/carsphere/carsphere-api/internal/domain/entity"
	handlers "github.com/carsphere/carsphere-api/internal/interface/http"
	"github.com/carsphere/carsphere-api/internal/router"
	"github.com/carsphere/carsphere-api/internal/router/modules"
	"github.com/carsphere/carsphere-api/pkg/helpers"
	"github.com/carsphere/carsphere-api/pkg/validation"
)

type carRepoStub struct {
	mock.Mock
}

func (m *carRepoStub) GetByID(ctx context.Context, id int64) (*entity.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Car), args.Error(1)
}

func (m *carRepoStub) GetAll(ctx context.Context) ([]*entity.Car, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Car), args.Error(1)
}

func (m *carRepoStub) GetByModel(ctx context.Context, model string) (*entity.Car, error) {
	args := m.Called(ctx, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Car), args.Error(1)
}

func (m *carRepoStub) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *carRepoStub) Create(ctx context.Context, car *entity.Car) (int64, error) {
	args := m.Called(ctx, car)
	return args.Get(0).(int64), args.Error(1)
}

func (m *carRepoStub) Update(ctx context.Context, car *entity.Car) error {
	return m.Called(ctx, car).Error(0)
}

func (m *carRepoStub) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *carRepoStub) SetPhotoURL(ctx context.Context, id int64, url string) error {
	return m.Called(ctx, id, url).Error(0)
}

type userRepoStub struct {
	mock.Mock
}

func (m *userRepoStub) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *userRepoStub) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *userRepoStub) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *userRepoStub) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *userRepoStub) Create(ctx context.Context, user *entity.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *userRepoStub) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *userRepoStub) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

var testSecret = &helpers.TokenManager{
	Secret:   []byte("test-secret"),
	Issuer:   "carsphere-api",
	Audience: "carsphere-clients",
	TTL:      time.Hour,
}

func newAPI(t *testing.T, carRepo *carRepoStub, userRepo *userRepoStub) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	v := validation.New()

	carSvc := application.NewCarService(carRepo, v, nil, nil, "", nil, "", logger)
	userSvc := application.NewUserService(userRepo, v, testSecret, nil, logger)

	engine := gin.New()
	reg := router.NewRegistry(engine)
	reg.Add(modules.NewAuthModule(handlers.NewAuthHandler(userSvc, logger)))
	reg.Add(modules.NewCarModule(handlers.NewCarHandler(carSvc, logger), testSecret))
	reg.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, logger), testSecret))
	reg.RegisterAll()
	return engine
}

func doJSON(engine *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func bearer(t *testing.T, uid int64) string {
	t.Helper()
	token, _, err := testSecret.Generate(uid)
	require.NoError(t, err)
	return token
}

func seededCar(id int64) *entity.Car {
	now := time.Now().UTC()
	return &entity.Car{ID: id, Brand: "Toyota", Model: "Corolla", Price: 9000, CreatedAt: now, UpdatedAt: now}
}

func TestRegister(t *testing.T) {
	userRepo := new(userRepoStub)
	engine := newAPI(t, new(carRepoStub), userRepo)

	hash, _ := helpers.HashPassword("password123")
	now := time.Now().UTC()
	stored := &entity.User{ID: 7, Email: "demo@carsphere.dev", Name: "demo_user", PasswordHash: hash, CreatedAt: now, UpdatedAt: now}

	userRepo.On("ExistsByEmail", mock.Anything, "demo@carsphere.dev").Return(false, nil).Once()
	userRepo.On("ExistsByName", mock.Anything, "demo_user").Return(false, nil).Once()
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).Return(int64(7), nil).Once()
	userRepo.On("GetByID", mock.Anything, int64(7)).Return(stored, nil).Once()

	rec := doJSON(engine, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "demo@carsphere.dev", "name": "demo_user", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeEnvelope(t, rec)
	require.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	require.Equal(t, "demo_user", data["name"])
	// the password hash never leaves the service layer
	require.NotContains(t, rec.Body.String(), hash)
}

func TestRegister_ValidationMessages(t *testing.T) {
	engine := newAPI(t, new(carRepoStub), new(userRepoStub))

	rec := doJSON(engine, http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "not-an-email", "name": "ab", "password": "123",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeEnvelope(t, rec)
	require.Equal(t, false, body["success"])
	msgs := body["error"].([]any)
	require.Len(t, msgs, 3)
	require.Contains(t, msgs[0], "email")
	require.Contains(t, msgs[1], "name")
	require.Contains(t, msgs[2], "password")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	userRepo := new(userRepoStub)
	engine := newAPI(t, new(carRepoStub), userRepo)

	userRepo.On("GetByEmail", mock.Anything, "demo@carsphere.dev").Return(nil, nil).Once()

	rec := doJSON(engine, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "demo@carsphere.dev", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid email or password")
}

func TestLogin_IssuesParsableToken(t *testing.T) {
	userRepo := new(userRepoStub)
	engine := newAPI(t, new(carRepoStub), userRepo)

	hash, _ := helpers.HashPassword("password123")
	now := time.Now().UTC()
	userRepo.On("GetByEmail", mock.Anything, "demo@carsphere.dev").Return(&entity.User{
		ID: 7, Email: "demo@carsphere.dev", Name: "demo_user", PasswordHash: hash, CreatedAt: now, UpdatedAt: now,
	}, nil).Once()

	rec := doJSON(engine, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "demo@carsphere.dev", "password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	uid, err := testSecret.Parse(data["token"].(string))
	require.NoError(t, err)
	require.Equal(t, int64(7), uid)
}

func TestCars_RequireAuth(t *testing.T) {
	engine := newAPI(t, new(carRepoStub), new(userRepoStub))

	for _, path := range []string{"/api/cars", "/api/cars/1", "/api/users/me"} {
		rec := doJSON(engine, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec := doJSON(engine, http.MethodGet, "/api/cars", "garbage-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCars_Get(t *testing.T) {
	carRepo := new(carRepoStub)
	engine := newAPI(t, carRepo, new(userRepoStub))
	token := bearer(t, 7)

	carRepo.On("GetByID", mock.Anything, int64(1)).Return(seededCar(1), nil).Once()
	rec := doJSON(engine, http.MethodGet, "/api/cars/1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	require.Equal(t, "Corolla", data["model"])
	require.Equal(t, 9000.0, data["price"])

	carRepo.On("GetByID", mock.Anything, int64(42)).Return(nil, nil).Once()
	rec = doJSON(engine, http.MethodGet, "/api/cars/42", token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(engine, http.MethodGet, "/api/cars/abc", token, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCars_Create(t *testing.T) {
	carRepo := new(carRepoStub)
	engine := newAPI(t, carRepo, new(userRepoStub))
	token := bearer(t, 7)

	carRepo.On("GetByModel", mock.Anything, "Corolla").Return(nil, nil).Once()
	carRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Car")).Return(int64(1), nil).Once()
	carRepo.On("GetByID", mock.Anything, int64(1)).Return(seededCar(1), nil).Once()

	rec := doJSON(engine, http.MethodPost, "/api/cars", token, gin.H{
		"brand": "Toyota", "model": "Corolla", "price": 9000,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	require.Equal(t, float64(1), data["id"])
}

func TestCars_Create_DuplicateModel(t *testing.T) {
	carRepo := new(carRepoStub)
	engine := newAPI(t, carRepo, new(userRepoStub))

	carRepo.On("GetByModel", mock.Anything, "Corolla").Return(seededCar(1), nil).Once()

	rec := doJSON(engine, http.MethodPost, "/api/cars", bearer(t, 7), gin.H{
		"brand": "Honda", "model": "Corolla", "price": 8000,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "model already exists")
}

func TestCars_Create_PriceCeiling(t *testing.T) {
	engine := newAPI(t, new(carRepoStub), new(userRepoStub))

	rec := doJSON(engine, http.MethodPost, "/api/cars", bearer(t, 7), gin.H{
		"brand": "Toyota", "model": "Corolla", "price": 15000,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeEnvelope(t, rec)
	msgs := body["error"].([]any)
	require.Len(t, msgs, 1)
	require.Contains(t, msgs[0], "price must be less than 10000")
}

func TestCars_Delete(t *testing.T) {
	carRepo := new(carRepoStub)
	engine := newAPI(t, carRepo, new(userRepoStub))

	carRepo.On("Exists", mock.Anything, int64(1)).Return(true, nil).Once()
	carRepo.On("Delete", mock.Anything, int64(1)).Return(true, nil).Once()

	rec := doJSON(engine, http.MethodDelete, "/api/cars/1", bearer(t, 7), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Body.String())
}

func TestUsers_Me(t *testing.T) {
	userRepo := new(userRepoStub)
	engine := newAPI(t, new(carRepoStub), userRepo)

	hash, _ := helpers.HashPassword("password123")
	now := time.Now().UTC()
	userRepo.On("GetByID", mock.Anything, int64(7)).Return(&entity.User{
		ID: 7, Email: "demo@carsphere.dev", Name: "demo_user", PasswordHash: hash, CreatedAt: now, UpdatedAt: now,
	}, nil).Once()

	rec := doJSON(engine, http.MethodGet, "/api/users/me", bearer(t, 7), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	require.Equal(t, float64(7), data["id"])
	require.Equal(t, "demo@carsphere.dev", data["email"])
}
