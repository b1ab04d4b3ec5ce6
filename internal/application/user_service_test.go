package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carsphere/carsphere-api/internal/application"
	"github.com/carsphere/carsphere-api/internal/domain/entity"
	"github.com/carsphere/carsphere-api/pkg/helpers"
	"github.com/carsphere/carsphere-api/pkg/validation"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func testTokens() *helpers.TokenManager {
	return &helpers.TokenManager{
		Secret:   []byte("test-secret"),
		Issuer:   "carsphere-api",
		Audience: "carsphere-clients",
		TTL:      time.Hour,
	}
}

func newUserService(repo *MockUserRepository) *application.UserService {
	return application.NewUserService(repo, validation.New(), testTokens(), nil, logrus.New())
}

func storedUser(id int64, email, name, password string) *entity.User {
	hash, _ := helpers.HashPassword(password)
	now := time.Now().UTC()
	return &entity.User{ID: id, Email: email, Name: name, PasswordHash: hash, CreatedAt: now, UpdatedAt: now}
}

func TestUserService_Register_Success(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newUserService(repo)

	repo.On("ExistsByEmail", mock.Anything, "demo@carsphere.dev").Return(false, nil).Once()
	repo.On("ExistsByName", mock.Anything, "demo_user").Return(false, nil).Once()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
		// the plaintext never reaches the repository
		return u.PasswordHash != "password123" && helpers.CheckPassword(u.PasswordHash, "password123")
	})).Return(int64(7), nil).Once()
	repo.On("GetByID", mock.Anything, int64(7)).Return(storedUser(7, "demo@carsphere.dev", "demo_user", "password123"), nil).Once()

	user, err := svc.Register(context.Background(), application.RegisterInput{
		Email:    "demo@carsphere.dev",
		Name:     "demo_user",
		Password: "password123",
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), user.ID)
	require.Equal(t, "demo_user", user.Name)
	repo.AssertExpectations(t)
}

func TestUserService_Register_EmailTaken(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newUserService(repo)

	repo.On("ExistsByEmail", mock.Anything, "demo@carsphere.dev").Return(true, nil).Once()

	_, err := svc.Register(context.Background(), application.RegisterInput{
		Email:    "demo@carsphere.dev",
		Name:     "demo_user",
		Password: "password123",
	})
	require.ErrorIs(t, err, application.ErrEmailExists)
	// the username guard must not run once the email guard fails
	repo.AssertNotCalled(t, "ExistsByName", mock.Anything, mock.Anything)
}

func TestUserService_Register_NameTaken(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newUserService(repo)

	repo.On("ExistsByEmail", mock.Anything, "other@carsphere.dev").Return(false, nil).Once()
	repo.On("ExistsByName", mock.Anything, "demo_user").Return(true, nil).Once()

	_, err := svc.Register(context.Background(), application.RegisterInput{
		Email:    "other@carsphere.dev",
		Name:     "demo_user",
		Password: "password123",
	})
	require.ErrorIs(t, err, application.ErrNameExists)
	repo.AssertExpectations(t)
}

func TestUserService_Register_Validation(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newUserService(repo)

	tests := []struct {
		name  string
		in    application.RegisterInput
		field string
	}{
		{"bad email", application.RegisterInput{Email: "not-an-email", Name: "demo_user", Password: "password123"}, "email"},
		{"short username", application.RegisterInput{Email: "a@b.io", Name: "ab", Password: "password123"}, "name"},
		{"username charset", application.RegisterInput{Email: "a@b.io", Name: "bad name!", Password: "password123"}, "name"},
		{"short password", application.RegisterInput{Email: "a@b.io", Name: "demo_user", Password: "12345"}, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.in)
			var verr *application.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Messages, 1)
			require.Contains(t, verr.Messages[0], tt.field)
		})
	}
}

func TestUserService_Login_Success(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newUserService(repo)

	repo.On("GetByEmail", mock.Anything, "demo@carsphere.dev").Return(storedUser(7, "demo@carsphere.dev", "demo_user", "password123"), nil).Once()

	res, err := svc.Login(context.Background(), application.LoginInput{Email: "demo@carsphere.dev", Password: "password123"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	require.Equal(t, int64(7), res.User.ID)

	uid, err := testTokens().Parse(res.Token)
	require.NoError(t, err)
	require.Equal(t, int64(7), uid)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newUserService(repo)

	repo.On("GetByEmail", mock.Anything, "demo@carsphere.dev").Return(storedUser(7, "demo@carsphere.dev", "demo_user", "password123"), nil).Once()

	_, err := svc.Login(context.Background(), application.LoginInput{Email: "demo@carsphere.dev", Password: "wrong-password"})
	require.ErrorIs(t, err, application.ErrInvalidCredentials)
}

func TestUserService_Login_UnknownEmail(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newUserService(repo)

	repo.On("GetByEmail", mock.Anything, "nobody@carsphere.dev").Return(nil, nil).Once()

	_, err := svc.Login(context.Background(), application.LoginInput{Email: "nobody@carsphere.dev", Password: "password123"})
	// indistinguishable from a wrong password on purpose
	require.ErrorIs(t, err, application.ErrInvalidCredentials)
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newUserService(repo)

	repo.On("GetByID", mock.Anything, int64(42)).Return(nil, nil).Once()

	_, err := svc.GetByID(context.Background(), 42)
	require.ErrorIs(t, err, application.ErrUserNotFound)
}
