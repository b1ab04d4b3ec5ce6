package application

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/carsphere/carsphere-api/internal/domain/entity"
	repo "github.com/carsphere/carsphere-api/internal/domain/repository"
	"github.com/carsphere/carsphere-api/pkg/helpers"
	"github.com/carsphere/carsphere-api/pkg/mailer"
	"github.com/carsphere/carsphere-api/pkg/validation"
)

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=100"`
	Name     string `json:"name" validate:"required,min=3,max=50,username"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserDTO is the public projection; the password hash never leaves the
// service.
type UserDTO struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *UserDTO  `json:"user"`
}

// UserService handles registration, login, and profile lookup. The
// publisher is optional; when nil no welcome email is enqueued.
type UserService struct {
	Repo     repo.UserRepository
	Validate *validator.Validate
	Tokens   *helpers.TokenManager
	Pub      *helpers.RabbitPublisher
	Logger   *logrus.Logger
}

func NewUserService(r repo.UserRepository, v *validator.Validate, tokens *helpers.TokenManager, pub *helpers.RabbitPublisher, logger *logrus.Logger) *UserService {
	return &UserService{Repo: r, Validate: v, Tokens: tokens, Pub: pub, Logger: logger}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*UserDTO, error) {
	if msgs := validation.Messages(s.Validate.Struct(in)); msgs != nil {
		return nil, &ValidationError{Messages: msgs}
	}

	// Two distinct uniqueness guards; either can fail independently.
	taken, err := s.Repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%s: %w", in.Email, ErrEmailExists)
	}
	taken, err = s.Repo.ExistsByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%s: %w", in.Name, ErrNameExists)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u, err := entity.NewUser(in.Email, in.Name, hash)
	if err != nil {
		return nil, err
	}

	id, err := s.Repo.Create(ctx, u)
	if err != nil {
		return nil, err
	}
	created, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("id %d: %w", id, ErrUserNotFound)
	}

	s.enqueueWelcome(ctx, created)
	return userToDTO(created), nil
}

// Login returns a single InvalidCredentials error for both an unknown email
// and a wrong password so the response does not leak which one was wrong.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if msgs := validation.Messages(s.Validate.Struct(in)); msgs != nil {
		return nil, &ValidationError{Messages: msgs}
	}

	u, err := s.Repo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if u == nil || !helpers.CheckPassword(u.PasswordHash, in.Password) {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.Tokens.Generate(u.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("token generation failed")
		}
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: userToDTO(u)}, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*UserDTO, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("id %d: %w", id, ErrUserNotFound)
	}
	return userToDTO(u), nil
}

// enqueueWelcome publishes the welcome-email job best-effort; registration
// never fails because the broker is down.
func (s *UserService) enqueueWelcome(ctx context.Context, u *entity.User) {
	if s.Pub == nil {
		return
	}
	job := mailer.EmailJob{To: u.Email, Name: u.Name, Template: "welcome"}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome email enqueue failed")
	}
}

func userToDTO(u *entity.User) *UserDTO {
	return &UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
