package entity

import (
	"net/mail"
	"strings"
	"time"
)

// User is the aggregate root for the user domain.
// PasswordHash holds a bcrypt hash; the plaintext never reaches the entity.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser validates registration fields. Uniqueness of email/name is an
// application-level concern; the entity only checks shape.
func NewUser(email, name, passwordHash string) (*User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, invalidArg("email", "cannot be empty")
	}
	if !validEmail(email) {
		return nil, invalidArg("email", "invalid format")
	}
	if strings.TrimSpace(name) == "" {
		return nil, invalidArg("name", "cannot be empty")
	}
	if strings.TrimSpace(passwordHash) == "" {
		return nil, invalidArg("password_hash", "cannot be empty")
	}
	now := time.Now().UTC()
	return &User{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// UpdatePassword is the only mutation a user supports.
func (u *User) UpdatePassword(passwordHash string) error {
	if strings.TrimSpace(passwordHash) == "" {
		return invalidArg("password_hash", "cannot be empty")
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
