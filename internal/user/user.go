// Package user looks up registered users.
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrNotFound = errors.New("user not found")

type User struct {
	ID          int64     `json:"id"`
	Nickname    string    `json:"nickname"`
	Email       string    `json:"email"`
	UserType    string    `json:"user_type"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Repository interface {
	// FindByID returns ErrNotFound for unknown users.
	FindByID(ctx context.Context, id int64) (*User, error)
}

// PhoneService returns a user's phone number.
type PhoneService struct {
	repo Repository
}

func NewPhoneService(repo Repository) *PhoneService {
	return &PhoneService{repo: repo}
}

// Execute returns the phone number of the user, or "" when none is set.
func (s *PhoneService) Execute(ctx context.Context, userID int64) (string, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", err
		}
		return "", fmt.Errorf("find user %d: %w", userID, err)
	}

	return strings.TrimSpace(u.PhoneNumber), nil
}
