package domain

import (
	"net/mail"
	"strings"
	"time"
)

// Item is a stocked product.
type Item struct {
	ID          int64
	Name        string
	Cost        *float64
	Description *string
	Quantity    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ItemInput carries the writable fields of an Item.
type ItemInput struct {
	Name        string
	Cost        *float64
	Description *string
	Quantity    int
}

// Validate checks the invariants of an item write.
func (in ItemInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return NewValidationError("name", "cannot be empty")
	}
	if in.Cost != nil && *in.Cost < 0 {
		return NewValidationError("cost", "cannot be negative")
	}
	if in.Quantity < 0 {
		return NewValidationError("quantity", "cannot be negative")
	}
	return nil
}

// User is an account. PasswordHash never leaves the service.
type User struct {
	ID           int64
	FirstName    *string
	LastName     *string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUserInput carries the fields needed to register a user.
type NewUserInput struct {
	FirstName *string
	LastName  *string
	Email     string
	Password  string
	IsAdmin   bool
}

// Validate checks the invariants of a user registration.
func (in NewUserInput) Validate() error {
	addr, err := mail.ParseAddress(in.Email)
	if err != nil || addr.Address != in.Email {
		return NewValidationError("email", "must be a valid email address")
	}
	if len(in.Password) < MinPasswordLength {
		return NewValidationError("password", "is too short")
	}
	return nil
}
