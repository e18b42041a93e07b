package dto

import (
	"time"

	"fastai/src/core/domain"
)

// CreateUserRequest is the payload for POST /v1/users.
type CreateUserRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=255"`
	LastName  *string `json:"last_name" binding:"omitempty,max=255"`
	Email     string  `json:"email" binding:"required,max=255"`
	Password  string  `json:"password" binding:"required"`
	IsAdmin   bool    `json:"is_admin"`
}

func (r CreateUserRequest) ToInput() domain.NewUserInput {
	return domain.NewUserInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Password:  r.Password,
		IsAdmin:   r.IsAdmin,
	}
}

// UserResponse is the public view of a user. The password hash is never
// part of it.
type UserResponse struct {
	ID        int64     `json:"id"`
	FirstName *string   `json:"first_name"`
	LastName  *string   `json:"last_name"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
