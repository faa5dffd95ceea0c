package dto

import "time"

// CreateUserRequest holds the fields for registering a user
type CreateUserRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100" example:"Ayşe"`
	Surname     string  `json:"surname" validate:"required,min=1,max=100" example:"Yılmaz"`
	PhoneNumber string  `json:"phone_number" validate:"required,min=7,max=20" example:"05321234567"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
}

// UpdateUserRequest holds the mutable user fields; nil means unchanged
type UpdateUserRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Surname     *string `json:"surname,omitempty" validate:"omitempty,min=1,max=100"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,min=7,max=20"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// UserDTO represents a user in API responses
type UserDTO struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Surname     string    `json:"surname"`
	PhoneNumber string    `json:"phone_number"`
	Email       *string   `json:"email,omitempty"`
	IsActive    *bool     `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserListResponse wraps a user page
type UserListResponse struct {
	Message string    `json:"message"`
	Items   []UserDTO `json:"items"`
	Total   int64     `json:"total"`
}
