package iface

import (
	"context"
)

// User represents a panel user account
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// CreateUserInput represents the input for creating a user account
type CreateUserInput struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UserService defines the interface for user management operations
type UserService interface {
	// ListUsers returns all user accounts
	ListUsers(ctx context.Context) ([]User, error)

	// CreateUser creates a new user account
	CreateUser(ctx context.Context, input *CreateUserInput) error

	// DeleteUser deletes a user account by ID
	DeleteUser(ctx context.Context, id string) error

	// ChangePassword changes the current user's password
	ChangePassword(ctx context.Context, current, updated string) error
}
