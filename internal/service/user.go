package service

import (
	"context"
	"fmt"

	"github.com/vmforge/vmforge-cli/internal/api"
	iface "github.com/vmforge/vmforge-cli/internal/service/interface"
)

// userService implements iface.UserService
type userService struct {
	client *api.Client
}

// NewUserService creates a new user management service
func NewUserService(client *api.Client) iface.UserService {
	return &userService{client: client}
}

// userListResponse represents the response from the user list endpoint
type userListResponse struct {
	Users []iface.User `json:"users"`
}

// ListUsers returns all user accounts
func (s *userService) ListUsers(ctx context.Context) ([]iface.User, error) {
	var resp userListResponse
	if err := s.client.Get(ctx, "/api/v1/users/", &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// CreateUser creates a new user account
func (s *userService) CreateUser(ctx context.Context, input *iface.CreateUserInput) error {
	return s.client.Post(ctx, "/api/v1/users/", input, nil)
}

// DeleteUser deletes a user account by ID
func (s *userService) DeleteUser(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/v1/users/%s", id)
	return s.client.Delete(ctx, path, nil)
}

// changePasswordRequest represents the change-password request body
type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword changes the current user's password
func (s *userService) ChangePassword(ctx context.Context, current, updated string) error {
	body := changePasswordRequest{
		CurrentPassword: current,
		NewPassword:     updated,
	}
	return s.client.Post(ctx, "/api/v1/users/change-password", body, nil)
}
