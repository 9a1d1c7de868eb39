package cmd

import (
	"context"
	"strings"
	"testing"

	"github.com/vmforge/vmforge-cli/internal/di"
	iface "github.com/vmforge/vmforge-cli/internal/service/interface"
	"github.com/vmforge/vmforge-cli/internal/session"
)

func TestUsersListCommand_Run(t *testing.T) {
	tests := []struct {
		name          string
		role          session.Role
		anonymous     bool
		mockUsers     []iface.User
		wantOutput    []string
		wantErr       bool
		wantErrSubstr string
		wantCalled    bool
	}{
		{
			name: "admin can list users",
			role: session.RoleAdmin,
			mockUsers: []iface.User{
				{ID: "u-1", Username: "alice", Role: "admin", IsActive: true},
				{ID: "u-2", Username: "bob", Role: "viewer", IsActive: false},
			},
			wantOutput: []string{"u-1", "alice", "admin", "u-2", "bob", "viewer"},
			wantCalled: true,
		},
		{
			name:          "operator is denied",
			role:          session.RoleOperator,
			wantErr:       true,
			wantErrSubstr: "permission",
		},
		{
			name:          "viewer is denied",
			role:          session.RoleViewer,
			wantErr:       true,
			wantErrSubstr: "permission",
		},
		{
			name:          "anonymous user is told to log in, not about roles",
			anonymous:     true,
			wantErr:       true,
			wantErrSubstr: "not logged in",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := authenticatedSession(tt.role)
			if tt.anonymous {
				sess = &MockSessionService{}
			}

			called := false
			mockUser := &MockUserService{
				ListUsersFunc: func(ctx context.Context) ([]iface.User, error) {
					called = true
					return tt.mockUsers, nil
				},
			}

			container := di.NewContainerWithServices(sess, &MockVMService{}, mockUser, &MockDashboardService{})

			output, err := runCommand(t, container, []string{"users", "list"})

			if (err != nil) != tt.wantErr {
				t.Errorf("Run() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErrSubstr != "" && !strings.Contains(err.Error(), tt.wantErrSubstr) {
				t.Errorf("Error should contain %q, got: %v", tt.wantErrSubstr, err)
			}
			if called != tt.wantCalled {
				t.Errorf("service called = %v, want %v", called, tt.wantCalled)
			}
			for _, want := range tt.wantOutput {
				if !strings.Contains(output, want) {
					t.Errorf("Output should contain %q, got: %s", want, output)
				}
			}
		})
	}
}

func TestUsersDeleteCommand_Run(t *testing.T) {
	deleted := ""
	mockUser := &MockUserService{
		ListUsersFunc: func(ctx context.Context) ([]iface.User, error) {
			return []iface.User{
				{ID: "u-2", Username: "bob", Role: "viewer", IsActive: true},
			}, nil
		},
		DeleteUserFunc: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}

	container := di.NewContainerWithServices(
		authenticatedSession(session.RoleAdmin), &MockVMService{}, mockUser, &MockDashboardService{},
	)

	// --yes skips the interactive confirmation.
	output, err := runCommand(t, container, []string{"users", "delete", "bob", "--yes"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if deleted != "u-2" {
		t.Errorf("deleted ID = %q, want u-2", deleted)
	}
	if !strings.Contains(output, "bob") {
		t.Errorf("Output should confirm deletion of bob, got: %s", output)
	}
}

func TestUsersDeleteCommand_NotFound(t *testing.T) {
	container := di.NewContainerWithServices(
		authenticatedSession(session.RoleAdmin), &MockVMService{}, &MockUserService{}, &MockDashboardService{},
	)

	_, err := runCommand(t, container, []string{"users", "delete", "nobody", "--yes"})
	if err == nil || !strings.Contains(err.Error(), "user not found") {
		t.Errorf("expected user-not-found error, got: %v", err)
	}
}
