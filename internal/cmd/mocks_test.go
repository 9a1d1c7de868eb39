package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/vmforge/vmforge-cli/internal/di"
	iface "github.com/vmforge/vmforge-cli/internal/service/interface"
	"github.com/vmforge/vmforge-cli/internal/session"
)

// MockSessionService is a mock implementation of iface.SessionService
type MockSessionService struct {
	LoginFunc      func(ctx context.Context, creds session.Credentials) error
	LogoutFunc     func()
	FetchUserFunc  func(ctx context.Context) error
	InitializeFunc func(ctx context.Context)
	StateFunc      func() session.State
}

func (m *MockSessionService) Login(ctx context.Context, creds session.Credentials) error {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, creds)
	}
	return nil
}

func (m *MockSessionService) Logout() {
	if m.LogoutFunc != nil {
		m.LogoutFunc()
	}
}

func (m *MockSessionService) FetchUser(ctx context.Context) error {
	if m.FetchUserFunc != nil {
		return m.FetchUserFunc(ctx)
	}
	return nil
}

func (m *MockSessionService) Initialize(ctx context.Context) {
	if m.InitializeFunc != nil {
		m.InitializeFunc(ctx)
	}
}

func (m *MockSessionService) State() session.State {
	if m.StateFunc != nil {
		return m.StateFunc()
	}
	return session.State{}
}

// authenticatedSession returns a mock session authenticated with the
// given role
func authenticatedSession(role session.Role) *MockSessionService {
	return &MockSessionService{
		StateFunc: func() session.State {
			return session.State{
				User:          &session.User{ID: "u-1", Username: "alice", Role: role},
				Authenticated: true,
			}
		},
	}
}

// MockVMService is a mock implementation of iface.VMService
type MockVMService struct {
	ListVMsFunc   func(ctx context.Context) ([]iface.VM, error)
	GetVMFunc     func(ctx context.Context, id string) (*iface.VM, error)
	StartVMFunc   func(ctx context.Context, id string) error
	StopVMFunc    func(ctx context.Context, id string) error
	RestartVMFunc func(ctx context.Context, id string) error
}

func (m *MockVMService) ListVMs(ctx context.Context) ([]iface.VM, error) {
	if m.ListVMsFunc != nil {
		return m.ListVMsFunc(ctx)
	}
	return nil, nil
}

func (m *MockVMService) GetVM(ctx context.Context, id string) (*iface.VM, error) {
	if m.GetVMFunc != nil {
		return m.GetVMFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockVMService) StartVM(ctx context.Context, id string) error {
	if m.StartVMFunc != nil {
		return m.StartVMFunc(ctx, id)
	}
	return nil
}

func (m *MockVMService) StopVM(ctx context.Context, id string) error {
	if m.StopVMFunc != nil {
		return m.StopVMFunc(ctx, id)
	}
	return nil
}

func (m *MockVMService) RestartVM(ctx context.Context, id string) error {
	if m.RestartVMFunc != nil {
		return m.RestartVMFunc(ctx, id)
	}
	return nil
}

// MockUserService is a mock implementation of iface.UserService
type MockUserService struct {
	ListUsersFunc      func(ctx context.Context) ([]iface.User, error)
	CreateUserFunc     func(ctx context.Context, input *iface.CreateUserInput) error
	DeleteUserFunc     func(ctx context.Context, id string) error
	ChangePasswordFunc func(ctx context.Context, current, updated string) error
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]iface.User, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx)
	}
	return nil, nil
}

func (m *MockUserService) CreateUser(ctx context.Context, input *iface.CreateUserInput) error {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, input)
	}
	return nil
}

func (m *MockUserService) DeleteUser(ctx context.Context, id string) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(ctx, id)
	}
	return nil
}

func (m *MockUserService) ChangePassword(ctx context.Context, current, updated string) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, current, updated)
	}
	return nil
}

// MockDashboardService is a mock implementation of iface.DashboardService
type MockDashboardService struct {
	GetStatsFunc    func(ctx context.Context) (*iface.DashboardStats, error)
	GetActivityFunc func(ctx context.Context, limit int) ([]iface.ActivityEntry, error)
}

func (m *MockDashboardService) GetStats(ctx context.Context) (*iface.DashboardStats, error) {
	if m.GetStatsFunc != nil {
		return m.GetStatsFunc(ctx)
	}
	return &iface.DashboardStats{}, nil
}

func (m *MockDashboardService) GetActivity(ctx context.Context, limit int) ([]iface.ActivityEntry, error) {
	if m.GetActivityFunc != nil {
		return m.GetActivityFunc(ctx, limit)
	}
	return nil, nil
}

// runCommand builds a root command around the given container, executes
// args and returns the captured stdout
func runCommand(t *testing.T, container *di.Container, args []string) (string, error) {
	t.Helper()

	root := NewRootCommand()
	root.SetContainer(container)

	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	root.Command().SetArgs(args)
	err := root.Command().Execute()

	// Restore stdout and read output
	w.Close()
	os.Stdout = oldStdout
	var buf bytes.Buffer
	io.Copy(&buf, r)

	return buf.String(), err
}
