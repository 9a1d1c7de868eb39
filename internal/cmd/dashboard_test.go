package cmd

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/vmforge/vmforge-cli/internal/config"
	"github.com/vmforge/vmforge-cli/internal/di"
	iface "github.com/vmforge/vmforge-cli/internal/service/interface"
	"github.com/vmforge/vmforge-cli/internal/session"
)

func TestDashboardCommand_Run(t *testing.T) {
	mockDashboard := &MockDashboardService{
		GetStatsFunc: func(ctx context.Context) (*iface.DashboardStats, error) {
			return &iface.DashboardStats{
				TotalVMs: 5, RunningVMs: 3, StoppedVMs: 2,
				TotalHosts: 2, OnlineHosts: 2, TotalUsers: 4,
			}, nil
		},
		GetActivityFunc: func(ctx context.Context, limit int) ([]iface.ActivityEntry, error) {
			return []iface.ActivityEntry{
				{ID: "a-1", Action: "vm.start", Username: "alice", Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
			}, nil
		},
	}

	container := di.NewContainerWithServices(
		authenticatedSession(session.RoleViewer), &MockVMService{}, &MockUserService{}, mockDashboard,
	)

	output, err := runCommand(t, container, []string{"dashboard"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for _, want := range []string{"5 total", "3 running", "2 stopped", "vm.start", "alice"} {
		if !strings.Contains(output, want) {
			t.Errorf("Output should contain %q, got: %s", want, output)
		}
	}
}

func TestDashboardOpenCommand_Run(t *testing.T) {
	container := di.NewContainerWithServices(
		authenticatedSession(session.RoleViewer), &MockVMService{}, &MockUserService{}, &MockDashboardService{},
	)

	root := NewRootCommand()
	root.SetContainer(container)

	opened := ""
	root.dashboardCmd.openCmd.openURL = func(url string) error {
		opened = url
		return nil
	}

	root.Command().SetArgs([]string{"dashboard", "open"})
	if err := root.Command().Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if opened != config.DefaultAPIURL {
		t.Errorf("opened URL = %q, want %q", opened, config.DefaultAPIURL)
	}
}

func TestDashboardCommand_Anonymous(t *testing.T) {
	container := di.NewContainerWithServices(
		&MockSessionService{}, &MockVMService{}, &MockUserService{}, &MockDashboardService{},
	)

	_, err := runCommand(t, container, []string{"dashboard"})
	if err == nil || !strings.Contains(err.Error(), "not logged in") {
		t.Errorf("expected not-logged-in error, got: %v", err)
	}
}
