package service

import (
	"context"
	"fmt"

	"github.com/vmforge/vmforge-cli/internal/api"
	iface "github.com/vmforge/vmforge-cli/internal/service/interface"
)

// dashboardService implements iface.DashboardService
type dashboardService struct {
	client *api.Client
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(client *api.Client) iface.DashboardService {
	return &dashboardService{client: client}
}

// GetStats returns aggregate infrastructure statistics
func (s *dashboardService) GetStats(ctx context.Context) (*iface.DashboardStats, error) {
	var stats iface.DashboardStats
	if err := s.client.Get(ctx, "/api/v1/dashboard/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// activityResponse represents the response from the activity endpoint
type activityResponse struct {
	Entries []iface.ActivityEntry `json:"entries"`
}

// GetActivity returns the most recent activity entries
func (s *dashboardService) GetActivity(ctx context.Context, limit int) ([]iface.ActivityEntry, error) {
	path := fmt.Sprintf("/api/v1/dashboard/activity?limit=%d", limit)
	var resp activityResponse
	if err := s.client.Get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}
