package iface

import (
	"context"
	"time"
)

// DashboardStats summarizes the state of the managed infrastructure
type DashboardStats struct {
	TotalVMs    int `json:"total_vms"`
	RunningVMs  int `json:"running_vms"`
	StoppedVMs  int `json:"stopped_vms"`
	TotalHosts  int `json:"total_hosts"`
	OnlineHosts int `json:"online_hosts"`
	TotalUsers  int `json:"total_users"`
}

// ActivityEntry is a single entry of the panel's recent activity feed
type ActivityEntry struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
}

// DashboardService defines the interface for dashboard data
type DashboardService interface {
	// GetStats returns aggregate infrastructure statistics
	GetStats(ctx context.Context) (*DashboardStats, error)

	// GetActivity returns the most recent activity entries
	GetActivity(ctx context.Context, limit int) ([]ActivityEntry, error)
}
