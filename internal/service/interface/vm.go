package iface

import (
	"context"
)

// VM represents a virtual machine managed by the panel
type VM struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	VMID      int    `json:"vmid"`
	Node      string `json:"node"`
	Status    string `json:"status"`
	CPUCores  int    `json:"cpu_cores"`
	MemoryMB  int    `json:"memory_mb"`
	DiskGB    int    `json:"disk_gb"`
	IPAddress string `json:"ip_address,omitempty"`
}

// VMService defines the interface for virtual machine operations
type VMService interface {
	// ListVMs returns all virtual machines visible to the user
	ListVMs(ctx context.Context) ([]VM, error)

	// GetVM returns a virtual machine by ID
	GetVM(ctx context.Context, id string) (*VM, error)

	// StartVM powers on a virtual machine
	StartVM(ctx context.Context, id string) error

	// StopVM powers off a virtual machine
	StopVM(ctx context.Context, id string) error

	// RestartVM restarts a virtual machine
	RestartVM(ctx context.Context, id string) error
}
