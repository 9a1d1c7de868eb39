// Package service implements the resource services of the vmforge CLI on
// top of the panel API client. Token attachment and refresh are handled
// by the client; services only deal in resource payloads.
package service

import (
	"context"
	"fmt"

	"github.com/vmforge/vmforge-cli/internal/api"
	iface "github.com/vmforge/vmforge-cli/internal/service/interface"
)

// vmService implements iface.VMService
type vmService struct {
	client *api.Client
}

// NewVMService creates a new virtual machine service
func NewVMService(client *api.Client) iface.VMService {
	return &vmService{client: client}
}

// vmListResponse represents the response from the VM list endpoint
type vmListResponse struct {
	VMs []iface.VM `json:"vms"`
}

// ListVMs returns all virtual machines visible to the user
func (s *vmService) ListVMs(ctx context.Context) ([]iface.VM, error) {
	var resp vmListResponse
	if err := s.client.Get(ctx, "/api/v1/vms/", &resp); err != nil {
		return nil, err
	}
	return resp.VMs, nil
}

// GetVM returns a virtual machine by ID
func (s *vmService) GetVM(ctx context.Context, id string) (*iface.VM, error) {
	path := fmt.Sprintf("/api/v1/vms/%s", id)
	var vm iface.VM
	if err := s.client.Get(ctx, path, &vm); err != nil {
		return nil, err
	}
	return &vm, nil
}

// StartVM powers on a virtual machine
func (s *vmService) StartVM(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/v1/vms/%s/start", id)
	return s.client.Post(ctx, path, nil, nil)
}

// StopVM powers off a virtual machine
func (s *vmService) StopVM(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/v1/vms/%s/stop", id)
	return s.client.Post(ctx, path, nil, nil)
}

// RestartVM restarts a virtual machine
func (s *vmService) RestartVM(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/v1/vms/%s/restart", id)
	return s.client.Post(ctx, path, nil, nil)
}
