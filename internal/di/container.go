// Package di provides dependency injection for the vmforge CLI.
// It contains the service container and factory functions.
package di

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vmforge/vmforge-cli/internal/api"
	"github.com/vmforge/vmforge-cli/internal/config"
	"github.com/vmforge/vmforge-cli/internal/notify"
	"github.com/vmforge/vmforge-cli/internal/service"
	iface "github.com/vmforge/vmforge-cli/internal/service/interface"
	"github.com/vmforge/vmforge-cli/internal/session"
)

// Container holds all service dependencies for the CLI.
// Services are accessed via interfaces to enable mocking in tests.
type Container struct {
	configManager    *config.Manager
	apiClient        *api.Client
	notifier         notify.Notifier
	sessionService   iface.SessionService
	vmService        iface.VMService
	userService      iface.UserService
	dashboardService iface.DashboardService
}

// NewContainer creates a new dependency container with default
// implementations: one shared API client over the persistent token
// store, one session wired as the client's session-expired hook.
// A non-empty apiURL overrides the configured panel endpoint.
func NewContainer(log zerolog.Logger, apiURL string) (*Container, error) {
	configManager, err := config.NewManager()
	if err != nil {
		return nil, err
	}

	if apiURL == "" {
		apiURL, err = configManager.GetAPIURL()
		if err != nil {
			return nil, err
		}
	}

	notifier := notify.NewStderr()
	apiClient := api.NewClient(apiURL, configManager, log)
	sess := session.New(apiClient, configManager, notifier, log)
	apiClient.OnSessionExpired(sess.Invalidate)

	return &Container{
		configManager:    configManager,
		apiClient:        apiClient,
		notifier:         notifier,
		sessionService:   sess,
		vmService:        service.NewVMService(apiClient),
		userService:      service.NewUserService(apiClient),
		dashboardService: service.NewDashboardService(apiClient),
	}, nil
}

// NewContainerWithServices creates a container with custom service
// implementations. This is useful for testing with mock services.
// The config manager points at a throwaway path so commands that read
// settings work against a test container.
func NewContainerWithServices(
	sessionService iface.SessionService,
	vmService iface.VMService,
	userService iface.UserService,
	dashboardService iface.DashboardService,
) *Container {
	configPath := filepath.Join(os.TempDir(), "vmforge-test-"+uuid.NewString(), config.ConfigFileName)
	return &Container{
		configManager:    config.NewManagerWithPath(configPath),
		notifier:         notify.Nop{},
		sessionService:   sessionService,
		vmService:        vmService,
		userService:      userService,
		dashboardService: dashboardService,
	}
}

// SessionService returns the authenticated session
func (c *Container) SessionService() iface.SessionService {
	return c.sessionService
}

// VMService returns the virtual machine service
func (c *Container) VMService() iface.VMService {
	return c.vmService
}

// UserService returns the user management service
func (c *Container) UserService() iface.UserService {
	return c.userService
}

// DashboardService returns the dashboard service
func (c *Container) DashboardService() iface.DashboardService {
	return c.dashboardService
}

// ConfigManager returns the config manager
func (c *Container) ConfigManager() *config.Manager {
	return c.configManager
}

// Notifier returns the user-facing notifier
func (c *Container) Notifier() notify.Notifier {
	return c.notifier
}
