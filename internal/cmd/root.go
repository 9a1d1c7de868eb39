// Package cmd provides the command-line interface for the vmforge CLI.
// It contains all cobra commands and their implementations. Every
// protected command consults the access guard against the bootstrapped
// session before touching the panel.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vmforge/vmforge-cli/internal/di"
	"github.com/vmforge/vmforge-cli/internal/guard"
)

var (
	// Version is set at build time via ldflags
	Version = "dev"
)

// RootCommand represents the root CLI command
type RootCommand struct {
	container *di.Container
	cmd       *cobra.Command

	// Subcommands
	loginCmd     *LoginCommand
	logoutCmd    *LogoutCommand
	whoamiCmd    *WhoamiCommand
	vmsCmd       *VMsCommand
	usersCmd     *UsersCommand
	dashboardCmd *DashboardCommand
}

// NewRootCommand creates a new root command
func NewRootCommand() *RootCommand {
	r := &RootCommand{}

	r.cmd = &cobra.Command{
		Use:   "vmforge",
		Short: "vmforge - Command line interface for the VMForge panel",
		Long: `vmforge is a command-line tool for interacting with a VMForge panel.

VMForge is a self-hosted management panel for virtual machines running on
Proxmox hosts: VM lifecycle, users and roles, ISO and cloud images.

To get started, run:
  vmforge login      - Authenticate with your panel account
  vmforge vms list   - View your virtual machines`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return r.initialize(cmd)
		},
	}

	// Global flags
	r.cmd.PersistentFlags().StringP("output", "o", "text", "Output format (text, json)")
	r.cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	r.cmd.PersistentFlags().String("api-url", "", "Panel API base URL (overrides the configured value)")

	// Initialize subcommands (will be wired after container init)
	r.loginCmd = NewLoginCommand(r)
	r.logoutCmd = NewLogoutCommand(r)
	r.whoamiCmd = NewWhoamiCommand(r)
	r.vmsCmd = NewVMsCommand(r)
	r.usersCmd = NewUsersCommand(r)
	r.dashboardCmd = NewDashboardCommand(r)

	// Add subcommands
	r.cmd.AddCommand(r.loginCmd.Command())
	r.cmd.AddCommand(r.logoutCmd.Command())
	r.cmd.AddCommand(r.whoamiCmd.Command())
	r.cmd.AddCommand(r.vmsCmd.Command())
	r.cmd.AddCommand(r.usersCmd.Command())
	r.cmd.AddCommand(r.dashboardCmd.Command())

	return r
}

// initialize sets up the DI container
func (r *RootCommand) initialize(cmd *cobra.Command) error {
	// Skip if container is already set (e.g., for testing)
	if r.container != nil {
		return nil
	}

	level := zerolog.WarnLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	apiURL, _ := cmd.Flags().GetString("api-url")

	var err error
	r.container, err = di.NewContainer(log, apiURL)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	return nil
}

// requireAccess bootstraps the session and evaluates the access guard
// for the given action. Redirect decisions are rendered as guidance:
// to-login means the user must authenticate, anything else means the
// account lacks the required role.
func (r *RootCommand) requireAccess(ctx context.Context, action guard.Action) error {
	sess := r.container.SessionService()

	// Bootstrap completes before the guard decides; the guard never
	// evaluates a half-initialized snapshot.
	sess.Initialize(ctx)

	decision := guard.Check(sess.State(), action)
	if decision.Allowed {
		return nil
	}

	if decision.Redirect == guard.ActionLogin {
		return fmt.Errorf("not logged in. Please run 'vmforge login' first")
	}
	return fmt.Errorf("your account does not have permission to run this command")
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.cmd.Execute()
}

// Command returns the underlying cobra command
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// Container returns the DI container
func (r *RootCommand) Container() *di.Container {
	return r.container
}

// SetContainer sets a custom container (for testing)
func (r *RootCommand) SetContainer(c *di.Container) {
	r.container = c
}

// Execute is the main entry point for the CLI
func Execute() error {
	root := NewRootCommand()
	return root.Execute()
}

// ExitWithError prints an error message and exits with code 1
func ExitWithError(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	}
	os.Exit(1)
}
