package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// LogoutCommand represents the logout command
type LogoutCommand struct {
	root *RootCommand
	cmd  *cobra.Command
}

// NewLogoutCommand creates a new logout command
func NewLogoutCommand(root *RootCommand) *LogoutCommand {
	l := &LogoutCommand{
		root: root,
	}

	l.cmd = &cobra.Command{
		Use:   "logout",
		Short: "Log out from the VMForge panel",
		Long: `Log out from the VMForge panel and clear stored credentials.

This command removes your session tokens from local storage. Logging out
while not logged in is harmless.

Example:
  vmforge logout`,
		RunE: l.Run,
	}

	return l
}

// Command returns the underlying cobra command
func (l *LogoutCommand) Command() *cobra.Command {
	return l.cmd
}

// Run executes the logout command
func (l *LogoutCommand) Run(cmd *cobra.Command, args []string) error {
	sess := l.root.Container().SessionService()

	sess.Initialize(cmd.Context())
	sess.Logout()

	fmt.Println("✓ Logged out from the VMForge panel")
	return nil
}
