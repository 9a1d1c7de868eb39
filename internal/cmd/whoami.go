package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmforge/vmforge-cli/internal/guard"
)

// WhoamiCommand represents the whoami command
type WhoamiCommand struct {
	root *RootCommand
	cmd  *cobra.Command
}

// NewWhoamiCommand creates a new whoami command
func NewWhoamiCommand(root *RootCommand) *WhoamiCommand {
	w := &WhoamiCommand{
		root: root,
	}

	w.cmd = &cobra.Command{
		Use:   "whoami",
		Short: "Show the currently authenticated user",
		Long: `Show the username and role of the currently authenticated user.

Example:
  vmforge whoami`,
		RunE: w.Run,
	}

	return w
}

// Command returns the underlying cobra command
func (w *WhoamiCommand) Command() *cobra.Command {
	return w.cmd
}

// Run executes the whoami command
func (w *WhoamiCommand) Run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if err := w.root.requireAccess(ctx, guard.ActionWhoami); err != nil {
		return err
	}

	st := w.root.Container().SessionService().State()

	output, _ := cmd.Flags().GetString("output")
	if output == "json" {
		return json.NewEncoder(os.Stdout).Encode(map[string]string{
			"id":       st.User.ID,
			"username": st.User.Username,
			"role":     st.User.Role.String(),
		})
	}

	fmt.Printf("%s (%s)\n", st.User.Username, st.User.Role)
	return nil
}
