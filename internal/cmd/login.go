package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/vmforge/vmforge-cli/internal/guard"
	"github.com/vmforge/vmforge-cli/internal/session"
)

// LoginCommand represents the login command
type LoginCommand struct {
	root *RootCommand
	cmd  *cobra.Command
}

// NewLoginCommand creates a new login command
func NewLoginCommand(root *RootCommand) *LoginCommand {
	l := &LoginCommand{
		root: root,
	}

	l.cmd = &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the VMForge panel",
		Long: `Authenticate with the VMForge panel using your account credentials.

The username and password are prompted for interactively unless provided
via flags. After successful authentication, your session tokens are stored
locally and renewed automatically when they expire.

Examples:
  vmforge login
  vmforge login --username admin`,
		RunE: l.Run,
	}

	l.cmd.Flags().StringP("username", "u", "", "Panel username")
	l.cmd.Flags().StringP("password", "p", "", "Panel password (prompted when omitted)")

	return l
}

// Command returns the underlying cobra command
func (l *LoginCommand) Command() *cobra.Command {
	return l.cmd
}

// Run executes the login command
func (l *LoginCommand) Run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess := l.root.Container().SessionService()

	sess.Initialize(ctx)
	if decision := guard.Check(sess.State(), guard.ActionLogin); !decision.Allowed {
		// Logging in while authenticated loops back to the landing page.
		st := sess.State()
		return fmt.Errorf("already logged in as %s. Use 'vmforge logout' first to switch accounts", st.User.Username)
	}

	creds, err := l.credentials(cmd)
	if err != nil {
		return err
	}

	if err := sess.Login(ctx, creds); err != nil {
		return err
	}

	fmt.Printf("✓ Successfully logged in as %s\n", sess.State().User.Username)
	return nil
}

// credentials collects the username and password from flags or prompts
func (l *LoginCommand) credentials(cmd *cobra.Command) (session.Credentials, error) {
	var creds session.Credentials

	creds.Username, _ = cmd.Flags().GetString("username")
	creds.Password, _ = cmd.Flags().GetString("password")

	if creds.Username == "" {
		if err := survey.AskOne(&survey.Input{
			Message: "Username:",
		}, &creds.Username, survey.WithValidator(survey.Required)); err != nil {
			return creds, err
		}
	}

	if creds.Password == "" {
		if err := survey.AskOne(&survey.Password{
			Message: "Password:",
		}, &creds.Password, survey.WithValidator(survey.Required)); err != nil {
			return creds, err
		}
	}

	return creds, nil
}
