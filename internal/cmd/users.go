package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/vmforge/vmforge-cli/internal/guard"
	iface "github.com/vmforge/vmforge-cli/internal/service/interface"
)

// UsersCommand represents the users command group
type UsersCommand struct {
	root *RootCommand
	cmd  *cobra.Command

	// Subcommands
	listCmd   *UsersListCommand
	createCmd *UsersCreateCommand
	deleteCmd *UsersDeleteCommand
	passwdCmd *UsersPasswdCommand
}

// NewUsersCommand creates a new users command
func NewUsersCommand(root *RootCommand) *UsersCommand {
	u := &UsersCommand{
		root: root,
	}

	u.cmd = &cobra.Command{
		Use:   "users",
		Short: "Manage panel user accounts",
		Long: `Manage the user accounts of your VMForge panel.

User management requires the admin role. Changing your own password is
available to every authenticated user.`,
	}

	// Initialize subcommands
	u.listCmd = NewUsersListCommand(u)
	u.createCmd = NewUsersCreateCommand(u)
	u.deleteCmd = NewUsersDeleteCommand(u)
	u.passwdCmd = NewUsersPasswdCommand(u)

	// Add subcommands
	u.cmd.AddCommand(u.listCmd.Command())
	u.cmd.AddCommand(u.createCmd.Command())
	u.cmd.AddCommand(u.deleteCmd.Command())
	u.cmd.AddCommand(u.passwdCmd.Command())

	return u
}

// Command returns the underlying cobra command
func (u *UsersCommand) Command() *cobra.Command {
	return u.cmd
}

// Root returns the parent root command
func (u *UsersCommand) Root() *RootCommand {
	return u.root
}

// UsersListCommand represents the users list command
type UsersListCommand struct {
	parent *UsersCommand
	cmd    *cobra.Command
}

// NewUsersListCommand creates a new users list command
func NewUsersListCommand(parent *UsersCommand) *UsersListCommand {
	l := &UsersListCommand{
		parent: parent,
	}

	l.cmd = &cobra.Command{
		Use:   "list",
		Short: "List all user accounts",
		Long: `List all user accounts of the panel.

Requires the admin role.

Examples:
  vmforge users list
  vmforge users list -o json`,
		RunE: l.Run,
	}

	return l
}

// Command returns the underlying cobra command
func (l *UsersListCommand) Command() *cobra.Command {
	return l.cmd
}

// Run executes the users list command
func (l *UsersListCommand) Run(cmd *cobra.Command, args []string) error {
	root := l.parent.Root()

	if err := root.requireAccess(cmd.Context(), guard.ActionUsers); err != nil {
		return err
	}

	users, err := root.Container().UserService().ListUsers(cmd.Context())
	if err != nil {
		return err
	}

	// Get output format
	outputFormat, _ := cmd.Flags().GetString("output")
	if outputFormat == "" {
		outputFormat, _ = cmd.Parent().Parent().PersistentFlags().GetString("output")
	}

	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(users)
	default:
		return l.outputTable(users)
	}
}

// outputTable outputs user accounts in table format
func (l *UsersListCommand) outputTable(users []iface.User) error {
	if len(users) == 0 {
		fmt.Println("No users found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tROLE\tACTIVE")
	fmt.Fprintln(w, "--\t--------\t----\t------")

	for _, u := range users {
		active := "no"
		if u.IsActive {
			active = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Username, u.Role, active)
	}

	return w.Flush()
}

// UsersCreateCommand represents the users create command
type UsersCreateCommand struct {
	parent *UsersCommand
	cmd    *cobra.Command
}

// NewUsersCreateCommand creates a new users create command
func NewUsersCreateCommand(parent *UsersCommand) *UsersCreateCommand {
	c := &UsersCreateCommand{
		parent: parent,
	}

	c.cmd = &cobra.Command{
		Use:   "create",
		Short: "Create a new user account",
		Long: `Create a new user account with an interactive wizard.

Requires the admin role.

Example:
  vmforge users create`,
		RunE: c.Run,
	}

	return c
}

// Command returns the underlying cobra command
func (c *UsersCreateCommand) Command() *cobra.Command {
	return c.cmd
}

// Run executes the users create command with interactive wizard
func (c *UsersCreateCommand) Run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	root := c.parent.Root()

	if err := root.requireAccess(ctx, guard.ActionUsers); err != nil {
		return err
	}

	// Step 1: Username
	var username string
	if err := survey.AskOne(&survey.Input{
		Message: "Username:",
	}, &username, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	// Step 2: Email (optional)
	var email string
	if err := survey.AskOne(&survey.Input{
		Message: "Email (optional):",
	}, &email); err != nil {
		return err
	}

	// Step 3: Password
	var password string
	if err := survey.AskOne(&survey.Password{
		Message: "Password:",
	}, &password, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	// Step 4: Role
	var role string
	if err := survey.AskOne(&survey.Select{
		Message: "Role:",
		Options: []string{"viewer", "operator", "admin"},
		Default: "viewer",
	}, &role); err != nil {
		return err
	}

	input := &iface.CreateUserInput{
		Username: username,
		Email:    email,
		Password: password,
		Role:     role,
	}

	if err := root.Container().UserService().CreateUser(ctx, input); err != nil {
		return err
	}

	fmt.Printf("\n✓ User \"%s\" created with role %s\n", username, role)
	return nil
}

// UsersDeleteCommand represents the users delete command
type UsersDeleteCommand struct {
	parent *UsersCommand
	cmd    *cobra.Command
}

// NewUsersDeleteCommand creates a new users delete command
func NewUsersDeleteCommand(parent *UsersCommand) *UsersDeleteCommand {
	d := &UsersDeleteCommand{
		parent: parent,
	}

	d.cmd = &cobra.Command{
		Use:   "delete <username-or-id>",
		Short: "Delete a user account",
		Long: `Delete a user account.

You can specify the user by username or ID. Requires the admin role.

Examples:
  vmforge users delete alice
  vmforge users delete 5f809f2f-0787-40ca-9a43-a3a59edb5400`,
		Args: cobra.ExactArgs(1),
		RunE: d.Run,
	}

	d.cmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")

	return d
}

// Command returns the underlying cobra command
func (d *UsersDeleteCommand) Command() *cobra.Command {
	return d.cmd
}

// Run executes the users delete command
func (d *UsersDeleteCommand) Run(cmd *cobra.Command, args []string) error {
	nameOrID := args[0]
	ctx := cmd.Context()
	root := d.parent.Root()

	if err := root.requireAccess(ctx, guard.ActionUsers); err != nil {
		return err
	}

	userService := root.Container().UserService()

	// Fetch all users to find by username or ID
	users, err := userService.ListUsers(ctx)
	if err != nil {
		return err
	}

	var user *iface.User
	for i := range users {
		u := &users[i]
		if u.ID == nameOrID || u.Username == nameOrID {
			user = u
			break
		}
	}

	if user == nil {
		return fmt.Errorf("user not found: %s\n\nUse 'vmforge users list' to see existing accounts", nameOrID)
	}

	// Check for --yes flag
	skipConfirm, _ := cmd.Flags().GetBool("yes")

	if !skipConfirm {
		var confirm bool
		if err := survey.AskOne(&survey.Confirm{
			Message: fmt.Sprintf("Delete user \"%s\" (%s)?", user.Username, user.Role),
			Default: false,
		}, &confirm); err != nil {
			return err
		}

		if !confirm {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := userService.DeleteUser(ctx, user.ID); err != nil {
		return err
	}

	fmt.Printf("✓ User \"%s\" deleted\n", user.Username)
	return nil
}

// UsersPasswdCommand represents the users passwd command
type UsersPasswdCommand struct {
	parent *UsersCommand
	cmd    *cobra.Command
}

// NewUsersPasswdCommand creates a new users passwd command
func NewUsersPasswdCommand(parent *UsersCommand) *UsersPasswdCommand {
	p := &UsersPasswdCommand{
		parent: parent,
	}

	p.cmd = &cobra.Command{
		Use:   "passwd",
		Short: "Change your own password",
		Long: `Change the password of the currently authenticated account.

Example:
  vmforge users passwd`,
		RunE: p.Run,
	}

	return p
}

// Command returns the underlying cobra command
func (p *UsersPasswdCommand) Command() *cobra.Command {
	return p.cmd
}

// Run executes the users passwd command
func (p *UsersPasswdCommand) Run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	root := p.parent.Root()

	// Any authenticated user may change their own password.
	if err := root.requireAccess(ctx, guard.ActionPasswd); err != nil {
		return err
	}

	var current string
	if err := survey.AskOne(&survey.Password{
		Message: "Current password:",
	}, &current, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	var updated string
	if err := survey.AskOne(&survey.Password{
		Message: "New password:",
	}, &updated, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	if err := root.Container().UserService().ChangePassword(ctx, current, updated); err != nil {
		return err
	}

	fmt.Println("✓ Password changed")
	return nil
}
