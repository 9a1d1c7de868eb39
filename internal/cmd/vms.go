package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vmforge/vmforge-cli/internal/guard"
	iface "github.com/vmforge/vmforge-cli/internal/service/interface"
)

// VMsCommand represents the vms command group
type VMsCommand struct {
	root *RootCommand
	cmd  *cobra.Command

	// Subcommands
	listCmd    *VMsListCommand
	getCmd     *VMsGetCommand
	startCmd   *VMsControlCommand
	stopCmd    *VMsControlCommand
	restartCmd *VMsControlCommand
}

// NewVMsCommand creates a new vms command
func NewVMsCommand(root *RootCommand) *VMsCommand {
	v := &VMsCommand{
		root: root,
	}

	v.cmd = &cobra.Command{
		Use:   "vms",
		Short: "Manage virtual machines",
		Long: `Manage the virtual machines of your VMForge panel.

Listing and inspecting machines is available to every authenticated user;
power control requires the operator or admin role.`,
	}

	// Initialize subcommands
	v.listCmd = NewVMsListCommand(v)
	v.getCmd = NewVMsGetCommand(v)
	v.startCmd = NewVMsControlCommand(v, "start")
	v.stopCmd = NewVMsControlCommand(v, "stop")
	v.restartCmd = NewVMsControlCommand(v, "restart")

	// Add subcommands
	v.cmd.AddCommand(v.listCmd.Command())
	v.cmd.AddCommand(v.getCmd.Command())
	v.cmd.AddCommand(v.startCmd.Command())
	v.cmd.AddCommand(v.stopCmd.Command())
	v.cmd.AddCommand(v.restartCmd.Command())

	return v
}

// Command returns the underlying cobra command
func (v *VMsCommand) Command() *cobra.Command {
	return v.cmd
}

// Root returns the parent root command
func (v *VMsCommand) Root() *RootCommand {
	return v.root
}

// VMsListCommand represents the vms list command
type VMsListCommand struct {
	parent *VMsCommand
	cmd    *cobra.Command
}

// NewVMsListCommand creates a new vms list command
func NewVMsListCommand(parent *VMsCommand) *VMsListCommand {
	l := &VMsListCommand{
		parent: parent,
	}

	l.cmd = &cobra.Command{
		Use:   "list",
		Short: "List all virtual machines",
		Long: `List all virtual machines visible to your account.

Examples:
  vmforge vms list
  vmforge vms list -o json`,
		RunE: l.Run,
	}

	return l
}

// Command returns the underlying cobra command
func (l *VMsListCommand) Command() *cobra.Command {
	return l.cmd
}

// Run executes the vms list command
func (l *VMsListCommand) Run(cmd *cobra.Command, args []string) error {
	root := l.parent.Root()

	if err := root.requireAccess(cmd.Context(), guard.ActionVMList); err != nil {
		return err
	}

	vms, err := root.Container().VMService().ListVMs(cmd.Context())
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
		return l.outputJSON(vms)
	default:
		return l.outputTable(vms)
	}
}

// outputJSON outputs virtual machines in JSON format
func (l *VMsListCommand) outputJSON(vms []iface.VM) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(vms)
}

// outputTable outputs virtual machines in table format
func (l *VMsListCommand) outputTable(vms []iface.VM) error {
	if len(vms) == 0 {
		fmt.Println("No virtual machines found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tVMID\tNODE\tSTATUS\tCPU\tMEMORY")
	fmt.Fprintln(w, "--\t----\t----\t----\t------\t---\t------")

	for _, vm := range vms {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%d\t%d MB\n",
			vm.ID,
			vm.Name,
			vm.VMID,
			vm.Node,
			vm.Status,
			vm.CPUCores,
			vm.MemoryMB,
		)
	}

	return w.Flush()
}

// VMsGetCommand represents the vms get command
type VMsGetCommand struct {
	parent *VMsCommand
	cmd    *cobra.Command
}

// NewVMsGetCommand creates a new vms get command
func NewVMsGetCommand(parent *VMsCommand) *VMsGetCommand {
	g := &VMsGetCommand{
		parent: parent,
	}

	g.cmd = &cobra.Command{
		Use:   "get <vm-id>",
		Short: "Get a virtual machine by ID",
		Long: `Get detailed information about a specific virtual machine.

Examples:
  vmforge vms get 5f809f2f-0787-40ca-9a43-a3a59edb5400
  vmforge vms get 5f809f2f-0787-40ca-9a43-a3a59edb5400 -o json`,
		Args: cobra.ExactArgs(1),
		RunE: g.Run,
	}

	return g
}

// Command returns the underlying cobra command
func (g *VMsGetCommand) Command() *cobra.Command {
	return g.cmd
}

// Run executes the vms get command
func (g *VMsGetCommand) Run(cmd *cobra.Command, args []string) error {
	root := g.parent.Root()

	if err := root.requireAccess(cmd.Context(), guard.ActionVMGet); err != nil {
		return err
	}

	vm, err := root.Container().VMService().GetVM(cmd.Context(), args[0])
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
		return encoder.Encode(vm)
	default:
		return g.outputDetail(vm)
	}
}

// outputDetail outputs VM details in human-readable format
func (g *VMsGetCommand) outputDetail(vm *iface.VM) error {
	fmt.Printf("VM:     %s\n", vm.Name)
	fmt.Printf("ID:     %s\n", vm.ID)
	fmt.Printf("VMID:   %d\n", vm.VMID)
	fmt.Printf("Node:   %s\n", vm.Node)
	fmt.Printf("Status: %s\n", vm.Status)
	fmt.Printf("CPU:    %d cores\n", vm.CPUCores)
	fmt.Printf("Memory: %d MB\n", vm.MemoryMB)
	fmt.Printf("Disk:   %d GB\n", vm.DiskGB)

	if vm.IPAddress != "" {
		fmt.Printf("IP:     %s\n", vm.IPAddress)
	}

	return nil
}

// VMsControlCommand represents a VM power control command
// (start, stop or restart)
type VMsControlCommand struct {
	parent *VMsCommand
	cmd    *cobra.Command
	verb   string
}

// NewVMsControlCommand creates a new VM power control command
func NewVMsControlCommand(parent *VMsCommand, verb string) *VMsControlCommand {
	c := &VMsControlCommand{
		parent: parent,
		verb:   verb,
	}

	c.cmd = &cobra.Command{
		Use:   fmt.Sprintf("%s <vm-id>", verb),
		Short: fmt.Sprintf("%s a virtual machine", capitalize(verb)),
		Long: fmt.Sprintf(`%s a virtual machine.

Power control requires the operator or admin role.

Example:
  vmforge vms %s 5f809f2f-0787-40ca-9a43-a3a59edb5400`, capitalize(verb), verb),
		Args: cobra.ExactArgs(1),
		RunE: c.Run,
	}

	return c
}

// Command returns the underlying cobra command
func (c *VMsControlCommand) Command() *cobra.Command {
	return c.cmd
}

// Run executes the power control command
func (c *VMsControlCommand) Run(cmd *cobra.Command, args []string) error {
	root := c.parent.Root()
	vmID := args[0]

	if err := root.requireAccess(cmd.Context(), guard.ActionVMControl); err != nil {
		return err
	}

	vmService := root.Container().VMService()

	var err error
	switch c.verb {
	case "start":
		err = vmService.StartVM(cmd.Context(), vmID)
	case "stop":
		err = vmService.StopVM(cmd.Context(), vmID)
	case "restart":
		err = vmService.RestartVM(cmd.Context(), vmID)
	default:
		err = fmt.Errorf("unknown control verb: %s", c.verb)
	}
	if err != nil {
		return err
	}

	fmt.Printf("✓ VM %s %s requested\n", vmID, c.verb)
	return nil
}

// capitalize upper-cases the first letter of a verb
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
