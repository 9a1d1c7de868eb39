package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/vmforge/vmforge-cli/internal/guard"
)

// DashboardCommand represents the dashboard command group
type DashboardCommand struct {
	root *RootCommand
	cmd  *cobra.Command

	openCmd *DashboardOpenCommand
}

// NewDashboardCommand creates a new dashboard command
func NewDashboardCommand(root *RootCommand) *DashboardCommand {
	d := &DashboardCommand{
		root: root,
	}

	d.cmd = &cobra.Command{
		Use:   "dashboard",
		Short: "Show panel statistics and recent activity",
		Long: `Show aggregate statistics and recent activity of the VMForge panel.

Examples:
  vmforge dashboard
  vmforge dashboard -o json
  vmforge dashboard open`,
		RunE: d.Run,
	}

	d.openCmd = NewDashboardOpenCommand(d)
	d.cmd.AddCommand(d.openCmd.Command())

	return d
}

// Command returns the underlying cobra command
func (d *DashboardCommand) Command() *cobra.Command {
	return d.cmd
}

// Root returns the parent root command
func (d *DashboardCommand) Root() *RootCommand {
	return d.root
}

// Run executes the dashboard command
func (d *DashboardCommand) Run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if err := d.root.requireAccess(ctx, guard.ActionDashboard); err != nil {
		return err
	}

	dashboardService := d.root.Container().DashboardService()

	stats, err := dashboardService.GetStats(ctx)
	if err != nil {
		return err
	}

	activity, err := dashboardService.GetActivity(ctx, 10)
	if err != nil {
		return err
	}

	outputFormat, _ := cmd.Flags().GetString("output")
	if outputFormat == "" {
		outputFormat, _ = cmd.Parent().PersistentFlags().GetString("output")
	}

	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string]interface{}{
			"stats":    stats,
			"activity": activity,
		})
	}

	fmt.Printf("Virtual machines: %d total, %d running, %d stopped\n",
		stats.TotalVMs, stats.RunningVMs, stats.StoppedVMs)
	fmt.Printf("Hosts:            %d total, %d online\n",
		stats.TotalHosts, stats.OnlineHosts)
	fmt.Printf("Users:            %d\n", stats.TotalUsers)

	if len(activity) > 0 {
		fmt.Println("\nRecent activity:")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, entry := range activity {
			fmt.Fprintf(w, "  %s\t%s\t%s\n",
				entry.Timestamp.Format("2006-01-02 15:04"),
				entry.Username,
				entry.Action,
			)
		}
		w.Flush()
	}

	return nil
}

// DashboardOpenCommand represents the dashboard open command
type DashboardOpenCommand struct {
	parent *DashboardCommand
	cmd    *cobra.Command

	// openURL launches the browser; replaceable in tests
	openURL func(url string) error
}

// NewDashboardOpenCommand creates a new dashboard open command
func NewDashboardOpenCommand(parent *DashboardCommand) *DashboardOpenCommand {
	o := &DashboardOpenCommand{
		parent:  parent,
		openURL: browser.OpenURL,
	}

	o.cmd = &cobra.Command{
		Use:   "open",
		Short: "Open the panel web UI in the browser",
		Long: `Open the VMForge panel web UI in your default browser.

Example:
  vmforge dashboard open`,
		RunE: o.Run,
	}

	return o
}

// Command returns the underlying cobra command
func (o *DashboardOpenCommand) Command() *cobra.Command {
	return o.cmd
}

// Run executes the dashboard open command
func (o *DashboardOpenCommand) Run(cmd *cobra.Command, args []string) error {
	root := o.parent.Root()

	if err := root.requireAccess(cmd.Context(), guard.ActionDashboard); err != nil {
		return err
	}

	apiURL, err := root.Container().ConfigManager().GetAPIURL()
	if err != nil {
		return err
	}

	fmt.Printf("Opening %s ...\n", apiURL)
	return o.openURL(apiURL)
}
