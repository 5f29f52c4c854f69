package main

import (
	"fmt"
	"io"

	"github.com/nao1215/reportscope/internal/model"
	"github.com/spf13/cobra"
)

// NewProjectsCmd creates the projects command.
func NewProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List projects and their scans",
		Long: `Projects lists every project known to the report service together
with the id, time and user of each of its scans.

Examples:
  # List all projects
  reportscope projects

  # Only print project ids and names
  reportscope projects --brief`,
		Args: cobra.NoArgs,
		RunE: runProjectsCmd,
	}

	cmd.Flags().BoolP("brief", "b", false, "Omit the scan listing")

	return cmd
}

// runProjectsCmd executes the projects command.
func runProjectsCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	brief, err := cmd.Flags().GetBool("brief")
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	// The list is the entry point of every workflow; a failure ends the command.
	projects, err := a.client.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	writeProjects(cmd.OutOrStdout(), projects, !brief)
	return nil
}

// writeProjects prints projects in service order.
func writeProjects(w io.Writer, projects []model.Project, withScans bool) {
	if len(projects) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No projects."))
		return
	}
	for i, p := range projects {
		fmt.Fprintf(w, "%d. %s %s\n", i+1, titleStyle.Render(p.Name), mutedStyle.Render("("+p.ID+")"))
		if withScans {
			writeScans(w, p.Scans)
		}
	}
}

// writeScans prints the scan summaries of one project.
func writeScans(w io.Writer, scans []model.ScanSummary) {
	if len(scans) == 0 {
		fmt.Fprintln(w, "   "+mutedStyle.Render("no scans"))
		return
	}
	for _, s := range scans {
		fmt.Fprintf(w, "   - %s  %s  %s\n", s.ID, s.Timestamp.Local(), s.Username)
	}
}
