package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/nao1215/reportscope/internal/export"
	"github.com/nao1215/reportscope/internal/loader"
	"github.com/nao1215/reportscope/internal/model"
	"github.com/spf13/cobra"
)

// NewShowCmd creates the show command.
func NewShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <scan-id>",
		Short: "Print a scan report",
		Long: `Show loads a scan, resolves its project and prints the report:
the user, project and time of the scan followed by its findings grouped
by vulnerability type and its language statistics.

Examples:
  reportscope show 664f1c2a9b1e8a0012345678`,
		Args: cobra.ExactArgs(1),
		RunE: runShowCmd,
	}
}

// runShowCmd executes the show command.
func runShowCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	scan, err := loader.New(a.client, a.logger).Load(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to load scan %s: %w", args[0], err)
	}
	return writeDetail(cmd.OutOrStdout(), scan)
}

// writeDetail prints the header lines and the formatted report of a
// resolved scan.
func writeDetail(w io.Writer, scan *model.Scan) error {
	fields, err := export.FieldsFromScan(scan)
	if errors.Is(err, export.ErrPrecondition) {
		return fmt.Errorf("scan %s has no project to display", scan.ID)
	}
	if err != nil {
		return err
	}

	for _, line := range fields.Header() {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)
	if fields.Body == "" {
		fmt.Fprintln(w, mutedStyle.Render("No report data."))
		return nil
	}
	fmt.Fprint(w, fields.Body)
	return nil
}
