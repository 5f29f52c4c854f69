package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/reportscope/internal/config"
	"github.com/nao1215/reportscope/internal/export"
	"github.com/nao1215/reportscope/internal/loader"
	"github.com/nao1215/reportscope/internal/model"
	"github.com/nao1215/reportscope/internal/selection"
	"github.com/spf13/cobra"
)

// NewBrowseCmd creates the browse command.
func NewBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Interactively browse projects and scans",
		Long: `Browse starts an interactive session on standard input.

Select a project, then one of its scans. The scan is loaded, its project
resolved and the report printed. A loaded scan can be exported.

Commands:
  projects            list projects
  project <n|id>      select a project
  scans               list the scans of the selected project
  scan <n|id>         select a scan and print its report
  show                print the selected scan again
  export              export the selected scan
  back                clear the selection
  help                show commands
  quit                leave the session`,
		Args: cobra.NoArgs,
		RunE: runBrowseCmd,
	}

	cmd.Flags().StringP("format", "f", "",
		"Export format: pdf, markdown or text (default from config: "+config.DefaultFormat+")")
	cmd.Flags().StringP("out", "o", "", "Export directory (default: download directory)")

	return cmd
}

// runBrowseCmd executes the browse command.
func runBrowseCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	opts, err := buildExportOptions(cmd, a.cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	projects, err := a.client.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	session := selection.NewSession(ctx, loader.New(a.client, a.logger),
		selection.WithSessionLogger(a.logger))
	defer session.Close()

	emitter, sink, err := newExporter(ctx, a.cfg, opts)
	if err != nil {
		return err
	}

	b := &browser{
		out:      cmd.OutOrStdout(),
		projects: projects,
		session:  session,
		export:   scanExporter(ctx, emitter, sink),
	}
	return b.run(ctx, cmd.InOrStdin())
}

// scanExporter renders and stores scans through one emitter and sink for the
// whole session.
func scanExporter(ctx context.Context, emitter *export.Emitter, sink export.Sink) func(*model.Scan) (string, error) {
	return func(scan *model.Scan) (string, error) {
		doc, err := emitter.Emit(scan)
		if err != nil {
			return "", err
		}
		return sink.Store(ctx, doc)
	}
}

// browser is the read-eval-print loop over a selection session.
type browser struct {
	out      io.Writer
	projects []model.Project
	session  *selection.Session
	export   func(scan *model.Scan) (string, error)
}

// run reads commands from in until quit, end of input or cancellation.
func (b *browser) run(ctx context.Context, in io.Reader) error {
	writeProjects(b.out, b.projects, false)
	fmt.Fprintln(b.out, mutedStyle.Render(`Type "help" for commands.`))

	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(b.out, b.prompt())
		if !scanner.Scan() {
			fmt.Fprintln(b.out)
			return scanner.Err()
		}

		name, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		arg = strings.TrimSpace(arg)
		switch name {
		case "":
		case "projects":
			writeProjects(b.out, b.projects, false)
		case "project":
			b.selectProject(arg)
		case "scans":
			b.listScans()
		case "scan":
			b.selectScan(arg)
		case "show":
			b.show()
		case "export":
			b.exportScan()
		case "back":
			b.session.ClearProject()
		case "help":
			b.help()
		case "quit", "exit":
			return nil
		default:
			b.fail(fmt.Sprintf("unknown command %q", name))
		}
	}
}

// prompt reflects the current selection.
func (b *browser) prompt() string {
	state := b.session.Snapshot()
	switch state.Phase() {
	case selection.ProjectSelected:
		return titleStyle.Render(state.Project.Name) + "> "
	case selection.ScanSelected:
		return titleStyle.Render(state.Project.Name+"/"+state.ScanID) + "> "
	default:
		return "reportscope> "
	}
}

func (b *browser) selectProject(arg string) {
	if arg == "" {
		b.fail("usage: project <n|id>")
		return
	}
	for i, p := range b.projects {
		if p.ID == arg || strconv.Itoa(i+1) == arg {
			b.session.SelectProject(p)
			b.listScans()
			return
		}
	}
	b.fail(fmt.Sprintf("no project %q", arg))
}

func (b *browser) listScans() {
	state := b.session.Snapshot()
	if state.Project == nil {
		b.fail("select a project first")
		return
	}
	scans := state.Scans()
	if len(scans) == 0 {
		fmt.Fprintln(b.out, mutedStyle.Render("no scans"))
		return
	}
	for i, s := range scans {
		fmt.Fprintf(b.out, "%d. %s  %s  %s\n", i+1, s.ID, s.Timestamp.Local(), s.Username)
	}
}

// selectScan starts the detail load and prints the outcome once it settles.
func (b *browser) selectScan(arg string) {
	state := b.session.Snapshot()
	if state.Project == nil {
		b.fail("select a project first")
		return
	}
	if arg == "" {
		b.fail("usage: scan <n|id>")
		return
	}

	scanID := arg
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(state.Scans()) {
		scanID = state.Scans()[n-1].ID
	}
	if err := b.session.SelectScan(scanID); err != nil {
		b.fail(err.Error())
		return
	}

	fmt.Fprintln(b.out, mutedStyle.Render("Loading "+scanID+"..."))
	b.session.Wait()
	b.show()
}

// show prints the loaded detail, the load error or a hint.
func (b *browser) show() {
	b.session.Wait()
	state := b.session.Snapshot()
	switch {
	case state.Phase() != selection.ScanSelected:
		b.fail("select a scan first")
	case state.LoadErr != nil:
		b.fail(fmt.Sprintf("failed to load scan %s: %v (select it again to retry)", state.ScanID, state.LoadErr))
	case state.Detail != nil:
		if err := writeDetail(b.out, state.Detail); err != nil {
			b.fail(err.Error())
		}
	}
}

// exportScan exports the loaded detail. Without one the command is unavailable.
func (b *browser) exportScan() {
	b.session.Wait()
	state := b.session.Snapshot()
	if !state.Exportable() {
		fmt.Fprintln(b.out, mutedStyle.Render("export is available once a scan is loaded"))
		return
	}
	location, err := b.export(state.Detail)
	if err != nil {
		b.fail(exportError(state.ScanID, err).Error())
		return
	}
	fmt.Fprintf(b.out, "%s %s\n", successStyle.Render("Saved"), location)
}

func (b *browser) help() {
	state := b.session.Snapshot()
	commands := []string{"projects", "project <n|id>"}
	if state.Project != nil {
		commands = append(commands, "scans", "scan <n|id>", "back")
	}
	if state.Phase() == selection.ScanSelected {
		commands = append(commands, "show")
	}
	if state.Exportable() {
		commands = append(commands, "export")
	}
	commands = append(commands, "help", "quit")

	fmt.Fprintln(b.out, labelStyle.Render("Commands:"))
	for _, c := range commands {
		fmt.Fprintln(b.out, "  "+c)
	}
}

func (b *browser) fail(msg string) {
	fmt.Fprintln(b.out, errorStyle.Render(msg))
}

