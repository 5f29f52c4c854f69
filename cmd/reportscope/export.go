package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/nao1215/reportscope/internal/config"
	"github.com/nao1215/reportscope/internal/export"
	"github.com/nao1215/reportscope/internal/loader"
	"github.com/nao1215/reportscope/internal/pipeline"
	"github.com/spf13/cobra"
)

// errExportTarget is returned when export gets neither a scan id nor --project with --all.
var errExportTarget = errors.New("specify a scan id, or --project <id> with --all")

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [scan-id]",
		Short: "Export scan reports as documents",
		Long: `Export loads a scan and writes it as report-<scan-id>.<ext>.

The document starts with the user, project and time of the scan, followed
by the formatted report. Documents go to the export directory (your download
directory by default) or, when storage is configured, to an S3 compatible
bucket.

Examples:
  # Export one scan as PDF
  reportscope export 664f1c2a9b1e8a0012345678

  # Export one scan as Markdown into ./out
  reportscope export -f markdown -o ./out 664f1c2a9b1e8a0012345678

  # Export every scan of a project
  reportscope export --project 664f1bd09b1e8a0012345600 --all`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExportCmd,
	}

	cmd.Flags().StringP("format", "f", "",
		"Document format: pdf, markdown or text (default from config: "+config.DefaultFormat+")")
	cmd.Flags().StringP("out", "o", "",
		"Output directory (default: download directory, used instead of storage upload)")
	cmd.Flags().StringP("project", "p", "", "Project whose scans are exported (with --all)")
	cmd.Flags().BoolP("all", "a", false, "Export every scan of --project")
	cmd.Flags().IntP("concurrency", "n", 0,
		"Number of scans exported at once with --all (default from config)")

	return cmd
}

// exportOptions are the export flags after defaults from the config.
type exportOptions struct {
	format      export.Format
	outDir      string
	concurrency int
}

// runExportCmd executes the export command.
func runExportCmd(cmd *cobra.Command, args []string) error {
	projectID, err := cmd.Flags().GetString("project")
	if err != nil {
		return err
	}
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	if (len(args) == 1) == (projectID != "" && all) {
		return errExportTarget
	}

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

	emitter, sink, err := newExporter(ctx, a.cfg, opts)
	if err != nil {
		return err
	}
	l := loader.New(a.client, a.logger)
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		job := pipeline.NewJob(args[0])
		if err := pipeline.ExportPipeline(l, emitter, sink, a.logger).Execute(ctx, job); err != nil {
			return exportError(job.ScanID, err)
		}
		fmt.Fprintf(out, "%s %s\n", successStyle.Render("Saved"), job.Location)
		return nil
	}

	return runProjectExport(ctx, out, a, projectID, opts.concurrency, func() *pipeline.Pipeline {
		return pipeline.ExportPipeline(l, emitter, sink, a.logger)
	})
}

// buildExportOptions merges the export flags over the config.
func buildExportOptions(cmd *cobra.Command, cfg *config.Config) (exportOptions, error) {
	formatName, err := cmd.Flags().GetString("format")
	if err != nil {
		return exportOptions{}, err
	}
	if formatName == "" {
		formatName = cfg.Format
	}
	f, err := export.ParseFormat(formatName)
	if err != nil {
		return exportOptions{}, err
	}

	outDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return exportOptions{}, err
	}

	concurrency, err := cmd.Flags().GetInt("concurrency")
	if err != nil {
		return exportOptions{}, err
	}
	if concurrency <= 0 {
		concurrency = cfg.Concurrency
	}

	return exportOptions{format: f, outDir: outDir, concurrency: concurrency}, nil
}

// newExporter creates the emitter and the sink for opts.
// An explicit output directory wins over configured object storage.
func newExporter(ctx context.Context, cfg *config.Config, opts exportOptions) (*export.Emitter, export.Sink, error) {
	renderer, err := export.NewRenderer(opts.format)
	if err != nil {
		return nil, nil, err
	}
	emitter := export.NewEmitter(renderer)

	if opts.outDir == "" && cfg.Storage.Enabled() {
		sink, err := export.NewObjectSink(ctx, export.ObjectSinkConfig{
			Endpoint:  cfg.Storage.Endpoint,
			Region:    cfg.Storage.Region,
			Bucket:    cfg.Storage.Bucket,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
			Prefix:    cfg.Storage.Prefix,
		})
		if err != nil {
			return nil, nil, err
		}
		return emitter, sink, nil
	}

	dir := opts.outDir
	if dir == "" {
		dir = cfg.ExportDir
	}
	return emitter, export.NewDirSink(dir), nil
}

// runProjectExport exports every scan of a project and prints one line per scan.
func runProjectExport(
	ctx context.Context,
	out io.Writer,
	a *app,
	projectID string,
	concurrency int,
	factory func() *pipeline.Pipeline,
) error {
	project, err := a.client.GetProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to load project %s: %w", projectID, err)
	}
	ids := pipeline.ScanIDs(*project)
	if len(ids) == 0 {
		fmt.Fprintf(out, "Project %s has no scans.\n", project.Name)
		return nil
	}

	fmt.Fprintf(out, "Exporting %d scans of %s (concurrency: %d)...\n", len(ids), project.Name, concurrency)
	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(factory,
		pipeline.WithConcurrency(concurrency),
		pipeline.WithBatchLogger(a.logger),
	)

	var (
		mu       sync.Mutex
		failures int
	)
	err = bp.ProcessBatchWithCallback(ctx, ids, func(job *pipeline.Job, index int) {
		mu.Lock()
		defer mu.Unlock()

		if job.Failed() {
			failures++
			fmt.Fprintf(out, "[%d/%d] %s %s: %v\n", index+1, len(ids),
				errorStyle.Render("failed"), job.ScanID, exportError(job.ScanID, job.Err))
			return
		}
		fmt.Fprintf(out, "[%d/%d] %s %s\n", index+1, len(ids), successStyle.Render("saved"), job.Location)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Exported %d of %d scans in %s\n",
		len(ids)-failures, len(ids), time.Since(startTime).Round(time.Millisecond))
	if failures > 0 {
		return fmt.Errorf("%d of %d exports failed", failures, len(ids))
	}
	return nil
}

// exportError turns a pipeline failure into a message for the user.
func exportError(scanID string, err error) error {
	if errors.Is(err, export.ErrPrecondition) {
		return fmt.Errorf("scan %s cannot be exported: it has no resolved project", scanID)
	}
	return fmt.Errorf("failed to export scan %s: %w", scanID, err)
}
