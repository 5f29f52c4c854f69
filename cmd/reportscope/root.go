package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/reportscope/internal/api"
	"github.com/nao1215/reportscope/internal/config"
	"github.com/nao1215/reportscope/internal/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for reportscope.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reportscope",
		Short: "Browse and export vulnerability scan reports",
		Long: `reportscope is a client for a vulnerability report service.

It lists projects and their scans, prints a scan's findings and language
statistics, and exports scans as PDF, Markdown or plain text documents.

Settings are read from .reportscope in the current or home directory, or
from the XDG config directory. Flags override the file.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .reportscope in current or home directory)")
	cmd.PersistentFlags().StringP("base-url", "u", "",
		"Report service base URL (default: "+config.DefaultBaseURL+")")

	// Add subcommands
	cmd.AddCommand(NewProjectsCmd())
	cmd.AddCommand(NewShowCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewBrowseCmd())
	cmd.AddCommand(NewPlanCmd())
	cmd.AddCommand(NewSuggestCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds what every service-facing command needs.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	client *api.Client
}

// newApp builds the configuration from defaults, the config file, the
// environment and flags, in that order, and creates the service client.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return newAppFromConfig(cmd, cfg), nil
}

// newAppFromConfig creates the logger and the service client of a validated config.
func newAppFromConfig(cmd *cobra.Command, cfg *config.Config) *app {
	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	opts := []api.Option{
		api.WithRoutes(api.Routes{
			Projects: cfg.Routes.Projects,
			Scan:     cfg.Routes.Scan,
			Project:  cfg.Routes.Project,
		}),
		api.WithTimeout(cfg.Timeout),
		api.WithLogger(logger),
	}
	if cfg.Proxy != "" {
		opts = append(opts, api.WithProxy(cfg.Proxy))
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		client: api.NewClient(cfg.BaseURL, opts...),
	}
}

// buildConfig creates a Config from the config file and cobra flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit path must exist; otherwise a missing file means defaults.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := file.Apply(cfg); err != nil {
			return nil, fmt.Errorf("failed to apply config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	config.ApplyEnv(cfg, os.Getenv)

	baseURL, err := cmd.Flags().GetString("base-url")
	if err != nil {
		return nil, err
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	cfg.Verbose, err = cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
