package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storefront/app"
	"storefront/app/router"
	"storefront/config"
	"storefront/routing"
	"storefront/service"
)

const shutdownTimeout = 10 * time.Second

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

// Execute runs the storefront CLI
func Execute() error {
	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Server-rendered storefront for the Cortex commerce API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// In production, variables should be set directly
			envLoaded := false
			if os.Getenv("ENV") != "production" {
				envLoaded = godotenv.Load() == nil
			}

			if configPath == "" {
				configPath = os.Getenv("STOREFRONT_CONFIG")
			}
			if configPath == "" {
				if _, err := os.Stat("storefront.toml"); err == nil {
					configPath = "storefront.toml"
				}
			}

			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}

			logger, err = newLogger(verbose)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			if envLoaded {
				logger.Debug("Loaded environment variables from .env")
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default storefront.toml when present)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "development logging")

	root.AddCommand(serveCmd(), routesCmd(), resolveCmd(), snapshotCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the storefront HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize application
	application, err := app.Initialize(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	go application.SweepTokens(ctx)

	// Listen on 0.0.0.0 to accept connections from all interfaces
	addr := "0.0.0.0:" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           application.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("🚀 Storefront starting",
			zap.String("addr", addr),
			zap.String("cortex", cfg.CortexAPI.Path),
			zap.String("scope", cfg.CortexAPI.Scope),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down storefront")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the route table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := routing.NewTable(router.StorefrontRoutes())
			if err != nil {
				return err
			}
			table.Walk(func(depth int, d routing.RouteDescriptor) {
				fmt.Fprintln(cmd.OutOrStdout(), describeRoute(depth, d))
			})
			return nil
		},
	}
}

// describeRoute formats one descriptor as an indented line
func describeRoute(depth int, d routing.RouteDescriptor) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(d.Path)
	if d.Exact {
		b.WriteString(" (exact)")
	}
	switch {
	case d.Page != "":
		b.WriteString(" -> " + string(d.Page))
	case d.Render != "":
		b.WriteString(fmt.Sprintf(" -> %q", d.Render))
	}
	return b.String()
}

func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <path>",
		Short: "Print the route chain matched by a path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := routing.NewTable(router.StorefrontRoutes())
			if err != nil {
				return err
			}

			chain := table.Resolve(args[0])
			if len(chain) == 0 {
				return fmt.Errorf("%s: %w", args[0], routing.ErrNoRoute)
			}
			out := cmd.OutOrStdout()
			for depth, m := range chain {
				fmt.Fprintf(out, "%s url=%s exact=%t\n", describeRoute(depth, *m.Route), m.URL, m.IsExact)
				for name, value := range m.Params {
					fmt.Fprintf(out, "%s  %s=%s\n", strings.Repeat("  ", depth), name, value)
				}
			}
			return nil
		},
	}
}

func snapshotCmd() *cobra.Command {
	var (
		path    string
		format  string
		out     string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Capture a running storefront page as PNG or PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != service.SnapshotPNG && format != service.SnapshotPDF {
				return fmt.Errorf("unsupported format %q, use %s or %s", format, service.SnapshotPNG, service.SnapshotPDF)
			}
			if out == "" {
				out = "snapshot." + format
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			snapshots := service.NewSnapshotService(cfg.Server.BaseURL, logger)
			data, err := snapshots.Capture(ctx, path, format)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("failed to write snapshot: %w", err)
			}
			logger.Info("✓ Snapshot written", zap.String("file", out), zap.Int("bytes", len(data)))
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "/", "storefront path to capture")
	cmd.Flags().StringVar(&format, "format", service.SnapshotPNG, "png or pdf")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default snapshot.<format>)")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "capture deadline")
	return cmd
}
