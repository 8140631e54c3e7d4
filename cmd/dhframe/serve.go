package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/dhframe/internal/config"
	"github.com/vango-dev/dhframe/pkg/backend"
	"github.com/vango-dev/dhframe/pkg/frame"
	"github.com/vango-dev/dhframe/pkg/host"
	"github.com/vango-dev/dhframe/pkg/metrics"
	"github.com/vango-dev/dhframe/pkg/middleware"
	"github.com/vango-dev/dhframe/pkg/server"
	"github.com/vango-dev/dhframe/pkg/session"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo page",
		Long: `Serve a demo page that embeds a ticking table and a chart.

The widget backend starts on the first page view. Configuration is
read from dhframe.yaml, DHFRAME_* environment variables and flags.

Examples:
  dhframe serve
  dhframe serve --addr :9000 --port 10000
  DEEPHAVEN_ST_URL=https://proxy.example.com/dh/ dhframe serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			matchErrorFormat(cmd, cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, cfg, newLogger(cfg, os.Stderr))
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file (default: ./dhframe.{yaml,json,toml})")
	cmd.Flags().IntP("port", "p", config.DefaultPort, "Widget backend port")
	cmd.Flags().String("backend-host", "", "Widget backend listen host")
	cmd.Flags().String("base-url", "", "Base URL used in iframe URLs instead of the backend address")
	cmd.Flags().String("addr", ":8501", "Page host listen address")
	cmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")

	return cmd
}

// matchErrorFormat makes JSON logs come with JSON errors unless
// --error-format was given.
func matchErrorFormat(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Root().PersistentFlags().Lookup(errorFormatFlag)
	if f == nil || f.Changed || cfg.Log.Format != "json" {
		return
	}
	_ = f.Value.Set("json")
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(metrics.WithRegisterer(reg))

	backendOpts := []backend.Option{backend.WithObservers(m)}
	hostOpts := []host.Option{
		host.WithConfig(host.Config{
			Title:         cfg.Host.Title,
			SecureCookies: cfg.Host.SecureCookies,
			MetricsPath:   cfg.Metrics.Path,
		}),
		host.WithLogger(logger),
		host.WithMetrics(m),
		host.WithHTTPMetrics(middleware.NewHTTPMetrics(middleware.WithRegistry(reg))),
	}
	if cfg.Metrics.Enabled {
		backendOpts = append(backendOpts, backend.WithGatherer(reg))
		hostOpts = append(hostOpts, host.WithGatherer(reg))
	}

	launcher := server.NewLauncher(backend.New(logger, backendOpts...), logger)
	f := frame.New(launcher, frame.Config{
		Launch: server.LaunchOptions{
			Host: cfg.Server.Host,
			Port: cfg.Server.Port,
			Args: cfg.Server.Args,
		},
		BaseURL: cfg.BaseURL,
	}, frame.WithLogger(logger), frame.WithMetrics(m))

	sessions := session.NewManager(f.Tracker(), session.ManagerConfig{
		MaxSessions:  cfg.Session.MaxSessions,
		EvictOnLimit: cfg.Session.EvictOnLimit,
		IdleTimeout:  cfg.Session.IdleTimeout,
	}, logger)

	h := host.New(f, sessions, demoPage(), hostOpts...)
	httpServer := &http.Server{
		Addr:              cfg.Host.Address,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	printBanner()
	success("Page host on %s", cfg.Host.Address)
	info("Widget backend port %d (started on first page view)", cfg.Server.Port)
	if cfg.BaseURL != "" {
		info("Iframe base URL %s", cfg.BaseURL)
	}
	if cfg.Metrics.Enabled {
		info("Metrics on %s", cfg.Metrics.Path)
	}
	fmt.Println()

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("page host shutdown", "error", err)
	}
	if err := sessions.Shutdown(shutdownCtx); err != nil {
		logger.Warn("session shutdown", "error", err)
	}
	if err := launcher.Shutdown(shutdownCtx); err != nil {
		logger.Warn("backend shutdown", "error", err)
	}
	return serveErr
}
