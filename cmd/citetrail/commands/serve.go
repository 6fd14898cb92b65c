package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/salamanca-digital/citetrail/internal/server"
	"github.com/salamanca-digital/citetrail/pkg/cache"
	"github.com/salamanca-digital/citetrail/pkg/config"
	"github.com/salamanca-digital/citetrail/pkg/observability"
	"github.com/salamanca-digital/citetrail/pkg/pipeline"
	"github.com/salamanca-digital/citetrail/pkg/task"
)

// NewServeCommand returns the "serve" subcommand: runs the HTTP surface
// ("POST /v1/texts/{wid}", "GET /tasks/{task_id}", "POST /v1/docs/{wid}"),
// an external collaborator around the core transform that accepts
// work-transform requests asynchronously.
func NewServeCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the citetrail HTTP server",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe(configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a config.yaml file")

	return cmd
}

func runServe(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceName = "citetrail"
	obsCfg.Mode = observability.ModeServer
	obsCfg.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}
	defer func() { _ = providers.Shutdown(context.Background()) }()

	metrics, err := observability.NewREDMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	p := pipeline.New(metrics, providers.Logger)

	tasks := task.NewStore(cfg.Task.TTL, cfg.Task.SweepInterval)
	defer tasks.Close()

	var docs *cache.DocumentCache
	if cfg.Cache.Enabled {
		docs = cache.NewDocumentCache(cfg.Cache.MaxSizeBytes)
	}

	srv := server.New(p, tasks, docs, cfg, providers.Logger)
	mux := observability.HTTPMiddleware(providers.Tracer, providers.Logger, srv.NewMux())

	httpSrv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		providers.Logger.Info("citetrail server listening", "addr", httpSrv.Addr)

		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-sigCh:
		providers.Logger.Info("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return httpSrv.Shutdown(ctx)
	}
}
