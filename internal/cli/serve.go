package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/viant/vecnode/metrics"
	"github.com/viant/vecnode/server"
	"github.com/viant/vecnode/service"
)

func newServeCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags)
		},
	}
}

func runServe(cmd *cobra.Command, flags *globalFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend := service.OpenBackend(ctx, service.BackendOptions{
		Dir:    cfg.Storage.Path,
		File:   cfg.Storage.File,
		Engine: cfg.EngineOptions(),
	}, logger)
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Error("closing storage failed", "error", err)
		}
	}()

	svcOpts := []service.Option{service.WithLogger(logger)}
	srvOpts := []server.Option{
		server.WithLogger(logger),
		server.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
	}
	if cfg.Metrics.Enabled {
		prom := metrics.NewPrometheus("vecnode")
		svcOpts = append(svcOpts, service.WithMetrics(prom))
		srvOpts = append(srvOpts, server.WithMetrics(prom))
	}

	svc := service.New(backend, cfg.Replica(), svcOpts...)
	node := svc.Node()
	logger.InfoContext(ctx, "starting node",
		"node", node.ID,
		"role", string(node.Role),
		"lag_ms", node.LagMillis(),
		"storage", backend.Mode().String(),
	)
	return server.New(svc, srvOpts...).Run(ctx, cfg.Addr())
}
