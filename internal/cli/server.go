package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bias-assessment-service/internal/logging"
	"bias-assessment-service/internal/metrics"
	transport "bias-assessment-service/internal/transport/http"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the assessment server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, missing, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger := logging.New(cfg)
	defer func() { _ = logger.Sync() }()
	if missing {
		logger.Warn("config file not found, using defaults", zap.String("path", configPath))
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	d, err := buildDeps(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer d.Close()

	// Fail fast on an empty or broken catalog.
	questions, err := d.service.Questions(ctx)
	if err != nil {
		logger.Error("catalog unavailable; run `seed` when using postgres as the catalog source", zap.Error(err))
		return err
	}
	logger.Info("catalog loaded", zap.Int("questions", len(questions)))

	handler := transport.NewRouter(d.service, logger, metrics.New(), transport.Options{
		ExposeAnswerKey: cfg.Assessment.ExposeAnswerKey,
		CORSOrigins:     cfg.Server.CORSOrigins,
		RateLimit:       cfg.Server.RateLimit.Requests,
		RateWindow:      cfg.RateWindow(),
	})

	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting assessment service", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down server", zap.NamedError("cause", context.Cause(ctx)))
	case err := <-errCh:
		logger.Error("server failed", zap.Error(err))
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
