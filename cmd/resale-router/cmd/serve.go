package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/resale-router/internal/config"
	"github.com/donaldgifford/resale-router/internal/telemetry"
	"github.com/donaldgifford/resale-router/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, &cfg.Telemetry, Version)
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.close(); err != nil {
			log.Warn("closing resources", "error", err)
		}
	}()

	sched, err := a.scheduler(cfg, log)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	e := newServer(cfg, a, sched, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	sched.Start()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", addr, "version", Version,
			"search", cfg.Ebay.Enabled(), "audit_log", cfg.Database.Enabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down server")
	case err := <-errCh:
		if err != nil {
			log.Error("server error", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	<-sched.Stop().Done()

	var errs []error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("shutting down server: %w", err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("flushing traces: %w", err))
	}

	log.Info("server stopped")
	return errors.Join(errs...)
}
