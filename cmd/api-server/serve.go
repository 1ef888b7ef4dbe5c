package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contractors/internal/handlers"
	"contractors/internal/metrics"
	"contractors/internal/scheduler"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server and scheduled jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		m := metrics.New()
		svc, cl, err := newService(ctx, m)
		if err != nil {
			return err
		}
		defer func() {
			if err := cl.Close(); err != nil {
				log.Warn("close connections", zap.Error(err))
			}
		}()

		loc, err := time.LoadLocation(cfg.Scheduler.Timezone)
		if err != nil {
			return err
		}
		sched, err := scheduler.New(scheduler.Config{
			OfferSweep:       cfg.Scheduler.OfferSweep,
			ComplianceDigest: cfg.Scheduler.ComplianceDigest,
			Location:         loc,
		}, svc, log)
		if err != nil {
			return err
		}
		sched.Start()

		if cfg.Admin.Token == "" {
			log.Warn("ADMIN_TOKEN is not set, admin API is disabled")
		}

		h := handlers.NewHandler(svc, log)
		srv := &http.Server{
			Addr: cfg.Server.Address,
			Handler: handlers.NewRouter(h, handlers.RouterConfig{
				AdminToken: cfg.Admin.Token,
				Observer:   m,
				Metrics:    m.Handler(),
			}),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("starting server", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		var serveErr error
		select {
		case <-ctx.Done():
			log.Info("shutting down")
		case serveErr = <-errCh:
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("server shutdown", zap.Error(err))
		}
		if err := sched.Stop(shutdownCtx); err != nil {
			log.Warn("scheduler shutdown", zap.Error(err))
		}
		return serveErr
	},
}
