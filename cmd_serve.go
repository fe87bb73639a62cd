package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/hanahehe/restore/app"
	"github.com/hanahehe/restore/auth"
	"github.com/hanahehe/restore/catalog"
	"github.com/hanahehe/restore/config"
	"github.com/hanahehe/restore/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	gin.SetMode(cfg.App.GinMode)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := config.OpenStorage(cfg.Storage)
	if err != nil {
		return err
	}
	a, err := app.New(ctx, app.Options{
		Source:  catalog.NewSource(cfg.Catalog.Source, cfg.Catalog.FetchTimeout),
		Storage: st,
		Tokens:  auth.NewTokens(cfg.JWT.Secret, cfg.JWT.SessionTTL),
		Log:     log,
	})
	if err != nil {
		_ = st.Close()
		return err
	}
	defer a.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("storage", cfg.Storage.Driver).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
