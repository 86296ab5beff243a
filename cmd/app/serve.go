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
	"go.uber.org/zap"

	"academic-integrity-simulator/internal/api"
	"academic-integrity-simulator/internal/repository"
	"academic-integrity-simulator/internal/router"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the web chat UI and JSON API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !a.cfg.Log.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	sessions := repository.NewSessionRepository(a.cfg.Session.IntegrityCheck, a.logger)
	chatHandler := api.NewChatHandler(a.newPipeline(), sessions, a.logger)
	r := router.SetupRouter(chatHandler, a.cfg.CORS.AllowedOrigins, a.logger)

	if ttl := a.cfg.Session.TTL(); ttl > 0 {
		go sweepSessions(ctx, sessions, ttl)
	}

	srv := &http.Server{
		Addr:              a.cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", zap.String("url", fmt.Sprintf("http://localhost%s", a.cfg.Server.Port)))
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

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func sweepSessions(ctx context.Context, sessions *repository.SessionRepository, ttl time.Duration) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sessions.Sweep(ttl)
		}
	}
}
