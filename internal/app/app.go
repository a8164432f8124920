package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/neurulatechnologies/neurula-patient-backend/internal/config"
	httpx "github.com/neurulatechnologies/neurula-patient-backend/internal/http"
)

// Run wires the container, starts the HTTP server and blocks until ctx
// is cancelled or the server fails. On cancellation in-flight requests
// get a grace period before the listener closes.
func Run(ctx context.Context, cfg *config.Config) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	logger := slog.Default()

	container, err := NewContainer(cfg, logger)
	if err != nil {
		return err
	}
	defer container.Close()

	router := httpx.BuildRouter(
		httpx.RouterConfig{
			ServiceName:    cfg.AppName,
			Version:        cfg.AppVersion,
			AllowedOrigins: cfg.CORSAllowedOrigins,
		},
		container.AuthHandlers,
		container.PatientHandlers,
		container.DoctorHandlers,
		container.AuthMW,
		container.CasbinMW,
		logger,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
