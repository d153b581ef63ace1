package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ekathu/internal/config"
	"ekathu/internal/infra/tracing"
	"ekathu/internal/middleware"
	"ekathu/internal/repository"
	"ekathu/internal/validator"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

// New は共通ミドルウェアとルートを載せた echo を返す
func New(cfg config.Config, store repository.Store, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.New()

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.RequestLogger)
	if cfg.TracingCollectorHost != "" {
		e.Use(middleware.Tracing(tracing.ServiceName))
	}
	if cfg.MetricsPort != "" {
		// プレフィックスなし
		e.Use(echoprometheus.NewMiddleware(""))
	}

	RegisterRoutes(e, h, store, cfg.JWTSecret, cfg.UploadDir)
	return e
}

// Start はAPIとメトリクスを起動し、ctx が終わったら止める
func Start(ctx context.Context, cfg config.Config, e *echo.Echo) error {
	var metrics *echo.Echo
	if cfg.MetricsPort != "" {
		metrics = echo.New()
		metrics.HideBanner = true
		metrics.HidePort = true
		metrics.GET("/metrics", echoprometheus.NewHandler())
		go func() {
			if err := metrics.Start(fmt.Sprintf(":%s", cfg.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("Failed to start metrics server")
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("server started")
		if err := e.Start(fmt.Sprintf(":%s", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if metrics != nil {
		if err := metrics.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Failed to shutdown metrics server")
		}
	}
	return e.Shutdown(shutdownCtx)
}
