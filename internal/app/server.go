package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/EntertainLit/internal/config"
	"github.com/GoArmGo/EntertainLit/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 30 * time.Second

// RouteRegistrar — набор маршрутов, который монтируется под /api.
type RouteRegistrar interface {
	Register(r chi.Router)
}

// NewRouter собирает chi-роутер со всеми middleware.
func NewRouter(cfg *config.Config, logger *slog.Logger, routes ...RouteRegistrar) http.Handler {
	r := chi.NewRouter()
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	origins := cfg.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", handler.HeaderUserID, handler.HeaderRequestID},
		ExposedHeaders: []string{handler.HeaderRequestID, handler.HeaderDegraded},
		MaxAge:         300,
	}))

	r.Get("/healthz", handler.Healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(api chi.Router) {
		if cfg.RateLimitPerMinute > 0 {
			api.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute))
		}
		api.Use(handler.Identity(cfg.AuthDevUserID))
		for _, rr := range routes {
			rr.Register(api)
		}
	})

	return r
}

// runServer запускает HTTP сервер; без брокера события проецируются здесь же.
func (a *App) runServer(ctx context.Context) error {
	c := a.components

	if c.InProcessEvents {
		if err := c.Consumer.StartConsumingConsumptionLogged(ctx, c.Projector.HandleConsumptionLogged); err != nil {
			return fmt.Errorf("ошибка запуска in-process потребителя: %w", err)
		}
	}

	router := NewRouter(a.Config, a.logger,
		handler.NewConsumptionHandler(c.Consumption, a.logger),
		handler.NewLeaderboardHandler(c.Leaderboard, a.logger),
		handler.NewMediaHandler(c.Media, a.logger),
	)

	serverAddr := fmt.Sprintf(":%s", a.Config.ServerPort)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server started", "addr", serverAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("ошибка при запуске сервера: %w", err)
		}
	case <-ctx.Done():
		a.logger.Info("shutdown signal received, draining http server")
	}

	ctxServer, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctxServer); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.logger.Info("http server stopped")
	return nil
}
