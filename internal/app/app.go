package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/EntertainLit/internal/config"
	"github.com/GoArmGo/EntertainLit/internal/core/ports"
	"github.com/GoArmGo/EntertainLit/internal/usecase"
)

const (
	ModeServer = "server"
	ModeWorker = "worker"
)

// Closer освобождает внешний ресурс (БД, брокер, Redis) при завершении.
type Closer struct {
	Name  string
	Close func() error
}

// Components — всё, что собирает di.BuildApp.
type Components struct {
	Consumption usecase.ConsumptionUseCase
	Leaderboard usecase.LeaderboardUseCase
	Media       usecase.MediaUseCase
	Projector   usecase.ActivityHandler

	Consumer ports.ActivityConsumer
	// InProcessEvents: события доставляются внутри процесса serve, отдельный воркер не нужен.
	InProcessEvents bool

	Closers []Closer
}

type App struct {
	Config     *config.Config
	logger     *slog.Logger
	components Components
}

func NewApp(cfg *config.Config, logger *slog.Logger, components Components) *App {
	return &App{
		Config:     cfg,
		logger:     logger,
		components: components,
	}
}

// LoggerIns возвращает основной логгер приложения.
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

func (a *App) Run(ctx context.Context, mode string) error {
	// канал для graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting", "mode", mode)

	var err error
	switch mode {
	case ModeServer:
		err = a.runServer(ctx)
	case ModeWorker:
		err = a.runWorker(ctx)
	default:
		err = fmt.Errorf("неизвестный режим: %s (используйте '%s' или '%s')", mode, ModeServer, ModeWorker)
	}

	// аккуратно закрываем ресурсы
	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown finished with errors", "error", closeErr)
	}

	if err != nil {
		return err
	}
	a.logger.Info("stopped gracefully", "mode", mode)
	return nil
}

// Shutdown закрывает все ресурсы приложения в обратном порядке.
func (a *App) Shutdown() error {
	var errs []error
	for i := len(a.components.Closers) - 1; i >= 0; i-- {
		c := a.components.Closers[i]
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", c.Name, err))
		}
	}
	a.components.Closers = nil
	return errors.Join(errs...)
}
