package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/EntertainLit/internal/adapter/functions"
	"github.com/GoArmGo/EntertainLit/internal/adapter/leaderboard"
	"github.com/GoArmGo/EntertainLit/internal/adapter/storage/minio"
	"github.com/GoArmGo/EntertainLit/internal/app"
	"github.com/GoArmGo/EntertainLit/internal/config"
	"github.com/GoArmGo/EntertainLit/internal/core/ports"
	"github.com/GoArmGo/EntertainLit/internal/database/client"
	"github.com/GoArmGo/EntertainLit/internal/database/memory"
	"github.com/GoArmGo/EntertainLit/internal/database/postgres"
	"github.com/GoArmGo/EntertainLit/internal/logger"
	"github.com/GoArmGo/EntertainLit/internal/messaging/inproc"
	"github.com/GoArmGo/EntertainLit/internal/rabbitmq"
	"github.com/GoArmGo/EntertainLit/internal/usecase"
	"github.com/go-redis/redis/v8"
)

type seeder interface {
	SeedDemoData(ctx context.Context) error
}

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
// При ошибке уже открытые ресурсы закрываются.
func BuildApp(ctx context.Context) (*app.App, error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	var components app.Components
	fail := func(err error) (*app.App, error) {
		_ = app.NewApp(cfg, slogger, components).Shutdown()
		return nil, err
	}

	// 2. Хранилище
	store, err := buildStore(cfg, slogger, &components)
	if err != nil {
		return fail(err)
	}
	if cfg.SeedDemoData {
		if s, ok := store.(seeder); ok {
			if err := s.SeedDemoData(ctx); err != nil {
				return fail(fmt.Errorf("seed demo data: %w", err))
			}
		}
	}

	// 3. Таблица лидеров
	board, err := buildLeaderboard(ctx, cfg, slogger, &components)
	if err != nil {
		return fail(err)
	}

	// 4. События: RabbitMQ или доставка внутри процесса
	var (
		publisher ports.ActivityPublisher
		consumer  ports.ActivityConsumer
	)
	if cfg.RabbitMQ.RabbitMQURL != "" {
		rabbitMQClient, err := rabbitmq.NewClient(cfg, slogger)
		if err != nil {
			return fail(err)
		}
		components.Closers = append(components.Closers, app.Closer{Name: "rabbitmq", Close: rabbitMQClient.Close})
		publisher, consumer = rabbitMQClient, rabbitMQClient
	} else {
		slogger.Warn("RABBITMQ_URL is not set, activity events are projected in-process")
		dispatcher := inproc.NewDispatcher(inproc.DefaultBuffer, slogger)
		components.Closers = append(components.Closers, app.Closer{Name: "inproc", Close: dispatcher.Close})
		publisher, consumer = dispatcher, dispatcher
		components.InProcessEvents = true
	}

	// 5. Архив в объектном хранилище
	var archive ports.ArchiveStorage
	if cfg.ArchiveEnabled() {
		minioClient, err := minio.NewMinioClient(ctx, cfg, slogger)
		if err != nil {
			return fail(err)
		}
		archive = minioClient
	}

	// 6. Внешние функции
	var mediaFunctions ports.MediaFunctions
	if cfg.Functions.BaseURL != "" {
		mediaFunctions = functions.NewClient(cfg.Functions, slogger)
	} else {
		slogger.Warn("FUNCTIONS_BASE_URL is not set, media endpoints serve degraded responses")
	}

	// 7. Бизнес-логика
	components.Consumption = usecase.NewConsumptionUseCase(store, publisher, usecase.NewCuratedRecommender(), slogger)
	components.Leaderboard = usecase.NewLeaderboardUseCase(board)
	components.Media = usecase.NewMediaUseCase(mediaFunctions, slogger)
	components.Projector = usecase.NewActivityProjector(board, archive, slogger)
	components.Consumer = consumer

	slogger.Info("all dependencies initialized",
		"storage", cfg.StorageDriver,
		"in_process_events", components.InProcessEvents,
		"archive", archive != nil,
	)
	return app.NewApp(cfg, slogger, components), nil
}

func buildStore(cfg *config.Config, logger *slog.Logger, components *app.Components) (ports.ConsumptionStore, error) {
	if cfg.StorageDriver != config.StoragePostgres {
		logger.Info("using in-memory store, data is lost on restart")
		return memory.NewStore(logger), nil
	}

	dbClient, err := client.NewClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	components.Closers = append(components.Closers, app.Closer{Name: "postgres", Close: dbClient.Close})

	gormDB, err := postgres.Open(dbClient.DB)
	if err != nil {
		return nil, err
	}
	return postgres.NewStore(gormDB, logger), nil
}

func buildLeaderboard(ctx context.Context, cfg *config.Config, logger *slog.Logger, components *app.Components) (ports.Leaderboard, error) {
	if cfg.Redis.Addr == "" {
		return leaderboard.NewMemoryLeaderboard(), nil
	}

	rds := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := rds.Ping(ctx).Result(); err != nil {
		_ = rds.Close()
		return nil, fmt.Errorf("не удалось подключиться к Redis %s: %w", cfg.Redis.Addr, err)
	}
	components.Closers = append(components.Closers, app.Closer{Name: "redis", Close: rds.Close})

	logger.Info("connected to Redis", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
	return leaderboard.NewRedisLeaderboard(rds, logger), nil
}
