package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/EntertainLit/internal/core/ports"
	"github.com/GoArmGo/EntertainLit/internal/domain"
	"github.com/GoArmGo/EntertainLit/internal/messaging/payloads"
	"github.com/GoArmGo/EntertainLit/internal/metrics"
)

// consumptionUseCase implements ConsumptionUseCase
type consumptionUseCase struct {
	store       ports.ConsumptionStore
	publisher   ports.ActivityPublisher
	recommender *CuratedRecommender
	logger      *slog.Logger
}

// NewConsumptionUseCase создаёт usecase. publisher может быть nil,
// тогда события о новых записях не публикуются.
func NewConsumptionUseCase(
	store ports.ConsumptionStore,
	publisher ports.ActivityPublisher,
	recommender *CuratedRecommender,
	logger *slog.Logger,
) ConsumptionUseCase {
	return &consumptionUseCase{
		store:       store,
		publisher:   publisher,
		recommender: recommender,
		logger:      logger,
	}
}

func (uc *consumptionUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.store.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("usecase: get user %q: %w", id, err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (uc *consumptionUseCase) ListLogs(ctx context.Context, userID string) ([]domain.ConsumptionLog, error) {
	logs, err := uc.store.GetConsumptionLogs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("usecase: list consumption logs of %q: %w", userID, err)
	}
	return logs, nil
}

func (uc *consumptionUseCase) CreateLog(ctx context.Context, callerID string, input domain.NewConsumptionLog) (*domain.ConsumptionLog, error) {
	if callerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	input.UserID = callerID

	log, err := uc.store.CreateConsumptionLog(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("usecase: create consumption log: %w", err)
	}
	metrics.RecordConsumptionLog(log.Category, log.PointsEarned)

	// Запись уже сохранена: сбой публикации только логируется.
	if uc.publisher != nil {
		err := uc.publisher.PublishConsumptionLogged(ctx, payloads.ConsumptionLogged(*log))
		metrics.RecordPublish(err)
		if err != nil {
			uc.logger.Error("failed to publish consumption logged event",
				"log_id", log.ID,
				"user_id", log.UserID,
				"error", err,
			)
		}
	}
	return log, nil
}

func (uc *consumptionUseCase) Stats(ctx context.Context, userID string) (domain.ConsumptionStats, error) {
	stats, err := uc.store.GetUserConsumptionStats(ctx, userID)
	if err != nil {
		return domain.ConsumptionStats{}, fmt.Errorf("usecase: consumption stats of %q: %w", userID, err)
	}
	return stats, nil
}

func (uc *consumptionUseCase) ActivityFeed(ctx context.Context) ([]domain.ConsumptionLog, error) {
	feed, err := uc.store.GetActivityFeed(ctx)
	if err != nil {
		return nil, fmt.Errorf("usecase: activity feed: %w", err)
	}
	return feed, nil
}

func (uc *consumptionUseCase) Recommendations(ctx context.Context, userID string) ([]domain.Recommendation, error) {
	logs, err := uc.store.GetConsumptionLogs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("usecase: recommendations for %q: %w", userID, err)
	}
	return uc.recommender.Recommend(logs), nil
}
