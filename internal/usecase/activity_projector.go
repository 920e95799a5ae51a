package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/EntertainLit/internal/core/ports"
	"github.com/GoArmGo/EntertainLit/internal/messaging/payloads"
	"github.com/GoArmGo/EntertainLit/internal/metrics"
	"github.com/goccy/go-json"
)

// ActivityProjector обновляет производные представления по событиям о новых записях:
// таблицу лидеров и архив в объектном хранилище.
type ActivityProjector struct {
	leaderboard ports.Leaderboard
	archive     ports.ArchiveStorage // nil, если архив не настроен
	logger      *slog.Logger
}

func NewActivityProjector(leaderboard ports.Leaderboard, archive ports.ArchiveStorage, logger *slog.Logger) *ActivityProjector {
	return &ActivityProjector{
		leaderboard: leaderboard,
		archive:     archive,
		logger:      logger,
	}
}

// ArchiveKey — ключ объекта с архивной копией записи.
func ArchiveKey(userID, logID string) string {
	return fmt.Sprintf("consumption-archive/%s/%s.json", userID, logID)
}

// HandleConsumptionLogged возвращает ошибку, если событие нужно доставить повторно.
// Повторная доставка безопасна: очки записи начисляются один раз, архив перезаписывается по тому же ключу.
func (p *ActivityProjector) HandleConsumptionLogged(ctx context.Context, payload payloads.ConsumptionLoggedPayload) (err error) {
	defer func() { metrics.RecordProjection(err) }()

	applied, err := p.leaderboard.AddPoints(ctx, payload.LogID, payload.UserID, payload.Category, payload.PointsEarned)
	if err != nil {
		return fmt.Errorf("projector: leaderboard for log %s: %w", payload.LogID, err)
	}
	if !applied {
		p.logger.Debug("leaderboard already credited for log", "log_id", payload.LogID)
	}

	if p.archive != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("projector: marshal log %s: %w", payload.LogID, err)
		}
		url, err := p.archive.UploadFile(ctx, ArchiveKey(payload.UserID, payload.LogID), body, "application/json")
		if err != nil {
			return fmt.Errorf("projector: archive log %s: %w", payload.LogID, err)
		}
		p.logger.Debug("consumption log archived", "log_id", payload.LogID, "url", url)
	}

	p.logger.Info("consumption logged event projected",
		"log_id", payload.LogID,
		"user_id", payload.UserID,
		"points_earned", payload.PointsEarned,
	)
	return nil
}
