package payloads

import (
	"time"

	"github.com/GoArmGo/EntertainLit/internal/domain"
)

// ConsumptionLoggedPayload описывает событие "пользователь добавил запись",
// которое уходит в очередь RabbitMQ после создания записи.
type ConsumptionLoggedPayload struct {
	LogID        string    `json:"log_id"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	Type         string    `json:"type"`
	Rating       *int      `json:"rating,omitempty"`
	Review       *string   `json:"review,omitempty"`
	PointsEarned int       `json:"points_earned"`
	ConsumedAt   time.Time `json:"consumed_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// ConsumptionLogged собирает событие из сохранённой записи.
func ConsumptionLogged(log domain.ConsumptionLog) ConsumptionLoggedPayload {
	return ConsumptionLoggedPayload{
		LogID:        log.ID,
		UserID:       log.UserID,
		Title:        log.Title,
		Category:     log.Category,
		Type:         log.Type,
		Rating:       log.Rating,
		Review:       log.Review,
		PointsEarned: log.PointsEarned,
		ConsumedAt:   log.ConsumedAt,
		CreatedAt:    log.CreatedAt,
	}
}
