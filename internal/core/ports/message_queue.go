package ports

import (
	"context"

	"github.com/GoArmGo/EntertainLit/internal/messaging/payloads"
)

// ActivityPublisher публикует события о новых записях потребления.
// Используется usecase'ом после успешного создания записи.
type ActivityPublisher interface {
	PublishConsumptionLogged(ctx context.Context, payload payloads.ConsumptionLoggedPayload) error
}

// ActivityConsumer доставляет события обработчику.
// Используется воркером (RabbitMQ) или сервером (in-process доставка).
type ActivityConsumer interface {
	// StartConsumingConsumptionLogged начинает прослушивание событий и вызывает handler для каждого.
	StartConsumingConsumptionLogged(ctx context.Context, handler func(context.Context, payloads.ConsumptionLoggedPayload) error) error
}
