package app

import (
	"context"
	"errors"
	"fmt"
)

var ErrNoBroker = errors.New("worker requires RABBITMQ_URL: without a broker events are projected inside serve")

// runWorker потребляет события из RabbitMQ и проецирует их до сигнала завершения.
func (a *App) runWorker(ctx context.Context) error {
	c := a.components
	if c.InProcessEvents {
		return ErrNoBroker
	}

	a.logger.Info("worker started, waiting for consumption events")

	if err := c.Consumer.StartConsumingConsumptionLogged(ctx, c.Projector.HandleConsumptionLogged); err != nil {
		return fmt.Errorf("ошибка при запуске потребителя RabbitMQ: %w", err)
	}

	<-ctx.Done()
	a.logger.Info("shutdown signal received, stopping worker")
	return nil
}
