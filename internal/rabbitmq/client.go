package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/EntertainLit/internal/config"
	"github.com/GoArmGo/EntertainLit/internal/messaging/payloads"
	"github.com/goccy/go-json"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	publishTimeout = 5 * time.Second
	prefetchCount  = 16
)

// Client представляет собой клиент RabbitMQ: публикует и потребляет события о новых записях.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	logger  *slog.Logger
}

// NewClient создает и инициализирует новый клиент RabbitMQ
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	client := &Client{logger: logger}

	conn, err := amqp.Dial(cfg.RabbitMQ.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	client.conn = conn

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	client.channel = ch

	// Идемпотентно: очередь создаётся, только если её ещё нет
	q, err := ch.QueueDeclare(
		cfg.RabbitMQ.RabbitMQQueueName, // name
		true,                           // durable
		false,                          // delete when unused
		false,                          // exclusive
		false,                          // no-wait
		nil,                            // arguments
	)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to declare a queue: %w", err)
	}
	client.queue = q

	if err := ch.Qos(prefetchCount, 0, false); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	logger.Info("connected to RabbitMQ", "queue", q.Name, "messages", q.Messages)
	return client, nil
}

// Close закрывает соединение и канал RabbitMQ
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, fmt.Errorf("close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
	}
	c.logger.Info("RabbitMQ connection closed")
	return errors.Join(errs...)
}

// PublishConsumptionLogged реализует ports.ActivityPublisher.
func (c *Client) PublishConsumptionLogged(ctx context.Context, payload payloads.ConsumptionLoggedPayload) error {
	msg, err := newPublishing(payload)
	if err != nil {
		return err
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(
		publishCtx,
		"",           // exchange
		c.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		msg,
	)
	if err != nil {
		return fmt.Errorf("failed to publish a message: %w", err)
	}
	c.logger.Debug("consumption logged event published", "queue", c.queue.Name, "log_id", payload.LogID)
	return nil
}

func newPublishing(payload payloads.ConsumptionLoggedPayload) (amqp.Publishing, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal payload to JSON: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    payload.LogID,
		Timestamp:    payload.CreatedAt,
		Body:         body,
	}, nil
}

// StartConsumingConsumptionLogged реализует ports.ActivityConsumer.
// Сообщения обрабатываются в отдельной горутине до отмены ctx или закрытия канала.
func (c *Client) StartConsumingConsumptionLogged(ctx context.Context, handler func(context.Context, payloads.ConsumptionLoggedPayload) error) error {
	msgs, err := c.channel.Consume(
		c.queue.Name, // queue
		"",           // consumer
		false,        // auto-ack (подтверждаем вручную)
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	c.logger.Info("consumer registered", "queue", c.queue.Name)

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					c.logger.Warn("RabbitMQ delivery channel closed, stopping consumer")
					return
				}
				handleDelivery(ctx, msg, handler, c.logger)
			case <-ctx.Done():
				c.logger.Info("context cancelled, stopping RabbitMQ consumer")
				return
			}
		}
	}()

	return nil
}

// handleDelivery подтверждает сообщение после успешной обработки.
// Нечитаемое сообщение отбрасывается без повторной доставки. Ошибка обработчика возвращает
// сообщение в очередь один раз: повторно доставленное сообщение при ошибке отбрасывается.
func handleDelivery(ctx context.Context, msg amqp.Delivery, handler func(context.Context, payloads.ConsumptionLoggedPayload) error, logger *slog.Logger) {
	var payload payloads.ConsumptionLoggedPayload
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		logger.Error("failed to unmarshal message", "error", err, "body", string(msg.Body))
		if err := msg.Nack(false, false); err != nil {
			logger.Error("failed to nack malformed message", "error", err)
		}
		return
	}

	if err := handler(ctx, payload); err != nil {
		requeue := !msg.Redelivered
		if requeue {
			logger.Warn("failed to process message, requeueing", "log_id", payload.LogID, "error", err)
		} else {
			logger.Error("failed to process redelivered message, dropping", "log_id", payload.LogID, "error", err)
		}
		if err := msg.Nack(false, requeue); err != nil {
			logger.Error("failed to nack message", "log_id", payload.LogID, "error", err)
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		logger.Error("failed to ack message", "log_id", payload.LogID, "error", err)
	}
}
