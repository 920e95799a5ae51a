// Package inproc доставляет события о записях внутри процесса, когда брокер не настроен.
// Транспорт — watermill gochannel, обработка — watermill Router с повторами и poison-топиком.
package inproc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/GoArmGo/EntertainLit/internal/messaging/payloads"
)

const (
	DefaultBuffer = 256

	ConsumptionLoggedTopic = "consumption.logged"
	PoisonTopic            = "consumption.logged.poison"

	// maxRetries сверх первой попытки; затем событие уходит в PoisonTopic.
	maxRetries   = 2
	closeTimeout = 10 * time.Second
)

var ErrAlreadyConsumed = errors.New("in-process consumer already started")

// Dispatcher реализует ports.ActivityPublisher и ports.ActivityConsumer.
type Dispatcher struct {
	pubsub  *gochannel.GoChannel
	wlogger watermill.LoggerAdapter
	logger  *slog.Logger

	retryInterval time.Duration
	dropped       atomic.Int64

	mu      sync.Mutex
	started bool
	router  *message.Router
}

func NewDispatcher(buffer int, logger *slog.Logger) *Dispatcher {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	wlogger := watermill.NewSlogLogger(logger)
	return &Dispatcher{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: int64(buffer),
		}, wlogger),
		wlogger:       wlogger,
		logger:        logger,
		retryInterval: 100 * time.Millisecond,
	}
}

// PublishConsumptionLogged не ждёт обработчика: доставка идёт в отдельной горутине gochannel.
func (d *Dispatcher) PublishConsumptionLogged(ctx context.Context, payload payloads.ConsumptionLoggedPayload) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", payload.LogID, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set("log_id", payload.LogID)
	if err := d.pubsub.Publish(ConsumptionLoggedTopic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", payload.LogID, err)
	}
	return nil
}

// StartConsumingConsumptionLogged запускает Router и возвращается, когда подписки созданы.
// Router останавливается при отмене ctx.
func (d *Dispatcher) StartConsumingConsumptionLogged(ctx context.Context, handler func(context.Context, payloads.ConsumptionLoggedPayload) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return ErrAlreadyConsumed
	}

	router, err := d.newRouter()
	if err != nil {
		return err
	}

	router.AddConsumerHandler("consumption-projector", ConsumptionLoggedTopic, d.pubsub, func(msg *message.Message) error {
		var payload payloads.ConsumptionLoggedPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			d.logger.Error("failed to unmarshal event, dropping", "message_id", msg.UUID, "error", err)
			return nil
		}
		return handler(msg.Context(), payload)
	})

	router.AddConsumerHandler("consumption-poison", PoisonTopic, d.pubsub, func(msg *message.Message) error {
		d.dropped.Add(1)
		d.logger.Error("event dropped after retries",
			"log_id", msg.Metadata.Get("log_id"),
			"reason", msg.Metadata.Get(middleware.ReasonForPoisonedKey),
		)
		return nil
	})

	go func() {
		if err := router.Run(ctx); err != nil {
			d.logger.Error("in-process router stopped with error", "error", err)
		}
		d.logger.Info("in-process consumer stopped", "dropped", d.dropped.Load())
	}()

	select {
	case <-router.Running():
	case <-ctx.Done():
		return ctx.Err()
	}

	d.started = true
	d.router = router
	d.logger.Info("in-process consumer started", "topic", ConsumptionLoggedTopic)
	return nil
}

// newRouter: poison-топик снаружи, повторы внутри, так что в poison попадает
// только событие, исчерпавшее все попытки.
func (d *Dispatcher) newRouter() (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: closeTimeout}, d.wlogger)
	if err != nil {
		return nil, fmt.Errorf("create router: %w", err)
	}

	poisonQueue, err := middleware.PoisonQueue(d.pubsub, PoisonTopic)
	if err != nil {
		return nil, fmt.Errorf("create poison queue middleware: %w", err)
	}

	retry := middleware.Retry{
		MaxRetries:      maxRetries,
		InitialInterval: d.retryInterval,
		MaxInterval:     time.Second,
		Multiplier:      2,
		Logger:          d.wlogger,
	}

	router.AddMiddleware(
		middleware.Recoverer,
		poisonQueue,
		retry.Middleware,
	)
	return router, nil
}

// Dropped — сколько событий отброшено после исчерпания повторов.
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

// Close останавливает Router (если запущен) и закрывает gochannel.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	router := d.router
	d.mu.Unlock()

	var errs []error
	if router != nil {
		if err := router.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close router: %w", err))
		}
	}
	if err := d.pubsub.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close gochannel: %w", err))
	}
	return errors.Join(errs...)
}
