package jobqueue

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/squad-stats/internal/domain/match"
	"github.com/riskibarqy/squad-stats/internal/platform/logging"
	"github.com/streadway/amqp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

type CompletedHandler func(ctx context.Context, event match.CompletedEvent) error

// AMQPConsumer feeds match completed events from a durable queue to handler.
// Run keeps reconnecting with a fixed backoff until ctx is cancelled.
type AMQPConsumer struct {
	cfg     AMQPConfig
	handler CompletedHandler
	logger  *logging.Logger
}

func NewAMQPConsumer(cfg AMQPConfig, handler CompletedHandler, logger *logging.Logger) *AMQPConsumer {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.ReconnectBackoff <= 0 {
		cfg.ReconnectBackoff = 5 * time.Second
	}
	if cfg.PrefetchCount <= 0 {
		cfg.PrefetchCount = 1
	}
	return &AMQPConsumer{cfg: cfg, handler: handler, logger: logger}
}

func (c *AMQPConsumer) Run(ctx context.Context) error {
	for {
		err := c.consumeOnce(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.WarnContext(ctx, "amqp consumer disconnected", "error", err, "retry_in", c.cfg.ReconnectBackoff.String())

		timer := time.NewTimer(c.cfg.ReconnectBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (c *AMQPConsumer) consumeOnce(ctx context.Context) error {
	session, err := dialSession(c.cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = session.Close()
	}()

	if err := session.Qos(c.cfg.PrefetchCount, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	queue, err := session.QueueDeclare(c.cfg.Queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", c.cfg.Queue, err)
	}
	if err := session.QueueBind(queue.Name, RoutingKeyMatchCompleted, c.cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", queue.Name, err)
	}

	deliveries, err := session.Consume(queue.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume queue %s: %w", queue.Name, err)
	}
	closed := session.conn.NotifyClose(make(chan *amqp.Error, 1))

	c.logger.InfoContext(ctx, "amqp consumer started", "queue", queue.Name, "exchange", c.cfg.Exchange)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case amqpErr := <-closed:
			if amqpErr == nil {
				return fmt.Errorf("amqp connection closed")
			}
			return amqpErr
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("amqp delivery channel closed")
			}
			c.handleDelivery(ctx, d)
		}
	}
}

// handleDelivery acks on success. Undecodable payloads are dropped; handler
// failures are requeued once and dropped on redelivery.
func (c *AMQPConsumer) handleDelivery(ctx context.Context, d amqp.Delivery) {
	ctx = extractTrace(ctx, d.Headers)
	ctx, span := otel.Tracer("squad-stats/jobqueue").Start(ctx, "amqp.consume "+RoutingKeyMatchCompleted)
	defer span.End()

	event, err := decodeCompletedEvent(d.Body)
	if err != nil {
		span.RecordError(err)
		c.logger.WarnContext(ctx, "drop invalid amqp message", "error", err, "message_id", d.MessageId)
		_ = d.Nack(false, false)
		return
	}
	span.SetAttributes(
		attribute.String("match.id", event.MatchID),
		attribute.String("team.id", event.TeamID),
	)

	if err := c.handler(ctx, event); err != nil {
		span.RecordError(err)
		requeue := !d.Redelivered
		c.logger.ErrorContext(ctx, "handle match completed failed", "error", err, "match_id", event.MatchID, "team_id", event.TeamID, "requeue", requeue)
		_ = d.Nack(false, requeue)
		return
	}
	_ = d.Ack(false)
}
