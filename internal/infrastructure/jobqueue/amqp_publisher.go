package jobqueue

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/squad-stats/internal/domain/match"
	"github.com/riskibarqy/squad-stats/internal/platform/logging"
	"github.com/riskibarqy/squad-stats/internal/platform/resilience"
	"github.com/streadway/amqp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type AMQPConfig struct {
	URL              string
	Exchange         string
	Queue            string
	PrefetchCount    int
	ReconnectBackoff time.Duration
	Breaker          resilience.CircuitBreakerConfig
}

type publishChannel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher announces completed matches on a topic exchange. The session
// is opened lazily and dropped after any publish error so the next call redials.
type AMQPPublisher struct {
	cfg     AMQPConfig
	breaker *resilience.CircuitBreaker
	logger  *logging.Logger
	dial    func() (publishChannel, error)

	mu      sync.Mutex
	session publishChannel
}

func NewAMQPPublisher(cfg AMQPConfig, logger *logging.Logger) *AMQPPublisher {
	if logger == nil {
		logger = logging.Default()
	}
	p := &AMQPPublisher{
		cfg:    cfg,
		logger: logger,
	}
	if cfg.Breaker.Enabled {
		p.breaker = resilience.NewCircuitBreakerFromConfig(cfg.Breaker)
	}
	p.dial = func() (publishChannel, error) {
		return dialSession(cfg)
	}
	return p
}

func (p *AMQPPublisher) PublishMatchCompleted(ctx context.Context, event match.CompletedEvent) error {
	body, err := encodeCompletedEvent(event)
	if err != nil {
		return err
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("amqp.exchange", p.cfg.Exchange),
			attribute.String("amqp.routing_key", RoutingKeyMatchCompleted),
			attribute.String("match.id", event.MatchID),
		)
	}

	headers := amqp.Table{}
	injectTrace(ctx, headers)
	msg := amqp.Publishing{
		Headers:      headers,
		ContentType:  contentTypeJSON,
		DeliveryMode: amqp.Persistent,
		MessageId:    event.MatchID,
		Timestamp:    event.CompletedAt,
		Body:         body,
	}

	err = p.breaker.Execute(ctx, func(ctx context.Context) error {
		return p.publish(msg)
	})
	if err != nil {
		return fmt.Errorf("publish match completed match=%s: %w", event.MatchID, err)
	}

	p.logger.DebugContext(ctx, "match completed published", "match_id", event.MatchID, "team_id", event.TeamID)
	return nil
}

func (p *AMQPPublisher) publish(msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session == nil {
		session, err := p.dial()
		if err != nil {
			return err
		}
		p.session = session
	}

	if err := p.session.Publish(p.cfg.Exchange, RoutingKeyMatchCompleted, false, false, msg); err != nil {
		_ = p.session.Close()
		p.session = nil
		return err
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.session == nil {
		return nil
	}
	err := p.session.Close()
	p.session = nil
	return err
}

type amqpSession struct {
	conn *amqp.Connection
	*amqp.Channel
}

func (s *amqpSession) Close() error {
	chErr := s.Channel.Close()
	connErr := s.conn.Close()
	if chErr != nil {
		return chErr
	}
	return connErr
}

func dialSession(cfg AMQPConfig) (*amqpSession, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("amqp url is empty")
	}

	conn, err := amqp.DialConfig(cfg.URL, amqp.Config{
		Heartbeat: 30 * time.Second,
		Locale:    "en_US",
	})
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", cfg.Exchange, err)
	}
	return &amqpSession{conn: conn, Channel: ch}, nil
}
