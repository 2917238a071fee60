package jobqueue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/squad-stats/internal/domain/match"
	"github.com/riskibarqy/squad-stats/internal/platform/logging"
	"github.com/riskibarqy/squad-stats/internal/platform/resilience"
	"github.com/streadway/amqp"
)

type fakeChannel struct {
	published []amqp.Publishing
	keys      []string
	err       error
	closed    int
}

func (c *fakeChannel) Publish(_ string, key string, _, _ bool, msg amqp.Publishing) error {
	if c.err != nil {
		return c.err
	}
	c.keys = append(c.keys, key)
	c.published = append(c.published, msg)
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed++
	return nil
}

type fakeAcknowledger struct {
	acked   int
	nacked  int
	requeue bool
}

func (a *fakeAcknowledger) Ack(uint64, bool) error {
	a.acked++
	return nil
}

func (a *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked++
	a.requeue = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(uint64, bool) error { return nil }

func TestEncodeDecodeCompletedEvent(t *testing.T) {
	completedAt := time.Date(2026, 8, 2, 9, 45, 0, 0, time.UTC)
	body, err := encodeCompletedEvent(match.CompletedEvent{MatchID: "m1", TeamID: "t1", CompletedAt: completedAt})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	event, err := decodeCompletedEvent(body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if event.MatchID != "m1" || event.TeamID != "t1" || !event.CompletedAt.Equal(completedAt) {
		t.Fatalf("unexpected event: %+v", event)
	}

	if _, err := decodeCompletedEvent([]byte(`{"match_id":"m1"}`)); err == nil {
		t.Fatalf("expected missing team_id to fail")
	}
}

func TestAMQPPublisher_RedialsAfterPublishError(t *testing.T) {
	broken := &fakeChannel{err: errors.New("channel closed")}
	healthy := &fakeChannel{}
	dials := 0

	p := NewAMQPPublisher(AMQPConfig{Exchange: "squad-stats"}, logging.NewNop())
	p.dial = func() (publishChannel, error) {
		dials++
		if dials == 1 {
			return broken, nil
		}
		return healthy, nil
	}

	event := match.CompletedEvent{MatchID: "m1", TeamID: "t1"}
	if err := p.PublishMatchCompleted(context.Background(), event); err == nil {
		t.Fatalf("expected first publish to fail")
	}
	if broken.closed != 1 {
		t.Fatalf("expected broken session to be closed")
	}
	if err := p.PublishMatchCompleted(context.Background(), event); err != nil {
		t.Fatalf("second publish: %v", err)
	}
	if dials != 2 || len(healthy.published) != 1 || healthy.keys[0] != RoutingKeyMatchCompleted {
		t.Fatalf("unexpected publish state dials=%d published=%d", dials, len(healthy.published))
	}
	if healthy.published[0].MessageId != "m1" || healthy.published[0].ContentType != contentTypeJSON {
		t.Fatalf("unexpected message: %+v", healthy.published[0])
	}
}

func TestAMQPPublisher_BreakerOpensAfterFailures(t *testing.T) {
	p := NewAMQPPublisher(AMQPConfig{
		Exchange: "squad-stats",
		Breaker:  resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Minute, HalfOpenMaxReq: 1},
	}, logging.NewNop())
	dials := 0
	p.dial = func() (publishChannel, error) {
		dials++
		return nil, errors.New("connection refused")
	}

	event := match.CompletedEvent{MatchID: "m1", TeamID: "t1"}
	_ = p.PublishMatchCompleted(context.Background(), event)
	err := p.PublishMatchCompleted(context.Background(), event)
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected open circuit, got %v", err)
	}
	if dials != 1 {
		t.Fatalf("expected breaker to skip dialing, dials=%d", dials)
	}
}

func TestAMQPConsumer_HandleDelivery(t *testing.T) {
	body, _ := encodeCompletedEvent(match.CompletedEvent{MatchID: "m1", TeamID: "t1"})

	t.Run("acks handled event", func(t *testing.T) {
		var got match.CompletedEvent
		c := NewAMQPConsumer(AMQPConfig{}, func(_ context.Context, event match.CompletedEvent) error {
			got = event
			return nil
		}, logging.NewNop())
		ack := &fakeAcknowledger{}
		c.handleDelivery(context.Background(), amqp.Delivery{Acknowledger: ack, Body: body})
		if ack.acked != 1 || got.TeamID != "t1" {
			t.Fatalf("expected ack and handled event, acked=%d event=%+v", ack.acked, got)
		}
	})

	t.Run("drops invalid payload", func(t *testing.T) {
		c := NewAMQPConsumer(AMQPConfig{}, func(context.Context, match.CompletedEvent) error {
			t.Fatalf("handler must not run")
			return nil
		}, logging.NewNop())
		ack := &fakeAcknowledger{}
		c.handleDelivery(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte("nope")})
		if ack.nacked != 1 || ack.requeue {
			t.Fatalf("expected nack without requeue, got %+v", ack)
		}
	})

	t.Run("requeues first failure only", func(t *testing.T) {
		c := NewAMQPConsumer(AMQPConfig{}, func(context.Context, match.CompletedEvent) error {
			return errors.New("db down")
		}, logging.NewNop())

		first := &fakeAcknowledger{}
		c.handleDelivery(context.Background(), amqp.Delivery{Acknowledger: first, Body: body})
		if !first.requeue {
			t.Fatalf("expected first failure to requeue")
		}

		second := &fakeAcknowledger{}
		c.handleDelivery(context.Background(), amqp.Delivery{Acknowledger: second, Body: body, Redelivered: true})
		if second.nacked != 1 || second.requeue {
			t.Fatalf("expected redelivered failure to be dropped, got %+v", second)
		}
	})
}
