package jobqueue

import (
	"context"
	"fmt"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/squad-stats/internal/domain/match"
	"github.com/streadway/amqp"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel"
)

const (
	RoutingKeyMatchCompleted = "match.completed"
	contentTypeJSON          = "application/json"
)

func encodeCompletedEvent(event match.CompletedEvent) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(event); err != nil {
		return nil, fmt.Errorf("encode match completed event: %w", err)
	}
	return append([]byte(nil), buf.Bytes()...), nil
}

func decodeCompletedEvent(body []byte) (match.CompletedEvent, error) {
	var event match.CompletedEvent
	if err := sonic.Unmarshal(body, &event); err != nil {
		return match.CompletedEvent{}, fmt.Errorf("decode match completed event: %w", err)
	}
	event.TeamID = strings.TrimSpace(event.TeamID)
	if event.TeamID == "" {
		return match.CompletedEvent{}, fmt.Errorf("match completed event has no team_id")
	}
	return event, nil
}

// tableCarrier lets the otel propagator read and write AMQP headers.
type tableCarrier amqp.Table

func (c tableCarrier) Get(key string) string {
	value, _ := c[key].(string)
	return value
}

func (c tableCarrier) Set(key, value string) {
	c[key] = value
}

func (c tableCarrier) Keys() []string {
	out := make([]string, 0, len(c))
	for key := range c {
		out = append(out, key)
	}
	return out
}

func injectTrace(ctx context.Context, headers amqp.Table) {
	otel.GetTextMapPropagator().Inject(ctx, tableCarrier(headers))
}

func extractTrace(ctx context.Context, headers amqp.Table) context.Context {
	if headers == nil {
		return ctx
	}
	return otel.GetTextMapPropagator().Extract(ctx, tableCarrier(headers))
}
