package match

import (
	"context"
	"time"
)

// CompletedEvent announces that a match was finalized and cached counters
// for its team should be rebuilt.
type CompletedEvent struct {
	MatchID     string    `json:"match_id"`
	TeamID      string    `json:"team_id"`
	CompletedAt time.Time `json:"completed_at"`
}

type EventPublisher interface {
	PublishMatchCompleted(ctx context.Context, event CompletedEvent) error
}
