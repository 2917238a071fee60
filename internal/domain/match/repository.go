package match

import (
	"context"
	"time"
)

// ListFilter narrows a team's match list. Zero values mean no restriction.
type ListFilter struct {
	Statuses    []Status
	Competition string
	From        time.Time
	To          time.Time
}

// Matches reports whether item passes the filter.
func (f ListFilter) Matches(item Match) bool {
	if len(f.Statuses) > 0 {
		found := false
		for _, status := range f.Statuses {
			if item.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Competition != "" && item.CompetitionLabel() != f.Competition {
		return false
	}
	if !f.From.IsZero() && item.KickoffAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && item.KickoffAt.After(f.To) {
		return false
	}
	return true
}

// Completion carries the final figures written by completeMatch.
type Completion struct {
	Score         Score
	Statistics    Statistics
	ManOfTheMatch string
	PlayerRatings []PlayerRating
	CoachNotes    string
	CompletedAt   time.Time
}

// Repository describes match persistence. Append operations add a single
// event atomically so concurrent appends on one match never drop each other.
// Writes taking a StatusGuard check the stored status in the same atomic step
// and return ErrStatusChanged when it is not allowed.
type Repository interface {
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	ListByTeam(ctx context.Context, teamID string, filter ListFilter) ([]Match, error)
	Create(ctx context.Context, item Match) error
	AppendGoal(ctx context.Context, matchID string, goal Goal, guard StatusGuard) error
	AppendCard(ctx context.Context, matchID string, card Card, guard StatusGuard) error
	AppendSubstitution(ctx context.Context, matchID string, sub Substitution, guard StatusGuard) error
	// ReplaceLineup swaps the lineup and moves the match to lineup_set.
	ReplaceLineup(ctx context.Context, matchID string, lineup []LineupEntry, substitutes []string, formation string, guard StatusGuard) error
	UpdateStatus(ctx context.Context, matchID string, status Status, guard StatusGuard) error
	Complete(ctx context.Context, matchID string, completion Completion, guard StatusGuard) error
}
