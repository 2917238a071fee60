package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/squad-stats/internal/domain/match"
)

var ErrMatchNotFound = fmt.Errorf("match not found")

type MatchRepository struct {
	mu     sync.RWMutex
	items  map[string]match.Match
	byTeam map[string][]string
	now    func() time.Time
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	r := &MatchRepository{
		items:  make(map[string]match.Match, len(matches)),
		byTeam: make(map[string][]string),
		now:    time.Now,
	}
	for _, item := range matches {
		r.items[item.ID] = cloneMatch(item)
		r.byTeam[item.TeamID] = append(r.byTeam[item.TeamID], item.ID)
	}
	return r
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[matchID]
	if !ok {
		return match.Match{}, false, nil
	}
	return cloneMatch(item), true, nil
}

// ListByTeam returns the team's matches by kickoff ascending.
func (r *MatchRepository) ListByTeam(_ context.Context, teamID string, filter match.ListFilter) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byTeam[teamID]
	out := make([]match.Match, 0, len(ids))
	for _, id := range ids {
		item := r.items[id]
		if !filter.Matches(item) {
			continue
		}
		out = append(out, cloneMatch(item))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MatchRepository) Create(_ context.Context, item match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("match %s already exists", item.ID)
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = r.now().UTC()
	}
	r.items[item.ID] = cloneMatch(item)
	r.byTeam[item.TeamID] = append(r.byTeam[item.TeamID], item.ID)
	return nil
}

func (r *MatchRepository) AppendGoal(_ context.Context, matchID string, goal match.Goal, guard match.StatusGuard) error {
	return r.mutate(matchID, guard, func(item *match.Match) {
		item.Goals = append(item.Goals, goal)
	})
}

func (r *MatchRepository) AppendCard(_ context.Context, matchID string, card match.Card, guard match.StatusGuard) error {
	return r.mutate(matchID, guard, func(item *match.Match) {
		item.Cards = append(item.Cards, card)
	})
}

func (r *MatchRepository) AppendSubstitution(_ context.Context, matchID string, sub match.Substitution, guard match.StatusGuard) error {
	return r.mutate(matchID, guard, func(item *match.Match) {
		item.Substitutions = append(item.Substitutions, sub)
	})
}

func (r *MatchRepository) ReplaceLineup(_ context.Context, matchID string, lineup []match.LineupEntry, substitutes []string, formation string, guard match.StatusGuard) error {
	return r.mutate(matchID, guard, func(item *match.Match) {
		item.Lineup = append([]match.LineupEntry(nil), lineup...)
		item.Substitutes = append([]string(nil), substitutes...)
		item.Formation = formation
		item.Status = match.StatusLineupSet
	})
}

func (r *MatchRepository) UpdateStatus(_ context.Context, matchID string, status match.Status, guard match.StatusGuard) error {
	return r.mutate(matchID, guard, func(item *match.Match) {
		item.Status = status
	})
}

func (r *MatchRepository) Complete(_ context.Context, matchID string, completion match.Completion, guard match.StatusGuard) error {
	return r.mutate(matchID, guard, func(item *match.Match) {
		completedAt := completion.CompletedAt
		item.Status = match.StatusCompleted
		item.Score = cloneScore(completion.Score)
		item.Statistics = completion.Statistics
		item.ManOfTheMatch = completion.ManOfTheMatch
		item.PlayerRatings = append([]match.PlayerRating(nil), completion.PlayerRatings...)
		item.CoachNotes = completion.CoachNotes
		item.CompletedAt = &completedAt
	})
}

func (r *MatchRepository) mutate(matchID string, guard match.StatusGuard, apply func(item *match.Match)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[matchID]
	if !ok {
		return fmt.Errorf("%w: id=%s", ErrMatchNotFound, matchID)
	}
	if !guard.Allows(item.Status) {
		return fmt.Errorf("%w: id=%s status=%s", match.ErrStatusChanged, matchID, item.Status)
	}
	apply(&item)
	item.UpdatedAt = r.now().UTC()
	r.items[matchID] = item
	return nil
}

func cloneMatch(item match.Match) match.Match {
	copied := item
	copied.Score = cloneScore(item.Score)
	copied.Lineup = append([]match.LineupEntry(nil), item.Lineup...)
	copied.Substitutes = append([]string(nil), item.Substitutes...)
	copied.Goals = append([]match.Goal(nil), item.Goals...)
	copied.Cards = append([]match.Card(nil), item.Cards...)
	copied.Substitutions = append([]match.Substitution(nil), item.Substitutions...)
	copied.PlayerRatings = append([]match.PlayerRating(nil), item.PlayerRatings...)
	if item.CompletedAt != nil {
		completedAt := *item.CompletedAt
		copied.CompletedAt = &completedAt
	}
	return copied
}

func cloneScore(score match.Score) match.Score {
	out := match.Score{}
	if score.Home != nil {
		home := *score.Home
		out.Home = &home
	}
	if score.Away != nil {
		away := *score.Away
		out.Away = &away
	}
	return out
}
