package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/squad-stats/internal/domain/match"
	"github.com/riskibarqy/squad-stats/internal/domain/player"
	"github.com/riskibarqy/squad-stats/internal/domain/statcache"
	"github.com/riskibarqy/squad-stats/internal/domain/stats"
	"github.com/riskibarqy/squad-stats/internal/domain/team"
)

// TeamDerivation is a fresh fold of one team's completed matches alongside
// the cached records it will replace.
type TeamDerivation struct {
	Team      team.Team
	Roster    []player.Player
	Aggregate stats.TeamAggregate
	Players   map[string]stats.PlayerAggregate
}

func (d TeamDerivation) Snapshot() statcache.Snapshot {
	players := make(map[string]player.Statistics, len(d.Players))
	for id, agg := range d.Players {
		players[id] = agg.ToStatistics()
	}
	return statcache.Snapshot{
		TeamID:  d.Team.ID,
		Team:    d.Aggregate.ToStatistics(),
		Players: players,
	}
}

// StatCacheWriter keeps cached counters as a memoized view of the match log.
// It never increments: every write recomputes the team and roster from
// scratch and overwrites, so repeated delivery is harmless.
type StatCacheWriter struct {
	teamRepo    team.Repository
	playerRepo  player.Repository
	matchRepo   match.Repository
	cacheRepo   statcache.Repository
	matchLength int
}

func NewStatCacheWriter(
	teamRepo team.Repository,
	playerRepo player.Repository,
	matchRepo match.Repository,
	cacheRepo statcache.Repository,
	matchLength int,
) *StatCacheWriter {
	if matchLength <= 0 {
		matchLength = stats.DefaultMatchLength
	}
	return &StatCacheWriter{
		teamRepo:    teamRepo,
		playerRepo:  playerRepo,
		matchRepo:   matchRepo,
		cacheRepo:   cacheRepo,
		matchLength: matchLength,
	}
}

func (w *StatCacheWriter) Derive(ctx context.Context, teamID string) (derived TeamDerivation, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatCacheWriter.Derive", attribute.String("team_id", teamID))
	defer func() { endUsecaseSpan(span, err) }()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return TeamDerivation{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	item, exists, err := w.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return TeamDerivation{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return TeamDerivation{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	roster, err := w.playerRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return TeamDerivation{}, fmt.Errorf("list roster: %w", err)
	}
	matches, err := w.matchRepo.ListByTeam(ctx, teamID, match.ListFilter{
		Statuses: []match.Status{match.StatusCompleted},
	})
	if err != nil {
		return TeamDerivation{}, fmt.Errorf("list completed matches: %w", err)
	}

	playerIDs := make([]string, 0, len(roster))
	for _, p := range roster {
		playerIDs = append(playerIDs, p.ID)
	}

	return TeamDerivation{
		Team:      item,
		Roster:    roster,
		Aggregate: stats.AggregateTeam(teamID, matches),
		Players: stats.AggregatePlayers(playerIDs, matches, stats.Options{
			Roster:      stats.NewRoster(playerIDs...),
			MatchLength: w.matchLength,
		}),
	}, nil
}

// Apply overwrites the cached counters with a derivation.
func (w *StatCacheWriter) Apply(ctx context.Context, derived TeamDerivation) (err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatCacheWriter.Apply", attribute.String("team_id", derived.Team.ID))
	defer func() { endUsecaseSpan(span, err) }()

	if err := w.cacheRepo.Replace(ctx, derived.Snapshot()); err != nil {
		return fmt.Errorf("replace cached statistics team=%s: %w", derived.Team.ID, err)
	}
	return nil
}

// Refresh recomputes and overwrites the cache for one team. Derive and Apply
// run under the team lock so an older derivation never lands after a newer one.
func (w *StatCacheWriter) Refresh(ctx context.Context, teamID string) (TeamDerivation, error) {
	var derived TeamDerivation
	err := w.WithTeamLock(ctx, teamID, func(ctx context.Context) error {
		var err error
		if derived, err = w.Derive(ctx, teamID); err != nil {
			return err
		}
		return w.Apply(ctx, derived)
	})
	if err != nil {
		return TeamDerivation{}, err
	}
	return derived, nil
}

// WithTeamLock runs fn while holding the team's stat cache lock.
func (w *StatCacheWriter) WithTeamLock(ctx context.Context, teamID string, fn func(ctx context.Context) error) error {
	return w.cacheRepo.WithTeamLock(ctx, teamID, fn)
}
