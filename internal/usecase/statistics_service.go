package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/squad-stats/internal/domain/match"
	"github.com/riskibarqy/squad-stats/internal/domain/player"
	"github.com/riskibarqy/squad-stats/internal/domain/stats"
	"github.com/riskibarqy/squad-stats/internal/domain/team"
	"github.com/riskibarqy/squad-stats/internal/platform/logging"
)

const recentFormMax = 50

type StatisticsConfig struct {
	MatchLength       int
	RecentFormDefault int
}

// PlayerConsistency compares the cached counters on a player record with a
// fresh derivation. Derived always wins.
type PlayerConsistency struct {
	PlayerID      string
	Cached        player.Statistics
	Derived       stats.PlayerAggregate
	Discrepancies []stats.Discrepancy
	Consistent    bool
}

// StatisticsService is the read side. Every figure is derived from the match
// log on request; cached counters are never served as aggregates.
type StatisticsService struct {
	teamRepo   team.Repository
	playerRepo player.Repository
	matchRepo  match.Repository
	cfg        StatisticsConfig
	logger     *logging.Logger
}

func NewStatisticsService(
	teamRepo team.Repository,
	playerRepo player.Repository,
	matchRepo match.Repository,
	cfg StatisticsConfig,
	logger *logging.Logger,
) *StatisticsService {
	if cfg.MatchLength <= 0 {
		cfg.MatchLength = stats.DefaultMatchLength
	}
	if cfg.RecentFormDefault <= 0 {
		cfg.RecentFormDefault = stats.DefaultFormLength
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &StatisticsService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		matchRepo:  matchRepo,
		cfg:        cfg,
		logger:     logger,
	}
}

func (s *StatisticsService) GetPlayerAggregate(ctx context.Context, playerID string, filter match.ListFilter) (out stats.PlayerAggregate, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatisticsService.GetPlayerAggregate", attribute.String("player_id", playerID))
	defer func() { endUsecaseSpan(span, err) }()

	item, err := s.loadPlayer(ctx, playerID)
	if err != nil {
		return stats.PlayerAggregate{}, err
	}
	return s.derivePlayer(ctx, item, filter)
}

func (s *StatisticsService) GetPlayerConsistency(ctx context.Context, playerID string) (out PlayerConsistency, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatisticsService.GetPlayerConsistency", attribute.String("player_id", playerID))
	defer func() { endUsecaseSpan(span, err) }()

	item, err := s.loadPlayer(ctx, playerID)
	if err != nil {
		return PlayerConsistency{}, err
	}
	derived, err := s.derivePlayer(ctx, item, match.ListFilter{})
	if err != nil {
		return PlayerConsistency{}, err
	}

	diffs := stats.ComparePlayer(item.Statistics, derived)
	for _, diff := range diffs {
		s.logger.WarnContext(ctx, "cached player statistic diverges from match log",
			"player_id", item.ID,
			"field", diff.Field,
			"cached", diff.Cached,
			"derived", diff.Derived,
		)
	}

	return PlayerConsistency{
		PlayerID:      item.ID,
		Cached:        item.Statistics,
		Derived:       derived,
		Discrepancies: diffs,
		Consistent:    len(diffs) == 0,
	}, nil
}

func (s *StatisticsService) GetTeamAggregate(ctx context.Context, teamID string, filter match.ListFilter) (out stats.TeamAggregate, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatisticsService.GetTeamAggregate", attribute.String("team_id", teamID))
	defer func() { endUsecaseSpan(span, err) }()

	matches, err := s.completedMatches(ctx, teamID, filter)
	if err != nil {
		return stats.TeamAggregate{}, err
	}
	return stats.AggregateTeam(strings.TrimSpace(teamID), matches), nil
}

func (s *StatisticsService) GetRecentForm(ctx context.Context, teamID string, n int) (out []stats.Outcome, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatisticsService.GetRecentForm", attribute.String("team_id", teamID), attribute.Int("n", n))
	defer func() { endUsecaseSpan(span, err) }()

	if n < 0 || n > recentFormMax {
		return nil, fmt.Errorf("%w: n must be between 1 and %d", ErrInvalidInput, recentFormMax)
	}
	if n == 0 {
		n = s.cfg.RecentFormDefault
	}

	matches, err := s.completedMatches(ctx, teamID, match.ListFilter{})
	if err != nil {
		return nil, err
	}
	return stats.RecentForm(matches, n), nil
}

func (s *StatisticsService) GetCompetitionBreakdown(ctx context.Context, teamID string) (out map[string]stats.CompetitionRecord, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatisticsService.GetCompetitionBreakdown", attribute.String("team_id", teamID))
	defer func() { endUsecaseSpan(span, err) }()

	matches, err := s.completedMatches(ctx, teamID, match.ListFilter{})
	if err != nil {
		return nil, err
	}
	return stats.CompetitionBreakdown(matches), nil
}

func (s *StatisticsService) loadPlayer(ctx context.Context, playerID string) (player.Player, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	item, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}
	return item, nil
}

func (s *StatisticsService) derivePlayer(ctx context.Context, item player.Player, filter match.ListFilter) (stats.PlayerAggregate, error) {
	matches, err := s.completedMatches(ctx, item.TeamID, filter)
	if err != nil {
		return stats.PlayerAggregate{}, err
	}
	roster, err := s.playerRepo.ListByTeam(ctx, item.TeamID)
	if err != nil {
		return stats.PlayerAggregate{}, fmt.Errorf("list roster: %w", err)
	}
	ids := make([]string, 0, len(roster))
	for _, p := range roster {
		ids = append(ids, p.ID)
	}

	return stats.AggregatePlayer(item.ID, matches, stats.Options{
		Roster:      stats.NewRoster(ids...),
		MatchLength: s.cfg.MatchLength,
	}), nil
}

func (s *StatisticsService) completedMatches(ctx context.Context, teamID string, filter match.ListFilter) ([]match.Match, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.From.After(filter.To) {
		return nil, fmt.Errorf("%w: from must not be after to", ErrInvalidInput)
	}

	if _, exists, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		return nil, fmt.Errorf("get team: %w", err)
	} else if !exists {
		return nil, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	filter.Statuses = []match.Status{match.StatusCompleted}
	matches, err := s.matchRepo.ListByTeam(ctx, teamID, filter)
	if err != nil {
		return nil, fmt.Errorf("list completed matches: %w", err)
	}
	return matches, nil
}
