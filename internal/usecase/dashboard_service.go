package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/squad-stats/internal/domain/match"
	"github.com/riskibarqy/squad-stats/internal/domain/player"
	"github.com/riskibarqy/squad-stats/internal/domain/stats"
	"github.com/riskibarqy/squad-stats/internal/domain/team"
	"github.com/riskibarqy/squad-stats/internal/domain/training"
)

const dashboardFanOut = 8

// DashboardScope is the set of teams a caller may see. All overrides TeamIDs.
type DashboardScope struct {
	TeamIDs []string
	All     bool
}

type DashboardConfig struct {
	MatchLength      int
	FormLength       int
	TopScorersLimit  int
	AttendanceWindow int
}

type Dashboard struct {
	Teams                []DashboardTeamSummary
	TopScorers           []TopScorer
	PositionDistribution map[player.Position]int
	AttendanceTrend      []AttendancePoint
}

type DashboardTeamSummary struct {
	TeamID    string
	Name      string
	Short     string
	LogoURL   string
	Aggregate stats.TeamAggregate
	Form      string
	NextMatch *match.Match
}

type TopScorer struct {
	PlayerID      string
	TeamID        string
	Name          string
	PhotoURL      string
	JerseyNumber  int
	Position      player.Position
	Goals         int
	Assists       int
	MatchesPlayed int
}

type AttendancePoint struct {
	TrainingID  string
	TeamID      string
	ScheduledAt time.Time
	Rate        float64
}

type dashboardTeamBundle struct {
	summary DashboardTeamSummary
	scorers []TopScorer
	roster  []player.Player
}

// DashboardService assembles aggregator output into report payloads. It adds
// no statistics of its own.
type DashboardService struct {
	teamRepo     team.Repository
	playerRepo   player.Repository
	matchRepo    match.Repository
	trainingRepo training.Repository
	cfg          DashboardConfig
	now          func() time.Time
}

func NewDashboardService(
	teamRepo team.Repository,
	playerRepo player.Repository,
	matchRepo match.Repository,
	trainingRepo training.Repository,
	cfg DashboardConfig,
) *DashboardService {
	if cfg.MatchLength <= 0 {
		cfg.MatchLength = stats.DefaultMatchLength
	}
	if cfg.FormLength <= 0 {
		cfg.FormLength = stats.DefaultFormLength
	}
	if cfg.TopScorersLimit <= 0 {
		cfg.TopScorersLimit = 10
	}
	if cfg.AttendanceWindow <= 0 {
		cfg.AttendanceWindow = 8
	}
	return &DashboardService{
		teamRepo:     teamRepo,
		playerRepo:   playerRepo,
		matchRepo:    matchRepo,
		trainingRepo: trainingRepo,
		cfg:          cfg,
		now:          time.Now,
	}
}

func (s *DashboardService) Get(ctx context.Context, scope DashboardScope) (out Dashboard, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DashboardService.Get")
	defer func() { endUsecaseSpan(span, err) }()

	teams, err := s.resolveScope(ctx, scope)
	if err != nil {
		return Dashboard{}, err
	}

	now := s.now().UTC()
	p := pool.NewWithResults[dashboardTeamBundle]().
		WithContext(ctx).
		WithCancelOnError().
		WithMaxGoroutines(dashboardFanOut)
	for _, item := range teams {
		item := item
		p.Go(func(ctx context.Context) (dashboardTeamBundle, error) {
			return s.buildTeam(ctx, item, now)
		})
	}
	bundles, err := p.Wait()
	if err != nil {
		return Dashboard{}, err
	}

	out = Dashboard{
		Teams:                make([]DashboardTeamSummary, 0, len(bundles)),
		PositionDistribution: make(map[player.Position]int, len(player.AllPositions)),
	}
	for position := range player.AllPositions {
		out.PositionDistribution[position] = 0
	}

	var scorers []TopScorer
	for _, bundle := range bundles {
		out.Teams = append(out.Teams, bundle.summary)
		scorers = append(scorers, bundle.scorers...)
		for _, p := range bundle.roster {
			out.PositionDistribution[p.Position]++
		}
	}
	sort.SliceStable(out.Teams, func(i, j int) bool {
		if out.Teams[i].Name != out.Teams[j].Name {
			return out.Teams[i].Name < out.Teams[j].Name
		}
		return out.Teams[i].TeamID < out.Teams[j].TeamID
	})
	out.TopScorers = rankTopScorers(scorers, s.cfg.TopScorersLimit)

	teamIDs := make([]string, 0, len(teams))
	for _, item := range teams {
		teamIDs = append(teamIDs, item.ID)
	}
	trend, err := s.attendanceTrend(ctx, teamIDs)
	if err != nil {
		return Dashboard{}, err
	}
	out.AttendanceTrend = trend

	return out, nil
}

func (s *DashboardService) buildTeam(ctx context.Context, item team.Team, now time.Time) (dashboardTeamBundle, error) {
	matches, err := s.matchRepo.ListByTeam(ctx, item.ID, match.ListFilter{})
	if err != nil {
		return dashboardTeamBundle{}, fmt.Errorf("list matches team=%s: %w", item.ID, err)
	}
	roster, err := s.playerRepo.ListByTeam(ctx, item.ID)
	if err != nil {
		return dashboardTeamBundle{}, fmt.Errorf("list roster team=%s: %w", item.ID, err)
	}

	ids := make([]string, 0, len(roster))
	for _, p := range roster {
		ids = append(ids, p.ID)
	}
	aggregates := stats.AggregatePlayers(ids, matches, stats.Options{
		Roster:      stats.NewRoster(ids...),
		MatchLength: s.cfg.MatchLength,
	})

	scorers := make([]TopScorer, 0, len(roster))
	for _, p := range roster {
		agg := aggregates[p.ID]
		if agg.Goals == 0 {
			continue
		}
		scorers = append(scorers, TopScorer{
			PlayerID:      p.ID,
			TeamID:        item.ID,
			Name:          p.Name,
			PhotoURL:      p.PhotoURL,
			JerseyNumber:  p.JerseyNumber,
			Position:      p.Position,
			Goals:         agg.Goals,
			Assists:       agg.Assists,
			MatchesPlayed: agg.MatchesPlayed,
		})
	}

	return dashboardTeamBundle{
		summary: DashboardTeamSummary{
			TeamID:    item.ID,
			Name:      item.Name,
			Short:     item.Short,
			LogoURL:   item.LogoURL,
			Aggregate: stats.AggregateTeam(item.ID, matches),
			Form:      stats.FormString(stats.RecentForm(matches, s.cfg.FormLength)),
			NextMatch: resolveNextMatch(matches, now),
		},
		scorers: scorers,
		roster:  roster,
	}, nil
}

func (s *DashboardService) attendanceTrend(ctx context.Context, teamIDs []string) ([]AttendancePoint, error) {
	if s.trainingRepo == nil || len(teamIDs) == 0 {
		return []AttendancePoint{}, nil
	}
	sessions, err := s.trainingRepo.ListRecentByTeams(ctx, teamIDs, s.cfg.AttendanceWindow)
	if err != nil {
		return nil, fmt.Errorf("list recent trainings: %w", err)
	}

	out := make([]AttendancePoint, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		session := sessions[i]
		out = append(out, AttendancePoint{
			TrainingID:  session.ID,
			TeamID:      session.TeamID,
			ScheduledAt: session.ScheduledAt,
			Rate:        math.Round(session.AttendanceRate()*10) / 10,
		})
	}
	return out, nil
}

func (s *DashboardService) resolveScope(ctx context.Context, scope DashboardScope) ([]team.Team, error) {
	if scope.All {
		teams, err := s.teamRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list teams: %w", err)
		}
		return teams, nil
	}
	if len(scope.TeamIDs) == 0 {
		return nil, fmt.Errorf("%w: dashboard scope is empty", ErrInvalidInput)
	}

	seen := make(map[string]struct{}, len(scope.TeamIDs))
	out := make([]team.Team, 0, len(scope.TeamIDs))
	for _, raw := range scope.TeamIDs {
		teamID := strings.TrimSpace(raw)
		if teamID == "" {
			continue
		}
		if _, dup := seen[teamID]; dup {
			continue
		}
		seen[teamID] = struct{}{}

		item, exists, err := s.teamRepo.GetByID(ctx, teamID)
		if err != nil {
			return nil, fmt.Errorf("get team: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
		}
		out = append(out, item)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: dashboard scope is empty", ErrInvalidInput)
	}
	return out, nil
}

// rankTopScorers orders by goals desc, assists desc, then name.
func rankTopScorers(items []TopScorer, limit int) []TopScorer {
	out := append([]TopScorer(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Goals != out[j].Goals {
			return out[i].Goals > out[j].Goals
		}
		if out[i].Assists != out[j].Assists {
			return out[i].Assists > out[j].Assists
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []TopScorer{}
	}
	return out
}

// resolveNextMatch picks the match a coach is preparing for: a live match
// first, otherwise the earliest upcoming fixture.
func resolveNextMatch(matches []match.Match, now time.Time) *match.Match {
	var live, upcoming *match.Match
	for i := range matches {
		item := matches[i]
		switch item.Status {
		case match.StatusInProgress, match.StatusHalfTime:
			if live == nil || item.KickoffAt.Before(live.KickoffAt) {
				live = &item
			}
		case match.StatusScheduled, match.StatusLineupSet:
			if item.KickoffAt.Before(now) {
				continue
			}
			if upcoming == nil || item.KickoffAt.Before(upcoming.KickoffAt) {
				upcoming = &item
			}
		}
	}
	if live != nil {
		return live
	}
	return upcoming
}
