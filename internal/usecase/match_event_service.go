package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/squad-stats/internal/domain/match"
	"github.com/riskibarqy/squad-stats/internal/domain/player"
	"github.com/riskibarqy/squad-stats/internal/domain/team"
	"github.com/riskibarqy/squad-stats/internal/platform/id"
	"github.com/riskibarqy/squad-stats/internal/platform/logging"
)

const (
	matchMinuteMin    = 0
	matchMinuteMax    = 130
	matchRatingMin    = 1
	matchRatingMax    = 10
	lineupStarterMax  = 11
	matchNameMaxChars = 120
)

type CreateMatchInput struct {
	TeamID       string
	OpponentName string
	Competition  string
	IsHome       bool
	KickoffAt    time.Time
	Venue        string
}

type SetLineupInput struct {
	Lineup      []match.LineupEntry
	Substitutes []string
	Formation   string
}

type RecordGoalInput struct {
	PlayerID       string
	Minute         int
	Type           string
	AssistPlayerID string
}

type RecordCardInput struct {
	PlayerID string
	Minute   int
	Type     string
	Reason   string
}

type RecordSubstitutionInput struct {
	PlayerOutID string
	PlayerInID  string
	Minute      int
	Reason      string
}

type CompleteMatchInput struct {
	HomeScore     int
	AwayScore     int
	Statistics    match.Statistics
	ManOfTheMatch string
	PlayerRatings []match.PlayerRating
	CoachNotes    string
}

type MatchEventConfig struct {
	// LockCompleted rejects events and re-completion once a match is completed.
	LockCompleted bool
}

type statCacheRefresher interface {
	Refresh(ctx context.Context, teamID string) (TeamDerivation, error)
}

// MatchEventService is the write side: it validates and appends events to
// the match log, then rebuilds cached counters when a completed match changes.
type MatchEventService struct {
	matchRepo  match.Repository
	teamRepo   team.Repository
	playerRepo player.Repository
	cache      statCacheRefresher
	publisher  match.EventPublisher
	ids        id.Generator
	cfg        MatchEventConfig
	logger     *logging.Logger
	now        func() time.Time
}

func NewMatchEventService(
	matchRepo match.Repository,
	teamRepo team.Repository,
	playerRepo player.Repository,
	cache statCacheRefresher,
	ids id.Generator,
	cfg MatchEventConfig,
	logger *logging.Logger,
) *MatchEventService {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	return &MatchEventService{
		matchRepo:  matchRepo,
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		cache:      cache,
		ids:        ids,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// SetPublisher attaches an optional broker publisher for completion events.
func (s *MatchEventService) SetPublisher(publisher match.EventPublisher) {
	s.publisher = publisher
}

func (s *MatchEventService) CreateMatch(ctx context.Context, input CreateMatchInput) (out match.Match, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchEventService.CreateMatch", attribute.String("team_id", input.TeamID))
	defer func() { endUsecaseSpan(span, err) }()

	input.TeamID = strings.TrimSpace(input.TeamID)
	input.OpponentName = strings.TrimSpace(input.OpponentName)
	input.Competition = strings.TrimSpace(input.Competition)
	input.Venue = strings.TrimSpace(input.Venue)

	if input.TeamID == "" {
		return match.Match{}, fmt.Errorf("%w: team_id is required", ErrInvalidInput)
	}
	if input.OpponentName == "" {
		return match.Match{}, fmt.Errorf("%w: opponent_name is required", ErrInvalidInput)
	}
	if len(input.OpponentName) > matchNameMaxChars || len(input.Competition) > matchNameMaxChars {
		return match.Match{}, fmt.Errorf("%w: names must be at most %d characters", ErrInvalidInput, matchNameMaxChars)
	}
	if input.KickoffAt.IsZero() {
		return match.Match{}, fmt.Errorf("%w: kickoff_at is required", ErrInvalidInput)
	}

	if _, exists, err := s.teamRepo.GetByID(ctx, input.TeamID); err != nil {
		return match.Match{}, fmt.Errorf("get team: %w", err)
	} else if !exists {
		return match.Match{}, fmt.Errorf("%w: team=%s", ErrNotFound, input.TeamID)
	}

	matchID, err := s.ids.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate match id: %w", err)
	}

	item := match.Match{
		ID:           matchID,
		TeamID:       input.TeamID,
		OpponentName: input.OpponentName,
		Competition:  input.Competition,
		IsHome:       input.IsHome,
		Status:       match.StatusScheduled,
		KickoffAt:    input.KickoffAt.UTC(),
		Venue:        input.Venue,
		UpdatedAt:    s.now().UTC(),
	}
	if err := s.matchRepo.Create(ctx, item); err != nil {
		return match.Match{}, fmt.Errorf("create match: %w", err)
	}
	return item, nil
}

func (s *MatchEventService) GetMatch(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchEventService.GetMatch", attribute.String("match_id", matchID))
	defer span.End()

	return s.loadMatch(ctx, matchID)
}

func (s *MatchEventService) SetLineup(ctx context.Context, matchID string, input SetLineupInput) (out match.Match, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchEventService.SetLineup", attribute.String("match_id", matchID))
	defer func() { endUsecaseSpan(span, err) }()

	item, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return match.Match{}, err
	}
	if err := match.Transition(item.Status, match.StatusLineupSet); err != nil {
		return match.Match{}, s.statusError(item.Status, err)
	}

	roster, err := s.rosterOf(ctx, item.TeamID)
	if err != nil {
		return match.Match{}, err
	}

	lineup := make([]match.LineupEntry, 0, len(input.Lineup))
	seen := make(map[string]struct{}, len(input.Lineup)+len(input.Substitutes))
	starters := 0
	captains := 0
	for _, entry := range input.Lineup {
		entry.PlayerID = strings.TrimSpace(entry.PlayerID)
		entry.Position = strings.TrimSpace(entry.Position)
		if err := roster.require(entry.PlayerID, "lineup player"); err != nil {
			return match.Match{}, err
		}
		if _, dup := seen[entry.PlayerID]; dup {
			return match.Match{}, fmt.Errorf("%w: duplicate lineup player %s", ErrInvalidInput, entry.PlayerID)
		}
		seen[entry.PlayerID] = struct{}{}
		if !entry.IsSubstitute {
			starters++
		}
		if entry.IsCaptain {
			captains++
		}
		lineup = append(lineup, entry)
	}
	if starters > lineupStarterMax {
		return match.Match{}, fmt.Errorf("%w: at most %d starters allowed, got %d", ErrInvalidInput, lineupStarterMax, starters)
	}
	if captains > 1 {
		return match.Match{}, fmt.Errorf("%w: only one captain allowed", ErrInvalidInput)
	}

	substitutes := make([]string, 0, len(input.Substitutes))
	benchSeen := make(map[string]struct{}, len(input.Substitutes))
	for _, playerID := range input.Substitutes {
		playerID = strings.TrimSpace(playerID)
		if err := roster.require(playerID, "substitute"); err != nil {
			return match.Match{}, err
		}
		if _, dup := benchSeen[playerID]; dup {
			return match.Match{}, fmt.Errorf("%w: duplicate substitute %s", ErrInvalidInput, playerID)
		}
		benchSeen[playerID] = struct{}{}
		if isStarter(lineup, playerID) {
			return match.Match{}, fmt.Errorf("%w: starter %s cannot also be a substitute", ErrInvalidInput, playerID)
		}
		substitutes = append(substitutes, playerID)
	}

	formation := strings.TrimSpace(input.Formation)
	if err := s.matchRepo.ReplaceLineup(ctx, item.ID, lineup, substitutes, formation, match.StatusGuard{item.Status}); err != nil {
		return match.Match{}, s.writeError(ctx, item.ID, "replace lineup", err)
	}
	return s.loadMatch(ctx, item.ID)
}

func (s *MatchEventService) StartMatch(ctx context.Context, matchID string) (match.Match, error) {
	return s.transition(ctx, "StartMatch", matchID, match.StatusInProgress)
}

func (s *MatchEventService) HalfTime(ctx context.Context, matchID string) (match.Match, error) {
	return s.transition(ctx, "HalfTime", matchID, match.StatusHalfTime)
}

func (s *MatchEventService) ResumeMatch(ctx context.Context, matchID string) (match.Match, error) {
	return s.transition(ctx, "ResumeMatch", matchID, match.StatusInProgress)
}

func (s *MatchEventService) PostponeMatch(ctx context.Context, matchID string) (match.Match, error) {
	return s.transition(ctx, "PostponeMatch", matchID, match.StatusPostponed)
}

func (s *MatchEventService) CancelMatch(ctx context.Context, matchID string) (match.Match, error) {
	return s.transition(ctx, "CancelMatch", matchID, match.StatusCancelled)
}

func (s *MatchEventService) transition(ctx context.Context, op, matchID string, to match.Status) (out match.Match, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchEventService."+op, attribute.String("match_id", matchID))
	defer func() { endUsecaseSpan(span, err) }()

	item, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return match.Match{}, err
	}
	if err := match.Transition(item.Status, to); err != nil {
		return match.Match{}, s.statusError(item.Status, err)
	}
	if err := s.matchRepo.UpdateStatus(ctx, item.ID, to, match.StatusGuard{item.Status}); err != nil {
		return match.Match{}, s.writeError(ctx, item.ID, "update match status", err)
	}
	item.Status = to
	return item, nil
}

func (s *MatchEventService) RecordGoal(ctx context.Context, matchID string, input RecordGoalInput) (out match.Goal, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchEventService.RecordGoal", attribute.String("match_id", matchID))
	defer func() { endUsecaseSpan(span, err) }()

	item, roster, err := s.loadForEvent(ctx, matchID, input.Minute)
	if err != nil {
		return match.Goal{}, err
	}

	goalType, ok := match.ParseGoalType(input.Type)
	if !ok {
		return match.Goal{}, fmt.Errorf("%w: invalid goal type %q", ErrInvalidInput, input.Type)
	}
	scorerID := strings.TrimSpace(input.PlayerID)
	if err := roster.require(scorerID, "scorer"); err != nil {
		return match.Goal{}, err
	}
	assistID := strings.TrimSpace(input.AssistPlayerID)
	if assistID != "" {
		if err := roster.require(assistID, "assist player"); err != nil {
			return match.Goal{}, err
		}
		if assistID == scorerID {
			return match.Goal{}, fmt.Errorf("%w: scorer cannot assist own goal", ErrInvalidInput)
		}
	}

	eventID, err := s.ids.NewID()
	if err != nil {
		return match.Goal{}, fmt.Errorf("generate goal id: %w", err)
	}
	goal := match.Goal{
		ID:             eventID,
		PlayerID:       scorerID,
		Minute:         input.Minute,
		Type:           goalType,
		AssistPlayerID: assistID,
	}
	if err := s.matchRepo.AppendGoal(ctx, item.ID, goal, s.eventGuard()); err != nil {
		return match.Goal{}, s.writeError(ctx, item.ID, "append goal", err)
	}

	s.afterEvent(ctx, item)
	return goal, nil
}

func (s *MatchEventService) RecordCard(ctx context.Context, matchID string, input RecordCardInput) (out match.Card, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchEventService.RecordCard", attribute.String("match_id", matchID))
	defer func() { endUsecaseSpan(span, err) }()

	item, roster, err := s.loadForEvent(ctx, matchID, input.Minute)
	if err != nil {
		return match.Card{}, err
	}

	cardType, ok := match.ParseCardType(input.Type)
	if !ok {
		return match.Card{}, fmt.Errorf("%w: invalid card type %q", ErrInvalidInput, input.Type)
	}
	playerID := strings.TrimSpace(input.PlayerID)
	if err := roster.require(playerID, "carded player"); err != nil {
		return match.Card{}, err
	}

	eventID, err := s.ids.NewID()
	if err != nil {
		return match.Card{}, fmt.Errorf("generate card id: %w", err)
	}
	card := match.Card{
		ID:       eventID,
		PlayerID: playerID,
		Minute:   input.Minute,
		Type:     cardType,
		Reason:   strings.TrimSpace(input.Reason),
	}
	if err := s.matchRepo.AppendCard(ctx, item.ID, card, s.eventGuard()); err != nil {
		return match.Card{}, s.writeError(ctx, item.ID, "append card", err)
	}

	s.afterEvent(ctx, item)
	return card, nil
}

func (s *MatchEventService) RecordSubstitution(ctx context.Context, matchID string, input RecordSubstitutionInput) (out match.Substitution, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchEventService.RecordSubstitution", attribute.String("match_id", matchID))
	defer func() { endUsecaseSpan(span, err) }()

	item, roster, err := s.loadForEvent(ctx, matchID, input.Minute)
	if err != nil {
		return match.Substitution{}, err
	}

	outID := strings.TrimSpace(input.PlayerOutID)
	inID := strings.TrimSpace(input.PlayerInID)
	if err := roster.require(outID, "player out"); err != nil {
		return match.Substitution{}, err
	}
	if err := roster.require(inID, "player in"); err != nil {
		return match.Substitution{}, err
	}
	if outID == inID {
		return match.Substitution{}, fmt.Errorf("%w: player cannot replace themselves", ErrInvalidInput)
	}
	if len(item.Lineup) == 0 {
		return match.Substitution{}, fmt.Errorf("%w: lineup must be set before substitutions", ErrInvalidInput)
	}

	sub := match.Substitution{
		PlayerOutID: outID,
		PlayerInID:  inID,
		Minute:      input.Minute,
		Reason:      match.ParseSubstitutionReason(input.Reason),
	}
	if err := replaySubstitutions(item, sub); err != nil {
		return match.Substitution{}, err
	}

	eventID, err := s.ids.NewID()
	if err != nil {
		return match.Substitution{}, fmt.Errorf("generate substitution id: %w", err)
	}
	sub.ID = eventID
	if err := s.matchRepo.AppendSubstitution(ctx, item.ID, sub, s.eventGuard()); err != nil {
		return match.Substitution{}, s.writeError(ctx, item.ID, "append substitution", err)
	}

	s.afterEvent(ctx, item)
	return sub, nil
}

func (s *MatchEventService) CompleteMatch(ctx context.Context, matchID string, input CompleteMatchInput) (out match.Match, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchEventService.CompleteMatch", attribute.String("match_id", matchID))
	defer func() { endUsecaseSpan(span, err) }()

	item, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return match.Match{}, err
	}
	if err := match.AcceptsCompletion(item.Status, s.cfg.LockCompleted); err != nil {
		return match.Match{}, s.statusError(item.Status, err)
	}
	if input.HomeScore < 0 || input.AwayScore < 0 {
		return match.Match{}, fmt.Errorf("%w: scores must be >= 0", ErrInvalidInput)
	}

	roster, err := s.rosterOf(ctx, item.TeamID)
	if err != nil {
		return match.Match{}, err
	}

	motm := strings.TrimSpace(input.ManOfTheMatch)
	if motm != "" {
		if err := roster.require(motm, "man of the match"); err != nil {
			return match.Match{}, err
		}
	}

	ratings := make([]match.PlayerRating, 0, len(input.PlayerRatings))
	rated := make(map[string]struct{}, len(input.PlayerRatings))
	for _, rating := range input.PlayerRatings {
		rating.PlayerID = strings.TrimSpace(rating.PlayerID)
		if err := roster.require(rating.PlayerID, "rated player"); err != nil {
			return match.Match{}, err
		}
		if rating.Rating < matchRatingMin || rating.Rating > matchRatingMax {
			return match.Match{}, fmt.Errorf("%w: rating for %s must be between %d and %d", ErrInvalidInput, rating.PlayerID, matchRatingMin, matchRatingMax)
		}
		if _, dup := rated[rating.PlayerID]; dup {
			return match.Match{}, fmt.Errorf("%w: duplicate rating for %s", ErrInvalidInput, rating.PlayerID)
		}
		rated[rating.PlayerID] = struct{}{}
		ratings = append(ratings, rating)
	}

	completedAt := s.now().UTC()
	if err := s.matchRepo.Complete(ctx, item.ID, match.Completion{
		Score:         match.NewScore(input.HomeScore, input.AwayScore),
		Statistics:    input.Statistics,
		ManOfTheMatch: motm,
		PlayerRatings: ratings,
		CoachNotes:    strings.TrimSpace(input.CoachNotes),
		CompletedAt:   completedAt,
	}, match.CompletionStatuses(s.cfg.LockCompleted)); err != nil {
		return match.Match{}, s.writeError(ctx, item.ID, "complete match", err)
	}

	s.refreshCache(ctx, item)
	s.publishCompleted(ctx, match.CompletedEvent{
		MatchID:     item.ID,
		TeamID:      item.TeamID,
		CompletedAt: completedAt,
	})

	return s.loadMatch(ctx, item.ID)
}

func (s *MatchEventService) loadMatch(ctx context.Context, matchID string) (match.Match, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	return item, nil
}

func (s *MatchEventService) loadForEvent(ctx context.Context, matchID string, minute int) (match.Match, rosterSet, error) {
	if minute < matchMinuteMin || minute > matchMinuteMax {
		return match.Match{}, nil, fmt.Errorf("%w: minute must be between %d and %d", ErrInvalidInput, matchMinuteMin, matchMinuteMax)
	}
	item, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return match.Match{}, nil, err
	}
	if err := match.AcceptsEvents(item.Status, s.cfg.LockCompleted); err != nil {
		return match.Match{}, nil, s.statusError(item.Status, err)
	}
	roster, err := s.rosterOf(ctx, item.TeamID)
	if err != nil {
		return match.Match{}, nil, err
	}
	return item, roster, nil
}

func (s *MatchEventService) statusError(status match.Status, err error) error {
	if status == match.StatusCompleted {
		return fmt.Errorf("%w: %w", ErrMatchLocked, err)
	}
	return fmt.Errorf("%w: %w", ErrConflict, err)
}

func (s *MatchEventService) eventGuard() match.StatusGuard {
	return match.EventStatuses(s.cfg.LockCompleted)
}

// writeError maps a guarded write that lost a race with a status change to
// the same error the up-front status check would have returned.
func (s *MatchEventService) writeError(ctx context.Context, matchID, what string, err error) error {
	if !crerr.Is(err, match.ErrStatusChanged) {
		return fmt.Errorf("%s: %w", what, err)
	}
	current, loadErr := s.loadMatch(ctx, matchID)
	if loadErr != nil {
		return loadErr
	}
	return s.statusError(current.Status, err)
}

// afterEvent rebuilds the cache only when the event landed on a completed
// match; live events cannot change a fold over completed matches. The status
// is read after the write because a completion may have landed in between.
func (s *MatchEventService) afterEvent(ctx context.Context, item match.Match) {
	if s.cfg.LockCompleted {
		return
	}
	current, exists, err := s.matchRepo.GetByID(ctx, item.ID)
	if err != nil || !exists {
		s.logger.WarnContext(ctx, "reload match after event failed",
			"match_id", item.ID,
			"error", err,
		)
		return
	}
	if !current.IsCompleted() {
		return
	}
	s.refreshCache(ctx, current)
}

// refreshCache never fails the inbound call. The match log is already
// written; reconciliation repairs a missed rebuild.
func (s *MatchEventService) refreshCache(ctx context.Context, item match.Match) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Refresh(ctx, item.TeamID); err != nil {
		s.logger.WarnContext(ctx, "rebuild cached statistics failed",
			"match_id", item.ID,
			"team_id", item.TeamID,
			"error", err,
		)
	}
}

func (s *MatchEventService) publishCompleted(ctx context.Context, event match.CompletedEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishMatchCompleted(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "publish match completed failed",
			"match_id", event.MatchID,
			"team_id", event.TeamID,
			"error", err,
		)
	}
}

type rosterSet map[string]struct{}

func (s *MatchEventService) rosterOf(ctx context.Context, teamID string) (rosterSet, error) {
	players, err := s.playerRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	out := make(rosterSet, len(players))
	for _, p := range players {
		out[p.ID] = struct{}{}
	}
	return out, nil
}

func (r rosterSet) require(playerID, role string) error {
	if playerID == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, role)
	}
	if _, ok := r[playerID]; !ok {
		return fmt.Errorf("%w: %s %s is not on the team roster", ErrInvalidInput, role, playerID)
	}
	return nil
}

func isStarter(lineup []match.LineupEntry, playerID string) bool {
	for _, entry := range lineup {
		if entry.PlayerID == playerID && !entry.IsSubstitute {
			return true
		}
	}
	return false
}

// replaySubstitutions applies every stored substitution plus next over the
// starters in minute order. A substitution recorded out of order must keep
// every later one valid.
func replaySubstitutions(item match.Match, next match.Substitution) error {
	onField := make(map[string]struct{}, lineupStarterMax)
	for _, entry := range item.Lineup {
		if !entry.IsSubstitute {
			onField[entry.PlayerID] = struct{}{}
		}
	}

	subs := append(append([]match.Substitution(nil), item.Substitutions...), next)
	sort.SliceStable(subs, func(i, j int) bool { return subs[i].Minute < subs[j].Minute })
	for _, sub := range subs {
		if _, ok := onField[sub.PlayerOutID]; !ok {
			return fmt.Errorf("%w: player %s is not on the field at minute %d", ErrInvalidInput, sub.PlayerOutID, sub.Minute)
		}
		if _, ok := onField[sub.PlayerInID]; ok {
			return fmt.Errorf("%w: player %s is already on the field at minute %d", ErrInvalidInput, sub.PlayerInID, sub.Minute)
		}
		delete(onField, sub.PlayerOutID)
		onField[sub.PlayerInID] = struct{}{}
	}
	return nil
}
