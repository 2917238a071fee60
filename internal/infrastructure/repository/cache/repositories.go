package cache

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/riskibarqy/squad-stats/internal/domain/match"
	"github.com/riskibarqy/squad-stats/internal/domain/player"
	"github.com/riskibarqy/squad-stats/internal/domain/statcache"
	"github.com/riskibarqy/squad-stats/internal/domain/team"
	basecache "github.com/riskibarqy/squad-stats/internal/platform/cache"
)

const (
	teamKeyPrefix   = "team:"
	playerKeyPrefix = "player:"
	matchKeyPrefix  = "match:"
)

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	items, err := basecache.Load(ctx, r.cache, teamKeyPrefix+"list", r.next.List)
	if err != nil {
		return nil, err
	}
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	cached, err := basecache.Load(ctx, r.cache, teamKeyPrefix+"id:"+teamID, func(ctx context.Context) (cachedByID[team.Team], error) {
		item, exists, err := r.next.GetByID(ctx, teamID)
		return cachedByID[team.Team]{value: item, exists: exists}, err
	})
	if err != nil {
		return team.Team{}, false, err
	}
	return cached.value, cached.exists, nil
}

type cachedByID[T any] struct {
	value  T
	exists bool
}

type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	cached, err := basecache.Load(ctx, r.cache, playerKeyPrefix+"id:"+playerID, func(ctx context.Context) (cachedByID[player.Player], error) {
		item, exists, err := r.next.GetByID(ctx, playerID)
		return cachedByID[player.Player]{value: item, exists: exists}, err
	})
	if err != nil {
		return player.Player{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID string) ([]player.Player, error) {
	return r.ListByTeams(ctx, []string{teamID})
}

func (r *PlayerRepository) ListByTeams(ctx context.Context, teamIDs []string) ([]player.Player, error) {
	ids := append([]string(nil), teamIDs...)
	sort.Strings(ids)
	key := playerKeyPrefix + "teams:" + strings.Join(ids, ",")

	items, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) ([]player.Player, error) {
		return r.next.ListByTeams(ctx, ids)
	})
	if err != nil {
		return nil, err
	}
	return append([]player.Player(nil), items...), nil
}

// MatchRepository caches reads and drops every match entry of the affected
// team on each write, so a follow-up read sees the write.
type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	cached, err := basecache.Load(ctx, r.cache, matchByIDKey(matchID), func(ctx context.Context) (cachedByID[match.Match], error) {
		item, exists, err := r.next.GetByID(ctx, matchID)
		return cachedByID[match.Match]{value: item, exists: exists}, err
	})
	if err != nil {
		return match.Match{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *MatchRepository) ListByTeam(ctx context.Context, teamID string, filter match.ListFilter) ([]match.Match, error) {
	key := matchListKey(teamID, filter)
	items, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) ([]match.Match, error) {
		return r.next.ListByTeam(ctx, teamID, filter)
	})
	if err != nil {
		return nil, err
	}
	return append([]match.Match(nil), items...), nil
}

func (r *MatchRepository) Create(ctx context.Context, item match.Match) error {
	if err := r.next.Create(ctx, item); err != nil {
		return err
	}
	r.cache.Delete(ctx, matchByIDKey(item.ID))
	r.cache.DeletePrefix(ctx, matchTeamPrefix(item.TeamID))
	return nil
}

func (r *MatchRepository) AppendGoal(ctx context.Context, matchID string, goal match.Goal, guard match.StatusGuard) error {
	return r.invalidateAfter(ctx, matchID, r.next.AppendGoal(ctx, matchID, goal, guard))
}

func (r *MatchRepository) AppendCard(ctx context.Context, matchID string, card match.Card, guard match.StatusGuard) error {
	return r.invalidateAfter(ctx, matchID, r.next.AppendCard(ctx, matchID, card, guard))
}

func (r *MatchRepository) AppendSubstitution(ctx context.Context, matchID string, sub match.Substitution, guard match.StatusGuard) error {
	return r.invalidateAfter(ctx, matchID, r.next.AppendSubstitution(ctx, matchID, sub, guard))
}

func (r *MatchRepository) ReplaceLineup(ctx context.Context, matchID string, lineup []match.LineupEntry, substitutes []string, formation string, guard match.StatusGuard) error {
	return r.invalidateAfter(ctx, matchID, r.next.ReplaceLineup(ctx, matchID, lineup, substitutes, formation, guard))
}

func (r *MatchRepository) UpdateStatus(ctx context.Context, matchID string, status match.Status, guard match.StatusGuard) error {
	return r.invalidateAfter(ctx, matchID, r.next.UpdateStatus(ctx, matchID, status, guard))
}

func (r *MatchRepository) Complete(ctx context.Context, matchID string, completion match.Completion, guard match.StatusGuard) error {
	return r.invalidateAfter(ctx, matchID, r.next.Complete(ctx, matchID, completion, guard))
}

// invalidateAfter runs even when the write failed: a failed write may still
// have been applied by the backing store.
func (r *MatchRepository) invalidateAfter(ctx context.Context, matchID string, writeErr error) error {
	prefix := matchKeyPrefix + "team:"
	if v, ok := r.cache.Get(ctx, matchByIDKey(matchID)); ok {
		if cached, ok := v.(cachedByID[match.Match]); ok && cached.exists {
			prefix = matchTeamPrefix(cached.value.TeamID)
		}
	}
	r.cache.Delete(ctx, matchByIDKey(matchID))
	r.cache.DeletePrefix(ctx, prefix)
	return writeErr
}

func matchByIDKey(matchID string) string {
	return matchKeyPrefix + "id:" + matchID
}

func matchTeamPrefix(teamID string) string {
	return matchKeyPrefix + "team:" + teamID + ":"
}

func matchListKey(teamID string, filter match.ListFilter) string {
	statuses := make([]string, 0, len(filter.Statuses))
	for _, status := range filter.Statuses {
		statuses = append(statuses, string(status))
	}
	sort.Strings(statuses)

	var b strings.Builder
	b.WriteString(matchTeamPrefix(teamID))
	b.WriteString(strings.Join(statuses, ","))
	b.WriteString("|")
	b.WriteString(filter.Competition)
	b.WriteString("|")
	if !filter.From.IsZero() {
		b.WriteString(strconv.FormatInt(filter.From.UnixNano(), 10))
	}
	b.WriteString("|")
	if !filter.To.IsZero() {
		b.WriteString(strconv.FormatInt(filter.To.UnixNano(), 10))
	}
	return b.String()
}

// StatCacheRepository drops cached team and player reads once a snapshot
// lands, since both carry the cached counters.
type StatCacheRepository struct {
	next  statcache.Repository
	cache *basecache.Store
}

func NewStatCacheRepository(next statcache.Repository, cache *basecache.Store) *StatCacheRepository {
	return &StatCacheRepository{next: next, cache: cache}
}

func (r *StatCacheRepository) WithTeamLock(ctx context.Context, teamID string, fn func(ctx context.Context) error) error {
	return r.next.WithTeamLock(ctx, teamID, fn)
}

func (r *StatCacheRepository) Replace(ctx context.Context, snapshot statcache.Snapshot) error {
	err := r.next.Replace(ctx, snapshot)
	r.cache.DeletePrefix(ctx, teamKeyPrefix)
	r.cache.DeletePrefix(ctx, playerKeyPrefix)
	return err
}
