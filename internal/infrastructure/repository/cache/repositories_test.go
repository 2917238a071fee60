package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/squad-stats/internal/domain/match"
	"github.com/riskibarqy/squad-stats/internal/domain/player"
	"github.com/riskibarqy/squad-stats/internal/domain/statcache"
	"github.com/riskibarqy/squad-stats/internal/domain/team"
	"github.com/riskibarqy/squad-stats/internal/infrastructure/repository/memory"
	basecache "github.com/riskibarqy/squad-stats/internal/platform/cache"
)

type countingMatchRepository struct {
	match.Repository
	lists atomic.Int64
}

func (r *countingMatchRepository) ListByTeam(ctx context.Context, teamID string, filter match.ListFilter) ([]match.Match, error) {
	r.lists.Add(1)
	return r.Repository.ListByTeam(ctx, teamID, filter)
}

func TestMatchRepository_ListIsCachedUntilWrite(t *testing.T) {
	t.Parallel()

	backing := &countingMatchRepository{Repository: memory.NewMatchRepository(memory.SeedMatches())}
	repo := NewMatchRepository(backing, basecache.NewStore(time.Minute))
	ctx := context.Background()
	filter := match.ListFilter{Statuses: []match.Status{match.StatusCompleted}}

	first, err := repo.ListByTeam(ctx, memory.TeamIDGarudaU17, filter)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, err := repo.ListByTeam(ctx, memory.TeamIDGarudaU17, filter); err != nil {
		t.Fatalf("list again: %v", err)
	}
	if got := backing.lists.Load(); got != 1 {
		t.Fatalf("expected one backing list call, got %d", got)
	}

	if _, _, err := repo.GetByID(ctx, "match-grd-001"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if err := repo.AppendGoal(ctx, "match-grd-001", match.Goal{ID: "late", PlayerID: "grd-fwd-01", Minute: 89}, nil); err != nil {
		t.Fatalf("append goal: %v", err)
	}

	after, err := repo.ListByTeam(ctx, memory.TeamIDGarudaU17, filter)
	if err != nil {
		t.Fatalf("list after write: %v", err)
	}
	if backing.lists.Load() != 2 {
		t.Fatalf("expected write to invalidate list cache")
	}
	if len(after[0].Goals) != len(first[0].Goals)+1 {
		t.Fatalf("expected appended goal to be visible, before=%d after=%d", len(first[0].Goals), len(after[0].Goals))
	}

	item, _, _ := repo.GetByID(ctx, "match-grd-001")
	if len(item.Goals) != len(first[0].Goals)+1 {
		t.Fatalf("expected cached match by id to be refreshed")
	}
}

func TestMatchRepository_PassesStatusGuardThrough(t *testing.T) {
	t.Parallel()

	repo := NewMatchRepository(memory.NewMatchRepository(memory.SeedMatches()), basecache.NewStore(time.Minute))
	ctx := context.Background()

	before, _, err := repo.GetByID(ctx, "match-grd-001")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	err = repo.AppendGoal(ctx, "match-grd-001", match.Goal{ID: "late", PlayerID: "grd-fwd-01", Minute: 89}, match.EventStatuses(true))
	if !errors.Is(err, match.ErrStatusChanged) {
		t.Fatalf("expected ErrStatusChanged on completed match, got %v", err)
	}

	after, _, _ := repo.GetByID(ctx, "match-grd-001")
	if len(after.Goals) != len(before.Goals) {
		t.Fatalf("rejected goal was stored: before=%d after=%d", len(before.Goals), len(after.Goals))
	}
}

func TestMatchRepository_CachesMissingMatch(t *testing.T) {
	t.Parallel()

	repo := NewMatchRepository(memory.NewMatchRepository(nil), basecache.NewStore(time.Minute))
	_, ok, err := repo.GetByID(context.Background(), "missing")
	if err != nil || ok {
		t.Fatalf("expected missing match, ok=%v err=%v", ok, err)
	}
}

func TestStatCacheRepository_ReplaceInvalidatesRosterReads(t *testing.T) {
	t.Parallel()

	store := memory.NewRosterStore(memory.SeedTeams(), memory.SeedPlayers())
	shared := basecache.NewStore(time.Minute)
	teams := NewTeamRepository(memory.NewTeamRepository(store), shared)
	players := NewPlayerRepository(memory.NewPlayerRepository(store), shared)
	writer := NewStatCacheRepository(memory.NewStatCacheRepository(store), shared)
	ctx := context.Background()

	before, _, _ := teams.GetByID(ctx, memory.TeamIDGarudaU17)
	if before.Statistics.TotalMatches != 0 {
		t.Fatalf("expected empty seeded counters, got %+v", before.Statistics)
	}
	if _, err := players.ListByTeam(ctx, memory.TeamIDGarudaU17); err != nil {
		t.Fatalf("list players: %v", err)
	}

	err := writer.Replace(ctx, statcache.Snapshot{
		TeamID:  memory.TeamIDGarudaU17,
		Team:    team.Statistics{TotalMatches: 2},
		Players: map[string]player.Statistics{"grd-gk-01": {MatchesPlayed: 2}},
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}

	after, _, _ := teams.GetByID(ctx, memory.TeamIDGarudaU17)
	if after.Statistics.TotalMatches != 2 {
		t.Fatalf("expected refreshed team counters, got %+v", after.Statistics)
	}
	roster, _ := players.ListByTeam(ctx, memory.TeamIDGarudaU17)
	for _, p := range roster {
		if p.ID == "grd-gk-01" && p.Statistics.MatchesPlayed != 2 {
			t.Fatalf("expected refreshed player counters, got %+v", p.Statistics)
		}
	}
}

func TestMatchListKeyIgnoresStatusOrder(t *testing.T) {
	t.Parallel()

	a := matchListKey("t1", match.ListFilter{Statuses: []match.Status{match.StatusCompleted, match.StatusScheduled}})
	b := matchListKey("t1", match.ListFilter{Statuses: []match.Status{match.StatusScheduled, match.StatusCompleted}})
	if a != b {
		t.Fatalf("expected equal keys, got %q and %q", a, b)
	}
	if c := matchListKey("t1", match.ListFilter{Competition: "Cup"}); c == a {
		t.Fatalf("expected competition to change key")
	}
}
