package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/squad-stats/internal/domain/statcache"
)

type StatCacheRepository struct {
	store *RosterStore

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewStatCacheRepository(store *RosterStore) *StatCacheRepository {
	return &StatCacheRepository{store: store, locks: make(map[string]*sync.Mutex)}
}

func (r *StatCacheRepository) WithTeamLock(ctx context.Context, teamID string, fn func(ctx context.Context) error) error {
	r.locksMu.Lock()
	lock, ok := r.locks[teamID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[teamID] = lock
	}
	r.locksMu.Unlock()

	lock.Lock()
	defer lock.Unlock()
	return fn(ctx)
}

// Replace overwrites the team and player counters under a single lock.
// Players outside the snapshot's team are rejected before anything changes.
func (r *StatCacheRepository) Replace(_ context.Context, snapshot statcache.Snapshot) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item, ok := r.store.teams[snapshot.TeamID]
	if !ok {
		return fmt.Errorf("team %s not found", snapshot.TeamID)
	}
	for playerID := range snapshot.Players {
		p, ok := r.store.players[playerID]
		if !ok || p.TeamID != snapshot.TeamID {
			return fmt.Errorf("player %s is not on team %s", playerID, snapshot.TeamID)
		}
	}

	item.Statistics = snapshot.Team
	r.store.teams[snapshot.TeamID] = item
	for playerID, statistics := range snapshot.Players {
		p := r.store.players[playerID]
		p.Statistics = statistics
		r.store.players[playerID] = p
	}
	return nil
}
