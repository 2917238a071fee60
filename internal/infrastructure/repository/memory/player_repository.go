package memory

import (
	"context"

	"github.com/riskibarqy/squad-stats/internal/domain/player"
)

type PlayerRepository struct {
	store *RosterStore
}

func NewPlayerRepository(store *RosterStore) *PlayerRepository {
	return &PlayerRepository{store: store}
}

func (r *PlayerRepository) GetByID(_ context.Context, playerID string) (player.Player, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.players[playerID]
	return item, ok, nil
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID string) ([]player.Player, error) {
	return r.ListByTeams(ctx, []string{teamID})
}

func (r *PlayerRepository) ListByTeams(_ context.Context, teamIDs []string) ([]player.Player, error) {
	set := make(map[string]struct{}, len(teamIDs))
	for _, id := range teamIDs {
		set[id] = struct{}{}
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.playersByTeamLocked(set), nil
}
