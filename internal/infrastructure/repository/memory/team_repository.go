package memory

import (
	"context"

	"github.com/riskibarqy/squad-stats/internal/domain/team"
)

type TeamRepository struct {
	store *RosterStore
}

func NewTeamRepository(store *RosterStore) *TeamRepository {
	return &TeamRepository{store: store}
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.sortedTeamsLocked(), nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.teams[teamID]
	return item, ok, nil
}
