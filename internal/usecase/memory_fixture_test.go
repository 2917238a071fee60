package usecase

import (
	"testing"

	"github.com/riskibarqy/squad-stats/internal/domain/statcache"
	"github.com/riskibarqy/squad-stats/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/squad-stats/internal/platform/id"
	"github.com/riskibarqy/squad-stats/internal/platform/logging"
)

const testMatchLength = 90

type seededServices struct {
	teams     *memory.TeamRepository
	players   *memory.PlayerRepository
	matches   *memory.MatchRepository
	writer    *StatCacheWriter
	events    *MatchEventService
	stats     *StatisticsService
	reconcile *ReconcileService
}

// newSeededServices wires every service over the seeded memory store. A nil
// cacheRepo uses the memory stat cache.
func newSeededServices(t *testing.T, lockCompleted bool, cacheRepo statcache.Repository) seededServices {
	t.Helper()

	store := memory.NewRosterStore(memory.SeedTeams(), memory.SeedPlayers())
	teams := memory.NewTeamRepository(store)
	players := memory.NewPlayerRepository(store)
	matches := memory.NewMatchRepository(memory.SeedMatches())
	if cacheRepo == nil {
		cacheRepo = memory.NewStatCacheRepository(store)
	}

	logger := logging.NewNop()
	writer := NewStatCacheWriter(teams, players, matches, cacheRepo, testMatchLength)
	return seededServices{
		teams:   teams,
		players: players,
		matches: matches,
		writer:  writer,
		events: NewMatchEventService(
			matches, teams, players, writer,
			&id.Sequence{Prefix: "evt-"},
			MatchEventConfig{LockCompleted: lockCompleted},
			logger,
		),
		stats:     NewStatisticsService(teams, players, matches, StatisticsConfig{MatchLength: testMatchLength}, logger),
		reconcile: NewReconcileService(teams, writer, 2, logger),
	}
}
