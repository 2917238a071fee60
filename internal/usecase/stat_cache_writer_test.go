package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/squad-stats/internal/domain/statcache"
	"github.com/riskibarqy/squad-stats/internal/infrastructure/repository/memory"
	statcachemock "github.com/riskibarqy/squad-stats/internal/mocks/domain/statcache"
)

func TestStatCacheWriter_DeriveDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	svc := newSeededServices(t, true, nil)

	derived, err := svc.writer.Derive(ctx, memory.TeamIDGarudaU17)
	require.NoError(t, err)
	assert.Equal(t, 2, derived.Aggregate.TotalMatches)
	assert.Len(t, derived.Roster, 8)
	assert.Len(t, derived.Players, 8)

	snapshot := derived.Snapshot()
	assert.Equal(t, memory.TeamIDGarudaU17, snapshot.TeamID)
	assert.Equal(t, 2, snapshot.Team.TotalMatches)
	assert.Equal(t, 1, snapshot.Players["grd-fwd-02"].Goals)

	team, _, err := svc.teams.GetByID(ctx, memory.TeamIDGarudaU17)
	require.NoError(t, err)
	assert.Zero(t, team.Statistics.TotalMatches)
}

func TestStatCacheWriter_RefreshIsRepeatable(t *testing.T) {
	ctx := context.Background()
	svc := newSeededServices(t, true, nil)

	for i := 0; i < 3; i++ {
		_, err := svc.writer.Refresh(ctx, memory.TeamIDGarudaU17)
		require.NoError(t, err)
	}

	team, _, err := svc.teams.GetByID(ctx, memory.TeamIDGarudaU17)
	require.NoError(t, err)
	assert.Equal(t, 2, team.Statistics.TotalMatches)
	assert.Equal(t, 2, team.Statistics.GoalsFor)

	scorer, _, err := svc.players.GetByID(ctx, "grd-fwd-02")
	require.NoError(t, err)
	assert.Equal(t, 1, scorer.Statistics.Goals)
	assert.Equal(t, 1, scorer.Statistics.MatchesPlayed)
}

func TestStatCacheWriter_UnknownTeam(t *testing.T) {
	svc := newSeededServices(t, true, nil)

	_, err := svc.writer.Refresh(context.Background(), "team-missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.writer.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestStatCacheWriter_RefreshDerivesAndReplacesUnderTeamLock(t *testing.T) {
	ctx := context.Background()
	cacheRepo := statcachemock.NewRepository(t)

	var held atomic.Bool
	cacheRepo.
		On("WithTeamLock", mock.Anything, memory.TeamIDGarudaU17, mock.Anything).
		Return(func(ctx context.Context, _ string, fn func(context.Context) error) error {
			held.Store(true)
			defer held.Store(false)
			return fn(ctx)
		}).
		Once()
	cacheRepo.
		On("Replace", mock.Anything, mock.MatchedBy(func(s statcache.Snapshot) bool { return s.TeamID == memory.TeamIDGarudaU17 })).
		Return(func(context.Context, statcache.Snapshot) error {
			if !held.Load() {
				return errors.New("replace outside team lock")
			}
			return nil
		}).
		Once()

	svc := newSeededServices(t, true, cacheRepo)
	derived, err := svc.writer.Refresh(ctx, memory.TeamIDGarudaU17)
	require.NoError(t, err)
	assert.Equal(t, 2, derived.Aggregate.TotalMatches)
}

func TestStatCacheWriter_ConcurrentRefreshesConverge(t *testing.T) {
	ctx := context.Background()
	svc := newSeededServices(t, true, nil)

	var wg conc.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Go(func() {
			_, err := svc.writer.Refresh(ctx, memory.TeamIDGarudaU17)
			assert.NoError(t, err)
		})
	}
	wg.Wait()

	team, _, err := svc.teams.GetByID(ctx, memory.TeamIDGarudaU17)
	require.NoError(t, err)
	assert.Equal(t, 2, team.Statistics.TotalMatches)
}
