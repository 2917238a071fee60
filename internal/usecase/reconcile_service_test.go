package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/squad-stats/internal/infrastructure/repository/memory"
)

func TestReconcileService_DryRunReportsWithoutWriting(t *testing.T) {
	ctx := context.Background()
	svc := newSeededServices(t, true, nil)

	result, err := svc.reconcile.Reconcile(ctx, ReconcileInput{
		TeamIDs: []string{memory.TeamIDGarudaU17},
		DryRun:  true,
	})
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Equal(t, 1, result.TeamCount)
	assert.Equal(t, 1, result.SuccessCount)
	require.Len(t, result.Teams, 1)
	assert.NotEmpty(t, result.Teams[0].Discrepancies)
	assert.Equal(t, len(result.Teams[0].Discrepancies), result.DiscrepancyCount)

	var sawTeamWins bool
	for _, diff := range result.Teams[0].Discrepancies {
		if diff.Subject == "team" && diff.Field == "wins" {
			sawTeamWins = true
			assert.Equal(t, 0, diff.Cached)
			assert.Equal(t, 1, diff.Derived)
		}
	}
	assert.True(t, sawTeamWins)

	team, _, err := svc.teams.GetByID(ctx, memory.TeamIDGarudaU17)
	require.NoError(t, err)
	assert.Zero(t, team.Statistics.TotalMatches)
}

func TestReconcileService_OverwritesAndConverges(t *testing.T) {
	ctx := context.Background()
	svc := newSeededServices(t, true, nil)

	first, err := svc.reconcile.Reconcile(ctx, ReconcileInput{})
	require.NoError(t, err)
	assert.Equal(t, 2, first.TeamCount)
	assert.Equal(t, 2, first.SuccessCount)
	assert.Positive(t, first.DiscrepancyCount)
	require.Len(t, first.Teams, 2)
	assert.Equal(t, memory.TeamIDGarudaU17, first.Teams[0].TeamID)

	team, _, err := svc.teams.GetByID(ctx, memory.TeamIDGarudaU17)
	require.NoError(t, err)
	assert.Equal(t, 2, team.Statistics.TotalMatches)
	assert.Equal(t, 1, team.Statistics.Draws)

	booked, _, err := svc.players.GetByID(ctx, "grd-mid-01")
	require.NoError(t, err)
	assert.Equal(t, 2, booked.Statistics.YellowCards)
	assert.Equal(t, 1, booked.Statistics.RedCards)

	second, err := svc.reconcile.Reconcile(ctx, ReconcileInput{MaxWorkers: 1})
	require.NoError(t, err)
	assert.Zero(t, second.DiscrepancyCount)
	assert.Equal(t, 1, second.WorkerCount)
}

func TestReconcileService_UnknownTeamIsReportedNotFatal(t *testing.T) {
	ctx := context.Background()
	svc := newSeededServices(t, true, nil)

	result, err := svc.reconcile.Reconcile(ctx, ReconcileInput{
		TeamIDs: []string{"team-missing", memory.TeamIDRajawaliU15, memory.TeamIDRajawaliU15},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.TeamCount)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.FailedCount)

	for _, row := range result.Teams {
		if row.TeamID == "team-missing" {
			assert.Equal(t, reconcileStatusFailed, row.Status)
			assert.NotEmpty(t, row.Message)
		}
	}

	_, err = svc.reconcile.Reconcile(ctx, ReconcileInput{TeamIDs: []string{" "}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNormalizeReconcileWorkerCount(t *testing.T) {
	tests := []struct {
		name  string
		value int
		tasks int
		want  int
	}{
		{name: "no tasks", value: 4, tasks: 0, want: 1},
		{name: "default to one", value: 0, tasks: 5, want: 1},
		{name: "bounded by tasks", value: 8, tasks: 3, want: 3},
		{name: "bounded by max", value: 100, tasks: 100, want: reconcileWorkersMax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeReconcileWorkerCount(tt.value, tt.tasks); got != tt.want {
				t.Fatalf("normalizeReconcileWorkerCount(%d,%d)=%d want=%d", tt.value, tt.tasks, got, tt.want)
			}
		})
	}
}
