package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/squad-stats/internal/domain/stats"
	"github.com/riskibarqy/squad-stats/internal/domain/team"
	"github.com/riskibarqy/squad-stats/internal/platform/logging"
)

const (
	reconcileStatusSuccess = "success"
	reconcileStatusFailed  = "failed"

	reconcileWorkersMax = 16
)

type ReconcileInput struct {
	TeamIDs    []string
	MaxWorkers int
	// DryRun reports discrepancies without overwriting the cache.
	DryRun bool
}

type ReconcileResult struct {
	TeamCount        int                   `json:"team_count"`
	SuccessCount     int                   `json:"success_count"`
	FailedCount      int                   `json:"failed_count"`
	DiscrepancyCount int                   `json:"discrepancy_count"`
	WorkerCount      int                   `json:"worker_count"`
	DryRun           bool                  `json:"dry_run"`
	Teams            []ReconcileTeamResult `json:"teams"`
}

type ReconcileTeamResult struct {
	TeamID        string                 `json:"team_id"`
	Status        string                 `json:"status"`
	Discrepancies []ReconcileDiscrepancy `json:"discrepancies,omitempty"`
	DurationMs    int64                  `json:"duration_ms"`
	Message       string                 `json:"message,omitempty"`
}

type ReconcileDiscrepancy struct {
	Subject   string `json:"subject"`
	SubjectID string `json:"subject_id"`
	Field     string `json:"field"`
	Cached    int    `json:"cached"`
	Derived   int    `json:"derived"`
}

type cacheRebuilder interface {
	Derive(ctx context.Context, teamID string) (TeamDerivation, error)
	Apply(ctx context.Context, derived TeamDerivation) error
	WithTeamLock(ctx context.Context, teamID string, fn func(ctx context.Context) error) error
}

// ReconcileService overwrites cached counters from a fresh aggregation pass,
// logging every counter that had drifted.
type ReconcileService struct {
	teamRepo       team.Repository
	writer         cacheRebuilder
	defaultWorkers int
	logger         *logging.Logger
}

func NewReconcileService(teamRepo team.Repository, writer cacheRebuilder, defaultWorkers int, logger *logging.Logger) *ReconcileService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ReconcileService{
		teamRepo:       teamRepo,
		writer:         writer,
		defaultWorkers: defaultWorkers,
		logger:         logger,
	}
}

func (s *ReconcileService) Reconcile(ctx context.Context, input ReconcileInput) (out ReconcileResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.Reconcile")
	defer func() { endUsecaseSpan(span, err) }()

	teamIDs, err := s.resolveTeamIDs(ctx, input.TeamIDs)
	if err != nil {
		return ReconcileResult{}, err
	}

	maxWorkers := input.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = s.defaultWorkers
	}
	workerCount := normalizeReconcileWorkerCount(maxWorkers, len(teamIDs))
	result := ReconcileResult{
		TeamCount:   len(teamIDs),
		WorkerCount: workerCount,
		DryRun:      input.DryRun,
		Teams:       make([]ReconcileTeamResult, 0, len(teamIDs)),
	}
	if len(teamIDs) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	rows := make(chan ReconcileTeamResult, len(teamIDs))
	var successCount atomic.Int32
	var failedCount atomic.Int32
	var discrepancyCount atomic.Int32

	var workers sync.WaitGroup
	for _, teamID := range teamIDs {
		teamID := teamID
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row := s.reconcileTeam(ctx, teamID, input.DryRun)
			if row.Status == reconcileStatusSuccess {
				successCount.Add(1)
			} else {
				failedCount.Add(1)
			}
			discrepancyCount.Add(int32(len(row.Discrepancies)))
			rows <- row
		}); err != nil {
			workers.Done()
			return ReconcileResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.Teams = append(result.Teams, row)
	}
	sort.SliceStable(result.Teams, func(i, j int) bool {
		return result.Teams[i].TeamID < result.Teams[j].TeamID
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	result.DiscrepancyCount = int(discrepancyCount.Load())

	s.logger.InfoContext(ctx, "reconcile finished",
		"team_count", result.TeamCount,
		"success_count", result.SuccessCount,
		"failed_count", result.FailedCount,
		"discrepancy_count", result.DiscrepancyCount,
		"dry_run", result.DryRun,
	)
	return result, nil
}

func (s *ReconcileService) reconcileTeam(ctx context.Context, teamID string, dryRun bool) ReconcileTeamResult {
	start := time.Now()
	row := ReconcileTeamResult{TeamID: teamID}

	stage := "lock"
	err := s.writer.WithTeamLock(ctx, teamID, func(ctx context.Context) error {
		stage = "derive"
		derived, err := s.writer.Derive(ctx, teamID)
		if err != nil {
			return err
		}

		for _, diff := range stats.CompareTeam(derived.Team.Statistics, derived.Aggregate) {
			row.Discrepancies = append(row.Discrepancies, ReconcileDiscrepancy{
				Subject: "team", SubjectID: teamID, Field: diff.Field, Cached: diff.Cached, Derived: diff.Derived,
			})
		}
		for _, p := range derived.Roster {
			for _, diff := range stats.ComparePlayer(p.Statistics, derived.Players[p.ID]) {
				row.Discrepancies = append(row.Discrepancies, ReconcileDiscrepancy{
					Subject: "player", SubjectID: p.ID, Field: diff.Field, Cached: diff.Cached, Derived: diff.Derived,
				})
			}
		}
		for _, diff := range row.Discrepancies {
			s.logger.WarnContext(ctx, "cached statistic diverges from match log",
				"team_id", teamID,
				"subject", diff.Subject,
				"subject_id", diff.SubjectID,
				"field", diff.Field,
				"cached", diff.Cached,
				"derived", diff.Derived,
			)
		}

		if dryRun {
			return nil
		}
		stage = "overwrite"
		return s.writer.Apply(ctx, derived)
	})
	if err != nil {
		row.Status = reconcileStatusFailed
		row.Message = err.Error()
		row.DurationMs = time.Since(start).Milliseconds()
		s.logger.WarnContext(ctx, "reconcile "+stage+" failed", "team_id", teamID, "error", err)
		return row
	}

	row.Status = reconcileStatusSuccess
	row.DurationMs = time.Since(start).Milliseconds()
	return row
}

func (s *ReconcileService) resolveTeamIDs(ctx context.Context, requested []string) ([]string, error) {
	if len(requested) > 0 {
		seen := make(map[string]struct{}, len(requested))
		out := make([]string, 0, len(requested))
		for _, raw := range requested {
			teamID := strings.TrimSpace(raw)
			if teamID == "" {
				return nil, fmt.Errorf("%w: empty team id", ErrInvalidInput)
			}
			if _, dup := seen[teamID]; dup {
				continue
			}
			seen[teamID] = struct{}{}
			out = append(out, teamID)
		}
		sort.Strings(out)
		return out, nil
	}

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	out := make([]string, 0, len(teams))
	for _, item := range teams {
		out = append(out, item.ID)
	}
	sort.Strings(out)
	return out, nil
}

func normalizeReconcileWorkerCount(value int, taskCount int) int {
	if taskCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = 1
	}
	if value > reconcileWorkersMax {
		value = reconcileWorkersMax
	}
	if value > taskCount {
		value = taskCount
	}
	return value
}
