package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/squad-stats/internal/domain/training"
)

type TrainingRepository struct {
	mu     sync.RWMutex
	byTeam map[string][]training.Training
}

func NewTrainingRepository(items []training.Training) *TrainingRepository {
	byTeam := make(map[string][]training.Training)
	for _, item := range items {
		byTeam[item.TeamID] = append(byTeam[item.TeamID], item)
	}
	return &TrainingRepository{byTeam: byTeam}
}

func (r *TrainingRepository) ListRecentByTeams(_ context.Context, teamIDs []string, limit int) ([]training.Training, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]training.Training, 0)
	seen := make(map[string]struct{}, len(teamIDs))
	for _, teamID := range teamIDs {
		if _, ok := seen[teamID]; ok {
			continue
		}
		seen[teamID] = struct{}{}
		for _, item := range r.byTeam[teamID] {
			copied := item
			copied.Attendance = append([]training.Attendance(nil), item.Attendance...)
			out = append(out, copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledAt.Equal(out[j].ScheduledAt) {
			return out[i].ScheduledAt.After(out[j].ScheduledAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
