package statcache

import (
	"context"

	"github.com/riskibarqy/squad-stats/internal/domain/player"
	"github.com/riskibarqy/squad-stats/internal/domain/team"
)

// Snapshot is a full replacement of one team's cached counters and the
// counters of every listed player. Writers always send recomputed values.
type Snapshot struct {
	TeamID  string
	Team    team.Statistics
	Players map[string]player.Statistics
}

// Repository overwrites cached counters. Implementations apply a snapshot as
// one unit so a reader never sees the team row ahead of its players.
type Repository interface {
	Replace(ctx context.Context, snapshot Snapshot) error
	// WithTeamLock runs fn while holding an exclusive lock for teamID. Writers
	// derive and replace inside fn so rebuilds of one team never interleave.
	WithTeamLock(ctx context.Context, teamID string, fn func(ctx context.Context) error) error
}
