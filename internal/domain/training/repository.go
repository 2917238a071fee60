package training

import "context"

type Repository interface {
	// ListRecentByTeams returns the latest sessions across the given teams,
	// newest first, capped at limit.
	ListRecentByTeams(ctx context.Context, teamIDs []string, limit int) ([]Training, error)
}
