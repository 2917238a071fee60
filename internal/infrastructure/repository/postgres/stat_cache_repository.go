package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/squad-stats/internal/domain/statcache"
	qb "github.com/riskibarqy/squad-stats/internal/platform/querybuilder"
)

type StatCacheRepository struct {
	db *sqlx.DB
}

func NewStatCacheRepository(db *sqlx.DB) *StatCacheRepository {
	return &StatCacheRepository{db: db}
}

// WithTeamLock holds a transaction-scoped advisory lock keyed by team for the
// duration of fn. Replace runs on its own connection, so the pool needs room
// for two connections per concurrent rebuild.
func (r *StatCacheRepository) WithTeamLock(ctx context.Context, teamID string, fn func(ctx context.Context) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx stat cache lock: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args := teamLockQuery(teamID)
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("lock stat cache team=%s: %w", teamID, err)
	}
	if err := fn(ctx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("release stat cache lock team=%s: %w", teamID, err)
	}
	return nil
}

func teamLockQuery(teamID string) (string, []any) {
	return "SELECT pg_advisory_xact_lock(hashtext($1))", []any{"stat_cache:" + teamID}
}

// Replace writes the team row and every player row in one transaction. The
// team row is locked first so concurrent rebuilds of one team serialize.
func (r *StatCacheRepository) Replace(ctx context.Context, snapshot statcache.Snapshot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace stat cache: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	lockQuery, lockArgs, err := qb.Select("id").From("teams").
		Where(
			qb.Eq("public_id", snapshot.TeamID),
			qb.IsNull("deleted_at"),
		).
		ForUpdate().
		ToSQL()
	if err != nil {
		return fmt.Errorf("build lock team query: %w", err)
	}
	var teamRowID int64
	if err := tx.GetContext(ctx, &teamRowID, lockQuery, lockArgs...); err != nil {
		return fmt.Errorf("lock team=%s: %w", snapshot.TeamID, err)
	}

	teamQuery, teamArgs, err := qb.Update("teams").
		Set("total_matches", snapshot.Team.TotalMatches).
		Set("wins", snapshot.Team.Wins).
		Set("draws", snapshot.Team.Draws).
		Set("losses", snapshot.Team.Losses).
		Set("goals_for", snapshot.Team.GoalsFor).
		Set("goals_against", snapshot.Team.GoalsAgainst).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", teamRowID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update team statistics query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, teamQuery, teamArgs...); err != nil {
		return fmt.Errorf("update team statistics team=%s: %w", snapshot.TeamID, err)
	}

	playerIDs := make([]string, 0, len(snapshot.Players))
	for id := range snapshot.Players {
		playerIDs = append(playerIDs, id)
	}
	sort.Strings(playerIDs)

	for _, playerID := range playerIDs {
		stats := snapshot.Players[playerID]
		query, args, err := qb.Update("players").
			Set("matches_played", stats.MatchesPlayed).
			Set("goals", stats.Goals).
			Set("assists", stats.Assists).
			Set("yellow_cards", stats.YellowCards).
			Set("red_cards", stats.RedCards).
			Set("minutes_played", stats.MinutesPlayed).
			SetExpr("updated_at", "NOW()").
			Where(
				qb.Eq("public_id", playerID),
				qb.Eq("team_public_id", snapshot.TeamID),
				qb.IsNull("deleted_at"),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build update player statistics query: %w", err)
		}
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update player statistics player=%s: %w", playerID, err)
		}
		if err := requireAffected(result, "update player statistics player="+playerID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace stat cache tx: %w", err)
	}
	return nil
}
