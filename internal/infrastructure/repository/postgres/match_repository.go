package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/squad-stats/internal/domain/match"
	qb "github.com/riskibarqy/squad-stats/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("public_id", matchID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build select match by id query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match by id: %w", err)
	}

	item, err := row.toDomain()
	if err != nil {
		return match.Match{}, false, err
	}
	return item, true, nil
}

func (r *MatchRepository) ListByTeam(ctx context.Context, teamID string, filter match.ListFilter) ([]match.Match, error) {
	statuses := statusValues(filter.Statuses)

	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq("team_public_id", teamID),
			qb.When(len(statuses) > 0, qb.In("status", statuses)),
			qb.When(filter.Competition != "", qb.Expr("COALESCE(NULLIF(TRIM(competition), ''), ?) = ?", match.DefaultCompetition, filter.Competition)),
			qb.When(!filter.From.IsZero(), qb.Gte("kickoff_at", filter.From)),
			qb.When(!filter.To.IsZero(), qb.Lte("kickoff_at", filter.To)),
		).
		OrderBy("kickoff_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches by team query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches by team: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *MatchRepository) Create(ctx context.Context, item match.Match) error {
	query, args, err := qb.InsertModel("matches", matchInsertModel{
		PublicID:     item.ID,
		TeamID:       item.TeamID,
		OpponentName: item.OpponentName,
		Competition:  item.Competition,
		IsHome:       item.IsHome,
		Status:       string(item.Status),
		KickoffAt:    item.KickoffAt,
		Venue:        item.Venue,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert match query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("match %s already exists: %w", item.ID, err)
		}
		return fmt.Errorf("insert match: %w", err)
	}
	return nil
}

func (r *MatchRepository) AppendGoal(ctx context.Context, matchID string, goal match.Goal, guard match.StatusGuard) error {
	return r.appendEvent(ctx, matchID, "goals", goalDocumentFrom(goal), guard)
}

func (r *MatchRepository) AppendCard(ctx context.Context, matchID string, card match.Card, guard match.StatusGuard) error {
	return r.appendEvent(ctx, matchID, "cards", cardDocumentFrom(card), guard)
}

func (r *MatchRepository) AppendSubstitution(ctx context.Context, matchID string, sub match.Substitution, guard match.StatusGuard) error {
	return r.appendEvent(ctx, matchID, "substitutions", substitutionDocumentFrom(sub), guard)
}

// appendEvent concatenates in SQL so concurrent appends to one row serialize
// on the row lock instead of overwriting each other.
func (r *MatchRepository) appendEvent(ctx context.Context, matchID, column string, document any, guard match.StatusGuard) error {
	payload, err := encodeJSONB([]any{document}, "[]")
	if err != nil {
		return err
	}

	query, args, err := appendEventQuery(matchID, column, payload, guard)
	if err != nil {
		return fmt.Errorf("build append %s query: %w", column, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("append %s match=%s: %w", column, matchID, err)
	}
	return r.requireGuarded(ctx, result, matchID, "append "+column)
}

func appendEventQuery(matchID, column, payload string, guard match.StatusGuard) (string, []any, error) {
	return qb.Update("matches").
		SetExpr(column, column+" || ?::jsonb", payload).
		SetExpr("updated_at", "NOW()").
		Where(guardedMatch(matchID, guard)...).
		ToSQL()
}

func (r *MatchRepository) ReplaceLineup(ctx context.Context, matchID string, lineup []match.LineupEntry, substitutes []string, formation string, guard match.StatusGuard) error {
	lineupPayload, err := encodeJSONB(lineupDocuments(lineup), "[]")
	if err != nil {
		return err
	}
	if substitutes == nil {
		substitutes = []string{}
	}
	subsPayload, err := encodeJSONB(substitutes, "[]")
	if err != nil {
		return err
	}

	query, args, err := qb.Update("matches").
		SetExpr("lineup", "?::jsonb", lineupPayload).
		SetExpr("substitutes", "?::jsonb", subsPayload).
		Set("formation", formation).
		Set("status", string(match.StatusLineupSet)).
		SetExpr("updated_at", "NOW()").
		Where(guardedMatch(matchID, guard)...).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build replace lineup query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("replace lineup match=%s: %w", matchID, err)
	}
	return r.requireGuarded(ctx, result, matchID, "replace lineup")
}

func (r *MatchRepository) UpdateStatus(ctx context.Context, matchID string, status match.Status, guard match.StatusGuard) error {
	query, args, err := qb.Update("matches").
		Set("status", string(status)).
		SetExpr("updated_at", "NOW()").
		Where(guardedMatch(matchID, guard)...).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match status query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update match status match=%s: %w", matchID, err)
	}
	return r.requireGuarded(ctx, result, matchID, "update match status")
}

func (r *MatchRepository) Complete(ctx context.Context, matchID string, completion match.Completion, guard match.StatusGuard) error {
	statsPayload, err := encodeJSONB(statisticsDocumentFrom(completion.Statistics), "{}")
	if err != nil {
		return err
	}
	ratingsPayload, err := encodeJSONB(ratingDocuments(completion.PlayerRatings), "[]")
	if err != nil {
		return err
	}

	query, args, err := completeQuery(matchID, completion, statsPayload, ratingsPayload, guard)
	if err != nil {
		return fmt.Errorf("build complete match query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("complete match=%s: %w", matchID, err)
	}
	return r.requireGuarded(ctx, result, matchID, "complete match")
}

func completeQuery(matchID string, completion match.Completion, statsPayload, ratingsPayload string, guard match.StatusGuard) (string, []any, error) {
	return qb.Update("matches").
		Set("status", string(match.StatusCompleted)).
		Set("home_score", nullInt(completion.Score.Home)).
		Set("away_score", nullInt(completion.Score.Away)).
		SetExpr("statistics", "?::jsonb", statsPayload).
		SetExpr("player_ratings", "?::jsonb", ratingsPayload).
		Set("man_of_the_match", completion.ManOfTheMatch).
		Set("coach_notes", completion.CoachNotes).
		Set("completed_at", completion.CompletedAt).
		SetExpr("updated_at", "NOW()").
		Where(guardedMatch(matchID, guard)...).
		ToSQL()
}

// guardedMatch evaluates the status guard inside the UPDATE itself.
func guardedMatch(matchID string, guard match.StatusGuard) []qb.Condition {
	return []qb.Condition{
		qb.Eq("public_id", matchID),
		qb.When(len(guard) > 0, qb.In("status", statusValues(guard))),
	}
}

func statusValues(statuses []match.Status) []any {
	out := make([]any, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, string(status))
	}
	return out
}

// requireGuarded tells a missing match apart from one whose status no
// longer passes the guard when the update touched no rows.
func (r *MatchRepository) requireGuarded(ctx context.Context, result sql.Result, matchID, what string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected %s match=%s: %w", what, matchID, err)
	}
	if affected > 0 {
		return nil
	}

	query, args, err := qb.Select("status").From("matches").
		Where(qb.Eq("public_id", matchID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build select match status query: %w", err)
	}
	var status string
	if err := r.db.GetContext(ctx, &status, query, args...); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%s match=%s: %w", what, matchID, sql.ErrNoRows)
		}
		return fmt.Errorf("get match status match=%s: %w", matchID, err)
	}
	return fmt.Errorf("%s match=%s status=%s: %w", what, matchID, status, match.ErrStatusChanged)
}
