package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/squad-stats/internal/domain/player"
	qb "github.com/riskibarqy/squad-stats/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(
			qb.Eq("public_id", playerID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build select player by id query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player by id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID string) ([]player.Player, error) {
	return r.ListByTeams(ctx, []string{teamID})
}

func (r *PlayerRepository) ListByTeams(ctx context.Context, teamIDs []string) ([]player.Player, error) {
	if len(teamIDs) == 0 {
		return []player.Player{}, nil
	}

	values := make([]any, 0, len(teamIDs))
	for _, id := range teamIDs {
		values = append(values, id)
	}

	query, args, err := qb.Select("*").From("players").
		Where(
			qb.In("team_public_id", values),
			qb.IsNull("deleted_at"),
		).
		OrderBy("team_public_id", "jersey_number", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by teams query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players by teams: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (row playerTableModel) toDomain() player.Player {
	return player.Player{
		ID:           row.PublicID,
		TeamID:       row.TeamID,
		Name:         row.Name,
		JerseyNumber: row.JerseyNumber,
		Position:     player.Position(row.Position),
		PhotoURL:     row.PhotoURL,
		IsActive:     row.IsActive,
		Statistics: player.Statistics{
			MatchesPlayed: row.MatchesPlayed,
			Goals:         row.Goals,
			Assists:       row.Assists,
			YellowCards:   row.YellowCards,
			RedCards:      row.RedCards,
			MinutesPlayed: row.MinutesPlayed,
		},
		Ratings: player.SkillRatings{
			Pace:      row.SkillPace,
			Shooting:  row.SkillShooting,
			Passing:   row.SkillPassing,
			Dribbling: row.SkillDribbling,
			Defending: row.SkillDefending,
			Physical:  row.SkillPhysical,
		},
	}
}
