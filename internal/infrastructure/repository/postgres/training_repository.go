package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/squad-stats/internal/domain/training"
	qb "github.com/riskibarqy/squad-stats/internal/platform/querybuilder"
)

type trainingTableModel struct {
	ID          int64      `db:"id"`
	PublicID    string     `db:"public_id"`
	TeamID      string     `db:"team_public_id"`
	ScheduledAt time.Time  `db:"scheduled_at"`
	Attendance  []byte     `db:"attendance"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type attendanceDocument struct {
	PlayerID string `json:"player_id"`
	Status   string `json:"status"`
}

type TrainingRepository struct {
	db *sqlx.DB
}

func NewTrainingRepository(db *sqlx.DB) *TrainingRepository {
	return &TrainingRepository{db: db}
}

func (r *TrainingRepository) ListRecentByTeams(ctx context.Context, teamIDs []string, limit int) ([]training.Training, error) {
	if len(teamIDs) == 0 {
		return []training.Training{}, nil
	}

	values := make([]any, 0, len(teamIDs))
	for _, id := range teamIDs {
		values = append(values, id)
	}

	query, args, err := qb.Select("*").From("trainings").
		Where(
			qb.In("team_public_id", values),
			qb.IsNull("deleted_at"),
		).
		OrderBy("scheduled_at DESC", "public_id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select recent trainings query: %w", err)
	}

	var rows []trainingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select recent trainings: %w", err)
	}

	out := make([]training.Training, 0, len(rows))
	for _, row := range rows {
		var attendance []attendanceDocument
		if err := decodeJSONB(row.Attendance, &attendance); err != nil {
			return nil, fmt.Errorf("training %s attendance: %w", row.PublicID, err)
		}
		item := training.Training{
			ID:          row.PublicID,
			TeamID:      row.TeamID,
			ScheduledAt: row.ScheduledAt,
		}
		for _, a := range attendance {
			item.Attendance = append(item.Attendance, training.Attendance{
				PlayerID: a.PlayerID,
				Status:   training.AttendanceStatus(a.Status),
			})
		}
		out = append(out, item)
	}
	return out, nil
}
