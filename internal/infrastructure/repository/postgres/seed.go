package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/squad-stats/internal/infrastructure/repository/memory"
	qb "github.com/riskibarqy/squad-stats/internal/platform/querybuilder"
)

type matchSeedModel struct {
	PublicID      string        `db:"public_id"`
	TeamID        string        `db:"team_public_id"`
	OpponentName  string        `db:"opponent_name"`
	Competition   string        `db:"competition"`
	IsHome        bool          `db:"is_home"`
	Status        string        `db:"status"`
	KickoffAt     time.Time     `db:"kickoff_at"`
	Venue         string        `db:"venue"`
	Formation     string        `db:"formation"`
	HomeScore     sql.NullInt64 `db:"home_score"`
	AwayScore     sql.NullInt64 `db:"away_score"`
	Lineup        string        `db:"lineup"`
	Substitutes   string        `db:"substitutes"`
	Goals         string        `db:"goals"`
	Cards         string        `db:"cards"`
	Substitutions string        `db:"substitutions"`
	PlayerRatings string        `db:"player_ratings"`
	ManOfTheMatch string        `db:"man_of_the_match"`
	CompletedAt   *time.Time    `db:"completed_at"`
}

type trainingSeedModel struct {
	PublicID    string    `db:"public_id"`
	TeamID      string    `db:"team_public_id"`
	ScheduledAt time.Time `db:"scheduled_at"`
	Attendance  string    `db:"attendance"`
}

// BootstrapSeed loads the demo roster and match log into an empty database.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM teams WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count teams for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	teams := make([]teamInsertModel, 0)
	for _, t := range memory.SeedTeams() {
		teams = append(teams, teamInsertModel{
			PublicID: t.ID,
			Name:     t.Name,
			Short:    t.Short,
			AgeGroup: t.AgeGroup,
			CoachID:  t.CoachID,
			LogoURL:  t.LogoURL,
		})
	}
	if err := execSeed(ctx, tx, "teams", teams); err != nil {
		return err
	}

	players := make([]playerInsertModel, 0)
	for _, p := range memory.SeedPlayers() {
		players = append(players, playerInsertModel{
			PublicID:     p.ID,
			TeamID:       p.TeamID,
			Name:         p.Name,
			JerseyNumber: p.JerseyNumber,
			Position:     string(p.Position),
			PhotoURL:     p.PhotoURL,
			IsActive:     p.IsActive,
		})
	}
	if err := execSeed(ctx, tx, "players", players); err != nil {
		return err
	}

	matches := make([]matchSeedModel, 0)
	for _, m := range memory.SeedMatches() {
		row := matchSeedModel{
			PublicID:      m.ID,
			TeamID:        m.TeamID,
			OpponentName:  m.OpponentName,
			Competition:   m.Competition,
			IsHome:        m.IsHome,
			Status:        string(m.Status),
			KickoffAt:     m.KickoffAt,
			Venue:         m.Venue,
			Formation:     m.Formation,
			HomeScore:     nullInt(m.Score.Home),
			AwayScore:     nullInt(m.Score.Away),
			ManOfTheMatch: m.ManOfTheMatch,
			CompletedAt:   m.CompletedAt,
		}

		goals := make([]goalDocument, 0, len(m.Goals))
		for _, g := range m.Goals {
			goals = append(goals, goalDocumentFrom(g))
		}
		cards := make([]cardDocument, 0, len(m.Cards))
		for _, c := range m.Cards {
			cards = append(cards, cardDocumentFrom(c))
		}
		subs := make([]substitutionDocument, 0, len(m.Substitutions))
		for _, s := range m.Substitutions {
			subs = append(subs, substitutionDocumentFrom(s))
		}
		substitutes := m.Substitutes
		if substitutes == nil {
			substitutes = []string{}
		}

		documents := []struct {
			dst   *string
			value any
		}{
			{&row.Lineup, lineupDocuments(m.Lineup)},
			{&row.Substitutes, substitutes},
			{&row.Goals, goals},
			{&row.Cards, cards},
			{&row.Substitutions, subs},
			{&row.PlayerRatings, ratingDocuments(m.PlayerRatings)},
		}
		for _, d := range documents {
			encoded, err := encodeJSONB(d.value, "[]")
			if err != nil {
				return fmt.Errorf("encode seed match %s: %w", m.ID, err)
			}
			*d.dst = encoded
		}
		matches = append(matches, row)
	}
	if err := execSeed(ctx, tx, "matches", matches); err != nil {
		return err
	}

	trainings := make([]trainingSeedModel, 0)
	for _, t := range memory.SeedTrainings() {
		attendance := make([]attendanceDocument, 0, len(t.Attendance))
		for _, a := range t.Attendance {
			attendance = append(attendance, attendanceDocument{PlayerID: a.PlayerID, Status: string(a.Status)})
		}
		encoded, err := encodeJSONB(attendance, "[]")
		if err != nil {
			return fmt.Errorf("encode seed training %s: %w", t.ID, err)
		}
		trainings = append(trainings, trainingSeedModel{
			PublicID:    t.ID,
			TeamID:      t.TeamID,
			ScheduledAt: t.ScheduledAt,
			Attendance:  encoded,
		})
	}
	if err := execSeed(ctx, tx, "trainings", trainings); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}

func execSeed[T any](ctx context.Context, tx *sqlx.Tx, table string, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	query, args, err := qb.InsertModels(table, rows, "ON CONFLICT (public_id) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build seed %s query: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("seed %s: %w", table, err)
	}
	return nil
}
