package postgres

import "time"

type teamTableModel struct {
	ID           int64      `db:"id"`
	PublicID     string     `db:"public_id"`
	Name         string     `db:"name"`
	Short        string     `db:"short"`
	AgeGroup     string     `db:"age_group"`
	CoachID      string     `db:"coach_id"`
	LogoURL      string     `db:"logo_url"`
	TotalMatches int        `db:"total_matches"`
	Wins         int        `db:"wins"`
	Draws        int        `db:"draws"`
	Losses       int        `db:"losses"`
	GoalsFor     int        `db:"goals_for"`
	GoalsAgainst int        `db:"goals_against"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

type teamInsertModel struct {
	PublicID string `db:"public_id"`
	Name     string `db:"name"`
	Short    string `db:"short"`
	AgeGroup string `db:"age_group"`
	CoachID  string `db:"coach_id"`
	LogoURL  string `db:"logo_url"`
}
