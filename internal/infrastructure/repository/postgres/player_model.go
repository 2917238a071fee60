package postgres

import "time"

type playerTableModel struct {
	ID             int64      `db:"id"`
	PublicID       string     `db:"public_id"`
	TeamID         string     `db:"team_public_id"`
	Name           string     `db:"name"`
	JerseyNumber   int        `db:"jersey_number"`
	Position       string     `db:"position"`
	PhotoURL       string     `db:"photo_url"`
	IsActive       bool       `db:"is_active"`
	MatchesPlayed  int        `db:"matches_played"`
	Goals          int        `db:"goals"`
	Assists        int        `db:"assists"`
	YellowCards    int        `db:"yellow_cards"`
	RedCards       int        `db:"red_cards"`
	MinutesPlayed  int        `db:"minutes_played"`
	SkillPace      int        `db:"skill_pace"`
	SkillShooting  int        `db:"skill_shooting"`
	SkillPassing   int        `db:"skill_passing"`
	SkillDribbling int        `db:"skill_dribbling"`
	SkillDefending int        `db:"skill_defending"`
	SkillPhysical  int        `db:"skill_physical"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}

type playerInsertModel struct {
	PublicID     string `db:"public_id"`
	TeamID       string `db:"team_public_id"`
	Name         string `db:"name"`
	JerseyNumber int    `db:"jersey_number"`
	Position     string `db:"position"`
	PhotoURL     string `db:"photo_url"`
	IsActive     bool   `db:"is_active"`
}
