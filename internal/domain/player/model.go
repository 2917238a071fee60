package player

import "fmt"

// Position is the roster position group used for distribution reports.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

// Statistics is the cached counter block stored on the player record. It is
// advisory: derived aggregates over the match log win on any disagreement.
type Statistics struct {
	MatchesPlayed int
	Goals         int
	Assists       int
	YellowCards   int
	RedCards      int
	MinutesPlayed int
}

// SkillRatings are coach-assessed 1-100 attributes, unrelated to match ratings.
type SkillRatings struct {
	Pace      int
	Shooting  int
	Passing   int
	Dribbling int
	Defending int
	Physical  int
}

// Player is one roster member of a team.
type Player struct {
	ID           string
	TeamID       string
	Name         string
	JerseyNumber int
	Position     Position
	PhotoURL     string
	IsActive     bool
	Statistics   Statistics
	Ratings      SkillRatings
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.TeamID == "" {
		return fmt.Errorf("player team id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}

	return nil
}
