package team

import "fmt"

// Statistics is the cached season block stored on the team record.
type Statistics struct {
	TotalMatches int
	Wins         int
	Draws        int
	Losses       int
	GoalsFor     int
	GoalsAgainst int
}

// Team is one squad managed by a coach.
type Team struct {
	ID         string
	Name       string
	Short      string
	AgeGroup   string
	CoachID    string
	LogoURL    string
	Statistics Statistics
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
