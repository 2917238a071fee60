package match

import (
	"strings"
	"time"
)

// Status is the lifecycle state of one fixture.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusLineupSet  Status = "lineup_set"
	StatusInProgress Status = "in_progress"
	StatusHalfTime   Status = "half_time"
	StatusCompleted  Status = "completed"
	StatusPostponed  Status = "postponed"
	StatusCancelled  Status = "cancelled"
)

// DefaultCompetition labels matches recorded without a competition name.
const DefaultCompetition = "Friendly"

type GoalType string

const (
	GoalTypeOpenPlay GoalType = "open_play"
	GoalTypePenalty  GoalType = "penalty"
	GoalTypeFreeKick GoalType = "free_kick"
	GoalTypeHeader   GoalType = "header"
	GoalTypeOwnGoal  GoalType = "own_goal"
)

type CardType string

const (
	CardTypeYellow       CardType = "yellow"
	CardTypeRed          CardType = "red"
	CardTypeSecondYellow CardType = "second_yellow"
)

type SubstitutionReason string

const (
	SubstitutionReasonTactical SubstitutionReason = "tactical"
	SubstitutionReasonInjury   SubstitutionReason = "injury"
	SubstitutionReasonFatigue  SubstitutionReason = "fatigue"
	SubstitutionReasonOther    SubstitutionReason = "other"
)

// Score is always indexed by literal home/away, never by our/their side.
type Score struct {
	Home *int
	Away *int
}

func NewScore(home, away int) Score {
	return Score{Home: &home, Away: &away}
}

type LineupEntry struct {
	PlayerID     string
	Position     string
	PositionX    float64
	PositionY    float64
	IsSubstitute bool
	IsCaptain    bool
}

type Goal struct {
	ID             string
	PlayerID       string
	Minute         int
	Type           GoalType
	AssistPlayerID string
}

type Card struct {
	ID       string
	PlayerID string
	Minute   int
	Type     CardType
	Reason   string
}

type Substitution struct {
	ID          string
	PlayerOutID string
	PlayerInID  string
	Minute      int
	Reason      SubstitutionReason
}

type PlayerRating struct {
	PlayerID string
	Rating   float64
}

// SideStatistics holds pass-through per-side match figures.
type SideStatistics struct {
	Possession    int
	Shots         int
	ShotsOnTarget int
	Corners       int
	Fouls         int
	Offsides      int
}

type Statistics struct {
	Home SideStatistics
	Away SideStatistics
}

// Match is one fixture of the owning team plus its recorded event log.
type Match struct {
	ID            string
	TeamID        string
	OpponentName  string
	Competition   string
	IsHome        bool
	Status        Status
	KickoffAt     time.Time
	Venue         string
	Formation     string
	Score         Score
	Lineup        []LineupEntry
	Substitutes   []string
	Goals         []Goal
	Cards         []Card
	Substitutions []Substitution
	PlayerRatings []PlayerRating
	Statistics    Statistics
	ManOfTheMatch string
	CoachNotes    string
	CompletedAt   *time.Time
	UpdatedAt     time.Time
}

func (m Match) IsCompleted() bool {
	return m.Status == StatusCompleted
}

// CompetitionLabel returns the competition name used for grouping.
func (m Match) CompetitionLabel() string {
	name := strings.TrimSpace(m.Competition)
	if name == "" {
		return DefaultCompetition
	}
	return name
}

func ParseStatus(value string) (Status, bool) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	switch status {
	case StatusScheduled, StatusLineupSet, StatusInProgress, StatusHalfTime,
		StatusCompleted, StatusPostponed, StatusCancelled:
		return status, true
	default:
		return "", false
	}
}

func ParseCardType(value string) (CardType, bool) {
	cardType := CardType(strings.ToLower(strings.TrimSpace(value)))
	switch cardType {
	case CardTypeYellow, CardTypeRed, CardTypeSecondYellow:
		return cardType, true
	default:
		return "", false
	}
}

func ParseGoalType(value string) (GoalType, bool) {
	goalType := GoalType(strings.ToLower(strings.TrimSpace(value)))
	switch goalType {
	case "":
		return GoalTypeOpenPlay, true
	case GoalTypeOpenPlay, GoalTypePenalty, GoalTypeFreeKick, GoalTypeHeader, GoalTypeOwnGoal:
		return goalType, true
	default:
		return "", false
	}
}

func ParseSubstitutionReason(value string) SubstitutionReason {
	reason := SubstitutionReason(strings.ToLower(strings.TrimSpace(value)))
	switch reason {
	case SubstitutionReasonTactical, SubstitutionReasonInjury, SubstitutionReasonFatigue:
		return reason
	default:
		return SubstitutionReasonOther
	}
}
