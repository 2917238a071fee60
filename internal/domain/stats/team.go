package stats

import (
	"sort"
	"strings"

	"github.com/riskibarqy/squad-stats/internal/domain/match"
	"github.com/riskibarqy/squad-stats/internal/domain/team"
)

const (
	pointsPerWin  = 3
	pointsPerDraw = 1

	// DefaultFormLength is the number of matches in a form string.
	DefaultFormLength = 5
)

// TeamAggregate is the derived team record over a match set.
// SkippedMatches counts completed matches owned by another team.
type TeamAggregate struct {
	TeamID         string
	TotalMatches   int
	Wins           int
	Draws          int
	Losses         int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Points         int
	CleanSheets    int
	SkippedMatches int
}

// CompetitionRecord is the per-competition slice of a team fold.
type CompetitionRecord struct {
	Played int
	Wins   int
	Draws  int
	Losses int
}

func Points(wins, draws int) int {
	return wins*pointsPerWin + draws*pointsPerDraw
}

// AggregateTeam folds completed matches into team totals. Lineup data is not
// consulted, so matches without a lineup still count.
func AggregateTeam(teamID string, matches []match.Match) TeamAggregate {
	out := TeamAggregate{TeamID: teamID}
	for _, item := range matches {
		if !item.IsCompleted() {
			continue
		}
		if teamID != "" && item.TeamID != "" && item.TeamID != teamID {
			out.SkippedMatches++
			continue
		}

		outcome, ours, theirs := Result(item)
		out.TotalMatches++
		out.GoalsFor += ours
		out.GoalsAgainst += theirs
		if theirs == 0 {
			out.CleanSheets++
		}
		switch outcome {
		case OutcomeWin:
			out.Wins++
		case OutcomeDraw:
			out.Draws++
		default:
			out.Losses++
		}
	}
	out.GoalDifference = out.GoalsFor - out.GoalsAgainst
	out.Points = Points(out.Wins, out.Draws)
	return out
}

// RecentForm returns the outcomes of the n most recent completed matches,
// newest first. Kickoff ties are broken by match id.
func RecentForm(matches []match.Match, n int) []Outcome {
	if n <= 0 {
		n = DefaultFormLength
	}

	completed := make([]match.Match, 0, len(matches))
	for _, item := range matches {
		if item.IsCompleted() {
			completed = append(completed, item)
		}
	}
	sort.SliceStable(completed, func(i, j int) bool {
		if !completed[i].KickoffAt.Equal(completed[j].KickoffAt) {
			return completed[i].KickoffAt.After(completed[j].KickoffAt)
		}
		return completed[i].ID < completed[j].ID
	})
	if len(completed) > n {
		completed = completed[:n]
	}

	out := make([]Outcome, 0, len(completed))
	for _, item := range completed {
		outcome, _, _ := Result(item)
		out = append(out, outcome)
	}
	return out
}

func FormString(form []Outcome) string {
	var b strings.Builder
	b.Grow(len(form))
	for _, outcome := range form {
		b.WriteString(string(outcome))
	}
	return b.String()
}

// CompetitionBreakdown groups completed matches by competition label.
func CompetitionBreakdown(matches []match.Match) map[string]CompetitionRecord {
	out := make(map[string]CompetitionRecord)
	for _, item := range matches {
		if !item.IsCompleted() {
			continue
		}
		label := item.CompetitionLabel()
		record := out[label]
		record.Played++
		outcome, _, _ := Result(item)
		switch outcome {
		case OutcomeWin:
			record.Wins++
		case OutcomeDraw:
			record.Draws++
		default:
			record.Losses++
		}
		out[label] = record
	}
	return out
}

func (a TeamAggregate) ToStatistics() team.Statistics {
	return team.Statistics{
		TotalMatches: a.TotalMatches,
		Wins:         a.Wins,
		Draws:        a.Draws,
		Losses:       a.Losses,
		GoalsFor:     a.GoalsFor,
		GoalsAgainst: a.GoalsAgainst,
	}
}
