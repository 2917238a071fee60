package stats

import "github.com/riskibarqy/squad-stats/internal/domain/match"

// Outcome is a team-relative match result.
type Outcome string

const (
	OutcomeWin  Outcome = "W"
	OutcomeDraw Outcome = "D"
	OutcomeLoss Outcome = "L"
)

// Normalize converts a home/away indexed score into our/their goals for the
// team that owns the match. Missing halves count as zero.
func Normalize(isHome bool, score match.Score) (ours, theirs int) {
	home := valueOrZero(score.Home)
	away := valueOrZero(score.Away)
	if isHome {
		return home, away
	}
	return away, home
}

func Classify(ours, theirs int) Outcome {
	switch {
	case ours > theirs:
		return OutcomeWin
	case ours < theirs:
		return OutcomeLoss
	default:
		return OutcomeDraw
	}
}

// Result normalizes and classifies a single match.
func Result(item match.Match) (Outcome, int, int) {
	ours, theirs := Normalize(item.IsHome, item.Score)
	return Classify(ours, theirs), ours, theirs
}

func valueOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
