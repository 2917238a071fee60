package stats

import "github.com/riskibarqy/squad-stats/internal/domain/match"

// DefaultMatchLength is the regulation length used for minutes played.
const DefaultMatchLength = 90

// Played reports whether the player took the field: listed as a starter, or
// brought on by a substitution. Bench entries alone do not count.
func Played(item match.Match, playerID string) bool {
	if playerID == "" || len(item.Lineup) == 0 {
		return false
	}
	for _, entry := range item.Lineup {
		if entry.PlayerID == playerID && !entry.IsSubstitute {
			return true
		}
	}
	for _, sub := range item.Substitutions {
		if sub.PlayerInID == playerID {
			return true
		}
	}
	return false
}

// MinutesPlayed estimates on-field minutes from the lineup and substitutions.
// A starter plays until substituted off, a substitute from entry until
// substituted off again or full time.
func MinutesPlayed(item match.Match, playerID string, matchLength int) int {
	if !Played(item, playerID) {
		return 0
	}
	if matchLength <= 0 {
		matchLength = DefaultMatchLength
	}

	start := -1
	for _, entry := range item.Lineup {
		if entry.PlayerID == playerID && !entry.IsSubstitute {
			start = 0
			break
		}
	}
	if start < 0 {
		for _, sub := range item.Substitutions {
			if sub.PlayerInID == playerID && (start < 0 || sub.Minute < start) {
				start = sub.Minute
			}
		}
	}

	end := matchLength
	for _, sub := range item.Substitutions {
		if sub.PlayerOutID == playerID && sub.Minute >= start && sub.Minute < end {
			end = sub.Minute
		}
	}

	start = clampMinute(start, matchLength)
	end = clampMinute(end, matchLength)
	if end < start {
		return 0
	}
	return end - start
}

func clampMinute(minute, matchLength int) int {
	if minute < 0 {
		return 0
	}
	if minute > matchLength {
		return matchLength
	}
	return minute
}
