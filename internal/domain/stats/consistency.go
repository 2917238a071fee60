package stats

import (
	"github.com/riskibarqy/squad-stats/internal/domain/player"
	"github.com/riskibarqy/squad-stats/internal/domain/team"
)

// Discrepancy is one cached counter that disagrees with the derived value.
// The derived value always wins.
type Discrepancy struct {
	Field   string
	Cached  int
	Derived int
}

func ComparePlayer(cached player.Statistics, derived PlayerAggregate) []Discrepancy {
	want := derived.ToStatistics()
	return collect(
		field("matches_played", cached.MatchesPlayed, want.MatchesPlayed),
		field("goals", cached.Goals, want.Goals),
		field("assists", cached.Assists, want.Assists),
		field("yellow_cards", cached.YellowCards, want.YellowCards),
		field("red_cards", cached.RedCards, want.RedCards),
		field("minutes_played", cached.MinutesPlayed, want.MinutesPlayed),
	)
}

func CompareTeam(cached team.Statistics, derived TeamAggregate) []Discrepancy {
	want := derived.ToStatistics()
	return collect(
		field("total_matches", cached.TotalMatches, want.TotalMatches),
		field("wins", cached.Wins, want.Wins),
		field("draws", cached.Draws, want.Draws),
		field("losses", cached.Losses, want.Losses),
		field("goals_for", cached.GoalsFor, want.GoalsFor),
		field("goals_against", cached.GoalsAgainst, want.GoalsAgainst),
	)
}

func field(name string, cached, derived int) Discrepancy {
	return Discrepancy{Field: name, Cached: cached, Derived: derived}
}

func collect(items ...Discrepancy) []Discrepancy {
	var out []Discrepancy
	for _, item := range items {
		if item.Cached != item.Derived {
			out = append(out, item)
		}
	}
	return out
}
