package stats

import (
	"math"

	"github.com/riskibarqy/squad-stats/internal/domain/match"
	"github.com/riskibarqy/squad-stats/internal/domain/player"
)

// PlayerAggregate is derived from the event log and never persisted.
// AverageRating is nil when the player has no positive rating in the set.
type PlayerAggregate struct {
	PlayerID      string
	MatchesPlayed int
	Goals         int
	Assists       int
	YellowCards   int
	RedCards      int
	MinutesPlayed int
	AverageRating *float64
	SkippedEvents int
}

// Roster is the set of player ids known to belong to the team. A nil roster
// disables reference checks.
type Roster map[string]struct{}

func NewRoster(playerIDs ...string) Roster {
	out := make(Roster, len(playerIDs))
	for _, id := range playerIDs {
		if id == "" {
			continue
		}
		out[id] = struct{}{}
	}
	return out
}

func (r Roster) known(playerID string) bool {
	if r == nil {
		return true
	}
	_, ok := r[playerID]
	return ok
}

type Options struct {
	Roster      Roster
	MatchLength int
}

type playerAccumulator struct {
	agg         PlayerAggregate
	ratingSum   float64
	ratingCount int
}

func (a *playerAccumulator) result() PlayerAggregate {
	out := a.agg
	if a.ratingCount > 0 {
		avg := math.Round(a.ratingSum/float64(a.ratingCount)*10) / 10
		out.AverageRating = &avg
	}
	return out
}

// AggregatePlayer folds completed matches into one player's totals.
func AggregatePlayer(playerID string, matches []match.Match, opts Options) PlayerAggregate {
	return AggregatePlayers([]string{playerID}, matches, opts)[playerID]
}

// AggregatePlayers folds the match set once for every requested player.
// Every requested id gets an entry, zero-valued when it never appears.
// Events naming players outside the roster are skipped and counted on each
// returned aggregate.
func AggregatePlayers(playerIDs []string, matches []match.Match, opts Options) map[string]PlayerAggregate {
	accs := make(map[string]*playerAccumulator, len(playerIDs))
	for _, id := range playerIDs {
		if _, exists := accs[id]; exists {
			continue
		}
		accs[id] = &playerAccumulator{agg: PlayerAggregate{PlayerID: id}}
	}

	skipped := 0
	for _, item := range matches {
		if !item.IsCompleted() {
			continue
		}
		skipped += foldPlayerMatch(accs, item, opts)
	}

	out := make(map[string]PlayerAggregate, len(accs))
	for id, acc := range accs {
		agg := acc.result()
		agg.SkippedEvents = skipped
		out[id] = agg
	}
	return out
}

func foldPlayerMatch(accs map[string]*playerAccumulator, item match.Match, opts Options) int {
	skipped := 0

	for id, acc := range accs {
		if Played(item, id) {
			acc.agg.MatchesPlayed++
			acc.agg.MinutesPlayed += MinutesPlayed(item, id, opts.MatchLength)
		}
	}

	for _, goal := range item.Goals {
		if !opts.Roster.known(goal.PlayerID) {
			skipped++
			continue
		}
		if acc, ok := accs[goal.PlayerID]; ok {
			acc.agg.Goals++
		}
		if goal.AssistPlayerID == "" {
			continue
		}
		if !opts.Roster.known(goal.AssistPlayerID) {
			skipped++
			continue
		}
		if acc, ok := accs[goal.AssistPlayerID]; ok {
			acc.agg.Assists++
		}
	}

	for _, card := range item.Cards {
		if !opts.Roster.known(card.PlayerID) {
			skipped++
			continue
		}
		acc, ok := accs[card.PlayerID]
		if !ok {
			continue
		}
		switch card.Type {
		case match.CardTypeYellow:
			acc.agg.YellowCards++
		case match.CardTypeSecondYellow:
			// A second yellow is both a booking and a sending-off.
			acc.agg.YellowCards++
			acc.agg.RedCards++
		case match.CardTypeRed:
			acc.agg.RedCards++
		}
	}

	for _, rating := range item.PlayerRatings {
		if !opts.Roster.known(rating.PlayerID) {
			skipped++
			continue
		}
		acc, ok := accs[rating.PlayerID]
		if !ok || rating.Rating <= 0 {
			continue
		}
		acc.ratingSum += rating.Rating
		acc.ratingCount++
	}

	return skipped
}

// ToStatistics projects the aggregate onto the cached counter block.
func (a PlayerAggregate) ToStatistics() player.Statistics {
	return player.Statistics{
		MatchesPlayed: a.MatchesPlayed,
		Goals:         a.Goals,
		Assists:       a.Assists,
		YellowCards:   a.YellowCards,
		RedCards:      a.RedCards,
		MinutesPlayed: a.MinutesPlayed,
	}
}
