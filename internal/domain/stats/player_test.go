package stats

import (
	"reflect"
	"testing"
	"time"

	"github.com/riskibarqy/squad-stats/internal/domain/match"
)

func completedMatch(id string, isHome bool, home, away int) match.Match {
	return match.Match{
		ID:        id,
		TeamID:    "t1",
		IsHome:    isHome,
		Status:    match.StatusCompleted,
		KickoffAt: time.Date(2026, 1, 1, 15, 0, 0, 0, time.UTC),
		Score:     match.NewScore(home, away),
	}
}

func TestAggregatePlayer_FullMatchScenario(t *testing.T) {
	t.Parallel()

	item := completedMatch("m1", true, 2, 2)
	item.Lineup = []match.LineupEntry{{PlayerID: "p1"}, {PlayerID: "p2"}}
	item.Goals = []match.Goal{
		{PlayerID: "p1", Minute: 10},
		{PlayerID: "p2", Minute: 70, AssistPlayerID: "p1"},
	}

	got := AggregatePlayer("p1", []match.Match{item}, Options{})
	if got.Goals != 1 || got.Assists != 1 {
		t.Fatalf("p1: got goals=%d assists=%d, want 1/1", got.Goals, got.Assists)
	}
	if got.MatchesPlayed != 1 {
		t.Fatalf("p1 matches played: got %d, want 1", got.MatchesPlayed)
	}
}

func TestAggregatePlayer_CardsAndRatings(t *testing.T) {
	t.Parallel()

	first := completedMatch("m1", true, 1, 0)
	first.Lineup = []match.LineupEntry{{PlayerID: "p1"}}
	first.Cards = []match.Card{
		{PlayerID: "p1", Type: match.CardTypeYellow},
		{PlayerID: "p1", Type: match.CardTypeSecondYellow},
	}
	first.PlayerRatings = []match.PlayerRating{{PlayerID: "p1", Rating: 7}}

	second := completedMatch("m2", false, 0, 0)
	second.Lineup = []match.LineupEntry{{PlayerID: "p1"}}
	second.Cards = []match.Card{{PlayerID: "p1", Type: match.CardTypeRed}}
	second.PlayerRatings = []match.PlayerRating{{PlayerID: "p1", Rating: 8}, {PlayerID: "p2", Rating: 0}}

	got := AggregatePlayer("p1", []match.Match{first, second}, Options{})
	if got.YellowCards != 2 {
		t.Fatalf("yellow cards: got %d, want 2", got.YellowCards)
	}
	if got.RedCards != 2 {
		t.Fatalf("red cards: got %d, want 2", got.RedCards)
	}
	if got.AverageRating == nil || *got.AverageRating != 7.5 {
		t.Fatalf("average rating: got %v, want 7.5", got.AverageRating)
	}
}

func TestAggregatePlayer_AverageRatingRoundsToOneDecimal(t *testing.T) {
	t.Parallel()

	var matches []match.Match
	for i, rating := range []float64{7, 7, 8} {
		item := completedMatch(string(rune('a'+i)), true, 0, 0)
		item.PlayerRatings = []match.PlayerRating{{PlayerID: "p1", Rating: rating}}
		matches = append(matches, item)
	}

	got := AggregatePlayer("p1", matches, Options{})
	if got.AverageRating == nil || *got.AverageRating != 7.3 {
		t.Fatalf("average rating: got %v, want 7.3", got.AverageRating)
	}
}

func TestAggregatePlayer_ZeroMatches(t *testing.T) {
	t.Parallel()

	got := AggregatePlayer("p1", nil, Options{})
	want := PlayerAggregate{PlayerID: "p1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestAggregatePlayer_GoalsAreNotGatedByMembership(t *testing.T) {
	t.Parallel()

	item := completedMatch("m1", true, 1, 0)
	item.Lineup = []match.LineupEntry{{PlayerID: "p2"}}
	item.Goals = []match.Goal{{PlayerID: "p1", Minute: 5}}

	got := AggregatePlayer("p1", []match.Match{item}, Options{})
	if got.MatchesPlayed != 0 {
		t.Fatalf("matches played: got %d, want 0", got.MatchesPlayed)
	}
	if got.Goals != 1 {
		t.Fatalf("goals: got %d, want 1", got.Goals)
	}
}

func TestAggregatePlayer_IgnoresUnfinishedMatches(t *testing.T) {
	t.Parallel()

	live := completedMatch("m1", true, 1, 0)
	live.Status = match.StatusInProgress
	live.Lineup = []match.LineupEntry{{PlayerID: "p1"}}
	live.Goals = []match.Goal{{PlayerID: "p1"}}

	got := AggregatePlayer("p1", []match.Match{live}, Options{})
	if got.MatchesPlayed != 0 || got.Goals != 0 {
		t.Fatalf("expected in-progress match to be ignored, got %+v", got)
	}
}

func TestAggregatePlayers_SkipsUnknownReferences(t *testing.T) {
	t.Parallel()

	item := completedMatch("m1", true, 2, 0)
	item.Lineup = []match.LineupEntry{{PlayerID: "p1"}}
	item.Goals = []match.Goal{
		{PlayerID: "p1", AssistPlayerID: "ghost"},
		{PlayerID: "ghost"},
	}
	item.Cards = []match.Card{{PlayerID: "ghost", Type: match.CardTypeYellow}}

	got := AggregatePlayers([]string{"p1", "p2"}, []match.Match{item}, Options{Roster: NewRoster("p1", "p2")})
	if len(got) != 2 {
		t.Fatalf("expected one entry per requested player, got %d", len(got))
	}
	if got["p1"].Goals != 1 || got["p1"].Assists != 0 {
		t.Fatalf("p1: got %+v", got["p1"])
	}
	if got["p1"].SkippedEvents != 3 {
		t.Fatalf("skipped events: got %d, want 3", got["p1"].SkippedEvents)
	}
	if got["p2"].MatchesPlayed != 0 || got["p2"].Goals != 0 {
		t.Fatalf("p2 should be zero-valued, got %+v", got["p2"])
	}
}

func TestAggregatePlayer_IdempotentAndOrderIndependent(t *testing.T) {
	t.Parallel()

	a := completedMatch("a", true, 3, 1)
	a.Lineup = []match.LineupEntry{{PlayerID: "p1"}}
	a.Goals = []match.Goal{{PlayerID: "p1"}, {PlayerID: "p1"}}
	a.PlayerRatings = []match.PlayerRating{{PlayerID: "p1", Rating: 9}}

	b := completedMatch("b", false, 2, 0)
	b.Lineup = []match.LineupEntry{{PlayerID: "p2"}, {PlayerID: "p1", IsSubstitute: true}}
	b.Substitutions = []match.Substitution{{PlayerOutID: "p2", PlayerInID: "p1", Minute: 45}}
	b.Cards = []match.Card{{PlayerID: "p1", Type: match.CardTypeYellow}}
	b.PlayerRatings = []match.PlayerRating{{PlayerID: "p1", Rating: 6}}

	forward := []match.Match{a, b}
	backward := []match.Match{b, a}

	first := AggregatePlayer("p1", forward, Options{})
	second := AggregatePlayer("p1", forward, Options{})
	reversed := AggregatePlayer("p1", backward, Options{})

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("not idempotent: %+v vs %+v", first, second)
	}
	if !reflect.DeepEqual(first, reversed) {
		t.Fatalf("order dependent: %+v vs %+v", first, reversed)
	}
	if first.MatchesPlayed != 2 || first.MinutesPlayed != 135 {
		t.Fatalf("unexpected totals: %+v", first)
	}
	if len(forward[0].Goals) != 2 || forward[0].ID != "a" {
		t.Fatalf("input slice was mutated")
	}
}
