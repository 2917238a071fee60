package stats

import (
	"reflect"
	"testing"
	"time"

	"github.com/riskibarqy/squad-stats/internal/domain/match"
)

func TestAggregateTeam_ZeroMatches(t *testing.T) {
	t.Parallel()

	got := AggregateTeam("t1", nil)
	want := TeamAggregate{TeamID: "t1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestAggregateTeam_FullMatchScenario(t *testing.T) {
	t.Parallel()

	item := completedMatch("m1", true, 2, 2)
	item.Goals = []match.Goal{{PlayerID: "p1"}, {PlayerID: "p2", AssistPlayerID: "p1"}}

	got := AggregateTeam("t1", []match.Match{item})
	want := TeamAggregate{
		TeamID:       "t1",
		TotalMatches: 1,
		Draws:        1,
		GoalsFor:     2,
		GoalsAgainst: 2,
		Points:       1,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestAggregateTeam_PerspectiveAndCleanSheets(t *testing.T) {
	t.Parallel()

	matches := []match.Match{
		completedMatch("home-win", true, 3, 1),
		completedMatch("away-loss", false, 3, 1),
		completedMatch("away-win-nil", false, 0, 2),
	}
	noLineup := completedMatch("no-lineup", true, 0, 0)
	noLineup.Lineup = nil
	matches = append(matches, noLineup)

	got := AggregateTeam("t1", matches)
	if got.Wins != 2 || got.Losses != 1 || got.Draws != 1 {
		t.Fatalf("outcomes: got %+v", got)
	}
	if got.GoalsFor != 6 || got.GoalsAgainst != 4 || got.GoalDifference != 2 {
		t.Fatalf("goals: got %+v", got)
	}
	if got.CleanSheets != 2 {
		t.Fatalf("clean sheets: got %d, want 2", got.CleanSheets)
	}
	if got.Points != 7 {
		t.Fatalf("points: got %d, want 7", got.Points)
	}
}

func TestAggregateTeam_SkipsForeignAndUnfinishedMatches(t *testing.T) {
	t.Parallel()

	foreign := completedMatch("f", true, 5, 0)
	foreign.TeamID = "t2"
	scheduled := completedMatch("s", true, 1, 0)
	scheduled.Status = match.StatusScheduled

	got := AggregateTeam("t1", []match.Match{foreign, scheduled})
	if got.TotalMatches != 0 || got.SkippedMatches != 1 {
		t.Fatalf("got %+v", got)
	}
}

func TestAggregateTeam_OrderIndependent(t *testing.T) {
	t.Parallel()

	a := completedMatch("a", true, 1, 0)
	b := completedMatch("b", false, 4, 2)
	if !reflect.DeepEqual(AggregateTeam("t1", []match.Match{a, b}), AggregateTeam("t1", []match.Match{b, a})) {
		t.Fatalf("team aggregate depends on order")
	}
}

func TestPoints(t *testing.T) {
	t.Parallel()

	if got := Points(10, 3); got != 33 {
		t.Fatalf("got %d, want 33", got)
	}
}

func TestRecentForm_MostRecentFirst(t *testing.T) {
	t.Parallel()

	jan1 := completedMatch("jan1", true, 2, 0)
	jan1.KickoffAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	jan10 := completedMatch("jan10", true, 0, 1)
	jan10.KickoffAt = time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	jan20 := completedMatch("jan20", true, 1, 1)
	jan20.KickoffAt = time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)

	got := RecentForm([]match.Match{jan10, jan1, jan20}, 3)
	want := []Outcome{OutcomeDraw, OutcomeLoss, OutcomeWin}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if s := FormString(got); s != "DLW" {
		t.Fatalf("form string: got %q", s)
	}
}

func TestRecentForm_DefaultLengthAndTieBreak(t *testing.T) {
	t.Parallel()

	var matches []match.Match
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		item := completedMatch(string(rune('a'+i)), true, 1, 0)
		item.KickoffAt = base.AddDate(0, 0, i)
		matches = append(matches, item)
	}
	matches[6].Score = match.NewScore(0, 0)

	sameDayLoss := completedMatch("z", true, 0, 3)
	sameDayLoss.KickoffAt = matches[6].KickoffAt
	matches = append(matches, sameDayLoss)

	got := RecentForm(matches, 0)
	if len(got) != DefaultFormLength {
		t.Fatalf("len: got %d, want %d", len(got), DefaultFormLength)
	}
	if got[0] != OutcomeDraw || got[1] != OutcomeLoss {
		t.Fatalf("tie break: got %v", got)
	}
}

func TestCompetitionBreakdown(t *testing.T) {
	t.Parallel()

	league := completedMatch("l1", true, 2, 1)
	league.Competition = "League"
	cup := completedMatch("c1", false, 2, 1)
	cup.Competition = "Cup"
	friendly := completedMatch("f1", true, 0, 0)
	blank := completedMatch("f2", true, 1, 0)
	blank.Competition = "   "

	got := CompetitionBreakdown([]match.Match{league, cup, friendly, blank})
	want := map[string]CompetitionRecord{
		"League":   {Played: 1, Wins: 1},
		"Cup":      {Played: 1, Losses: 1},
		"Friendly": {Played: 2, Wins: 1, Draws: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
