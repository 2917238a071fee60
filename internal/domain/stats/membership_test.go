package stats

import (
	"testing"

	"github.com/riskibarqy/squad-stats/internal/domain/match"
)

func membershipFixture() match.Match {
	return match.Match{
		ID:     "m1",
		TeamID: "t1",
		Status: match.StatusCompleted,
		Lineup: []match.LineupEntry{
			{PlayerID: "starter"},
			{PlayerID: "subbed-off"},
			{PlayerID: "bench-used", IsSubstitute: true},
			{PlayerID: "bench-unused", IsSubstitute: true},
		},
		Substitutions: []match.Substitution{
			{PlayerOutID: "subbed-off", PlayerInID: "bench-used", Minute: 60},
		},
	}
}

func TestPlayed(t *testing.T) {
	t.Parallel()

	item := membershipFixture()
	tests := []struct {
		playerID string
		want     bool
	}{
		{playerID: "starter", want: true},
		{playerID: "subbed-off", want: true},
		{playerID: "bench-used", want: true},
		{playerID: "bench-unused", want: false},
		{playerID: "stranger", want: false},
		{playerID: "", want: false},
	}

	for _, tc := range tests {
		if got := Played(item, tc.playerID); got != tc.want {
			t.Fatalf("Played(%q) = %v, want %v", tc.playerID, got, tc.want)
		}
	}
}

func TestPlayed_EmptyLineupResolvesFalse(t *testing.T) {
	t.Parallel()

	item := match.Match{
		Status: match.StatusCompleted,
		Substitutions: []match.Substitution{
			{PlayerOutID: "a", PlayerInID: "b", Minute: 50},
		},
	}
	if Played(item, "a") || Played(item, "b") {
		t.Fatalf("expected no membership without a lineup")
	}
}

func TestMinutesPlayed(t *testing.T) {
	t.Parallel()

	item := membershipFixture()
	tests := []struct {
		playerID string
		want     int
	}{
		{playerID: "starter", want: 90},
		{playerID: "subbed-off", want: 60},
		{playerID: "bench-used", want: 30},
		{playerID: "bench-unused", want: 0},
	}
	for _, tc := range tests {
		if got := MinutesPlayed(item, tc.playerID, 0); got != tc.want {
			t.Fatalf("MinutesPlayed(%q) = %d, want %d", tc.playerID, got, tc.want)
		}
	}

	if got := MinutesPlayed(item, "bench-used", 70); got != 10 {
		t.Fatalf("custom length: got %d, want 10", got)
	}
}

func TestMinutesPlayed_StoppageTimeIsClamped(t *testing.T) {
	t.Parallel()

	item := membershipFixture()
	item.Substitutions = append(item.Substitutions, match.Substitution{
		PlayerOutID: "starter", PlayerInID: "bench-unused", Minute: 94,
	})

	if got := MinutesPlayed(item, "starter", 90); got != 90 {
		t.Fatalf("starter: got %d, want 90", got)
	}
	if got := MinutesPlayed(item, "bench-unused", 90); got != 0 {
		t.Fatalf("late sub: got %d, want 0", got)
	}
}
