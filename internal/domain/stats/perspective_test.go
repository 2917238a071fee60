package stats

import (
	"testing"

	"github.com/riskibarqy/squad-stats/internal/domain/match"
)

func TestNormalize_PerspectiveSymmetry(t *testing.T) {
	t.Parallel()

	score := match.NewScore(3, 1)

	ours, theirs := Normalize(true, score)
	if ours != 3 || theirs != 1 {
		t.Fatalf("home perspective: got %d-%d, want 3-1", ours, theirs)
	}
	if got := Classify(ours, theirs); got != OutcomeWin {
		t.Fatalf("home outcome: got %s, want W", got)
	}

	ours, theirs = Normalize(false, score)
	if ours != 1 || theirs != 3 {
		t.Fatalf("away perspective: got %d-%d, want 1-3", ours, theirs)
	}
	if got := Classify(ours, theirs); got != OutcomeLoss {
		t.Fatalf("away outcome: got %s, want L", got)
	}
}

func TestNormalize_MissingScoreCountsAsZero(t *testing.T) {
	t.Parallel()

	two := 2
	tests := []struct {
		name       string
		isHome     bool
		score      match.Score
		wantOurs   int
		wantTheirs int
		want       Outcome
	}{
		{name: "both missing", isHome: true, score: match.Score{}, want: OutcomeDraw},
		{name: "away missing home side", isHome: true, score: match.Score{Home: &two}, wantOurs: 2, want: OutcomeWin},
		{name: "away missing away side", isHome: false, score: match.Score{Home: &two}, wantTheirs: 2, want: OutcomeLoss},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ours, theirs := Normalize(tc.isHome, tc.score)
			if ours != tc.wantOurs || theirs != tc.wantTheirs {
				t.Fatalf("got %d-%d, want %d-%d", ours, theirs, tc.wantOurs, tc.wantTheirs)
			}
			if got := Classify(ours, theirs); got != tc.want {
				t.Fatalf("outcome: got %s, want %s", got, tc.want)
			}
		})
	}
}
