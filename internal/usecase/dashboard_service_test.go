package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/squad-stats/internal/domain/match"
	"github.com/riskibarqy/squad-stats/internal/domain/player"
	"github.com/riskibarqy/squad-stats/internal/infrastructure/repository/memory"
)

func TestResolveNextMatch(t *testing.T) {
	now := time.Date(2026, time.September, 12, 12, 0, 0, 0, time.UTC)

	t.Run("prefers live match", func(t *testing.T) {
		items := []match.Match{
			{ID: "upcoming", Status: match.StatusScheduled, KickoffAt: now.Add(24 * time.Hour)},
			{ID: "live", Status: match.StatusHalfTime, KickoffAt: now.Add(-50 * time.Minute)},
		}

		got := resolveNextMatch(items, now)
		if got == nil || got.ID != "live" {
			t.Fatalf("unexpected next match: got=%v want=live", got)
		}
	})

	t.Run("uses nearest upcoming when no live", func(t *testing.T) {
		items := []match.Match{
			{ID: "done", Status: match.StatusCompleted, KickoffAt: now.Add(-24 * time.Hour)},
			{ID: "later", Status: match.StatusScheduled, KickoffAt: now.Add(48 * time.Hour)},
			{ID: "soon", Status: match.StatusLineupSet, KickoffAt: now.Add(2 * time.Hour)},
			{ID: "stale", Status: match.StatusScheduled, KickoffAt: now.Add(-2 * time.Hour)},
		}

		got := resolveNextMatch(items, now)
		if got == nil || got.ID != "soon" {
			t.Fatalf("unexpected next match: got=%v want=soon", got)
		}
	})

	t.Run("nil when nothing is ahead", func(t *testing.T) {
		items := []match.Match{
			{ID: "done", Status: match.StatusCompleted, KickoffAt: now.Add(-72 * time.Hour)},
			{ID: "off", Status: match.StatusCancelled, KickoffAt: now.Add(72 * time.Hour)},
		}

		if got := resolveNextMatch(items, now); got != nil {
			t.Fatalf("expected no next match, got=%s", got.ID)
		}
	})
}

func TestRankTopScorers(t *testing.T) {
	items := []TopScorer{
		{PlayerID: "p1", Name: "Bima", Goals: 2, Assists: 0},
		{PlayerID: "p2", Name: "Arya", Goals: 2, Assists: 0},
		{PlayerID: "p3", Name: "Yoga", Goals: 2, Assists: 3},
		{PlayerID: "p4", Name: "Dimas", Goals: 5},
	}

	got := rankTopScorers(items, 3)
	want := []string{"p4", "p3", "p2"}
	if len(got) != len(want) {
		t.Fatalf("unexpected length: got=%d want=%d", len(got), len(want))
	}
	for i := range want {
		if got[i].PlayerID != want[i] {
			t.Fatalf("rank %d: got=%s want=%s", i, got[i].PlayerID, want[i])
		}
	}

	if empty := rankTopScorers(nil, 5); empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got=%v", empty)
	}
}

func TestDashboardService_Get(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRosterStore(memory.SeedTeams(), memory.SeedPlayers())
	svc := NewDashboardService(
		memory.NewTeamRepository(store),
		memory.NewPlayerRepository(store),
		memory.NewMatchRepository(memory.SeedMatches()),
		memory.NewTrainingRepository(memory.SeedTrainings()),
		DashboardConfig{MatchLength: testMatchLength, TopScorersLimit: 2},
	)
	svc.now = func() time.Time { return time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC) }

	out, err := svc.Get(ctx, DashboardScope{All: true})
	if err != nil {
		t.Fatalf("get dashboard: %v", err)
	}
	if len(out.Teams) != 2 {
		t.Fatalf("unexpected team count: got=%d want=2", len(out.Teams))
	}
	garuda := out.Teams[0]
	if garuda.TeamID != memory.TeamIDGarudaU17 || garuda.Form != "DW" {
		t.Fatalf("unexpected garuda summary: %+v", garuda)
	}
	if garuda.NextMatch == nil || garuda.NextMatch.ID != "match-grd-003" {
		t.Fatalf("expected match-grd-003 as next match, got=%v", garuda.NextMatch)
	}
	if out.Teams[1].NextMatch != nil {
		t.Fatalf("expected no next match for rajawali")
	}
	if len(out.TopScorers) != 2 {
		t.Fatalf("unexpected top scorers: %+v", out.TopScorers)
	}
	if out.PositionDistribution[player.PositionGoalkeeper] != 2 {
		t.Fatalf("unexpected goalkeeper count: %d", out.PositionDistribution[player.PositionGoalkeeper])
	}
	if len(out.AttendanceTrend) != 3 {
		t.Fatalf("unexpected attendance points: %d", len(out.AttendanceTrend))
	}

	scoped, err := svc.Get(ctx, DashboardScope{TeamIDs: []string{memory.TeamIDRajawaliU15}})
	if err != nil {
		t.Fatalf("get scoped dashboard: %v", err)
	}
	if len(scoped.Teams) != 1 || scoped.Teams[0].Form != "L" {
		t.Fatalf("unexpected scoped dashboard: %+v", scoped.Teams)
	}

	if _, err := svc.Get(ctx, DashboardScope{TeamIDs: []string{"team-missing"}}); err == nil {
		t.Fatalf("expected error for unknown team")
	}
}
