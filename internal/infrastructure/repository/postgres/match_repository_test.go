package postgres

import (
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/squad-stats/internal/domain/match"
)

func TestAppendEventQuery_GuardsStatusInWhere(t *testing.T) {
	query, args, err := appendEventQuery("match-1", "goals", `[{"id":"g1"}]`, match.EventStatuses(true))
	if err != nil {
		t.Fatalf("build query: %v", err)
	}

	want := "UPDATE matches SET goals = goals || $1::jsonb, updated_at = NOW() WHERE public_id = $2 AND status IN ($3, $4, $5)"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 5 || args[1] != "match-1" || args[2] != "lineup_set" || args[4] != "half_time" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestAppendEventQuery_EmptyGuardMatchesByIDOnly(t *testing.T) {
	query, args, err := appendEventQuery("match-1", "cards", "[]", nil)
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	if !strings.HasSuffix(query, "WHERE public_id = $2") {
		t.Fatalf("expected id-only where clause, got %s", query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestCompleteQuery_LockedGuardExcludesCompleted(t *testing.T) {
	query, args, err := completeQuery("match-1", match.Completion{
		Score:       match.NewScore(2, 1),
		CompletedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}, "{}", "[]", match.CompletionStatuses(true))
	if err != nil {
		t.Fatalf("build query: %v", err)
	}
	if !strings.HasSuffix(query, "WHERE public_id = $9 AND status IN ($10, $11, $12)") {
		t.Fatalf("expected guarded where clause, got %s", query)
	}
	for _, arg := range args[9:] {
		if arg == string(match.StatusCompleted) {
			t.Fatalf("locked completion guard must not allow completed: %+v", args)
		}
	}

	query, _, err = completeQuery("match-1", match.Completion{}, "{}", "[]", match.CompletionStatuses(false))
	if err != nil {
		t.Fatalf("build unlocked query: %v", err)
	}
	if !strings.HasSuffix(query, "AND status IN ($10, $11, $12, $13)") {
		t.Fatalf("expected unlocked guard to include completed, got %s", query)
	}
}

func TestTeamLockQuery_KeysByTeam(t *testing.T) {
	query, args := teamLockQuery("team-garuda-u17")
	if query != "SELECT pg_advisory_xact_lock(hashtext($1))" {
		t.Fatalf("unexpected lock query: %s", query)
	}
	if len(args) != 1 || args[0] != "stat_cache:team-garuda-u17" {
		t.Fatalf("unexpected lock args: %+v", args)
	}
}
