package postgres

import (
	"database/sql"
	"testing"

	"github.com/riskibarqy/squad-stats/internal/domain/match"
)

func TestMatchTableModelToDomain(t *testing.T) {
	row := matchTableModel{
		PublicID:      "m1",
		TeamID:        "t1",
		Status:        "completed",
		HomeScore:     sql.NullInt64{Int64: 2, Valid: true},
		AwayScore:     sql.NullInt64{Int64: 1, Valid: true},
		Lineup:        []byte(`[{"player_id":"p1","position":"ST","position_x":50,"position_y":80,"is_substitute":false,"is_captain":true}]`),
		Substitutes:   []byte(`["p2"]`),
		Goals:         []byte(`[{"id":"g1","player_id":"p1","minute":10,"type":"penalty","assist_player_id":"p3"}]`),
		Cards:         []byte(`[{"id":"c1","player_id":"p1","minute":44,"type":"second_yellow"}]`),
		Substitutions: []byte(`[{"id":"s1","player_out_id":"p1","player_in_id":"p2","minute":60,"reason":"injury"}]`),
		PlayerRatings: []byte(`[{"player_id":"p1","rating":7.5}]`),
		Statistics:    []byte(`{"home":{"possession":55,"shots":9},"away":{"possession":45}}`),
	}

	got, err := row.toDomain()
	if err != nil {
		t.Fatalf("toDomain: %v", err)
	}
	if got.Status != match.StatusCompleted || *got.Score.Home != 2 || *got.Score.Away != 1 {
		t.Fatalf("unexpected header fields: %+v", got)
	}
	if len(got.Lineup) != 1 || !got.Lineup[0].IsCaptain || got.Lineup[0].PositionY != 80 {
		t.Fatalf("unexpected lineup: %+v", got.Lineup)
	}
	if got.Goals[0].Type != match.GoalTypePenalty || got.Goals[0].AssistPlayerID != "p3" {
		t.Fatalf("unexpected goal: %+v", got.Goals[0])
	}
	if got.Cards[0].Type != match.CardTypeSecondYellow {
		t.Fatalf("unexpected card: %+v", got.Cards[0])
	}
	if got.Substitutions[0].Reason != match.SubstitutionReasonInjury {
		t.Fatalf("unexpected substitution: %+v", got.Substitutions[0])
	}
	if got.PlayerRatings[0].Rating != 7.5 || got.Statistics.Home.Possession != 55 {
		t.Fatalf("unexpected ratings or statistics: %+v %+v", got.PlayerRatings, got.Statistics)
	}
}

func TestMatchTableModelToDomainRejectsBadJSON(t *testing.T) {
	row := matchTableModel{PublicID: "m1", Goals: []byte(`{not json`)}
	if _, err := row.toDomain(); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestMatchTableModelToDomainNullScore(t *testing.T) {
	got, err := matchTableModel{PublicID: "m1", Status: "scheduled"}.toDomain()
	if err != nil {
		t.Fatalf("toDomain: %v", err)
	}
	if got.Score.Home != nil || got.Score.Away != nil || len(got.Goals) != 0 {
		t.Fatalf("expected empty match, got %+v", got)
	}
}
