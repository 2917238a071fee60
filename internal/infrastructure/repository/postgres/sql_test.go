package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Run("matches wrapped unique violation", func(t *testing.T) {
		err := fmt.Errorf("insert match: %w", &pq.Error{Code: "23505"})
		if !isUniqueViolation(err) {
			t.Fatalf("expected true for unique violation")
		}
	})

	t.Run("ignores other pq errors", func(t *testing.T) {
		if isUniqueViolation(&pq.Error{Code: "23503"}) {
			t.Fatalf("expected false for foreign key violation")
		}
	})
}

func TestIsBindParameterMismatch(t *testing.T) {
	err := fakeErr("pq: bind message supplies 2 parameters, but prepared statement \"\" requires 1 (08P01)")
	if !isBindParameterMismatch(err) {
		t.Fatalf("expected true for bind mismatch error")
	}
	if isBindParameterMismatch(fakeErr("pq: relation matches does not exist")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestEncodeJSONB(t *testing.T) {
	got, err := encodeJSONB([]string(nil), "[]")
	if err != nil {
		t.Fatalf("encode nil slice: %v", err)
	}
	if got != "[]" {
		t.Fatalf("expected empty array for nil slice, got %s", got)
	}

	got, err = encodeJSONB([]any{goalDocument{ID: "g1", PlayerID: "p1", Minute: 12, Type: "header"}}, "[]")
	if err != nil {
		t.Fatalf("encode goal: %v", err)
	}
	if got != `[{"id":"g1","player_id":"p1","minute":12,"type":"header"}]` {
		t.Fatalf("unexpected goal payload: %s", got)
	}
}

func TestNullIntRoundTrip(t *testing.T) {
	if nullInt(nil).Valid {
		t.Fatalf("expected nil score to be null")
	}
	three := 3
	if got := intPtr(nullInt(&three)); got == nil || *got != 3 {
		t.Fatalf("expected 3, got %v", got)
	}
	if intPtr(sql.NullInt64{}) != nil {
		t.Fatalf("expected nil pointer for null")
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
