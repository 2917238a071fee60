package main

import (
	"strings"
	"testing"
)

func TestParseSteps(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    int
		wantErr bool
	}{
		{name: "default", args: nil, want: 1},
		{name: "explicit", args: []string{" 3 "}, want: 3},
		{name: "zero", args: []string{"0"}, wantErr: true},
		{name: "garbage", args: []string{"two"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSteps(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %v", tt.args)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse steps: %v", err)
			}
			if got != tt.want {
				t.Fatalf("parseSteps(%v)=%d want=%d", tt.args, got, tt.want)
			}
		})
	}
}

func TestParseVersion(t *testing.T) {
	if _, err := parseVersion("-1"); err == nil {
		t.Fatalf("expected error for negative version")
	}
	got, err := parseVersion("2")
	if err != nil || got != 2 {
		t.Fatalf("parseVersion(2)=%d err=%v", got, err)
	}
}

func TestNormalizeDBURL_DefaultsToDisablingBinaryResults(t *testing.T) {
	t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "")
	got := normalizeDBURL("postgres://u:p@localhost:5432/squad_stats?sslmode=disable")
	if !strings.Contains(got, "disable_prepared_binary_result=yes") {
		t.Fatalf("expected flag in url, got %q", got)
	}

	t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "false")
	in := "postgres://u:p@localhost:5432/squad_stats?sslmode=disable"
	if got := normalizeDBURL(in); got != in {
		t.Fatalf("expected url unchanged, got %q", got)
	}
}

func TestResolveMigrationsDir(t *testing.T) {
	t.Setenv("MIGRATIONS_DIR", "")
	t.Setenv("MIGRATIONS_PATH", "")
	if _, ok, err := resolveMigrationsDir(); err != nil || ok {
		t.Fatalf("expected embedded source when unset, ok=%v err=%v", ok, err)
	}

	dir := t.TempDir()
	t.Setenv("MIGRATIONS_DIR", dir)
	got, ok, err := resolveMigrationsDir()
	if err != nil || !ok || got == "" {
		t.Fatalf("expected override dir, got=%q ok=%v err=%v", got, ok, err)
	}

	t.Setenv("MIGRATIONS_DIR", dir+"/missing")
	if _, _, err := resolveMigrationsDir(); err == nil {
		t.Fatalf("expected error for missing override dir")
	}
}
