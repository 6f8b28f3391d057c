package domain

import (
	"strings"
	"testing"
)

func TestRecentTurns(t *testing.T) {
	turns := make([]Turn, 10)
	for i := range turns {
		turns[i] = NewTurn(RoleUser, strings.Repeat("x", i))
	}

	recent := RecentTurns(turns, 6)
	if len(recent) != 6 {
		t.Fatalf("expected 6 turns, got %d", len(recent))
	}
	if recent[0].Content() != turns[4].Content() {
		t.Error("expected the most recent turns")
	}

	if got := RecentTurns(turns[:3], 6); len(got) != 3 {
		t.Errorf("expected all turns when fewer than n, got %d", len(got))
	}
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"short", "abc", 200, "abc"},
		{"exact", "abcd", 4, "abcd"},
		{"cut", "abcdef", 4, "abcd"},
		{"multibyte", "héllo wörld", 5, "héllo"},
		{"zero limit", "abc", 0, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TruncateText(tc.in, tc.limit); got != tc.want {
				t.Errorf("TruncateText(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
			}
		})
	}
}
