package db

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/imgajeed76/datagrid/internal/util"
)

func TestIsReadOnly(t *testing.T) {
	cases := []struct {
		query string
		want  bool
	}{
		{"SELECT 1", true},
		{"  select * from t", true},
		{"WITH x AS (SELECT 1) SELECT * FROM x", true},
		{"VALUES (1, 2)", true},
		{"TABLE pg_class", true},
		{"SHOW search_path", true},
		{"EXPLAIN SELECT 1", true},
		{"(SELECT 1) UNION (SELECT 2)", true},
		{"-- count\nSELECT count(*) FROM t", true},
		{"/* hi */ SELECT 1", true},
		{"SELECTED", false},
		{"INSERT INTO t VALUES (1)", false},
		{"update t set a = 1", false},
		{"DELETE FROM t", false},
		{"DROP TABLE t", false},
		{"-- only a comment", false},
		{"/* unterminated SELECT 1", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := IsReadOnly(tc.query); got != tc.want {
			t.Fatalf("IsReadOnly(%q) = %v, want %v", tc.query, got, tc.want)
		}
	}
}

func TestQuery_RejectsWrites(t *testing.T) {
	var db DB
	_, err := db.Query(t.Context(), "DELETE FROM t", "")
	if !errors.Is(err, util.ErrWriteQuery) {
		t.Fatalf("expected ErrWriteQuery, got %v", err)
	}

	_, err = db.Query(t.Context(), "SELECT 1", "")
	if !errors.Is(err, util.ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, "NULL"},
		{"a\tb\nc", `a\tb\nc`},
		{[]byte("text"), "text"},
		{[]byte{}, ""},
		{[]byte{0, 1, 2}, "[3 bytes]"},
		{[]byte{0x1b, 'x'}, "[2 bytes]"},
		{int64(42), "42"},
		{true, "true"},
		{time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC), "2024-03-01 12:30:00"},
	}

	for _, tc := range cases {
		if got := formatValue(tc.in); got != tc.want {
			t.Fatalf("formatValue(%#v):\n  got:  %q\n  want: %q", tc.in, got, tc.want)
		}
	}
}

func TestUniqueColumns(t *testing.T) {
	got := uniqueColumns([]string{"id", "name", "id", "?column?", "id"})
	want := []string{"id", "name", "id_2", "column4", "id_3"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestQueryTitle(t *testing.T) {
	if got := queryTitle("SELECT *\n  FROM t"); got != "SELECT * FROM t" {
		t.Fatalf("got %q", got)
	}

	long := "SELECT " + strings.Repeat("ä", 80)
	got := queryTitle(long)
	if len([]rune(got)) != 60 || !strings.HasSuffix(got, "…") {
		t.Fatalf("long titles should be cut to 60 runes, got %q", got)
	}
}
