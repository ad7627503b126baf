package table

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSafeIdentifier(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"standings", "standings"},
		{"League Table", "league_table"},
		{"Premier League: 2025/26!", "premier_league_2025_26"},
		{"__already__odd__", "already_odd"},
		{"keep-hyphens", "keep-hyphens"},
		{"MiXeD CaSe", "mixed_case"},
		{"***", ""},
	}
	for _, c := range cases {
		if got := SafeIdentifier(c.in); got != c.want {
			t.Errorf("SafeIdentifier(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestUniquePath_ProbesUntilFree(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"base_id.csv", "base_id_1.csv"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	got := uniquePath(dir, "base", "id")
	want := filepath.Join(dir, "base_id_2.csv")
	if got != want {
		t.Fatalf("uniquePath = %q, want %q", got, want)
	}
}

func TestUniquePath_FreshName(t *testing.T) {
	dir := t.TempDir()
	got := uniquePath(dir, "base", "id")
	want := filepath.Join(dir, "base_id.csv")
	if got != want {
		t.Fatalf("uniquePath = %q, want %q", got, want)
	}
}
