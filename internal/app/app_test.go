package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

const fixturePage = `<html><body>
<table id="standings">
  <thead><tr><th>Rank</th><th>Team</th></tr></thead>
  <tbody><tr><td>1</td><td>Arsenal</td></tr></tbody>
</table>
</body></html>`

// fakeSource serves canned markup per URL and can fail specific URLs.
type fakeSource struct {
	pages map[string]string
	calls []string
}

func (f *fakeSource) HTMLFor(_ context.Context, url string) ([]byte, error) {
	f.calls = append(f.calls, url)
	markup, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("no such page: %s", url)
	}
	return []byte(markup), nil
}

func newTestApp(t *testing.T, cfg Config, src pageSource) *App {
	t.Helper()
	cfg.applyDefaults()
	if err := ensureOutDir(cfg.OutDir); err != nil {
		t.Fatal(err)
	}
	return &App{cfg: cfg, source: src}
}

func TestRun_SinglePage(t *testing.T) {
	dir := t.TempDir()
	src := &fakeSource{pages: map[string]string{
		"https://example.com/stats": fixturePage,
	}}
	a := newTestApp(t, Config{
		BaseURL:  "https://example.com/stats",
		OutDir:   dir,
		BaseName: "stats",
	}, src)

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "stats_standings.csv")); err != nil {
		t.Fatalf("expected output csv: %v", err)
	}
}

func TestRun_SinglePageFailurePropagates(t *testing.T) {
	dir := t.TempDir()
	src := &fakeSource{pages: map[string]string{}}
	a := newTestApp(t, Config{
		BaseURL:  "https://example.com/down",
		OutDir:   dir,
		BaseName: "stats",
	}, src)

	if err := a.Run(context.Background()); err == nil {
		t.Fatal("expected single-page failure to surface")
	}
}

func TestRun_PaginationIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	src := &fakeSource{pages: map[string]string{
		"https://example.com/stats?page=1": fixturePage,
		// page 2 missing on purpose
		"https://example.com/stats?page=3": fixturePage,
	}}
	a := newTestApp(t, Config{
		BaseURL:  "https://example.com/stats",
		Pages:    []int{1, 2, 3},
		OutDir:   dir,
		BaseName: "stats",
	}, src)

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("per-page failures must not fail the run: %v", err)
	}
	if len(src.calls) != 3 {
		t.Fatalf("expected all 3 pages attempted, got %d", len(src.calls))
	}
	for _, name := range []string{"stats_page_1_standings.csv", "stats_page_3_standings.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "stats_page_2_standings.csv")); !os.IsNotExist(err) {
		t.Fatalf("did not expect output for the failed page")
	}
}

func TestRun_WritesManifest(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "run_manifest.json")
	src := &fakeSource{pages: map[string]string{
		"https://example.com/stats": fixturePage,
	}}
	a := newTestApp(t, Config{
		BaseURL:      "https://example.com/stats",
		OutDir:       dir,
		BaseName:     "stats",
		ManifestPath: manifestPath,
	}, src)

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	if m.TableCount != 1 || len(m.Files) != 1 {
		t.Fatalf("unexpected manifest: %+v", m)
	}
	if m.Files[0].Rows != 1 || m.Files[0].Columns != 2 {
		t.Fatalf("unexpected file entry: %+v", m.Files[0])
	}
	if m.Files[0].SHA256 == "" || m.Files[0].Bytes == 0 {
		t.Fatalf("expected content hash in manifest entry: %+v", m.Files[0])
	}
}

func TestRun_WritesPDFSummary(t *testing.T) {
	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "summary.pdf")
	src := &fakeSource{pages: map[string]string{
		"https://example.com/stats": fixturePage,
	}}
	a := newTestApp(t, Config{
		BaseURL:  "https://example.com/stats",
		OutDir:   dir,
		BaseName: "stats",
		PDFPath:  pdfPath,
	}, src)

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	info, err := os.Stat(pdfPath)
	if err != nil {
		t.Fatalf("expected pdf summary: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("pdf summary is empty")
	}
}

func TestPageURL(t *testing.T) {
	cases := []struct {
		base string
		n    int
		want string
	}{
		{"https://example.com/stats", 2, "https://example.com/stats?page=2"},
		{"https://example.com/stats?sort=rank", 3, "https://example.com/stats?sort=rank&page=3"},
	}
	for _, c := range cases {
		if got := pageURL(c.base, c.n); got != c.want {
			t.Errorf("pageURL(%q, %d) = %q, want %q", c.base, c.n, got, c.want)
		}
	}
}

func TestEnsureOutDir_CreatesOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	if err := ensureOutDir(dir); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := ensureOutDir(dir); err != nil {
		t.Fatalf("existing dir must be fine: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected directory at %s", dir)
	}
}
