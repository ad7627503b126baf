package app

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"time"

	"github.com/hyperifyio/gotables/internal/table"
)

// manifestEntry is a compact record of a single CSV written during the run.
type manifestEntry struct {
	Path       string `json:"path"`
	Identifier string `json:"identifier"`
	Rows       int    `json:"rows"`
	Columns    int    `json:"columns"`
	SHA256     string `json:"sha256,omitempty"`
	Bytes      int    `json:"bytes"`
}

// manifestMeta captures high-level run details that aid reproducibility.
type manifestMeta struct {
	BaseURL     string    `json:"base_url"`
	OutDir      string    `json:"out_dir"`
	Pages       []int     `json:"pages,omitempty"`
	Static      bool      `json:"static"`
	TableCount  int       `json:"table_count"`
	GeneratedAt time.Time `json:"generated_at"`
}

type manifest struct {
	manifestMeta
	Files []manifestEntry `json:"files"`
}

// buildManifestEntries hashes each written file so reruns can be compared.
// A file that cannot be read back keeps its entry without a hash.
func buildManifestEntries(saved []table.Saved) []manifestEntry {
	out := make([]manifestEntry, 0, len(saved))
	for _, s := range saved {
		entry := manifestEntry{
			Path:       s.Path,
			Identifier: s.Identifier,
			Rows:       s.Rows,
			Columns:    s.Columns,
		}
		if data, err := os.ReadFile(s.Path); err == nil {
			sum := sha256.Sum256(data)
			entry.SHA256 = hex.EncodeToString(sum[:])
			entry.Bytes = len(data)
		}
		out = append(out, entry)
	}
	return out
}

func writeManifest(path string, meta manifestMeta, entries []manifestEntry) error {
	data, err := json.MarshalIndent(manifest{manifestMeta: meta, Files: entries}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
