package table

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	unsafeChars    = regexp.MustCompile(`[^\w-]`)
	underscoreRuns = regexp.MustCompile(`_+`)
)

// SafeIdentifier lowers a human-facing table label into a
// filesystem-and-URL-safe form: non-word, non-hyphen characters become
// underscores, runs collapse, and leading/trailing underscores are trimmed.
func SafeIdentifier(id string) string {
	s := strings.ToLower(id)
	s = unsafeChars.ReplaceAllString(s, "_")
	s = underscoreRuns.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// uniquePath composes <dir>/<base>_<safeID>.csv and, when that path already
// exists, probes <stem>_1.csv, <stem>_2.csv, ... until an unused path is
// found. Existing files are never overwritten. The probe-then-create loop
// assumes a single sequential writer; concurrent writers would need an
// atomic create-or-fail primitive instead.
func uniquePath(dir, base, safeID string) string {
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.csv", base, safeID))
	stem := strings.TrimSuffix(path, ".csv")
	for counter := 1; ; counter++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
		path = fmt.Sprintf("%s_%d.csv", stem, counter)
	}
}
