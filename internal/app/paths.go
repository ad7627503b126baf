package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// ensureOutDir creates the output directory on demand. Creation is logged
// once; an already existing directory is silent.
func ensureOutDir(dir string) error {
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	log.Info().Str("dir", dir).Msg("created output folder")
	return nil
}
