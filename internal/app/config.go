package app

import "time"

// Flag defaults shared between the CLI and the file-config merge. The merge
// needs them to tell "flag left at its default" from "flag set explicitly",
// so a config file can still override the former.
const (
	DefaultUserAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	DefaultNavigateTimeout = 30 * time.Second
	DefaultTableTimeout    = 10 * time.Second
	DefaultSettleDelay     = 2 * time.Second
	DefaultConsentProbe    = 3 * time.Second
)

// Config holds runtime configuration for the application. Every site
// specific — target URL, output naming, waits, consent heuristics — flows
// through here so the extraction core stays reusable.
type Config struct {
	// BaseURL is the page to scrape.
	BaseURL string
	// Pages lists page numbers for pagination mode; empty means a single
	// un-paginated page.
	Pages []int

	// Output
	OutDir   string
	BaseName string

	// Static skips the browser and fetches the page with a plain GET.
	Static bool

	// Browser behavior
	Headless          bool
	UserAgent         string
	BrowserExecutable string
	NavigateTimeout   time.Duration
	TableTimeout      time.Duration
	SettleDelay       time.Duration
	ConsentSelectors  []string
	ConsentProbe      time.Duration

	// Reporting
	ManifestPath string
	PDFPath      string

	Verbose bool
}

// applyDefaults fills the zero values the rest of the pipeline assumes.
func (c *Config) applyDefaults() {
	if c.OutDir == "" {
		c.OutDir = "results"
	}
	if c.BaseName == "" {
		c.BaseName = "tables"
	}
	if c.NavigateTimeout <= 0 {
		c.NavigateTimeout = DefaultNavigateTimeout
	}
	if c.TableTimeout <= 0 {
		c.TableTimeout = DefaultTableTimeout
	}
	if c.SettleDelay < 0 {
		c.SettleDelay = 0
	}
	if c.ConsentProbe <= 0 {
		c.ConsentProbe = DefaultConsentProbe
	}
}
