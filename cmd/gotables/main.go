package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gotables/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		baseURL      string
		outDir       string
		outBase      string
		pagesSpec    string
		static       bool
		headful      bool
		userAgent    string
		browserExec  string
		navTimeout   time.Duration
		tableTimeout time.Duration
		settleDelay  time.Duration
		consentList  string
		consentProbe time.Duration
		manifestPath string
		pdfPath      string
		configPath   string
		verbose      bool
	)

	flag.StringVar(&baseURL, "url", os.Getenv("GOTABLES_URL"), "Page URL to scrape tables from")
	flag.StringVar(&outDir, "out.dir", "", "Directory for output CSV files (default \"results\")")
	flag.StringVar(&outBase, "out.base", "", "Base name for output files (default \"tables\")")
	flag.StringVar(&pagesSpec, "pages", "", "Comma-separated page numbers for pagination mode, e.g. '1,2,3'; empty scrapes the URL as-is")
	flag.BoolVar(&static, "static", false, "Skip the browser and fetch the page with a plain HTTP GET")
	flag.BoolVar(&headful, "headful", false, "Run the browser with a visible window")
	flag.StringVar(&userAgent, "ua", app.DefaultUserAgent, "User agent sent by the browser or the static fetcher")
	flag.StringVar(&browserExec, "browser.exec", os.Getenv("GOTABLES_BROWSER"), "Path to a system Chromium binary (empty uses the managed one)")
	flag.DurationVar(&navTimeout, "browser.navigate", app.DefaultNavigateTimeout, "Navigation timeout per page")
	flag.DurationVar(&tableTimeout, "browser.timeout", app.DefaultTableTimeout, "How long to wait for a table element to appear")
	flag.DurationVar(&settleDelay, "browser.settle", app.DefaultSettleDelay, "Fixed delay after load for client-side rendering")
	flag.StringVar(&consentList, "consent.selectors", "", "Comma-separated CSS selectors for consent buttons (empty uses the built-in list)")
	flag.DurationVar(&consentProbe, "consent.probe", app.DefaultConsentProbe, "Per-selector wait when probing consent buttons")
	flag.StringVar(&manifestPath, "report.manifest", "", "Path for the JSON run manifest (default <out.dir>/<out.base>_manifest.json; 'none' disables)")
	flag.StringVar(&pdfPath, "report.pdf", "", "Optional path for a PDF run summary")
	flag.StringVar(&configPath, "config", os.Getenv("GOTABLES_CONFIG"), "Optional YAML or JSON config file")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg := app.Config{
		BaseURL:           baseURL,
		OutDir:            outDir,
		BaseName:          outBase,
		Static:            static,
		Headless:          !headful,
		UserAgent:         userAgent,
		BrowserExecutable: browserExec,
		NavigateTimeout:   navTimeout,
		TableTimeout:      tableTimeout,
		SettleDelay:       settleDelay,
		ConsentProbe:      consentProbe,
		ManifestPath:      manifestPath,
		PDFPath:           pdfPath,
		Verbose:           verbose,
	}

	if pages, err := parsePages(pagesSpec); err != nil {
		log.Error().Err(err).Msg("invalid -pages")
		os.Exit(2)
	} else {
		cfg.Pages = pages
	}
	if s := strings.TrimSpace(consentList); s != "" {
		cfg.ConsentSelectors = splitList(s)
	}

	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("load config file")
			os.Exit(2)
		}
		fc.Merge(&cfg)
		// The file may have raised verbosity after the initial setup.
		if cfg.Verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	}

	if cfg.ManifestPath == "" {
		dir := cfg.OutDir
		if dir == "" {
			dir = "results"
		}
		base := cfg.BaseName
		if base == "" {
			base = "tables"
		}
		cfg.ManifestPath = filepath.Join(dir, base+"_manifest.json")
	} else if cfg.ManifestPath == "none" {
		cfg.ManifestPath = ""
	}

	if err := run(cfg); err != nil {
		// Handled failures terminate normally: everything salvageable was
		// already written and logged.
		log.Error().Err(err).Msg("run failed")
	}
}

func run(cfg app.Config) error {
	ctx := context.Background()

	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	return a.Run(ctx)
}

func parsePages(spec string) ([]int, error) {
	s := strings.TrimSpace(spec)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	pages := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("page number %q: %w", p, err)
		}
		pages = append(pages, n)
	}
	return pages, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			list = append(list, v)
		}
	}
	return list
}
