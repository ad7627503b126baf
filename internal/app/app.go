package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gotables/internal/browser"
	"github.com/hyperifyio/gotables/internal/fetch"
	"github.com/hyperifyio/gotables/internal/table"
)

// App drives one scrape run: obtain the page markup (rendered or static),
// hand it to the table extractor, and report what was written.
type App struct {
	cfg     Config
	session *browser.Session
	source  pageSource
}

func New(cfg Config) (*App, error) {
	cfg.applyDefaults()
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("base URL is required")
	}
	if err := ensureOutDir(cfg.OutDir); err != nil {
		return nil, err
	}

	a := &App{cfg: cfg}
	if cfg.Static {
		a.source = &staticSource{client: &fetch.Client{
			UserAgent:         cfg.UserAgent,
			MaxAttempts:       2,
			PerRequestTimeout: cfg.NavigateTimeout,
		}}
		return a, nil
	}

	log.Info().Msg("launching browser")
	session, err := browser.Launch(browser.Options{
		Headless:       cfg.Headless,
		UserAgent:      cfg.UserAgent,
		ExecutablePath: cfg.BrowserExecutable,
	})
	if err != nil {
		return nil, fmt.Errorf("init browser: %w", err)
	}
	a.session = session
	a.source = &browserSource{session: session, cfg: cfg}
	return a, nil
}

// Close releases the browser. It runs even when Run failed, so the browser
// process never outlives the program.
func (a *App) Close() {
	if a.session != nil {
		a.session.Close()
		log.Info().Msg("browser closed")
	}
}

func (a *App) Run(ctx context.Context) error {
	started := time.Now().UTC()

	var (
		total int
		saved []table.Saved
	)
	if len(a.cfg.Pages) == 0 {
		count, s, err := a.processPage(ctx, a.cfg.BaseURL, a.cfg.BaseName)
		if err != nil {
			return err
		}
		total, saved = count, s
	} else {
		for _, n := range a.cfg.Pages {
			log.Info().Int("page", n).Msg("processing page")
			url := pageURL(a.cfg.BaseURL, n)
			name := fmt.Sprintf("%s_page_%d", a.cfg.BaseName, n)
			count, s, err := a.processPage(ctx, url, name)
			if err != nil {
				// One bad page must not stop its siblings.
				log.Error().Err(err).Int("page", n).Msg("error processing page")
				continue
			}
			total += count
			saved = append(saved, s...)
		}
	}

	a.writeRunReport(started, total, saved)
	outDir, _ := filepath.Abs(a.cfg.OutDir)
	log.Info().Int("tables", total).Str("dir", outDir).Msg("scraping complete")
	return nil
}

// processPage obtains one page's markup, parses it, and extracts its tables.
func (a *App) processPage(ctx context.Context, url, baseName string) (int, []table.Saved, error) {
	markup, err := a.source.HTMLFor(ctx, url)
	if err != nil {
		return 0, nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return 0, nil, fmt.Errorf("parse html: %w", err)
	}
	ex := &table.Extractor{OutDir: a.cfg.OutDir}
	count, saved := ex.ExtractAndSave(doc, baseName)
	return count, saved, nil
}

func (a *App) writeRunReport(started time.Time, total int, saved []table.Saved) {
	meta := manifestMeta{
		BaseURL:     a.cfg.BaseURL,
		OutDir:      a.cfg.OutDir,
		Pages:       a.cfg.Pages,
		Static:      a.cfg.Static,
		TableCount:  total,
		GeneratedAt: started,
	}
	entries := buildManifestEntries(saved)
	if a.cfg.ManifestPath != "" {
		if err := writeManifest(a.cfg.ManifestPath, meta, entries); err != nil {
			log.Warn().Err(err).Msg("write manifest failed")
		} else {
			log.Info().Str("path", a.cfg.ManifestPath).Msg("wrote manifest")
		}
	}
	if a.cfg.PDFPath != "" {
		if err := writeSummaryPDF(a.cfg.PDFPath, meta, entries); err != nil {
			log.Warn().Err(err).Msg("write pdf summary failed")
		} else {
			log.Info().Str("path", a.cfg.PDFPath).Msg("wrote pdf summary")
		}
	}
}

// pageURL appends the page query parameter, reusing the query string when the
// base URL already carries one.
func pageURL(base string, n int) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%spage=%d", base, sep, n)
}

// pageSource abstracts where markup comes from, so tests can inject canned
// documents and static mode can skip the browser entirely.
type pageSource interface {
	HTMLFor(ctx context.Context, url string) ([]byte, error)
}

type browserSource struct {
	session *browser.Session
	cfg     Config
}

func (b *browserSource) HTMLFor(_ context.Context, url string) ([]byte, error) {
	if err := b.session.Navigate(url, b.cfg.NavigateTimeout); err != nil {
		return nil, err
	}
	b.session.DismissConsent(b.cfg.ConsentSelectors, b.cfg.ConsentProbe)
	b.session.WaitForTable(b.cfg.TableTimeout)
	b.session.Settle(b.cfg.SettleDelay)
	src, err := b.session.HTML()
	if err != nil {
		return nil, err
	}
	return []byte(src), nil
}

type staticSource struct {
	client *fetch.Client
}

func (s *staticSource) HTMLFor(ctx context.Context, url string) ([]byte, error) {
	return s.client.Get(ctx, url)
}
