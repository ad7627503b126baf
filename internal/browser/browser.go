package browser

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog/log"
)

// Options configures the headless browser session.
type Options struct {
	Headless  bool
	UserAgent string
	// ExecutablePath points at a system Chromium when the bundled one is not
	// wanted. Empty uses the playwright-managed browser.
	ExecutablePath string
}

// Session owns a playwright driver, one browser, and one page. Close releases
// all three and is safe to call after a partial launch failure.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
}

// Launch starts the driver and opens a headless Chromium page with the
// hardening switches and viewport the scraper has always run with.
func Launch(opts Options) (*Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}
	s := &Session{pw: pw}

	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args: []string{
			"--disable-gpu",
			"--no-sandbox",
			"--disable-dev-shm-usage",
		},
	}
	if opts.ExecutablePath != "" {
		launch.ExecutablePath = playwright.String(opts.ExecutablePath)
	}
	browser, err := pw.Chromium.Launch(launch)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	s.browser = browser

	pageOpts := playwright.BrowserNewPageOptions{
		Viewport: &playwright.Size{Width: 1920, Height: 1080},
	}
	if opts.UserAgent != "" {
		pageOpts.UserAgent = playwright.String(opts.UserAgent)
	}
	page, err := browser.NewPage(pageOpts)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("open page: %w", err)
	}
	s.page = page
	return s, nil
}

// Navigate loads url and waits for the load event, bounded by timeout.
func (s *Session) Navigate(url string, timeout time.Duration) error {
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("goto %s: %w", url, err)
	}
	return nil
}

// WaitForTable blocks until at least one table element is attached, or the
// timeout passes. A timeout is a degraded-but-continue condition, so it is
// reported as false rather than an error; whatever markup is present gets
// processed anyway.
func (s *Session) WaitForTable(timeout time.Duration) bool {
	err := s.page.Locator("table").First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		log.Warn().Err(err).Msg("no tables appeared within timeout, continuing")
		return false
	}
	return true
}

// Settle sleeps for the configured delay so client-side rendering can finish.
func (s *Session) Settle(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

// HTML returns the rendered page source, including dynamically inserted
// elements.
func (s *Session) HTML() (string, error) {
	content, err := s.page.Content()
	if err != nil {
		return "", fmt.Errorf("page content: %w", err)
	}
	return content, nil
}

// Close releases page, browser, and driver in order, tolerating whatever
// subset of them exists.
func (s *Session) Close() {
	if s.page != nil {
		if err := s.page.Close(); err != nil {
			log.Debug().Err(err).Msg("close page")
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			log.Debug().Err(err).Msg("close browser")
		}
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil {
			log.Debug().Err(err).Msg("stop playwright")
		}
	}
}
