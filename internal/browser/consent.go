package browser

import (
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog/log"
)

// DefaultConsentSelectors are the consent-button patterns probed on each
// page, most specific first.
var DefaultConsentSelectors = []string{
	"button#acceptAll",
	"button#accept-cookies",
	"button#consent-accept",
	"button.accept-cookies",
	"button.agree-button",
	"button[aria-label*='accept']",
	"button[aria-label*='Accept']",
	"button[onclick*='cookie']",
	".cookie-consent button",
	".cc-accept",
	".consent-accept",
}

// DismissConsent tries each selector in order with a short bounded click
// attempt and stops at the first that succeeds. Cookie banners are
// best-effort noise: every failure is swallowed and nothing is surfaced to
// the caller.
func (s *Session) DismissConsent(selectors []string, probe time.Duration) {
	if len(selectors) == 0 {
		selectors = DefaultConsentSelectors
	}
	if probe <= 0 {
		probe = 3 * time.Second
	}
	for _, selector := range selectors {
		err := s.page.Locator(selector).First().Click(playwright.LocatorClickOptions{
			Timeout: playwright.Float(float64(probe.Milliseconds())),
		})
		if err != nil {
			continue
		}
		log.Info().Str("selector", selector).Msg("consent popup handled")
		// brief pause so the banner can animate out before we read the page
		time.Sleep(time.Second)
		return
	}
	log.Debug().Msg("no consent popup found")
}
