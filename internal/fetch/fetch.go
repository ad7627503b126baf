package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client fetches server-rendered pages for static mode, where no JavaScript
// needs to run and a plain GET is enough. It retries transient failures and
// bounds each request.
type Client struct {
	UserAgent string
	// MaxAttempts includes the initial attempt. Minimum 1.
	MaxAttempts int
	// PerRequestTimeout bounds each request.
	PerRequestTimeout time.Duration

	resty *resty.Client
}

func (c *Client) client() *resty.Client {
	if c.resty != nil {
		return c.resty
	}
	r := resty.New()
	if c.UserAgent != "" {
		r.SetHeader("User-Agent", c.UserAgent)
	}
	if c.PerRequestTimeout > 0 {
		r.SetTimeout(c.PerRequestTimeout)
	}
	if c.MaxAttempts > 1 {
		r.SetRetryCount(c.MaxAttempts - 1)
		r.SetRetryWaitTime(200 * time.Millisecond)
		r.AddRetryCondition(func(res *resty.Response, err error) bool {
			return err != nil || res.StatusCode() >= 500
		})
	}
	c.resty = r
	return r
}

// Get issues a GET and returns the page body. Non-2xx statuses and non-HTML
// content types are errors; the caller decides whether to continue.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	res, err := c.client().R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	if res.StatusCode() < 200 || res.StatusCode() > 299 {
		return nil, fmt.Errorf("get %s: unexpected status %d", url, res.StatusCode())
	}
	if ct := res.Header().Get("Content-Type"); !isHTMLContentType(ct) {
		return nil, fmt.Errorf("get %s: unsupported content type %q", url, ct)
	}
	return res.Body(), nil
}

func isHTMLContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	return strings.HasPrefix(ct, "text/html") || strings.HasPrefix(ct, "application/xhtml+xml")
}
