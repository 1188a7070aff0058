package linkcheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/playwright-community/playwright-go"
)

// ErrTooManyRedirects is returned when a URL redirects more than allowed.
var ErrTooManyRedirects = errors.New("too many redirects")

// StatusFetcher issues a GET and reports the final status code. 4xx and 5xx
// statuses are returned as values, never as errors.
type StatusFetcher interface {
	FetchStatus(ctx context.Context, url string, timeout time.Duration, maxRedirects int) (int, error)
}

// HTTPFetcher checks links with net/http.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

func NewHTTPFetcher(client *http.Client, userAgent string) *HTTPFetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPFetcher{client: client, userAgent: userAgent}
}

func (f *HTTPFetcher) FetchStatus(ctx context.Context, url string, timeout time.Duration, maxRedirects int) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	client := *f.client
	client.CheckRedirect = func(_ *http.Request, via []*http.Request) error {
		if maxRedirects == 0 {
			// Report the redirect status itself.
			return http.ErrUseLastResponse
		}
		if len(via) > maxRedirects {
			return fmt.Errorf("%w: stopped after %d", ErrTooManyRedirects, maxRedirects)
		}
		return nil
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused for the next link.
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

// PlaywrightFetcher checks links through a browser API request context, so
// requests carry the page's cookies.
type PlaywrightFetcher struct {
	request playwright.APIRequestContext
}

func NewPlaywrightFetcher(request playwright.APIRequestContext) *PlaywrightFetcher {
	return &PlaywrightFetcher{request: request}
}

func (f *PlaywrightFetcher) FetchStatus(ctx context.Context, url string, timeout time.Duration, maxRedirects int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	resp, err := f.request.Get(url, playwright.APIRequestContextGetOptions{
		Timeout:          playwright.Float(float64(timeout.Milliseconds())),
		MaxRedirects:     playwright.Int(maxRedirects),
		FailOnStatusCode: playwright.Bool(false),
	})
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Dispose() }()

	return resp.Status(), nil
}
