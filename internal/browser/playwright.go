package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

var _ Page = (*DynamicPage)(nil)

type LaunchOptions struct {
	Headless            bool
	NavigationTimeout   time.Duration
	UserAgent           string
	SkipInstallBrowsers bool
}

// Session owns the playwright driver and one Chromium instance.
type Session struct {
	pwClient *playwright.Playwright
	browser  playwright.Browser
	options  LaunchOptions
}

// Launch starts the playwright driver and a Chromium browser.
func Launch(options LaunchOptions) (*Session, error) {
	if options.NavigationTimeout <= 0 {
		options.NavigationTimeout = DefaultNavigationTimeout
	}

	pw, err := playwright.Run(&playwright.RunOptions{
		SkipInstallBrowsers: options.SkipInstallBrowsers,
	})
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	browserInstance, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(options.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	return &Session{pwClient: pw, browser: browserInstance, options: options}, nil
}

// NewPage opens a tab in a fresh browser context.
func (s *Session) NewPage() (*DynamicPage, error) {
	contextOptions := playwright.BrowserNewContextOptions{}
	if s.options.UserAgent != "" {
		contextOptions.UserAgent = playwright.String(s.options.UserAgent)
	}

	bctx, err := s.browser.NewContext(contextOptions)
	if err != nil {
		return nil, fmt.Errorf("new browser context: %w", err)
	}
	bctx.SetDefaultNavigationTimeout(milliseconds(s.options.NavigationTimeout))

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("new page: %w", err)
	}

	return &DynamicPage{
		bctx:              bctx,
		page:              page,
		navigationTimeout: s.options.NavigationTimeout,
	}, nil
}

func (s *Session) Close() error {
	return errors.Join(s.browser.Close(), s.pwClient.Stop())
}

// DynamicPage is a Chromium tab driven by playwright.
type DynamicPage struct {
	bctx              playwright.BrowserContext
	page              playwright.Page
	navigationTimeout time.Duration
}

func (p *DynamicPage) Goto(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timeout := p.navigationTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(milliseconds(timeout)),
	})
	if err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

func (p *DynamicPage) WaitForDOMReady(timeout time.Duration) error {
	return p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateDomcontentloaded,
		Timeout: playwright.Float(milliseconds(timeout)),
	})
}

func (p *DynamicPage) Elements(selector string) ([]Element, error) {
	locators, err := p.page.Locator(selector).All()
	if err != nil {
		return nil, err
	}
	elements := make([]Element, 0, len(locators))
	for _, l := range locators {
		elements = append(elements, dynamicElement{locator: l})
	}
	return elements, nil
}

func (p *DynamicPage) URL() string {
	return p.page.URL()
}

func (p *DynamicPage) Title() (string, error) {
	return p.page.Title()
}

// Request exposes the page's API request context, which shares cookies with
// the tab.
func (p *DynamicPage) Request() playwright.APIRequestContext {
	return p.page.Request()
}

func (p *DynamicPage) Close() error {
	return p.bctx.Close()
}

type dynamicElement struct {
	locator playwright.Locator
}

func (e dynamicElement) Attribute(name string) (string, error) {
	return e.locator.GetAttribute(name)
}

func (e dynamicElement) InnerText() (string, error) {
	return e.locator.InnerText()
}

func milliseconds(d time.Duration) float64 {
	return float64(d.Milliseconds())
}
