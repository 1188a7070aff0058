package webscraper

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/yingtu35/link-checker/internal/browser"
)

// Navigator opens the target page and reports whether it is ready.
type Navigator struct {
	page              browser.Page
	baseURL           string
	path              string
	navigationTimeout time.Duration
	readyTimeout      time.Duration
	logger            *zap.Logger
}

func NewNavigator(page browser.Page, opts Options) *Navigator {
	opts = opts.WithDefaults()
	return &Navigator{
		page:              page,
		baseURL:           opts.BaseURL,
		path:              opts.Path,
		navigationTimeout: opts.NavigationTimeout,
		readyTimeout:      opts.ReadyTimeout,
		logger:            opts.Logger,
	}
}

// TargetURL joins the base URL and the target path.
func (n *Navigator) TargetURL() (string, error) {
	base, err := url.Parse(n.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	ref, err := url.Parse(n.path)
	if err != nil {
		return "", fmt.Errorf("parse target path: %w", err)
	}
	return base.ResolveReference(ref).String(), nil
}

// Goto loads the target page and blocks until network activity is idle or
// the navigation timeout elapses.
func (n *Navigator) Goto(ctx context.Context) error {
	target, err := n.TargetURL()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, n.navigationTimeout)
	defer cancel()

	n.logger.Info("Navigating to page", zap.String("url", target))
	start := time.Now()
	if err := n.page.Goto(ctx, target); err != nil {
		return err
	}
	n.logger.Debug("Page settled",
		zap.String("url", n.page.URL()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// IsLoaded waits for DOM-ready and never fails: a timeout reports false.
func (n *Navigator) IsLoaded() bool {
	if err := n.page.WaitForDOMReady(n.readyTimeout); err != nil {
		n.logger.Warn("Page did not become ready",
			zap.Duration("timeout", n.readyTimeout),
			zap.Error(err),
		)
		return false
	}
	return true
}

func (n *Navigator) Title() (string, error) {
	return n.page.Title()
}

// TitleMatches reports whether the page title matches pattern, ignoring case.
func (n *Navigator) TitleMatches(pattern string) (bool, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return false, fmt.Errorf("compile title pattern: %w", err)
	}
	title, err := n.page.Title()
	if err != nil {
		return false, err
	}
	return re.MatchString(title), nil
}
