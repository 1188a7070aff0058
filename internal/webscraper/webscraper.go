// Package webscraper is the page object for a single page under test: the
// Navigator loads it and the Inspector discovers, classifies and resolves its
// links.
package webscraper

import (
	"time"

	"go.uber.org/zap"

	"github.com/yingtu35/link-checker/internal/browser"
	"github.com/yingtu35/link-checker/internal/logger"
	"github.com/yingtu35/link-checker/pkg/domain"
)

// LinkRecord describes one anchor found on the page.
type LinkRecord struct {
	URL        string `json:"url"`  // raw href, may be relative or non-http
	Text       string `json:"text"` // trimmed visible label
	IsExternal bool   `json:"is_external"`
}

// Target is a resolved URL queued for validation.
type Target struct {
	URL   string
	Text  string
	Error string // set when the href could not be resolved; URL is then the raw href
}

type Options struct {
	BaseURL           string
	Path              string
	ReferenceDomain   string // derived from BaseURL when empty
	NavigationTimeout time.Duration
	ReadyTimeout      time.Duration
	Logger            *zap.Logger
}

// WithDefaults returns a copy of the options with zero-value fields filled.
func (o Options) WithDefaults() Options {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.Path == "" {
		o.Path = DefaultTargetPath
	}
	if o.ReferenceDomain == "" {
		if d, err := domain.GetDomain(o.BaseURL); err == nil {
			o.ReferenceDomain = d
		}
	}
	if o.NavigationTimeout <= 0 {
		o.NavigationTimeout = DefaultNavigationTimeout
	}
	if o.ReadyTimeout <= 0 {
		o.ReadyTimeout = DefaultReadyTimeout
	}
	o.Logger = logger.OrNop(o.Logger)
	return o
}

// LinkPage bundles the Navigator and Inspector over the same browser page.
type LinkPage struct {
	*Navigator
	*Inspector
}

func NewLinkPage(page browser.Page, opts Options) *LinkPage {
	opts = opts.WithDefaults()
	return &LinkPage{
		Navigator: NewNavigator(page, opts),
		Inspector: NewInspector(page, opts.ReferenceDomain, opts.Logger),
	}
}
