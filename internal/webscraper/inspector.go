package webscraper

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"

	"github.com/yingtu35/link-checker/internal/browser"
	"github.com/yingtu35/link-checker/internal/logger"
	"github.com/yingtu35/link-checker/pkg/domain"
)

// Inspector discovers and classifies the links of the current page.
type Inspector struct {
	page            browser.Page
	referenceDomain string
	logger          *zap.Logger
}

func NewInspector(page browser.Page, referenceDomain string, l *zap.Logger) *Inspector {
	return &Inspector{
		page:            page,
		referenceDomain: referenceDomain,
		logger:          logger.OrNop(l),
	}
}

func (in *Inspector) ReferenceDomain() string {
	return in.referenceDomain
}

// GetAllLinks returns every anchor that has an href attribute.
func (in *Inspector) GetAllLinks() ([]browser.Element, error) {
	links, err := in.page.Elements(LinkSelector)
	if err != nil {
		return nil, fmt.Errorf("query links: %w", err)
	}
	return links, nil
}

// GetAllLinkURLs returns the raw href of each anchor, skipping empty ones.
func (in *Inspector) GetAllLinkURLs() ([]string, error) {
	links, err := in.GetAllLinks()
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(links))
	for _, link := range links {
		href, err := link.Attribute("href")
		if err != nil {
			return nil, fmt.Errorf("read href: %w", err)
		}
		if href != "" {
			urls = append(urls, href)
		}
	}
	return urls, nil
}

// GetLinkDetails returns a LinkRecord per anchor. A label that cannot be
// read becomes "" rather than failing the whole collection.
func (in *Inspector) GetLinkDetails() ([]LinkRecord, error) {
	links, err := in.GetAllLinks()
	if err != nil {
		return nil, err
	}

	details := make([]LinkRecord, 0, len(links))
	for _, link := range links {
		href, err := link.Attribute("href")
		if err != nil {
			return nil, fmt.Errorf("read href: %w", err)
		}
		text, err := link.InnerText()
		if err != nil {
			in.logger.Debug("Could not read link text", zap.String("href", href), zap.Error(err))
			text = ""
		}
		if href == "" {
			continue
		}

		details = append(details, LinkRecord{
			URL:        href,
			Text:       strings.TrimSpace(text),
			IsExternal: domain.IsExternal(in.referenceDomain, href),
		})
	}
	return details, nil
}

func (in *Inspector) GetInternalLinks() ([]LinkRecord, error) {
	return in.partition(false)
}

func (in *Inspector) GetExternalLinks() ([]LinkRecord, error) {
	return in.partition(true)
}

func (in *Inspector) partition(external bool) ([]LinkRecord, error) {
	details, err := in.GetLinkDetails()
	if err != nil {
		return nil, err
	}
	var out []LinkRecord
	for _, d := range details {
		if d.IsExternal == external {
			out = append(out, d)
		}
	}
	return out, nil
}

// HasLink reports whether an anchor with exactly this href exists.
func (in *Inspector) HasLink(href string) (bool, error) {
	urls, err := in.GetAllLinkURLs()
	if err != nil {
		return false, err
	}
	for _, u := range urls {
		if u == href {
			return true, nil
		}
	}
	return false, nil
}

func (in *Inspector) FilterNavigableLinks(urls []string) []string {
	return FilterNavigableLinks(urls)
}

// ResolveURL returns http(s) URLs unchanged and resolves anything else
// against the page's current URL. A '%' that does not start an escape is
// taken literally.
func (in *Inspector) ResolveURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if domain.IsHTTPURL(raw) {
		return raw, nil
	}

	base, err := url.Parse(in.page.URL())
	if err != nil {
		return "", fmt.Errorf("parse page url: %w: %w", browser.ErrNotLoaded, err)
	}
	if !base.IsAbs() {
		return "", fmt.Errorf("resolve %q: %w", raw, browser.ErrNotLoaded)
	}

	ref, err := url.Parse(escapeStrayPercent(raw))
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", raw, err)
	}
	return base.ResolveReference(ref).String(), nil
}

func escapeStrayPercent(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && (i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2])) {
			b.WriteString("%25")
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// resolveTarget resolves raw into a Target. An href that cannot be resolved
// is kept with its raw value and the failure in Error, so it is reported as
// broken instead of ending the run. Only a page that is not loaded aborts.
func (in *Inspector) resolveTarget(raw, text string) (Target, error) {
	resolved, err := in.ResolveURL(raw)
	if errors.Is(err, browser.ErrNotLoaded) {
		return Target{}, err
	}
	if err != nil {
		in.logger.Warn("Unresolvable link", zap.String("href", raw), zap.Error(err))
		return Target{URL: strings.TrimSpace(raw), Text: text, Error: err.Error()}, nil
	}
	return Target{URL: resolved, Text: text}, nil
}

// NavigableTargets filters the page's hrefs with the Navigable policy,
// resolves them and drops duplicates while keeping discovery order.
func (in *Inspector) NavigableTargets() ([]Target, error) {
	urls, err := in.GetAllLinkURLs()
	if err != nil {
		return nil, err
	}
	navigable := in.FilterNavigableLinks(urls)

	targets := make([]Target, 0, len(navigable))
	for _, u := range navigable {
		target, err := in.resolveTarget(u, "")
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}

	unique := Dedupe(targets)
	in.logger.Info("Collected navigable links",
		zap.Int("total", len(urls)),
		zap.Int("navigable", len(navigable)),
		zap.Int("unique", len(unique)),
	)
	return unique, nil
}

// InternalTargets resolves the internal links and applies the StrictInternal
// policy to the resolved form.
func (in *Inspector) InternalTargets() ([]Target, error) {
	internal, err := in.GetInternalLinks()
	if err != nil {
		return nil, err
	}

	targets := make([]Target, 0, len(internal))
	for _, link := range internal {
		target, err := in.resolveTarget(link.URL, link.Text)
		if err != nil {
			return nil, err
		}
		if !StrictInternal(target.URL) {
			in.logger.Debug("Skipping internal link", zap.String("url", target.URL))
			continue
		}
		targets = append(targets, target)
	}

	unique := Dedupe(targets)
	in.logger.Info("Collected internal links",
		zap.Int("internal", len(internal)),
		zap.Int("unique", len(unique)),
	)
	return unique, nil
}

// Dedupe keeps the first occurrence of each URL.
func Dedupe(targets []Target) []Target {
	seen := mapset.NewThreadUnsafeSet[string]()
	out := make([]Target, 0, len(targets))
	for _, t := range targets {
		if seen.Add(t.URL) {
			out = append(out, t)
		}
	}
	return out
}
