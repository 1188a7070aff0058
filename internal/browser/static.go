package browser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const nonVisibleSelectors = "script, style, noscript, template"

var _ Page = (*StaticPage)(nil)

// StaticPage fetches a page over plain HTTP and queries the parsed document.
// Scripts are never executed, so Goto returns as soon as the body is read.
type StaticPage struct {
	client    *http.Client
	userAgent string
	url       string
	doc       *goquery.Document
}

func NewStaticPage(client *http.Client, userAgent string) *StaticPage {
	if client == nil {
		client = &http.Client{Timeout: DefaultNavigationTimeout}
	}
	return &StaticPage{client: client, userAgent: userAgent}
}

// NewStaticPageFromHTML returns a page already loaded with body, as if it had
// been served from pageURL.
func NewStaticPageFromHTML(pageURL, body string) (*StaticPage, error) {
	p := NewStaticPage(nil, "")
	if err := p.load(pageURL, strings.NewReader(body)); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *StaticPage) Goto(ctx context.Context, rawURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", rawURL, err)
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("navigate to %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	// resp.Request is the last request after redirects.
	return p.load(resp.Request.URL.String(), resp.Body)
}

func (p *StaticPage) load(pageURL string, body io.Reader) error {
	root, err := html.Parse(body)
	if err != nil {
		return fmt.Errorf("parse %s: %w", pageURL, err)
	}
	p.url = pageURL
	p.doc = goquery.NewDocumentFromNode(root)
	return nil
}

// WaitForDOMReady succeeds once a document has been parsed.
func (p *StaticPage) WaitForDOMReady(_ time.Duration) error {
	if p.doc == nil {
		return ErrNotLoaded
	}
	return nil
}

func (p *StaticPage) Elements(selector string) ([]Element, error) {
	if p.doc == nil {
		return nil, ErrNotLoaded
	}
	var elements []Element
	p.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, staticElement{sel: s})
	})
	return elements, nil
}

func (p *StaticPage) URL() string {
	return p.url
}

func (p *StaticPage) Title() (string, error) {
	if p.doc == nil {
		return "", ErrNotLoaded
	}
	return strings.TrimSpace(p.doc.Find("title").First().Text()), nil
}

func (p *StaticPage) Close() error {
	p.doc = nil
	return nil
}

type staticElement struct {
	sel *goquery.Selection
}

func (e staticElement) Attribute(name string) (string, error) {
	v, _ := e.sel.Attr(name)
	return v, nil
}

// InnerText approximates the rendered text: non-visible children are dropped
// and whitespace runs collapse to a single space.
func (e staticElement) InnerText() (string, error) {
	clone := e.sel.Clone()
	clone.Find(nonVisibleSelectors).Remove()
	return strings.Join(strings.Fields(clone.Text()), " "), nil
}
