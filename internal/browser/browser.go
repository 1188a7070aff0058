// Package browser describes the page automation capability the link
// inspector runs on, with a playwright-backed dynamic engine and a
// net/http + goquery static engine.
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Engine selects the page implementation.
type Engine string

const (
	EngineDynamic Engine = "dynamic" // headless Chromium via playwright
	EngineStatic  Engine = "static"  // plain HTTP fetch, no script execution
)

const DefaultNavigationTimeout = 30 * time.Second

var (
	// ErrNotLoaded is returned when a page is queried before navigation.
	ErrNotLoaded = errors.New("page not loaded")
	// ErrUnknownEngine is returned by ParseEngine.
	ErrUnknownEngine = errors.New("unknown browser engine")
)

// Page is a single browser tab.
type Page interface {
	// Goto navigates to url and blocks until network activity is idle.
	Goto(ctx context.Context, url string) error
	// WaitForDOMReady waits up to timeout for the DOM content to be loaded.
	WaitForDOMReady(timeout time.Duration) error
	// Elements returns all elements matching a CSS selector.
	Elements(selector string) ([]Element, error)
	// URL is the current page URL after redirects.
	URL() string
	Title() (string, error)
	Close() error
}

// Element is a handle to a DOM element.
type Element interface {
	// Attribute returns the attribute value, or "" when absent.
	Attribute(name string) (string, error)
	InnerText() (string, error)
}

func ParseEngine(s string) (Engine, error) {
	switch Engine(s) {
	case EngineDynamic, EngineStatic:
		return Engine(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEngine, s)
}
