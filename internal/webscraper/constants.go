package webscraper

import (
	"time"

	"github.com/yingtu35/link-checker/internal/browser"
)

const (
	LinkSelector = "a[href]" // anchors that carry a destination

	DefaultBaseURL           = "https://www.criticalriver.com"
	DefaultTargetPath        = "/industry/"
	DefaultNavigationTimeout = browser.DefaultNavigationTimeout
	DefaultReadyTimeout      = 10 * time.Second // DOM-ready wait used by IsLoaded
)
