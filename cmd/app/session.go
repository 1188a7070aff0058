package main

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/yingtu35/link-checker/internal/browser"
	"github.com/yingtu35/link-checker/internal/linkcheck"
	"github.com/yingtu35/link-checker/internal/webscraper"
)

// session is an open page plus the fetcher the check loop should use with it.
type session struct {
	page    *webscraper.LinkPage
	fetcher linkcheck.StatusFetcher
	close   func()
}

func (a *app) openSession() (*session, error) {
	opts := a.cfg.PageOptions()
	opts.Logger = a.logger

	if a.cfg.Engine == browser.EngineStatic {
		client := &http.Client{Timeout: a.cfg.NavigationTimeout}
		page := browser.NewStaticPage(client, a.cfg.UserAgent)
		return &session{
			page:    webscraper.NewLinkPage(page, opts),
			fetcher: linkcheck.NewHTTPFetcher(nil, a.cfg.UserAgent),
			close:   func() { _ = page.Close() },
		}, nil
	}

	s, err := browser.Launch(browser.LaunchOptions{
		Headless:          a.cfg.Headless,
		NavigationTimeout: a.cfg.NavigationTimeout,
		UserAgent:         a.cfg.UserAgent,
	})
	if err != nil {
		return nil, err
	}
	page, err := s.NewPage()
	if err != nil {
		_ = s.Close()
		return nil, err
	}

	return &session{
		page:    webscraper.NewLinkPage(page, opts),
		fetcher: linkcheck.NewPlaywrightFetcher(page.Request()),
		close: func() {
			if err := page.Close(); err != nil {
				a.logger.Warn("Error closing page", zap.Error(err))
			}
			if err := s.Close(); err != nil {
				a.logger.Warn("Error closing browser", zap.Error(err))
			}
		},
	}, nil
}
