// Package linkcheck validates resolved links one at a time and aggregates
// the outcome into a Report.
package linkcheck

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yingtu35/link-checker/internal/logger"
	"github.com/yingtu35/link-checker/internal/webscraper"
)

const (
	DefaultRequestTimeout = 15 * time.Second
	DefaultMaxRedirects   = 5
	DefaultDelay          = 100 * time.Millisecond
)

type Options struct {
	RequestTimeout time.Duration
	MaxRedirects   int // 0 means redirects are not followed
	Delay          time.Duration
	Logger         *zap.Logger
}

// WithDefaults fills a zero RequestTimeout and a nil Logger. A zero
// MaxRedirects (no redirects followed) and a zero Delay (no pacing) are valid
// settings and are kept, so callers wanting the standard limits should start
// from DefaultOptions. A negative MaxRedirects falls back to the default.
func (o Options) WithDefaults() Options {
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = DefaultRequestTimeout
	}
	if o.MaxRedirects < 0 {
		o.MaxRedirects = DefaultMaxRedirects
	}
	if o.Delay < 0 {
		o.Delay = 0
	}
	o.Logger = logger.OrNop(o.Logger)
	return o
}

// DefaultOptions mirrors the limits used by the check command.
func DefaultOptions() Options {
	return Options{
		RequestTimeout: DefaultRequestTimeout,
		MaxRedirects:   DefaultMaxRedirects,
		Delay:          DefaultDelay,
	}
}

// Checker validates targets sequentially, in the order given.
type Checker struct {
	fetcher StatusFetcher
	pacer   Pacer
	opts    Options
	logger  *zap.Logger
}

// NewChecker uses a RatePacer when pacer is nil. opts goes through
// WithDefaults.
func NewChecker(fetcher StatusFetcher, pacer Pacer, opts Options) *Checker {
	if pacer == nil {
		pacer = RatePacer{}
	}
	opts = opts.WithDefaults()
	return &Checker{
		fetcher: fetcher,
		pacer:   pacer,
		opts:    opts,
		logger:  opts.Logger,
	}
}

// Check requests every target and never stops early: a broken link is
// recorded and the loop moves on. The pacing delay follows each request.
func (c *Checker) Check(ctx context.Context, scope string, targets []webscraper.Target) *Report {
	report := &Report{Scope: scope, Results: make([]Result, 0, len(targets))}

	for i, target := range targets {
		log := c.logger.With(
			zap.String("url", target.URL),
			zap.String("progress", fmt.Sprintf("%d/%d", i+1, len(targets))),
		)
		log.Info("Checking link")

		result := c.checkOne(ctx, target)
		if result.OK() {
			log.Info("Link OK", zap.Int("status", result.Status))
		} else {
			log.Warn("Link broken", zap.Int("status", result.Status), zap.String("error", result.Error))
		}
		report.Results = append(report.Results, result)

		c.pacer.Wait(ctx, c.opts.Delay)
	}

	c.logger.Info("Finished checking links",
		zap.String("scope", scope),
		zap.Int("checked", len(report.Results)),
		zap.Int("broken", len(report.Broken())),
	)
	return report
}

func (c *Checker) checkOne(ctx context.Context, target webscraper.Target) Result {
	result := Result{URL: target.URL, Text: target.Text}
	if target.Error != "" {
		result.Error = target.Error
		return result
	}

	status, err := c.fetcher.FetchStatus(ctx, target.URL, c.opts.RequestTimeout, c.opts.MaxRedirects)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Status = status
	if status < 200 || status >= 400 {
		result.Error = fmt.Sprintf("HTTP %d", status)
	}
	return result
}
