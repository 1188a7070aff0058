package linkcheck_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yingtu35/link-checker/internal/linkcheck"
	"github.com/yingtu35/link-checker/internal/webscraper"
)

type fetchCall struct {
	url          string
	timeout      time.Duration
	maxRedirects int
}

type stubFetcher struct {
	statuses map[string]int
	errs     map[string]error
	calls    []fetchCall
}

func (f *stubFetcher) FetchStatus(_ context.Context, url string, timeout time.Duration, maxRedirects int) (int, error) {
	f.calls = append(f.calls, fetchCall{url: url, timeout: timeout, maxRedirects: maxRedirects})
	if err, ok := f.errs[url]; ok {
		return 0, err
	}
	return f.statuses[url], nil
}

type recordingPacer struct {
	waits []time.Duration
}

func (p *recordingPacer) Wait(_ context.Context, d time.Duration) {
	p.waits = append(p.waits, d)
}

func targets(urls ...string) []webscraper.Target {
	out := make([]webscraper.Target, 0, len(urls))
	for _, u := range urls {
		out = append(out, webscraper.Target{URL: u})
	}
	return out
}

func TestChecker_OneTimeoutAmongThree(t *testing.T) {
	fetcher := &stubFetcher{
		statuses: map[string]int{
			"https://site.test/a": 200,
			"https://site.test/c": 301,
		},
		errs: map[string]error{
			"https://site.test/b": errors.New(`Get "https://site.test/b": context deadline exceeded`),
		},
	}
	pacer := &recordingPacer{}
	checker := linkcheck.NewChecker(fetcher, pacer, linkcheck.DefaultOptions())

	report := checker.Check(context.Background(), "", targets(
		"https://site.test/a", "https://site.test/b", "https://site.test/c",
	))

	require.Len(t, report.Results, 3)
	broken := report.Broken()
	require.Len(t, broken, 1)
	assert.Equal(t, "https://site.test/b", broken[0].URL)
	assert.Zero(t, broken[0].Status)
	assert.Contains(t, broken[0].Error, "context deadline exceeded")
	assert.Len(t, report.Successful(), 2)

	err := report.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, linkcheck.ErrBrokenLinks)
	assert.Equal(t, "Found 1 broken link(s): https://site.test/b", err.Error())
}

func TestChecker_SequentialWithPacing(t *testing.T) {
	fetcher := &stubFetcher{statuses: map[string]int{
		"https://site.test/1": 200,
		"https://site.test/2": 200,
	}}
	pacer := &recordingPacer{}
	checker := linkcheck.NewChecker(fetcher, pacer, linkcheck.DefaultOptions())

	report := checker.Check(context.Background(), "", targets("https://site.test/2", "https://site.test/1"))
	require.NoError(t, report.Err())

	require.Len(t, fetcher.calls, 2)
	assert.Equal(t, fetchCall{url: "https://site.test/2", timeout: 15 * time.Second, maxRedirects: 5}, fetcher.calls[0])
	assert.Equal(t, "https://site.test/1", fetcher.calls[1].url)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 100 * time.Millisecond}, pacer.waits)
}

func TestChecker_UnresolvedTargetReportedWithoutRequest(t *testing.T) {
	fetcher := &stubFetcher{statuses: map[string]int{
		"https://site.test/ok":             200,
		"https://site.test/sale/50%25-off": 200,
	}}
	checker := linkcheck.NewChecker(fetcher, &recordingPacer{}, linkcheck.DefaultOptions())

	report := checker.Check(context.Background(), "", []webscraper.Target{
		{URL: "https://site.test/ok"},
		{URL: "//site.test:port/x", Error: `resolve "//site.test:port/x": invalid port ":port" after host`},
		{URL: "https://site.test/sale/50%25-off"},
	})

	require.Len(t, report.Results, 3)
	require.Len(t, fetcher.calls, 2)
	broken := report.Broken()
	require.Len(t, broken, 1)
	assert.Equal(t, "//site.test:port/x", broken[0].URL)
	assert.Contains(t, broken[0].Error, "invalid port")
	assert.Equal(t, "Found 1 broken link(s): //site.test:port/x", report.Err().Error())
}

func TestOptions_WithDefaults(t *testing.T) {
	opts := linkcheck.Options{}.WithDefaults()
	assert.Equal(t, linkcheck.DefaultRequestTimeout, opts.RequestTimeout)
	assert.Zero(t, opts.MaxRedirects)
	assert.Zero(t, opts.Delay)
	assert.NotNil(t, opts.Logger)

	opts = linkcheck.Options{MaxRedirects: -1, Delay: -time.Second}.WithDefaults()
	assert.Equal(t, linkcheck.DefaultMaxRedirects, opts.MaxRedirects)
	assert.Zero(t, opts.Delay)

	assert.Equal(t, linkcheck.Options{
		RequestTimeout: 15 * time.Second,
		MaxRedirects:   5,
		Delay:          100 * time.Millisecond,
	}, linkcheck.DefaultOptions())
}

func TestChecker_StatusClassification(t *testing.T) {
	tests := []struct {
		status int
		ok     bool
		err    string
	}{
		{200, true, ""},
		{204, true, ""},
		{302, true, ""},
		{399, true, ""},
		{400, false, "HTTP 400"},
		{404, false, "HTTP 404"},
		{503, false, "HTTP 503"},
		{199, false, "HTTP 199"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			fetcher := &stubFetcher{statuses: map[string]int{"https://site.test/": tt.status}}
			checker := linkcheck.NewChecker(fetcher, &recordingPacer{}, linkcheck.DefaultOptions())

			report := checker.Check(context.Background(), "", targets("https://site.test/"))
			require.Len(t, report.Results, 1)
			res := report.Results[0]
			assert.Equal(t, tt.ok, res.OK())
			assert.Equal(t, tt.status, res.Status)
			assert.Equal(t, tt.err, res.Error)
		})
	}
}

func TestChecker_InternalScopeMessage(t *testing.T) {
	fetcher := &stubFetcher{statuses: map[string]int{
		"https://site.test/gone":  404,
		"https://site.test/error": 500,
	}}
	checker := linkcheck.NewChecker(fetcher, &recordingPacer{}, linkcheck.DefaultOptions())

	report := checker.Check(context.Background(), "internal", []webscraper.Target{
		{URL: "https://site.test/gone", Text: "Gone"},
		{URL: "https://site.test/error", Text: "Error"},
	})

	assert.Equal(t, "Gone", report.Broken()[0].Text)
	assert.EqualError(t, report.Err(),
		"Found 2 broken internal link(s): https://site.test/gone, https://site.test/error")
}

func TestChecker_Empty(t *testing.T) {
	pacer := &recordingPacer{}
	checker := linkcheck.NewChecker(&stubFetcher{}, pacer, linkcheck.Options{})

	report := checker.Check(context.Background(), "", nil)
	assert.Empty(t, report.Results)
	assert.NoError(t, report.Err())
	assert.Empty(t, pacer.waits)
}

func TestReport_PrintSummary(t *testing.T) {
	report := &linkcheck.Report{Results: []linkcheck.Result{
		{URL: "https://site.test/ok", Status: 200},
		{URL: "https://site.test/missing", Status: 404, Error: "HTTP 404"},
	}}

	var buf bytes.Buffer
	report.PrintSummary(&buf)

	out := buf.String()
	assert.Contains(t, out, "Total links checked: 2")
	assert.Contains(t, out, "Successful: 1")
	assert.Contains(t, out, "Broken: 1")
	assert.Contains(t, out, "https://site.test/missing")
	assert.Contains(t, out, "HTTP 404")
	assert.NotContains(t, out, "https://site.test/ok")
}

func TestRatePacer(t *testing.T) {
	pacer := linkcheck.RatePacer{}

	start := time.Now()
	pacer.Wait(context.Background(), 20*time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 19*time.Millisecond)

	// Back to back calls each wait the full gap.
	start = time.Now()
	pacer.Wait(context.Background(), 20*time.Millisecond)
	pacer.Wait(context.Background(), 20*time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 38*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start = time.Now()
	pacer.Wait(ctx, time.Minute)
	assert.Less(t, time.Since(start), time.Second)

	start = time.Now()
	pacer.Wait(context.Background(), 0)
	assert.Less(t, time.Since(start), 10*time.Millisecond)
}
