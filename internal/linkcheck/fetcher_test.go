package linkcheck_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yingtu35/link-checker/internal/linkcheck"
	"github.com/yingtu35/link-checker/internal/webscraper"
)

func newRedirectServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	})
	// /hop/N redirects N times before landing on /ok.
	mux.HandleFunc("/hop/", func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.Atoi(r.URL.Path[len("/hop/"):])
		if err != nil || n <= 0 {
			http.Redirect(w, r, "/ok", http.StatusFound)
			return
		}
		http.Redirect(w, r, fmt.Sprintf("/hop/%d", n-1), http.StatusFound)
	})
	mux.HandleFunc("/ua", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "link-checker-test" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestHTTPFetcher_Statuses(t *testing.T) {
	server := newRedirectServer(t)
	fetcher := linkcheck.NewHTTPFetcher(server.Client(), "link-checker-test")

	tests := []struct {
		path   string
		status int
	}{
		{"/ok", http.StatusOK},
		{"/missing", http.StatusNotFound},
		{"/broken", http.StatusInternalServerError},
		{"/hop/4", http.StatusOK},
		{"/ua", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status, err := fetcher.FetchStatus(context.Background(), server.URL+tt.path, time.Second, 5)
			require.NoError(t, err)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestHTTPFetcher_RedirectCap(t *testing.T) {
	server := newRedirectServer(t)
	fetcher := linkcheck.NewHTTPFetcher(server.Client(), "")

	// /hop/4 is five redirects in total.
	_, err := fetcher.FetchStatus(context.Background(), server.URL+"/hop/4", time.Second, 5)
	require.NoError(t, err)

	_, err = fetcher.FetchStatus(context.Background(), server.URL+"/hop/5", time.Second, 5)
	assert.ErrorIs(t, err, linkcheck.ErrTooManyRedirects)

	status, err := fetcher.FetchStatus(context.Background(), server.URL+"/hop/0", time.Second, 0)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, status)
}

func TestHTTPFetcher_Timeout(t *testing.T) {
	server := newRedirectServer(t)
	fetcher := linkcheck.NewHTTPFetcher(server.Client(), "")

	start := time.Now()
	_, err := fetcher.FetchStatus(context.Background(), server.URL+"/slow", 50*time.Millisecond, 5)
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestHTTPFetcher_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	_, err := linkcheck.NewHTTPFetcher(nil, "").FetchStatus(context.Background(), addr, time.Second, 5)
	assert.Error(t, err)
}

func TestHTTPFetcher_UnsupportedScheme(t *testing.T) {
	_, err := linkcheck.NewHTTPFetcher(nil, "").FetchStatus(context.Background(), "tel:+15550100", time.Second, 5)
	assert.Error(t, err)
}

func TestChecker_WithHTTPFetcher(t *testing.T) {
	server := newRedirectServer(t)
	checker := linkcheck.NewChecker(
		linkcheck.NewHTTPFetcher(server.Client(), ""),
		&recordingPacer{},
		linkcheck.Options{RequestTimeout: 100 * time.Millisecond, MaxRedirects: 5},
	)

	report := checker.Check(context.Background(), "", []webscraper.Target{
		{URL: server.URL + "/ok"},
		{URL: server.URL + "/slow"},
		{URL: server.URL + "/missing"},
	})

	require.Len(t, report.Results, 3)
	assert.True(t, report.Results[0].OK())
	assert.Zero(t, report.Results[1].Status)
	assert.NotEmpty(t, report.Results[1].Error)
	assert.Equal(t, "HTTP 404", report.Results[2].Error)

	err := report.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), server.URL+"/slow")
	assert.Contains(t, err.Error(), server.URL+"/missing")
}
