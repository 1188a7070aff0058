package linkcheck

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rodaine/table"
)

var ErrBrokenLinks = errors.New("broken links found")

// Result is the outcome of checking one resolved URL. Status is 0 when the
// request never produced a response.
type Result struct {
	URL    string `json:"url"`
	Text   string `json:"text,omitempty"`
	Status int    `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

// OK reports whether the link resolved to a status in [200, 400).
func (r Result) OK() bool {
	return r.Error == "" && r.Status >= 200 && r.Status < 400
}

// Report aggregates the results of one validation pass.
type Report struct {
	Scope   string   `json:"scope,omitempty"` // "" for all links, "internal" for the internal-only pass
	Results []Result `json:"results"`
}

func (r *Report) Successful() []Result {
	return r.filter(true)
}

func (r *Report) Broken() []Result {
	return r.filter(false)
}

func (r *Report) filter(ok bool) []Result {
	var out []Result
	for _, res := range r.Results {
		if res.OK() == ok {
			out = append(out, res)
		}
	}
	return out
}

// BrokenLinksError names the URLs that failed validation.
type BrokenLinksError struct {
	Scope string
	URLs  []string
}

func (e *BrokenLinksError) Error() string {
	kind := "link"
	if e.Scope != "" {
		kind = e.Scope + " link"
	}
	return fmt.Sprintf("Found %d broken %s(s): %s", len(e.URLs), kind, strings.Join(e.URLs, ", "))
}

func (e *BrokenLinksError) Unwrap() error {
	return ErrBrokenLinks
}

// Err returns nil when every link passed, otherwise a *BrokenLinksError.
func (r *Report) Err() error {
	broken := r.Broken()
	if len(broken) == 0 {
		return nil
	}

	urls := make([]string, 0, len(broken))
	for _, b := range broken {
		urls = append(urls, b.URL)
	}
	return &BrokenLinksError{Scope: r.Scope, URLs: urls}
}

// PrintSummary writes the totals and, when present, a table of broken links.
func (r *Report) PrintSummary(w io.Writer) {
	broken := r.Broken()

	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Link Validation Summary ===")
	fmt.Fprintf(w, "Total links checked: %d\n", len(r.Results))
	fmt.Fprintf(w, "Successful: %d\n", len(r.Results)-len(broken))
	fmt.Fprintf(w, "Broken: %d\n", len(broken))

	if len(broken) == 0 {
		return
	}

	fmt.Fprintln(w)
	tbl := table.New("#", "URL", "Text", "Error").WithWriter(w)
	for i, b := range broken {
		tbl.AddRow(i+1, b.URL, b.Text, b.Error)
	}
	tbl.Print()
}
