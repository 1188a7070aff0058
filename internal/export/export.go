package export

import (
	"fmt"

	"github.com/yingtu35/link-checker/internal/linkcheck"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

type Exporter interface {
	// Export writes the report to filename plus the format's extension and
	// returns the path written.
	Export(report *linkcheck.Report, filename string) (string, error)
}

// New returns the exporter for format.
func New(format Format) (Exporter, error) {
	switch format {
	case FormatJSON:
		return NewJsonExporter(), nil
	case FormatCSV:
		return NewCSVExporter(), nil
	}
	return nil, fmt.Errorf("unsupported export format %q", format)
}
