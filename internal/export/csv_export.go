package export

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/yingtu35/link-checker/internal/linkcheck"
)

type ResultRow struct {
	URL    string `csv:"URL"`
	Text   string `csv:"Text"`
	Status string `csv:"Status"`
	OK     bool   `csv:"OK"`
	Error  string `csv:"Error"`
}

type CSVExporter struct{}

func NewCSVExporter() Exporter {
	return &CSVExporter{}
}

func (e *CSVExporter) Export(report *linkcheck.Report, filename string) (string, error) {
	path := filename + ".csv"
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	rows := e.transformData(report)
	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return "", fmt.Errorf("write csv: %w", err)
	}
	return path, nil
}

// transformData leaves Status blank when no response was received.
func (e *CSVExporter) transformData(report *linkcheck.Report) []ResultRow {
	rows := make([]ResultRow, 0, len(report.Results))
	for _, r := range report.Results {
		row := ResultRow{URL: r.URL, Text: r.Text, OK: r.OK(), Error: r.Error}
		if r.Status != 0 {
			row.Status = strconv.Itoa(r.Status)
		}
		rows = append(rows, row)
	}
	return rows
}
