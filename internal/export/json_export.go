package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/yingtu35/link-checker/internal/linkcheck"
)

type Record struct {
	Scope       string             `json:"scope,omitempty"`
	GeneratedAt time.Time          `json:"generated_at"`
	Checked     int                `json:"checked"`
	Broken      int                `json:"broken"`
	Results     []linkcheck.Result `json:"results"`
}

type JsonExporter struct {
	now func() time.Time
}

func NewJsonExporter() Exporter {
	return &JsonExporter{now: time.Now}
}

func (e *JsonExporter) Export(report *linkcheck.Report, filename string) (string, error) {
	path := filename + ".json"

	resultJson, err := json.MarshalIndent(e.transformData(report), "", "    ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, resultJson, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func (e *JsonExporter) transformData(report *linkcheck.Report) Record {
	return Record{
		Scope:       report.Scope,
		GeneratedAt: e.now().UTC(),
		Checked:     len(report.Results),
		Broken:      len(report.Broken()),
		Results:     report.Results,
	}
}
