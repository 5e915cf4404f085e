// Package report writes analysis results as CSV tables, an XLSX workbook,
// an HTML page and raw JSON.
package report

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gospc/domain/quality"
)

// Output formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatHTML = "html"
	FormatJSON = "json"
)

// Writer writes reports into an output directory
type Writer struct {
	outputDir string
	formats   []string
}

// NewWriter creates a writer for the given formats
func NewWriter(outputDir string, formats []string) *Writer {
	return &Writer{outputDir: outputDir, formats: formats}
}

// Write renders every configured format and returns the written paths
func (w *Writer) Write(r *quality.BatteryReport) ([]string, error) {
	if r == nil {
		return nil, fmt.Errorf("report is nil")
	}
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	sheets := Sheets(r)
	var written []string
	for _, format := range w.formats {
		switch format {
		case FormatCSV:
			paths, err := WriteCSV(w.outputDir, sheets)
			written = append(written, paths...)
			if err != nil {
				return written, fmt.Errorf("failed to write CSV report: %w", err)
			}
		case FormatXLSX:
			path := filepath.Join(w.outputDir, "report.xlsx")
			if err := WriteXLSX(path, sheets); err != nil {
				return written, fmt.Errorf("failed to write XLSX report: %w", err)
			}
			written = append(written, path)
		case FormatHTML:
			path := filepath.Join(w.outputDir, "report.html")
			if err := os.WriteFile(path, HTML(r), 0o644); err != nil {
				return written, fmt.Errorf("failed to write HTML report: %w", err)
			}
			written = append(written, path)
		case FormatJSON:
			path := filepath.Join(w.outputDir, "report.json")
			data, err := json.MarshalIndent(r, "", "  ")
			if err != nil {
				return written, fmt.Errorf("failed to encode JSON report: %w", err)
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return written, fmt.Errorf("failed to write JSON report: %w", err)
			}
			written = append(written, path)
		default:
			return written, fmt.Errorf("unsupported report format: %s", format)
		}
	}

	log.Printf("[ReportWriter] wrote %d files to %s", len(written), w.outputDir)
	return written, nil
}
