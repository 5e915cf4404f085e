package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
)

// WriteCSV writes one file per sheet into dir and returns the paths
func WriteCSV(dir string, sheets []Sheet) ([]string, error) {
	paths := make([]string, 0, len(sheets))
	for _, s := range sheets {
		path := filepath.Join(dir, strings.ToLower(s.Name)+".csv")
		if err := writeSheetCSV(path, s); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeSheetCSV(path string, s Sheet) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(s.Headers); err != nil {
		return err
	}
	for _, row := range s.Rows {
		record := make([]string, len(row))
		for i, cell := range row {
			record[i] = formatCell(cell)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
