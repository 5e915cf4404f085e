package excel

// ExcelConfig holds configuration for a tabular file source
type ExcelConfig struct {
	FilePath string `json:"file_path"`
	// Sheet is the XLSX sheet to read. Empty means Sheet1, or the first sheet when Sheet1 is absent.
	Sheet string `json:"sheet"`
	// GroupColumn is always read as a label column, even when its values look numeric.
	GroupColumn string `json:"group_column"`
}

// DefaultExcelConfig returns sensible defaults for reading a GA4 table export
func DefaultExcelConfig(path string) ExcelConfig {
	return ExcelConfig{FilePath: path, GroupColumn: "eventName"}
}
