package excel

// ExcelConfig holds configuration for a tabular data source
type ExcelConfig struct {
	FilePath string `json:"file_path"`
	Sheet    string `json:"sheet"` // empty selects the first sheet
}

// DefaultExcelConfig returns defaults for path
func DefaultExcelConfig(path string) ExcelConfig {
	return ExcelConfig{FilePath: path}
}
