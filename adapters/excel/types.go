package excel

// RawRowData is one data row keyed by header
type RawRowData map[string]string

// DataRow is a data row with its 1-based line in the source sheet or file
type DataRow struct {
	Line   int
	Values RawRowData
}

// ExcelData is a header row plus data rows in file order
type ExcelData struct {
	Headers []string
	Rows    []DataRow
}

// HasColumn reports whether a header is present
func (d *ExcelData) HasColumn(name string) bool {
	for _, h := range d.Headers {
		if h == name {
			return true
		}
	}
	return false
}
