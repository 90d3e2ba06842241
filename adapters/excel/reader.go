package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ksboot/internal"
	"ksboot/internal/errors"
	"ksboot/ports"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	config   ExcelConfig
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(config ExcelConfig) *DataReader {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{config: config, fileType: fileType, logger: internal.DefaultLogger.With("DataReader")}
}

// WithLogger replaces the reader's logger
func (r *DataReader) WithLogger(logger *internal.Logger) *DataReader {
	r.logger = logger.With("DataReader")
	return r
}

// ReadData reads data from Excel or CSV files into structured format
func (r *DataReader) ReadData() (*ExcelData, error) {
	r.logger.Debug("reading %s file: %s", r.fileType, r.config.FilePath)

	if _, err := os.Stat(r.config.FilePath); os.IsNotExist(err) {
		return nil, errors.NotFound(fmt.Sprintf("%s file %s", strings.ToUpper(r.fileType), r.config.FilePath))
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported file type: %s", r.fileType))
	}
}

// ReadLabelled splits valueColumn by whether groupColumn equals groupLabel.
// The parent keeps file order; matching rows form SubA, all others SubB.
func (r *DataReader) ReadLabelled(ctx context.Context, valueColumn, groupColumn, groupLabel string) (*ports.LabelledSample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	for _, col := range []string{valueColumn, groupColumn} {
		if !data.HasColumn(col) {
			return nil, errors.InvalidInput(fmt.Sprintf("column %q not found in %s", col, r.config.FilePath))
		}
	}

	sample := &ports.LabelledSample{
		Source: r.config.FilePath,
		Column: valueColumn,
		Label:  groupLabel,
	}
	for _, row := range data.Rows {
		raw := row.Values[valueColumn]
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("row %d: %s=%q is not numeric", row.Line, valueColumn, raw))
		}
		sample.Parent = append(sample.Parent, v)
		if row.Values[groupColumn] == groupLabel {
			sample.SubA = append(sample.SubA, v)
		} else {
			sample.SubB = append(sample.SubB, v)
		}
	}

	r.logger.Info("%s: %d rows, %d labelled %q", r.config.FilePath, len(sample.Parent), len(sample.SubA), groupLabel)
	return sample, nil
}

// readExcelData reads the configured sheet, or the first one
func (r *DataReader) readExcelData() (*ExcelData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.config.FilePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.InvalidInput("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", sheet)
	}
	r.logger.Debug("sheet %s read in %s (%d rows)", sheet, time.Since(startTime), len(rows))

	if len(rows) < 2 {
		return nil, errors.InvalidInput("Excel file must have at least a header row and one data row")
	}

	return r.processRows(rows, nil)
}

// readCSVData reads CSV data into structured format
func (r *DataReader) readCSVData() (*ExcelData, error) {
	file, err := os.Open(r.config.FilePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	// encoding/csv drops empty lines, so keep each record's own line number
	var rows [][]string
	var lines []int
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read CSV file")
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, record)
		lines = append(lines, line)
	}

	if len(rows) < 2 {
		return nil, errors.InvalidInput("CSV file must have at least a header row and one data row")
	}

	return r.processRows(rows, lines)
}

// processRows converts raw string rows into ExcelData format, skipping blank rows.
// lines gives each row's source line; nil means rows are contiguous from line 1.
func (r *DataReader) processRows(rows [][]string, lines []int) (*ExcelData, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	var dataRows []DataRow
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}
		rowData := make(RawRowData)
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		line := i + 1
		if lines != nil {
			line = lines[i]
		}
		dataRows = append(dataRows, DataRow{Line: line, Values: rowData})
	}

	r.logger.Debug("%s file processed (%d columns, %d rows)", strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &ExcelData{
		Headers: headers,
		Rows:    dataRows,
	}, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
