package excel

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"ksboot/internal"
	"ksboot/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var quiet = internal.NewLogger(internal.LogLevelError)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDataReader_ReadLabelledCSV(t *testing.T) {
	path := writeFile(t, "cut.csv", "value,segment\n1.5,a\n2.5,b\n\n3.5,a\n-4,c\n")

	sample, err := NewDataReader(DefaultExcelConfig(path)).WithLogger(quiet).
		ReadLabelled(context.Background(), "value", "segment", "a")
	require.NoError(t, err)

	assert.Equal(t, []float64{1.5, 2.5, 3.5, -4}, sample.Parent)
	assert.Equal(t, []float64{1.5, 3.5}, sample.SubA)
	assert.Equal(t, []float64{2.5, -4}, sample.SubB)
	assert.Equal(t, "a", sample.Label)
}

func TestDataReader_ReadLabelledXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cut.xlsx")
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"value", "segment"},
		{0.25, "x"},
		{0.75, "y"},
		{1.25, "x"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	sample, err := NewDataReader(DefaultExcelConfig(path)).WithLogger(quiet).
		ReadLabelled(context.Background(), "value", "segment", "x")
	require.NoError(t, err)

	assert.Equal(t, []float64{0.25, 0.75, 1.25}, sample.Parent)
	assert.Equal(t, []float64{0.25, 1.25}, sample.SubA)
	assert.Equal(t, []float64{0.75}, sample.SubB)
}

func TestDataReader_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewDataReader(DefaultExcelConfig("/does/not/exist.csv")).WithLogger(quiet).ReadLabelled(ctx, "v", "g", "a")
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	bad := writeFile(t, "bad.csv", "value,segment\n1,a\noops,b\n")
	_, err = NewDataReader(DefaultExcelConfig(bad)).WithLogger(quiet).ReadLabelled(ctx, "value", "segment", "a")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	assert.Contains(t, err.Error(), "row 3")

	_, err = NewDataReader(DefaultExcelConfig(bad)).WithLogger(quiet).ReadLabelled(ctx, "missing", "segment", "a")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	headerOnly := writeFile(t, "empty.csv", "value,segment\n")
	_, err = NewDataReader(DefaultExcelConfig(headerOnly)).WithLogger(quiet).ReadLabelled(ctx, "value", "segment", "a")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestDataReader_RowNumbersSurviveBlankLines(t *testing.T) {
	path := writeFile(t, "gaps.csv", "value,segment\n1,a\n\n,\n2,b\nbad,a\n")

	_, err := NewDataReader(DefaultExcelConfig(path)).WithLogger(quiet).
		ReadLabelled(context.Background(), "value", "segment", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 6")
}

func TestDataReader_XLSXRowNumbersSurviveGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gaps.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "value"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "segment"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", 1.5))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", "a"))
	require.NoError(t, f.SetCellValue("Sheet1", "A5", "n/a"))
	require.NoError(t, f.SetCellValue("Sheet1", "B5", "b"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := NewDataReader(DefaultExcelConfig(path)).WithLogger(quiet).
		ReadLabelled(context.Background(), "value", "segment", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 5")
}
