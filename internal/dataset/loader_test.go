package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadCSVInfersKinds(t *testing.T) {
	p := writeFile(t, "harvest.csv", strings.Join([]string{
		"plot,yield,harvested,note",
		"A,1200,2024-01-05,ok",
		"B,,2024-01-06,",
		"A,1500,2024-01-07,late",
		"C,900,,ok",
	}, "\n"))
	tb, err := LoadFile(p, DefaultLoadOptions())
	require.NoError(t, err)
	assert.Equal(t, "harvest.csv", tb.Name)
	assert.Equal(t, 4, tb.Rows())

	kinds := map[string]Kind{}
	for _, c := range tb.Columns() {
		kinds[c.Name] = c.Kind
	}
	assert.Equal(t, map[string]Kind{
		"plot":      KindCategorical,
		"yield":     KindNumeric,
		"harvested": KindDatetime,
		"note":      KindCategorical,
	}, kinds)

	y, _ := tb.Column("yield")
	assert.Equal(t, 1200.0, y.Num[0])
	assert.True(t, y.IsMissing(1))
	assert.Equal(t, 900.0, y.Num[3])
}

func TestLoadCSVLocaleNumbers(t *testing.T) {
	p := writeFile(t, "eu.csv", "weight;site\n1,5;x\n2,25;y\n1.234,5;z\n")
	opt := DefaultLoadOptions()
	opt.Delimiter = ';'
	tb, err := LoadFile(p, opt)
	require.NoError(t, err)
	w, err := tb.Column("weight")
	require.NoError(t, err)
	require.Equal(t, KindNumeric, w.Kind)
	assert.Equal(t, []float64{1.5, 2.25, 1234.5}, w.Num)
}

func TestParseNumeric(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1 234,5", 1234.5, true},
		{"1,234.5", 1234.5, true},
		{"1.234,5", 1234.5, true},
		{"12%", 12, true},
		{"-3.25e2", -325, true},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := parseNumeric(c.in, LoadOptions{})
		assert.Equal(t, c.ok, ok, c.in)
		if c.ok {
			assert.InDelta(t, c.want, got, 1e-9, c.in)
		}
	}
	got, ok := parseNumeric("1.234", LoadOptions{DecimalSeparator: ',', ThousandsSeparator: '.'})
	assert.True(t, ok)
	assert.Equal(t, 1234.0, got)
}

func TestLoadTSVByExtension(t *testing.T) {
	p := writeFile(t, "pairs.tsv", "x\ty\n1\t2\n3\t4\n")
	tb, err := LoadFile(p, DefaultLoadOptions())
	require.NoError(t, err)
	assert.Len(t, tb.NumericColumns(), 2)
}

func TestLoadCSVMaxRowsAndBlankHeader(t *testing.T) {
	p := writeFile(t, "cap.csv", "x,\n1,a\n2,b\n3,c\n4,d\n")
	opt := DefaultLoadOptions()
	opt.MaxRows = 2
	tb, err := LoadFile(p, opt)
	require.NoError(t, err)
	assert.Equal(t, 2, tb.Rows())
	_, err = tb.Column("column_2")
	assert.NoError(t, err)
}

func TestLoadCSVEmptyFile(t *testing.T) {
	p := writeFile(t, "empty.csv", "")
	tb, err := LoadFile(p, DefaultLoadOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, tb.Rows())
	assert.Empty(t, tb.Columns())
}

func TestLoadFileUnsupported(t *testing.T) {
	p := writeFile(t, "notes.txt", "hello")
	_, err := LoadFile(p, DefaultLoadOptions())
	assert.ErrorIs(t, err, ErrUnsupported)
}

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"ignored"}))
	_, err := f.NewSheet("Yields")
	require.NoError(t, err)
	rows := [][]interface{}{
		{"plot", "yield"},
		{"A", 1.5},
		{"B", 2.5},
		{"A", 3},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Yields", cell, &r))
	}
	p := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(p))
	return p
}

func TestLoadXLSXSheetSelection(t *testing.T) {
	p := writeWorkbook(t)

	opt := DefaultLoadOptions()
	opt.SheetName = "yields"
	tb, err := LoadFile(p, opt)
	require.NoError(t, err)
	assert.Equal(t, 3, tb.Rows())
	y, err := tb.Column("yield")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2.5, 3}, y.Num)

	opt = DefaultLoadOptions()
	opt.SheetIndex = 2
	tb, err = LoadFile(p, opt)
	require.NoError(t, err)
	assert.Len(t, tb.Columns(), 2)

	opt = DefaultLoadOptions()
	opt.SheetName = "missing"
	_, err = LoadFile(p, opt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Available sheets: Sheet1, Yields")

	opt = DefaultLoadOptions()
	opt.SheetIndex = 5
	_, err = LoadFile(p, opt)
	assert.ErrorContains(t, err, "out of range")
}
