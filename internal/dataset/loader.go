package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strings"
)

// LoadOptions controls how tabular files are turned into a Table.
type LoadOptions struct {
	// MaxRows limits rows loaded; 0 means unlimited.
	MaxRows int
	// Delimiter for CSV. If 0, chosen from the file extension.
	Delimiter rune
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune // optional; if 0, auto-detect common separators (',' '.' space)
	// XLSX sheet selection. SheetIndex is 1-based and used when SheetName is empty.
	SheetName  string
	SheetIndex int
}

// DefaultLoadOptions returns reasonable defaults for loading datasets.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{MaxRows: 100000, SheetIndex: 1}
}

// Loader reads one file format into a Table.
type Loader interface {
	CanLoad(filename string) bool
	Load(path string, opt LoadOptions) (*Table, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// ErrUnsupported indicates a file format has no registered loader.
var ErrUnsupported = errors.New("unsupported dataset format")

// LoadFile selects a loader based on filename and reads the file into a Table.
func LoadFile(path string, opt LoadOptions) (*Table, error) {
	for _, l := range registry {
		if l.CanLoad(path) {
			t, err := l.Load(path, opt)
			if err != nil {
				return nil, err
			}
			slog.Debug("dataset loaded", "file", filepath.Base(path), "rows", t.Rows(), "columns", len(t.Columns()))
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
}

// build infers a kind per column from the raw cells and assembles a Table.
// A column is numeric when parsed numbers are at least as common as dates and
// text, datetime when dates win over text, categorical otherwise.
func build(name string, header []string, rows [][]string, opt LoadOptions) (*Table, error) {
	ncol := len(header)
	t := New(name)
	if ncol == 0 {
		return t, nil
	}
	if opt.MaxRows > 0 && len(rows) > opt.MaxRows {
		slog.Debug("row cap applied", "file", name, "rows", len(rows), "max_rows", opt.MaxRows)
		rows = rows[:opt.MaxRows]
	}
	for j := 0; j < ncol; j++ {
		colName := strings.TrimSpace(header[j])
		if colName == "" {
			colName = fmt.Sprintf("column_%d", j+1)
		}
		raw := make([]string, len(rows))
		nums := make([]float64, len(rows))
		var numCnt, dtCnt, txtCnt int
		for i, rec := range rows {
			v := ""
			if j < len(rec) {
				v = strings.TrimSpace(rec[j])
			}
			raw[i] = v
			nums[i] = math.NaN()
			if v == "" {
				continue
			}
			if x, ok := parseNumeric(v, opt); ok {
				nums[i] = x
				numCnt++
				continue
			}
			if _, ok := parseTimeMaybe(v); ok {
				dtCnt++
				continue
			}
			txtCnt++
		}
		var err error
		switch {
		case numCnt > 0 && numCnt >= dtCnt && numCnt >= txtCnt:
			err = t.AddNumeric(colName, nums)
		case dtCnt > 0 && dtCnt >= txtCnt:
			err = t.AddDatetime(colName, raw)
		default:
			err = t.AddCategorical(colName, raw)
		}
		if err != nil {
			return nil, err
		}
	}
	return t, nil
}
