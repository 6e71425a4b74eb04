package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the inferred type of a column.
type Kind int

const (
	KindCategorical Kind = iota
	KindNumeric
	KindDatetime
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindDatetime:
		return "datetime"
	default:
		return "categorical"
	}
}

var (
	// ErrColumnNotFound is returned when a column name is not present in a table.
	ErrColumnNotFound = errors.New("column not found")
	// ErrLengthMismatch is returned when a column's length differs from the table's row count.
	ErrLengthMismatch = errors.New("column length mismatch")
	// ErrDuplicateColumn is returned when adding a column whose name already exists.
	ErrDuplicateColumn = errors.New("duplicate column")
)

// Column holds the values of one named column. Numeric columns use Num with
// NaN for missing cells; categorical and datetime columns use Str with "" for
// missing cells.
type Column struct {
	Name string
	Kind Kind
	Num  []float64
	Str  []string
}

// Len returns the number of cells in the column.
func (c *Column) Len() int {
	if c.Kind == KindNumeric {
		return len(c.Num)
	}
	return len(c.Str)
}

// IsMissing reports whether row i holds no value.
func (c *Column) IsMissing(i int) bool {
	if c.Kind == KindNumeric {
		return math.IsNaN(c.Num[i])
	}
	return strings.TrimSpace(c.Str[i]) == ""
}

// StringAt renders row i as text; numeric cells use the shortest exact form.
func (c *Column) StringAt(i int) string {
	if c.Kind == KindNumeric {
		return strconv.FormatFloat(c.Num[i], 'f', -1, 64)
	}
	return c.Str[i]
}

// Table is an in-memory dataset of named columns that share a row count.
type Table struct {
	Name  string
	cols  []*Column
	index map[string]int
	rows  int
}

// New returns an empty table.
func New(name string) *Table {
	return &Table{Name: name, index: map[string]int{}, rows: -1}
}

// AddNumeric appends a numeric column. The slice is copied.
func (t *Table) AddNumeric(name string, vals []float64) error {
	cp := make([]float64, len(vals))
	copy(cp, vals)
	return t.add(&Column{Name: name, Kind: KindNumeric, Num: cp})
}

// AddCategorical appends a categorical column. The slice is copied.
func (t *Table) AddCategorical(name string, vals []string) error {
	cp := make([]string, len(vals))
	copy(cp, vals)
	return t.add(&Column{Name: name, Kind: KindCategorical, Str: cp})
}

// AddDatetime appends a column of date/time text that is kept out of numeric work.
func (t *Table) AddDatetime(name string, vals []string) error {
	cp := make([]string, len(vals))
	copy(cp, vals)
	return t.add(&Column{Name: name, Kind: KindDatetime, Str: cp})
}

func (t *Table) add(c *Column) error {
	if t.index == nil {
		t.index = map[string]int{}
		t.rows = -1
	}
	if _, ok := t.index[c.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name)
	}
	if t.rows >= 0 && c.Len() != t.rows {
		return fmt.Errorf("%w: %q has %d rows, table has %d", ErrLengthMismatch, c.Name, c.Len(), t.rows)
	}
	t.rows = c.Len()
	t.index[c.Name] = len(t.cols)
	t.cols = append(t.cols, c)
	return nil
}

// Rows returns the number of rows.
func (t *Table) Rows() int {
	if t.rows < 0 {
		return 0
	}
	return t.rows
}

// Columns returns the columns in insertion order.
func (t *Table) Columns() []*Column { return t.cols }

// Column looks a column up by exact name.
func (t *Table) Column(name string) (*Column, error) {
	idx, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return t.cols[idx], nil
}

// NumericColumns returns the numeric columns in insertion order.
func (t *Table) NumericColumns() []*Column {
	var out []*Column
	for _, c := range t.cols {
		if c.Kind == KindNumeric {
			out = append(out, c)
		}
	}
	return out
}
