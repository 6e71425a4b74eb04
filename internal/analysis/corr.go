package analysis

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/KaramelBytes/edaloom-cli/internal/dataset"
	"github.com/KaramelBytes/edaloom-cli/internal/stats"
	"gonum.org/v1/gonum/mat"
)

// Method selects the correlation coefficient.
type Method string

const (
	Pearson  Method = "pearson"
	Spearman Method = "spearman"
	Kendall  Method = "kendall"
)

// ErrUnknownMethod is returned for a correlation method other than pearson, spearman or kendall.
var ErrUnknownMethod = errors.New("unknown correlation method")

// ParseMethod normalizes a method name; empty means Pearson.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return Pearson, nil
	case Pearson, Spearman, Kendall:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q (use pearson, spearman or kendall)", ErrUnknownMethod, s)
	}
}

func (m Method) coefficient() (func(x, y []float64) float64, error) {
	switch m {
	case "", Pearson:
		return stats.Pearson, nil
	case Spearman:
		return stats.Spearman, nil
	case Kendall:
		return stats.Kendall, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, string(m))
}

// CorrMatrix holds a symmetric correlation matrix across numeric columns.
// Undefined coefficients are NaN.
type CorrMatrix struct {
	Columns []string
	Method  Method
	Values  *mat.SymDense
}

// At returns the coefficient between columns i and j.
func (c *CorrMatrix) At(i, j int) float64 { return c.Values.At(i, j) }

// Rows returns a row-major copy of the matrix.
func (c *CorrMatrix) Rows() [][]float64 {
	n := len(c.Columns)
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
		for j := range out[i] {
			out[i][j] = c.Values.At(i, j)
		}
	}
	return out
}

// Correlate computes pairwise correlations over the numeric columns of t.
// Each pair uses the rows where both values are present. Non-numeric columns
// are skipped without error.
func Correlate(t *dataset.Table, method Method) (*CorrMatrix, error) {
	coef, err := method.coefficient()
	if err != nil {
		return nil, err
	}
	if method == "" {
		method = Pearson
	}
	cols := t.NumericColumns()
	n := len(cols)
	out := &CorrMatrix{Method: method, Columns: make([]string, n)}
	for i, c := range cols {
		out.Columns[i] = c.Name
	}
	if n == 0 {
		return out, nil
	}
	out.Values = mat.NewSymDense(n, nil)
	for a := 0; a < n; a++ {
		for b := 0; b <= a; b++ {
			x, y := pairwiseComplete(cols[a].Num, cols[b].Num)
			r := coef(x, y)
			if a == b && !math.IsNaN(r) {
				r = 1
			}
			out.Values.SetSym(a, b, r)
		}
	}
	slog.Debug("correlation matrix computed", "method", string(method), "columns", n, "rows", t.Rows())
	return out, nil
}

func pairwiseComplete(a, b []float64) (x, y []float64) {
	x = make([]float64, 0, len(a))
	y = make([]float64, 0, len(a))
	for i := range a {
		if i >= len(b) || math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		x = append(x, a[i])
		y = append(y, b[i])
	}
	return x, y
}
