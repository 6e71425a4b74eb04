package analysis

import (
	"fmt"
	"math"
	"strconv"

	"github.com/KaramelBytes/edaloom-cli/internal/dataset"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// StyleOptions controls how a correlation matrix is filtered and displayed.
type StyleOptions struct {
	// Entries outside [MinThreshold, MaxThreshold] become null.
	MinThreshold float64
	MaxThreshold float64
	// Precision is the number of decimals displayed.
	Precision int
	Method    Method
	// HideBlanksOnes nulls the diagonal and the upper triangle so each pair shows once.
	HideBlanksOnes bool
}

// DefaultStyleOptions returns the full [-1, 1] range, two decimals and Pearson.
func DefaultStyleOptions() StyleOptions {
	return StyleOptions{MinThreshold: -1, MaxThreshold: 1, Precision: 2, Method: Pearson}
}

// NullColor is the background of null cells.
const NullColor = "#f1f1f1"

var (
	darkText  = drawing.Color{R: 0, G: 0, B: 0, A: 255}
	lightText = drawing.Color{R: 0xf1, G: 0xf1, B: 0xf1, A: 255}
	nullFill  = drawing.Color{R: 0xf1, G: 0xf1, B: 0xf1, A: 255}
)

// StyledMatrix is a filtered correlation matrix ready for display. Null
// entries are NaN.
type StyledMatrix struct {
	Columns   []string
	Method    Method
	Values    [][]float64
	Precision int
	Min, Max  float64
}

// Cell is the display form of one matrix entry.
type Cell struct {
	Value      float64
	Null       bool
	Text       string
	Background drawing.Color
	Foreground drawing.Color
}

// StyleCorrMatrix computes the correlation matrix of t's numeric columns,
// optionally hides the diagonal and upper triangle, and nulls entries outside
// the threshold range. t is not modified.
func StyleCorrMatrix(t *dataset.Table, opt StyleOptions) (*StyledMatrix, error) {
	if opt.Precision < 0 {
		return nil, fmt.Errorf("precision must be >= 0, got %d", opt.Precision)
	}
	cm, err := Correlate(t, opt.Method)
	if err != nil {
		return nil, err
	}
	return Style(cm, opt), nil
}

// Style applies masking and threshold filtering to a computed matrix.
func Style(cm *CorrMatrix, opt StyleOptions) *StyledMatrix {
	vals := cm.Rows()
	for i := range vals {
		for j := range vals[i] {
			v := vals[i][j]
			if opt.HideBlanksOnes && j >= i {
				v = math.NaN()
			}
			if !(v >= opt.MinThreshold && v <= opt.MaxThreshold) {
				v = math.NaN()
			}
			vals[i][j] = v
		}
	}
	return &StyledMatrix{
		Columns:   append([]string(nil), cm.Columns...),
		Method:    cm.Method,
		Values:    vals,
		Precision: opt.Precision,
		Min:       opt.MinThreshold,
		Max:       opt.MaxThreshold,
	}
}

// Cell returns the display form of entry (i, j).
func (s *StyledMatrix) Cell(i, j int) Cell {
	v := s.Values[i][j]
	if math.IsNaN(v) {
		return Cell{Value: v, Null: true, Text: "nan", Background: nullFill, Foreground: darkText}
	}
	bg := Coolwarm(v)
	fg := darkText
	if luminance(bg) < 0.408 {
		fg = lightText
	}
	return Cell{Value: v, Text: strconv.FormatFloat(v, 'f', s.Precision, 64), Background: bg, Foreground: fg}
}

// Retained counts the non-null entries.
func (s *StyledMatrix) Retained() int {
	var n int
	for i := range s.Values {
		for _, v := range s.Values[i] {
			if !math.IsNaN(v) {
				n++
			}
		}
	}
	return n
}

// coolwarm control points (Moreland's diverging map) at 0, 1/8, ..., 1.
var coolwarmStops = []drawing.Color{
	{R: 59, G: 76, B: 192, A: 255},
	{R: 98, G: 130, B: 234, A: 255},
	{R: 141, G: 176, B: 254, A: 255},
	{R: 184, G: 208, B: 249, A: 255},
	{R: 221, G: 221, B: 221, A: 255},
	{R: 245, G: 196, B: 173, A: 255},
	{R: 244, G: 154, B: 123, A: 255},
	{R: 222, G: 96, B: 77, A: 255},
	{R: 180, G: 4, B: 38, A: 255},
}

// Coolwarm maps v in [-1, 1] onto the diverging blue-grey-red scale. Values
// outside the range are clamped.
func Coolwarm(v float64) drawing.Color {
	pos := (math.Max(-1, math.Min(1, v)) + 1) / 2 * float64(len(coolwarmStops)-1)
	lo := int(math.Floor(pos))
	if lo >= len(coolwarmStops)-1 {
		return coolwarmStops[len(coolwarmStops)-1]
	}
	w := pos - float64(lo)
	a, b := coolwarmStops[lo], coolwarmStops[lo+1]
	mix := func(x, y uint8) uint8 { return uint8(math.Round(float64(x)*(1-w) + float64(y)*w)) }
	return drawing.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

// luminance is the WCAG relative luminance of c.
func luminance(c drawing.Color) float64 {
	ch := func(u uint8) float64 {
		x := float64(u) / 255
		if x <= 0.03928 {
			return x / 12.92
		}
		return math.Pow((x+0.055)/1.055, 2.4)
	}
	return 0.2126*ch(c.R) + 0.7152*ch(c.G) + 0.0722*ch(c.B)
}

func hexColor(c drawing.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
