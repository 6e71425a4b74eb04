package analysis

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Markdown renders the matrix as a pipe table. Null cells are left blank.
func (s *StyledMatrix) Markdown() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[CORRELATION MATRIX] method=%s range=[%s, %s]\n\n", s.Method, fmtBound(s.Min), fmtBound(s.Max)))
	if len(s.Columns) == 0 {
		b.WriteString("(no numeric columns)\n")
		return b.String()
	}
	b.WriteString("| |")
	for _, c := range s.Columns {
		b.WriteString(" ")
		b.WriteString(safeVal(c))
		b.WriteString(" |")
	}
	b.WriteString("\n|---|")
	for range s.Columns {
		b.WriteString("---:|")
	}
	b.WriteString("\n")
	for i, row := range s.Columns {
		b.WriteString("| **")
		b.WriteString(safeVal(row))
		b.WriteString("** |")
		for j := range s.Columns {
			c := s.Cell(i, j)
			b.WriteString(" ")
			if !c.Null {
				b.WriteString(c.Text)
			}
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// HTML renders a standalone <table> with inline cell colors.
func (s *StyledMatrix) HTML() string {
	var b strings.Builder
	b.WriteString("<table class=\"corr-matrix\">\n<thead>\n<tr><th></th>")
	for _, c := range s.Columns {
		b.WriteString("<th>")
		b.WriteString(html.EscapeString(c))
		b.WriteString("</th>")
	}
	b.WriteString("</tr>\n</thead>\n<tbody>\n")
	for i, row := range s.Columns {
		b.WriteString("<tr><th>")
		b.WriteString(html.EscapeString(row))
		b.WriteString("</th>")
		for j := range s.Columns {
			c := s.Cell(i, j)
			fmt.Fprintf(&b, "<td style=\"background-color: %s; color: %s;\">%s</td>",
				hexColor(c.Background), hexColor(c.Foreground), c.Text)
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n</table>\n")
	return b.String()
}

type jsonMatrix struct {
	Method    Method       `json:"method"`
	Columns   []string     `json:"columns"`
	Precision int          `json:"precision"`
	Min       float64      `json:"min_threshold"`
	Max       float64      `json:"max_threshold"`
	Values    [][]*float64 `json:"values"`
}

// MarshalJSON encodes null entries as JSON null and rounds retained values to
// the display precision.
func (s *StyledMatrix) MarshalJSON() ([]byte, error) {
	out := jsonMatrix{Method: s.Method, Columns: s.Columns, Precision: s.Precision, Min: s.Min, Max: s.Max}
	scale := math.Pow(10, float64(s.Precision))
	out.Values = make([][]*float64, len(s.Values))
	for i, row := range s.Values {
		out.Values[i] = make([]*float64, len(row))
		for j, v := range row {
			if math.IsNaN(v) {
				continue
			}
			r := math.Round(v*scale) / scale
			out.Values[i][j] = &r
		}
	}
	return json.Marshal(out)
}

// WriteXLSX writes the matrix as a workbook with one sheet whose cells carry
// the same fills and number format as the other renderings.
func (s *StyledMatrix) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Correlation"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	numFmt := "0"
	if s.Precision > 0 {
		numFmt = "0." + strings.Repeat("0", s.Precision)
	}
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	styles := map[string]int{}
	styleFor := func(c Cell) (int, error) {
		key := hexColor(c.Background) + hexColor(c.Foreground)
		if id, ok := styles[key]; ok {
			return id, nil
		}
		id, err := f.NewStyle(&excelize.Style{
			Fill:         excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{hexColor(c.Background)}},
			Font:         &excelize.Font{Color: hexColor(c.Foreground)},
			CustomNumFmt: &numFmt,
		})
		if err != nil {
			return 0, err
		}
		styles[key] = id
		return id, nil
	}
	for i, name := range s.Columns {
		top, _ := excelize.CoordinatesToCellName(i+2, 1)
		left, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetCellValue(sheet, top, name); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, left, name); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, top, top, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, left, left, header); err != nil {
			return err
		}
	}
	for i := range s.Columns {
		for j := range s.Columns {
			c := s.Cell(i, j)
			cell, _ := excelize.CoordinatesToCellName(j+2, i+2)
			if !c.Null {
				if err := f.SetCellValue(sheet, cell, c.Value); err != nil {
					return err
				}
			}
			id, err := styleFor(c)
			if err != nil {
				return fmt.Errorf("cell style: %w", err)
			}
			if err := f.SetCellStyle(sheet, cell, cell, id); err != nil {
				return err
			}
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func fmtBound(v float64) string {
	return fmt.Sprintf("%g", v)
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
