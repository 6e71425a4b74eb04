package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type csvLoader struct{}

func (csvLoader) CanLoad(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")
}

func (csvLoader) Load(path string, opt LoadOptions) (*Table, error) {
	return LoadCSV(path, opt)
}

// LoadCSV reads a delimited file with a header row into a Table.
func LoadCSV(path string, opt LoadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return New(filepath.Base(path)), nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	header = append([]string(nil), header...)
	var rows [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		if opt.MaxRows > 0 && len(rows) >= opt.MaxRows {
			continue
		}
		rows = append(rows, rec)
	}
	return build(filepath.Base(path), header, rows, opt)
}

func sniffDelimiter(path string) rune {
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".tsv") {
		return '\t'
	}
	return ','
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02/01/2006",
	"01/02/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
}

func parseTimeMaybe(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// separators picks the decimal and grouping runes for raw. Explicit options
// win; otherwise the rightmost of ',' and '.' is the decimal mark. A zero
// grouping rune means every common grouping mark is stripped.
func separators(raw string, opt LoadOptions) (dec, group rune) {
	dec, group = opt.DecimalSeparator, opt.ThousandsSeparator
	if dec != 0 {
		return dec, group
	}
	comma, dot := strings.LastIndex(raw, ","), strings.LastIndex(raw, ".")
	switch {
	case comma > dot && dot >= 0:
		return ',', '.'
	case dot > comma && comma >= 0:
		return '.', ','
	case comma >= 0:
		return ',', group
	}
	return '.', group
}

// parseNumeric reads s as a number, tolerating percent signs, grouping marks
// and a comma decimal mark.
func parseNumeric(s string, opt LoadOptions) (float64, bool) {
	raw := strings.NewReplacer("%", "", "\u00A0", " ").Replace(s)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	dec, group := separators(raw, opt)
	drop := []rune{group}
	if group == 0 {
		drop = []rune{',', '.', ' '}
	}
	for _, r := range drop {
		if r != dec {
			raw = strings.ReplaceAll(raw, string(r), "")
		}
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	v, err := strconv.ParseFloat(raw, 64)
	return v, err == nil
}
