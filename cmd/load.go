package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/edaloom-cli/internal/dataset"
	"github.com/spf13/cobra"
)

// loadFlags are the dataset flags shared by every command that reads a file.
type loadFlags struct {
	delimiter  string
	decimal    string
	thousands  string
	sheetName  string
	sheetIndex int
	maxRows    int
}

func (lf *loadFlags) register(c *cobra.Command) {
	c.Flags().StringVar(&lf.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	c.Flags().StringVar(&lf.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	c.Flags().StringVar(&lf.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	c.Flags().StringVar(&lf.sheetName, "sheet-name", "", "XLSX: sheet name to load")
	c.Flags().IntVar(&lf.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	c.Flags().IntVar(&lf.maxRows, "max-rows", 0, "maximum rows to load (0 = config max_rows)")
}

func (lf *loadFlags) options() (dataset.LoadOptions, error) {
	opt := dataset.DefaultLoadOptions()
	if m := activeConfig().MaxRows; m > 0 {
		opt.MaxRows = m
	}
	if lf.maxRows > 0 {
		opt.MaxRows = lf.maxRows
	}
	opt.SheetName = lf.sheetName
	opt.SheetIndex = lf.sheetIndex
	switch lf.delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", lf.delimiter)
	}
	switch strings.ToLower(strings.TrimSpace(lf.decimal)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", lf.decimal)
	}
	switch strings.ToLower(strings.TrimSpace(lf.thousands)) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", lf.thousands)
	}
	return opt, nil
}

func (lf *loadFlags) load(path string) (*dataset.Table, error) {
	opt, err := lf.options()
	if err != nil {
		return nil, err
	}
	return dataset.LoadFile(path, opt)
}
