package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag to its default so bound variables and
// Changed state do not leak between invocations.
func resetFlags(c *cobra.Command) {
	reset := func(fl *pflag.Flag) {
		_ = fl.Value.Set(fl.DefValue)
		fl.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execCmd runs the root command with args and returns its output.
func execCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	cfg = nil
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// runCmd is execCmd that fails the test on error.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

// withHome isolates config and output under a temp HOME.
func withHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

const harvestCSV = `plot,yield,moisture,rain
A,1200,71,30
A,1350,74,28
A,1100,69,35
A,1280,73,31
B,2100,66,12
B,1900,68,15
B,2300,64,9
B,2050,67,14
`

func writeHarvest(t *testing.T, dir string) string {
	t.Helper()
	p := filepath.Join(dir, "harvest.csv")
	require.NoError(t, os.WriteFile(p, []byte(harvestCSV), 0o644))
	return p
}

func TestCLI_CorrMarkdownToStdout(t *testing.T) {
	home := withHome(t)
	data := writeHarvest(t, home)

	out := runCmd(t, "corr", data)
	assert.Contains(t, out, "[CORRELATION MATRIX] method=pearson range=[-1, 1]")
	for _, col := range []string{"yield", "moisture", "rain"} {
		assert.Contains(t, out, col)
	}
	assert.NotContains(t, out, "plot", "categorical columns are not correlated")
}

func TestCLI_CorrJSONToFile(t *testing.T) {
	home := withHome(t)
	data := writeHarvest(t, home)
	dest := filepath.Join(home, "reports", "corr.json")

	runCmd(t, "corr", data, "--format", "json", "--min", "0.5", "--method", "spearman", "-o", dest)
	b, err := os.ReadFile(dest)
	require.NoError(t, err)
	var got struct {
		Method  string       `json:"method"`
		Columns []string     `json:"columns"`
		Min     float64      `json:"min_threshold"`
		Values  [][]*float64 `json:"values"`
	}
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "spearman", got.Method)
	assert.Equal(t, []string{"yield", "moisture", "rain"}, got.Columns)
	assert.Equal(t, 0.5, got.Min)
	for i, row := range got.Values {
		for j, v := range row {
			if v != nil {
				assert.GreaterOrEqual(t, *v, 0.5, "cell %d,%d", i, j)
			}
		}
	}
}

func TestCLI_CorrXLSX(t *testing.T) {
	home := withHome(t)
	data := writeHarvest(t, home)

	_, err := execCmd(t, "corr", data, "--format", "xlsx")
	assert.ErrorContains(t, err, "requires --output")

	dest := filepath.Join(home, "corr.xlsx")
	runCmd(t, "corr", data, "--format", "xlsx", "--hide-blanks-ones", "-o", dest)
	st, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Greater(t, st.Size(), int64(0))
}

func TestCLI_CorrRejectsBadInput(t *testing.T) {
	home := withHome(t)
	data := writeHarvest(t, home)

	_, err := execCmd(t, "corr", data, "--min", "0.8", "--max", "0.2")
	assert.Error(t, err)
	_, err = execCmd(t, "corr", data, "--method", "cosine")
	assert.Error(t, err)
	_, err = execCmd(t, "corr", data, "--format", "pdf")
	assert.Error(t, err)
	_, err = execCmd(t, "corr", filepath.Join(home, "notes.txt"))
	assert.Error(t, err)
}

func TestCLI_ConfigSetDrivesDefaults(t *testing.T) {
	home := withHome(t)
	data := writeHarvest(t, home)

	runCmd(t, "config", "set", "corr_method", "Kendall")
	runCmd(t, "config", "set", "corr_precision", "3")
	show := runCmd(t, "config", "show")
	assert.Contains(t, show, "corr_method: kendall")
	assert.Contains(t, show, "corr_precision: 3")
	assert.Contains(t, show, "output_dir: "+filepath.Join(home, ".edaloom", "output"))

	out := runCmd(t, "corr", data)
	assert.Contains(t, out, "method=kendall")

	_, err := execCmd(t, "config", "set", "--", "corr_precision", "-1")
	assert.Error(t, err)
	_, err = execCmd(t, "config", "set", "api_key", "x")
	assert.ErrorContains(t, err, "unknown key")
}

func TestCLI_NormalityWritesFigureAndJSON(t *testing.T) {
	home := withHome(t)
	data := writeHarvest(t, home)
	results := filepath.Join(home, "normality.json")

	out := runCmd(t, "normality", data, "--target", "yield", "--group", "plot", "--json", results)
	assert.Contains(t, out, "Shapiro-Wilk normality test (target: yield)")
	assert.Contains(t, out, "A (n=4)")
	assert.Contains(t, out, "Bartlett test for equal variances")

	figs, err := filepath.Glob(filepath.Join(home, ".edaloom", "output", "qq-yield-*.png"))
	require.NoError(t, err)
	assert.Len(t, figs, 1)

	b, err := os.ReadFile(results)
	require.NoError(t, err)
	var rep map[string]any
	require.NoError(t, json.Unmarshal(b, &rep))
	assert.Contains(t, rep, "shapiro_wilk")
	assert.Contains(t, rep["bartlett"], "plot")
}

func TestCLI_NormalityExplicitFigureAndErrors(t *testing.T) {
	home := withHome(t)
	data := writeHarvest(t, home)
	fig := filepath.Join(home, "figs", "qq.png")

	runCmd(t, "normality", data, "-t", "rain", "-g", "plot", "--figure", fig)
	_, err := os.Stat(fig)
	assert.NoError(t, err)

	_, err = execCmd(t, "normality", data, "-t", "plot", "-g", "plot", "--no-figure")
	assert.Error(t, err, "categorical target")
	_, err = execCmd(t, "normality", data, "-t", "yield")
	assert.Error(t, err, "missing --group")
}

func TestCLI_Ticks(t *testing.T) {
	withHome(t)
	out := runCmd(t, "ticks", "--", "1000", "999", "1500000", "-2500", "0.5")
	assert.Equal(t, []string{"1K", "999", "1500K", "-2500", "0.5"}, strings.Fields(out))

	_, err := execCmd(t, "ticks", "ten")
	assert.Error(t, err)
}
