package analysis

import (
	"bytes"
	"image/png"
	"math"
	"testing"

	"github.com/KaramelBytes/edaloom-cli/internal/dataset"
	"github.com/KaramelBytes/edaloom-cli/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatYTicks(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{500, "500"},
		{1000, "1K"},
		{2500, "2K"},
		{999, "999"},
		{12.5, "12.5"},
		{0, "0"},
		{-2500, "-2500"},
		{1999999, "1999K"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatYTicks(c.in), "FormatYTicks(%v)", c.in)
	}
	assert.Equal(t, "2K", YTickFormatter(2500.0))
	assert.Equal(t, "500", YTickFormatter(500))
	assert.Equal(t, "", YTickFormatter("x"))
}

func groupedTable(t *testing.T) *dataset.Table {
	t.Helper()
	tb := dataset.New("grouped")
	require.NoError(t, tb.AddNumeric("target", []float64{1, 2, 3, 4, 5, 100, math.NaN(), 7}))
	require.NoError(t, tb.AddCategorical("group", []string{"A", "A", "A", "B", "B", "B", "A", ""}))
	return tb
}

func TestCheckNormalityGroups(t *testing.T) {
	var out bytes.Buffer
	opt := DefaultNormalityOptions()
	opt.Out = &out
	rep, err := CheckNormality(groupedTable(t), "target", "group", opt)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, rep.Groups)
	assert.Equal(t, 2, rep.Dropped)
	assert.Equal(t, map[string]int{"A": 3, "B": 3}, rep.Sizes)
	require.Contains(t, rep.Shapiro, "A")
	require.Contains(t, rep.Shapiro, "B")
	assert.InDelta(t, 1.0, rep.Shapiro["A"].Statistic, 1e-9)
	assert.InDelta(t, 1.0, rep.Shapiro["A"].PValue, 1e-9)
	assert.Less(t, rep.Shapiro["B"].PValue, 0.05)

	require.Len(t, rep.Bartlett, 1)
	bt, ok := rep.Bartlett["group"]
	require.True(t, ok)
	direct, err := stats.Bartlett([]float64{1, 2, 3}, []float64{4, 5, 100})
	require.NoError(t, err)
	assert.InDelta(t, direct.Statistic, bt.Statistic, 1e-12)
	assert.InDelta(t, direct.PValue, bt.PValue, 1e-12)

	summary := out.String()
	assert.Contains(t, summary, "Shapiro-Wilk normality test (target: target)")
	assert.Contains(t, summary, "  A (n=3): statistic=1.0000, p-value=1.0000")
	assert.Contains(t, summary, "Bartlett test for equal variances\n  group: statistic=")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("  B (n=3)")), bytes.Index(out.Bytes(), []byte("Bartlett")))

	require.NotNil(t, rep.Figure)
	require.Len(t, rep.Figure.Panels, 2)
	assert.Equal(t, "A (p=1.0000)", rep.Figure.Panels[0].Title)
}

func TestCheckNormalityRendersFigure(t *testing.T) {
	var img bytes.Buffer
	opt := DefaultNormalityOptions()
	opt.Out = nil
	opt.Figure = &img
	opt.PanelWidth = 240
	opt.PanelHeight = 200
	_, err := CheckNormality(groupedTable(t), "target", "group", opt)
	require.NoError(t, err)

	decoded, err := png.Decode(&img)
	require.NoError(t, err)
	assert.Equal(t, 480, decoded.Bounds().Dx(), "panels are laid out side by side")
	assert.Equal(t, 200+titleBand, decoded.Bounds().Dy())
}

func TestCheckNormalityNumericGroupColumn(t *testing.T) {
	tb := dataset.New("numeric groups")
	require.NoError(t, tb.AddNumeric("v", []float64{1.2, 2.3, 2.9, 4.1, 10, 20, 35, 41}))
	require.NoError(t, tb.AddNumeric("g", []float64{1, 1, 1, 1, 2, 2, 2, 2}))
	rep, err := CheckNormality(tb, "v", "g", NormalityOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, rep.Groups)
	assert.Contains(t, rep.Bartlett, "g")
}

func TestCheckNormalityFailures(t *testing.T) {
	single := dataset.New("single")
	require.NoError(t, single.AddNumeric("target", []float64{1, 2, 3, 4}))
	require.NoError(t, single.AddCategorical("group", []string{"A", "A", "A", "A"}))
	_, err := CheckNormality(single, "target", "group", NormalityOptions{})
	assert.ErrorIs(t, err, stats.ErrTooFewGroups)

	small := dataset.New("small")
	require.NoError(t, small.AddNumeric("target", []float64{1, 2, 3, 4, 5}))
	require.NoError(t, small.AddCategorical("group", []string{"A", "A", "A", "B", "B"}))
	_, err = CheckNormality(small, "target", "group", NormalityOptions{})
	assert.ErrorIs(t, err, stats.ErrTooFewObservations)

	_, err = CheckNormality(groupedTable(t), "missing", "group", NormalityOptions{})
	assert.ErrorIs(t, err, dataset.ErrColumnNotFound)
	_, err = CheckNormality(groupedTable(t), "target", "missing", NormalityOptions{})
	assert.ErrorIs(t, err, dataset.ErrColumnNotFound)
	_, err = CheckNormality(groupedTable(t), "group", "target", NormalityOptions{})
	assert.ErrorIs(t, err, ErrNotNumeric)
}
