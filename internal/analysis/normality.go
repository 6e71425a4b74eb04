package analysis

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/KaramelBytes/edaloom-cli/internal/dataset"
	"github.com/KaramelBytes/edaloom-cli/internal/stats"
)

// ErrNotNumeric is returned when the tested column is not numeric.
var ErrNotNumeric = errors.New("column is not numeric")

// NormalityOptions controls the output side effects of CheckNormality.
type NormalityOptions struct {
	// Out receives the printed summary; nil discards it.
	Out io.Writer
	// Figure receives the Q-Q figure as PNG; nil skips rendering.
	Figure      io.Writer
	PanelWidth  int
	PanelHeight int
}

// DefaultNormalityOptions prints to stdout and does not render the figure.
func DefaultNormalityOptions() NormalityOptions {
	return NormalityOptions{Out: os.Stdout, PanelWidth: 360, PanelHeight: 360}
}

// NormalityReport holds per-group Shapiro-Wilk results and the Bartlett
// result for the grouping as a whole.
type NormalityReport struct {
	Target   string                      `json:"target"`
	GroupBy  string                      `json:"group_by"`
	Groups   []string                    `json:"groups"`
	Sizes    map[string]int              `json:"sizes"`
	Dropped  int                         `json:"dropped_rows"`
	Shapiro  map[string]stats.TestResult `json:"shapiro_wilk"`
	Bartlett map[string]stats.TestResult `json:"bartlett"`
	Figure   *Figure                     `json:"-"`
}

// CheckNormality drops rows missing target or groupBy, partitions target by
// group value, runs Shapiro-Wilk per group and Bartlett across groups, and
// prints a summary. Groups keep the order of their first appearance.
// Shapiro-Wilk errors are wrapped with the group name.
func CheckNormality(t *dataset.Table, target, groupBy string, opt NormalityOptions) (*NormalityReport, error) {
	tc, err := t.Column(target)
	if err != nil {
		return nil, err
	}
	if tc.Kind != dataset.KindNumeric {
		return nil, fmt.Errorf("%w: %q is %s", ErrNotNumeric, target, tc.Kind)
	}
	gc, err := t.Column(groupBy)
	if err != nil {
		return nil, err
	}

	rep := &NormalityReport{
		Target:   target,
		GroupBy:  groupBy,
		Sizes:    map[string]int{},
		Shapiro:  map[string]stats.TestResult{},
		Bartlett: map[string]stats.TestResult{},
	}
	samples := map[string][]float64{}
	for i := 0; i < t.Rows(); i++ {
		if tc.IsMissing(i) || gc.IsMissing(i) {
			rep.Dropped++
			continue
		}
		key := gc.StringAt(i)
		if _, ok := samples[key]; !ok {
			rep.Groups = append(rep.Groups, key)
		}
		samples[key] = append(samples[key], tc.Num[i])
	}
	slog.Debug("normality groups", "target", target, "group_by", groupBy, "groups", len(rep.Groups), "dropped", rep.Dropped)

	fig := &Figure{
		Title:       fmt.Sprintf("Q-Q plots of %s by %s", target, groupBy),
		PanelWidth:  opt.PanelWidth,
		PanelHeight: opt.PanelHeight,
	}
	ordered := make([][]float64, 0, len(rep.Groups))
	for _, g := range rep.Groups {
		s := samples[g]
		rep.Sizes[g] = len(s)
		res, err := stats.ShapiroWilk(s)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", g, err)
		}
		rep.Shapiro[g] = res
		fig.Panels = append(fig.Panels, Panel{
			Title: fmt.Sprintf("%s (p=%.4f)", g, res.PValue),
			Plot:  stats.NormalProbPlot(s),
		})
		ordered = append(ordered, s)
	}
	bt, err := stats.Bartlett(ordered...)
	if err != nil {
		return nil, err
	}
	rep.Bartlett[groupBy] = bt
	rep.Figure = fig

	if opt.Out != nil {
		if _, err := io.WriteString(opt.Out, rep.Summary()); err != nil {
			return nil, fmt.Errorf("print summary: %w", err)
		}
	}
	if opt.Figure != nil {
		if err := fig.WritePNG(opt.Figure); err != nil {
			return nil, err
		}
	}
	return rep, nil
}

// Summary renders the per-group Shapiro-Wilk results followed by Bartlett.
func (r *NormalityReport) Summary() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Shapiro-Wilk normality test (target: %s)\n", r.Target))
	for _, g := range r.Groups {
		res := r.Shapiro[g]
		b.WriteString(fmt.Sprintf("  %s (n=%d): statistic=%.4f, p-value=%s\n", g, r.Sizes[g], res.Statistic, fmtP(res.PValue)))
	}
	b.WriteString("Bartlett test for equal variances\n")
	if res, ok := r.Bartlett[r.GroupBy]; ok {
		b.WriteString(fmt.Sprintf("  %s: statistic=%.4f, p-value=%s\n", r.GroupBy, res.Statistic, fmtP(res.PValue)))
	}
	return b.String()
}

func fmtP(p float64) string {
	if p != 0 && p < 1e-4 {
		return strconv.FormatFloat(p, 'e', 3, 64)
	}
	return strconv.FormatFloat(p, 'f', 4, 64)
}
