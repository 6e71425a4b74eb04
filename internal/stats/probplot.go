package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ProbPlot holds the coordinates of a normal probability (Q-Q) plot and the
// least-squares line through them.
type ProbPlot struct {
	Theoretical []float64 // normal quantiles of the order statistic medians
	Ordered     []float64 // sorted sample
	Slope       float64
	Intercept   float64
	R           float64 // correlation of the plotted points
}

// NormalProbPlot computes Q-Q plot coordinates of x against the standard
// normal distribution using Filliben's estimate of the order statistic medians.
func NormalProbPlot(x []float64) ProbPlot {
	n := len(x)
	ordered := make([]float64, n)
	copy(ordered, x)
	sort.Float64s(ordered)
	pp := ProbPlot{Ordered: ordered, Theoretical: make([]float64, n), R: math.NaN()}
	if n == 0 {
		return pp
	}
	medians := make([]float64, n)
	if n == 1 {
		medians[0] = 0.5
	} else {
		last := math.Pow(0.5, 1/float64(n))
		medians[n-1] = last
		medians[0] = 1 - last
		for i := 1; i < n-1; i++ {
			medians[i] = (float64(i+1) - 0.3175) / (float64(n) + 0.365)
		}
	}
	for i, m := range medians {
		pp.Theoretical[i] = distuv.UnitNormal.Quantile(m)
	}
	if n >= 2 {
		pp.Intercept, pp.Slope = stat.LinearRegression(pp.Theoretical, pp.Ordered, nil, false)
		pp.R = Pearson(pp.Theoretical, pp.Ordered)
	}
	return pp
}
