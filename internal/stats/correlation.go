package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Pearson returns the linear correlation of x and y, or NaN when fewer than
// two observations are given or either side has zero variance.
func Pearson(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return math.NaN()
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return math.NaN()
	}
	return clamp(stat.Correlation(x, y, nil))
}

// Spearman returns the rank correlation of x and y using average ranks for ties.
func Spearman(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return math.NaN()
	}
	return Pearson(Rank(x), Rank(y))
}

// Kendall returns Kendall's tau-b of x and y, which corrects for ties on
// either side.
func Kendall(x, y []float64) float64 {
	n := len(x)
	if n < 2 || n != len(y) {
		return math.NaN()
	}
	var concordant, discordant, tiesX, tiesY float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := sign(x[i] - x[j])
			dy := sign(y[i] - y[j])
			if dx == 0 {
				tiesX++
			}
			if dy == 0 {
				tiesY++
			}
			switch s := dx * dy; {
			case s > 0:
				concordant++
			case s < 0:
				discordant++
			}
		}
	}
	pairs := float64(n*(n-1)) / 2
	denom := math.Sqrt((pairs - tiesX) * (pairs - tiesY))
	if denom == 0 {
		return math.NaN()
	}
	return clamp((concordant - discordant) / denom)
}

// Rank assigns 1-based ranks to x, giving tied values the mean of the ranks
// they span.
func Rank(x []float64) []float64 {
	n := len(x)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })
	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i + 1
		for j < n && x[idx[j]] == x[idx[i]] {
			j++
		}
		avg := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[idx[k]] = avg
		}
		i = j
	}
	return ranks
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func clamp(r float64) float64 {
	if r > 1 {
		return 1
	} else if r < -1 {
		return -1
	}
	return r
}
