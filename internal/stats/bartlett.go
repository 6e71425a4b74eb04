package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Bartlett tests the null hypothesis that all samples come from populations
// with equal variances. The statistic is chi-squared with k-1 degrees of
// freedom under the null.
func Bartlett(samples ...[]float64) (TestResult, error) {
	k := len(samples)
	if k < 2 {
		return TestResult{}, fmt.Errorf("bartlett: %w, got %d", ErrTooFewGroups, k)
	}
	var nTot, sumWeighted, sumLog, sumInv float64
	for i, s := range samples {
		if len(s) < 2 {
			return TestResult{}, fmt.Errorf("bartlett: sample %d: %w: need at least 2, got %d", i, ErrTooFewObservations, len(s))
		}
		ni := float64(len(s))
		v := stat.Variance(s, nil)
		if v <= 0 {
			return TestResult{}, fmt.Errorf("bartlett: sample %d: %w", i, ErrZeroVariance)
		}
		nTot += ni
		sumWeighted += (ni - 1) * v
		sumLog += (ni - 1) * math.Log(v)
		sumInv += 1 / (ni - 1)
	}
	fk := float64(k)
	pooled := sumWeighted / (nTot - fk)
	numer := (nTot-fk)*math.Log(pooled) - sumLog
	denom := 1 + (sumInv-1/(nTot-fk))/(3*(fk-1))
	t := numer / denom
	p := distuv.ChiSquared{K: fk - 1}.Survival(t)
	return TestResult{Statistic: t, PValue: p}, nil
}
