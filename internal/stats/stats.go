// Package stats implements the hypothesis tests and rank statistics used by
// the analysis helpers. Distribution functions come from gonum.
package stats

import "errors"

var (
	// ErrTooFewObservations is returned when a sample is too small for a test.
	ErrTooFewObservations = errors.New("too few observations")
	// ErrTooFewGroups is returned when a multi-sample test receives fewer than two samples.
	ErrTooFewGroups = errors.New("at least two samples are required")
	// ErrZeroRange is returned when every observation in a sample is identical.
	ErrZeroRange = errors.New("all observations are identical")
	// ErrZeroVariance is returned when a sample has zero variance where a test divides by it.
	ErrZeroVariance = errors.New("sample has zero variance")
)

// TestResult is the outcome of a hypothesis test.
type TestResult struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
}
