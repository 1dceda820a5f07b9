// Package stats computes the per-player summary statistics of a season: extremes,
// population variance, standard deviation, totals and cumulative running sums.
package stats

import (
	"errors"
	"fmt"
	"math"

	"github.com/pfrederiksen/gtg-stats/internal/score"
)

// ErrEmptySeries is returned by statistics that need at least one value
var ErrEmptySeries = errors.New("empty series")

// AggregationError reports a statistic that could not be computed for a player and column
type AggregationError struct {
	Kind   score.SummaryKind
	Handle string
	Column score.Column
	Err    error
}

func (e *AggregationError) Error() string {
	if e.Handle == "" {
		return fmt.Sprintf("computing %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("computing %s of %s for %s: %v", e.Kind, e.Column, e.Handle, e.Err)
}

func (e *AggregationError) Unwrap() error {
	return e.Err
}

// Total returns the sum of all values. The total of an empty series is 0.
func Total(values []int) int {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return sum
}

// Minimum returns the smallest value
func Minimum(values []int) (int, error) {
	if len(values) == 0 {
		return 0, ErrEmptySeries
	}
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min, nil
}

// Maximum returns the largest value
func Maximum(values []int) (int, error) {
	if len(values) == 0 {
		return 0, ErrEmptySeries
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max, nil
}

// Mean returns the arithmetic mean
func Mean(values []int) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptySeries
	}
	return float64(Total(values)) / float64(len(values)), nil
}

// Variance returns the population variance, the mean of squared deviations from the mean
// (divides by N, not N-1)
func Variance(values []int) (float64, error) {
	mean, err := Mean(values)
	if err != nil {
		return 0, err
	}

	var sum float64
	for _, v := range values {
		d := float64(v) - mean
		sum += d * d
	}
	return sum / float64(len(values)), nil
}

// StdDev returns the population standard deviation
func StdDev(values []int) (float64, error) {
	variance, err := Variance(values)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(variance), nil
}

// Cumulative returns the running prefix sums of values; out[i] is the sum of values[0..i]
func Cumulative(values []int) []int {
	out := make([]int, len(values))
	sum := 0
	for i, v := range values {
		sum += v
		out[i] = sum
	}
	return out
}
