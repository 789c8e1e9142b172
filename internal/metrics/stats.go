// Package metrics holds the small descriptive statistics the dashboard
// reports alongside aggregate views.
package metrics

import "math"

// Mean computes the arithmetic mean of a float64 slice.
// Returns 0 for empty input; callers that must distinguish "no data"
// check the length first.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev computes the population standard deviation.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// Summary describes the spread of the included models' averages.
type Summary struct {
	Included int     `json:"included"`
	Excluded int     `json:"excluded"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// Summarize computes a Summary over the present values. excluded is the
// number of models that had no aggregate.
func Summarize(values []float64, excluded int) Summary {
	s := Summary{Included: len(values), Excluded: excluded}
	if len(values) == 0 {
		return s
	}
	s.Mean = Mean(values)
	s.StdDev = StdDev(values)
	s.Min, s.Max = values[0], values[0]
	for _, v := range values[1:] {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	return s
}
