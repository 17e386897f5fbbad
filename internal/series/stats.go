package series

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the values currently held by a buffer.
type Stats struct {
	Count int
	Min   float64
	Max   float64
	Avg   float64
	Sum   float64
	First float64
	Last  float64
}

// StatsOf summarizes values in order. An empty slice yields the zero Stats.
func StatsOf(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}
	return Stats{
		Count: len(values),
		Min:   floats.Min(values),
		Max:   floats.Max(values),
		Avg:   stat.Mean(values, nil),
		Sum:   floats.Sum(values),
		First: values[0],
		Last:  values[len(values)-1],
	}
}

// SampleStats summarizes the values of samples, oldest first.
func SampleStats(samples []Sample) Stats {
	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.Value
	}
	return StatsOf(values)
}
