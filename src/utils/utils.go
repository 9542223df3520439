package utils

import (
	"fmt"
	"time"
)

// Float64s converts durations to float64 nanoseconds, exact for runs shorter than about 104 days.
func Float64s(samples []time.Duration) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = float64(s)
	}
	return out
}

// FormatClock renders a simulated time as h:mm:ss.
func FormatClock(d time.Duration) string {
	total := int64(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
}
