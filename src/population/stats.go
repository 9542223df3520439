package population

import "time"

// Stats are the samples a run accumulates.
type Stats struct {
	// WaitingTimes holds every pickup wait in the order the pickups happened.
	WaitingTimes []time.Duration
	// MeanWaits holds one mean per retired passenger that waited at least once.
	MeanWaits []time.Duration
	// LiveCounts is the live population sampled once per census interval.
	LiveCounts []int
	// Created counts every passenger ever created.
	Created int
}

// MaxLive returns the largest sampled live population.
func (s Stats) MaxLive() int {
	best := 0
	for _, n := range s.LiveCounts {
		best = max(best, n)
	}
	return best
}
