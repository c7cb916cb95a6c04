package tripcounter

import (
	"bikeflow/domain/entities/trip"
	"sync"
)

// KeyFunc returns the station code under which a trip is counted
type KeyFunc func(tripRecord *trip.TripRecord) string

// ByStartStation counts trips by the station in which they begin
func ByStartStation(tripRecord *trip.TripRecord) string {
	return tripRecord.StartStationCode
}

// ByEndStation counts trips by the station in which they end
func ByEndStation(tripRecord *trip.TripRecord) string {
	return tripRecord.EndStationCode
}

// Counts amount of trips per station code. Codes that are not in the station list are
// counted too, matching them against known stations is done when traffic is composed.
type Counts map[string]int

// Rollup groups trips by keyOf and counts them
func Rollup(trips []*trip.TripRecord, keyOf KeyFunc) Counts {
	counts := make(Counts)
	for _, tripRecord := range trips {
		counts[keyOf(tripRecord)]++
	}
	return counts
}

// ParallelRollup splits trips in shards, rolls each one up in its own goroutine and merges
// the partial results. With workers <= 1, or with fewer trips than workers, it's the same as Rollup.
func ParallelRollup(trips []*trip.TripRecord, keyOf KeyFunc, workers int) Counts {
	if workers <= 1 || len(trips) < workers {
		return Rollup(trips, keyOf)
	}

	shardSize := (len(trips) + workers - 1) / workers
	partials := make([]Counts, workers)

	var wg sync.WaitGroup
	for shard := 0; shard < workers; shard++ {
		from := shard * shardSize
		if from >= len(trips) {
			break
		}
		to := from + shardSize
		if to > len(trips) {
			to = len(trips)
		}

		wg.Add(1)
		go func(shard int, shardTrips []*trip.TripRecord) {
			defer wg.Done()
			partials[shard] = Rollup(shardTrips, keyOf)
		}(shard, trips[from:to])
	}
	wg.Wait()

	merged := make(Counts)
	for _, partial := range partials {
		merged = merged.Merge(partial)
	}
	return merged
}

// Get returns the amount of trips of the station code, 0 if the code was never counted
func (c Counts) Get(stationCode string) int {
	counter, ok := c[stationCode]
	if !ok {
		return 0
	}
	return counter
}

// Total returns the sum of all counters
func (c Counts) Total() int {
	total := 0
	for _, counter := range c {
		total += counter
	}
	return total
}

// Merge returns a new Counts with the sum of both. Neither c nor other are modified
func (c Counts) Merge(other Counts) Counts {
	merged := make(Counts, len(c))
	for stationCode, counter := range c {
		merged[stationCode] = counter
	}
	for stationCode, counter := range other {
		merged[stationCode] += counter
	}
	return merged
}
