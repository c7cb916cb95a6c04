package tripcounter

import (
	"fmt"
	"testing"

	"bikeflow/domain/entities/trip"
	"github.com/stretchr/testify/assert"
)

func buildTrips(amount int) []*trip.TripRecord {
	trips := make([]*trip.TripRecord, 0, amount)
	for idx := 0; idx < amount; idx++ {
		trips = append(trips, &trip.TripRecord{
			StartStationCode: fmt.Sprintf("S%v", idx%13),
			EndStationCode:   fmt.Sprintf("S%v", idx%7),
			StartedAtMinute:  idx % trip.MinutesPerDay,
			EndedAtMinute:    (idx + 10) % trip.MinutesPerDay,
		})
	}
	return trips
}

func TestRollupCountsByKey(t *testing.T) {
	trips := []*trip.TripRecord{
		{StartStationCode: "A", EndStationCode: "B", StartedAtMinute: 700, EndedAtMinute: 705},
		{StartStationCode: "B", EndStationCode: "A", StartedAtMinute: 705, EndedAtMinute: 710},
		{StartStationCode: "A", EndStationCode: "UNKNOWN", StartedAtMinute: 706, EndedAtMinute: 720},
	}

	departures := Rollup(trips, ByStartStation)
	arrivals := Rollup(trips, ByEndStation)

	assert.Equal(t, Counts{"A": 2, "B": 1}, departures)
	assert.Equal(t, Counts{"A": 1, "B": 1, "UNKNOWN": 1}, arrivals)
	assert.Equal(t, 3, departures.Total())
	assert.Equal(t, 3, arrivals.Total())
}

func TestRollupEmpty(t *testing.T) {
	counts := Rollup(nil, ByStartStation)

	assert.Empty(t, counts)
	assert.Equal(t, 0, counts.Get("A"))
	assert.Equal(t, 0, counts.Total())
}

func TestGetDefaultsToZero(t *testing.T) {
	counts := Counts{"A": 3}

	assert.Equal(t, 3, counts.Get("A"))
	assert.Equal(t, 0, counts.Get("B"))
}

func TestMergeDoesNotModifyOperands(t *testing.T) {
	left := Counts{"A": 1, "B": 2}
	right := Counts{"B": 3, "C": 4}

	merged := left.Merge(right)

	assert.Equal(t, Counts{"A": 1, "B": 5, "C": 4}, merged)
	assert.Equal(t, Counts{"A": 1, "B": 2}, left)
	assert.Equal(t, Counts{"B": 3, "C": 4}, right)
	assert.Equal(t, merged, right.Merge(left))
}

func TestParallelRollupMatchesRollup(t *testing.T) {
	trips := buildTrips(10_000)
	expected := Rollup(trips, ByStartStation)

	for _, workers := range []int{0, 1, 2, 3, 8, 64} {
		assert.Equal(t, expected, ParallelRollup(trips, ByStartStation, workers), "workers %v", workers)
	}
}

func TestParallelRollupFewTrips(t *testing.T) {
	trips := buildTrips(3)

	assert.Equal(t, Rollup(trips, ByEndStation), ParallelRollup(trips, ByEndStation, 16))
	assert.Empty(t, ParallelRollup(nil, ByEndStation, 4))
}
