package window

import (
	"bikeflow/domain/business/bucketstore"
	"bikeflow/domain/entities/trip"
)

// WindowHalfWidthMinutes half width of the window around the filter minute
const WindowHalfWidthMinutes = 60

// Bounds returns the half-open window [lo, hi) of a filter. When lo > hi the window wraps
// around midnight and covers [lo, 1440) and [0, hi). For Any the bounds are 0 and 1440.
func Bounds(filter Filter) (int, int) {
	minute, ok := filter.Minute()
	if !ok {
		return 0, trip.MinutesPerDay
	}

	lo := (minute - WindowHalfWidthMinutes + trip.MinutesPerDay) % trip.MinutesPerDay
	hi := (minute + WindowHalfWidthMinutes) % trip.MinutesPerDay
	return lo, hi
}

// Contains returns true if minute is inside the window of the filter
func Contains(filter Filter, minute int) bool {
	if filter.IsAny() {
		return true
	}

	lo, _ := Bounds(filter)
	offset := bucketstore.NormalizeMinute(minute - lo)
	return offset < 2*WindowHalfWidthMinutes
}

// Query returns the trips of the given index that fall inside the window of the filter. Only the
// slots of the window are visited, so the cost is proportional to the amount of trips returned.
// The order of the result is not specified.
func Query(store *bucketstore.BucketStore, kind bucketstore.Kind, filter Filter) []*trip.TripRecord {
	lo, hi := Bounds(filter)
	if lo <= hi {
		return collect(store, kind, [][2]int{{lo, hi}})
	}
	return collect(store, kind, [][2]int{{lo, trip.MinutesPerDay}, {0, hi}})
}

// collect concatenates the slots of each [from, to) range
func collect(store *bucketstore.BucketStore, kind bucketstore.Kind, ranges [][2]int) []*trip.TripRecord {
	total := 0
	for _, slotRange := range ranges {
		for minute := slotRange[0]; minute < slotRange[1]; minute++ {
			total += len(store.Slot(kind, minute))
		}
	}

	trips := make([]*trip.TripRecord, 0, total)
	for _, slotRange := range ranges {
		for minute := slotRange[0]; minute < slotRange[1]; minute++ {
			trips = append(trips, store.Slot(kind, minute)...)
		}
	}
	return trips
}
