package bucketstore

import (
	"bikeflow/domain/entities/trip"
	log "github.com/sirupsen/logrus"
)

// Kind selects which index of the BucketStore is read
type Kind int

const (
	// Departures index keyed by the minute in which each trip begins
	Departures Kind = iota
	// Arrivals index keyed by the minute in which each trip ends
	Arrivals
)

func (k Kind) String() string {
	if k == Arrivals {
		return "arrivals"
	}
	return "departures"
}

// BucketStore contains two indexes of 1440 slots each, one slot per minute of the day.
// Slot i of departures has every trip that begins at minute i, slot i of arrivals has every
// trip that ends at minute i. Each trip is in exactly one slot of each index.
// Once built, a BucketStore is never mutated, so it can be shared between goroutines.
type BucketStore struct {
	departures [trip.MinutesPerDay][]*trip.TripRecord
	arrivals   [trip.MinutesPerDay][]*trip.TripRecord
	size       int
	dropped    int
}

// Build indexes the given trips. Trips whose timestamps cannot be parsed with layouts are dropped
// from both indexes and counted in Dropped. Station codes are not checked, a trip with an unknown
// or empty code is indexed and counted under that code.
// A nil or empty layouts slice means trip.DefaultTimestampLayouts.
func Build(rows []*trip.TripData, layouts []string) *BucketStore {
	store := &BucketStore{}
	for idx := range rows {
		tripData := rows[idx]
		if tripData == nil {
			store.dropped++
			continue
		}

		tripRecord, err := trip.NewTripRecord(tripData, layouts)
		if err != nil {
			log.Debugf("[store: bucket-store][method: Build] dropping trip at row %v: %s", idx, err.Error())
			store.dropped++
			continue
		}

		store.departures[tripRecord.StartedAtMinute] = append(store.departures[tripRecord.StartedAtMinute], tripRecord)
		store.arrivals[tripRecord.EndedAtMinute] = append(store.arrivals[tripRecord.EndedAtMinute], tripRecord)
		store.size++
	}

	if store.dropped > 0 {
		log.Infof("[store: bucket-store][method: Build] %v trips indexed, %v dropped", store.size, store.dropped)
	}
	return store
}

// Slot returns the trips of the given index at minute. minute is normalized modulo 1440.
// The returned slice belongs to the store and must not be modified.
func (bs *BucketStore) Slot(kind Kind, minute int) []*trip.TripRecord {
	minute = NormalizeMinute(minute)
	if kind == Arrivals {
		return bs.arrivals[minute]
	}
	return bs.departures[minute]
}

// Len returns the amount of indexed trips
func (bs *BucketStore) Len() int {
	return bs.size
}

// Dropped returns the amount of rows that were not indexed
func (bs *BucketStore) Dropped() int {
	return bs.dropped
}

// NormalizeMinute maps any integer to [0, 1439]
func NormalizeMinute(minute int) int {
	minute %= trip.MinutesPerDay
	if minute < 0 {
		minute += trip.MinutesPerDay
	}
	return minute
}
