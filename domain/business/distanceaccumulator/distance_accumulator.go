package distanceaccumulator

import (
	"bikeflow/domain/entities/station"
	"bikeflow/domain/entities/trip"
	"github.com/umahmood/haversine"
	"sync"
)

// DistanceAccumulator struct that collects data about the distance traveled from a given station
// + StationCode: code of the station to collect data. Once set, it cannot change
// + Counter: counts the amount of data collected
// + TotalDistance: sum of distances traveled, in km
type DistanceAccumulator struct {
	StationCode   string  `json:"station_code"`
	Counter       int     `json:"counter"`
	TotalDistance float64 `json:"total_distance"`
}

func NewDistanceAccumulator(stationCode string) *DistanceAccumulator {
	return &DistanceAccumulator{
		StationCode: stationCode,
	}
}

func (da *DistanceAccumulator) UpdateAccumulator(newDistance float64) {
	da.Counter += 1
	da.TotalDistance += newDistance
}

func (da *DistanceAccumulator) Merge(distanceAccumulator2 *DistanceAccumulator) *DistanceAccumulator {
	if da.StationCode != distanceAccumulator2.StationCode {
		panic("[DistanceAccumulator] cannot merge two DistanceAccumulator with different station codes")
	}

	return &DistanceAccumulator{
		StationCode:   da.StationCode,
		Counter:       da.Counter + distanceAccumulator2.Counter,
		TotalDistance: da.TotalDistance + distanceAccumulator2.TotalDistance,
	}
}

// GetAverageDistance returns the mean distance in km, 0 if nothing was accumulated
func (da *DistanceAccumulator) GetAverageDistance() float64 {
	if da.Counter == 0 {
		return 0
	}
	return da.TotalDistance / float64(da.Counter)
}

// Accumulate groups trips by start station and accumulates the distance between start and end
// station of each one. Trips with a station that is not in stationsMap, or without valid
// coordinates, are skipped.
func Accumulate(trips []*trip.TripRecord, stationsMap map[string]*station.StationData) map[string]*DistanceAccumulator {
	accumulators := make(map[string]*DistanceAccumulator)
	for _, tripRecord := range trips {
		startStation, ok := stationsMap[tripRecord.StartStationCode]
		if !ok || !startStation.HasValidCoordinates() {
			continue
		}

		endStation, ok := stationsMap[tripRecord.EndStationCode]
		if !ok || !endStation.HasValidCoordinates() {
			continue
		}

		accumulator, ok := accumulators[tripRecord.StartStationCode]
		if !ok {
			accumulator = NewDistanceAccumulator(tripRecord.StartStationCode)
			accumulators[tripRecord.StartStationCode] = accumulator
		}
		accumulator.UpdateAccumulator(calculateDistance(startStation, endStation))
	}
	return accumulators
}

// ParallelAccumulate splits trips in shards, accumulates each one in its own goroutine and merges
// the accumulators of the same station. With workers <= 1, or with fewer trips than workers, it's
// the same as Accumulate.
func ParallelAccumulate(trips []*trip.TripRecord, stationsMap map[string]*station.StationData, workers int) map[string]*DistanceAccumulator {
	if workers <= 1 || len(trips) < workers {
		return Accumulate(trips, stationsMap)
	}

	shardSize := (len(trips) + workers - 1) / workers
	partials := make([]map[string]*DistanceAccumulator, workers)

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
			partials[shard] = Accumulate(shardTrips, stationsMap)
		}(shard, trips[from:to])
	}
	wg.Wait()

	merged := make(map[string]*DistanceAccumulator)
	for _, partial := range partials {
		for stationCode, accumulator := range partial {
			current, ok := merged[stationCode]
			if !ok {
				merged[stationCode] = accumulator
				continue
			}
			merged[stationCode] = current.Merge(accumulator)
		}
	}
	return merged
}

// calculateDistance returns the distance between two stations using haversine formula
func calculateDistance(startStation *station.StationData, endStation *station.StationData) float64 {
	latStartStation, longStartStation := startStation.GetCoordinates()
	latEndStation, longEndStation := endStation.GetCoordinates()
	station1 := haversine.Coord{Lat: latStartStation, Lon: longStartStation}
	station2 := haversine.Coord{Lat: latEndStation, Lon: longEndStation}

	_, km := haversine.Distance(station1, station2)
	return km
}
