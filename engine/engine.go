package engine

import (
	"bikeflow/domain/business/bucketstore"
	"bikeflow/domain/business/distanceaccumulator"
	"bikeflow/domain/business/scale"
	"bikeflow/domain/business/stationtraffic"
	"bikeflow/domain/business/tripcounter"
	"bikeflow/domain/business/window"
	"bikeflow/domain/entities/station"
	log "github.com/sirupsen/logrus"
	"time"
)

// Config parameters of the TrafficEngine
// + RollupWorkers: amount of goroutines used to roll up a window. Values <= 1 roll up sequentially
// + Ranges: output ranges of the size scale
type Config struct {
	RollupWorkers int
	Ranges        scale.Ranges
}

// DefaultConfig sequential rollup with the default scale ranges
var DefaultConfig = Config{
	RollupWorkers: 1,
	Ranges:        scale.DefaultRanges,
}

// Snapshot result of a query. It's built from scratch on every call to Traffic
// + Filter: time filter used to build the snapshot
// + Stations: traffic of each station, index aligned with the station list of the engine
// + Scale: size encoding for the traffic
// + Departures, Arrivals: raw counts, including codes that are not in the station list
type Snapshot struct {
	Filter     window.Filter
	Stations   []stationtraffic.StationTraffic
	Scale      scale.Descriptor
	Departures tripcounter.Counts
	Arrivals   tripcounter.Counts
}

// TrafficEngine answers traffic queries over an immutable BucketStore and station list. It does
// not keep any current filter: every call to Traffic is computed from the filter it receives,
// so it can be used from several goroutines at the same time.
type TrafficEngine struct {
	store       *bucketstore.BucketStore
	stations    []*station.StationData
	stationsMap map[string]*station.StationData
	config      Config
}

func NewTrafficEngine(store *bucketstore.BucketStore, stations []*station.StationData, config Config) *TrafficEngine {
	return &TrafficEngine{
		store:       store,
		stations:    stations,
		stationsMap: station.IndexByCode(stations),
		config:      config,
	}
}

// Traffic runs the whole pipeline for the given filter:
// 1. Select departures and arrivals inside the window of the filter
// 2. Count them by start station and end station respectively
// 3. Merge the counts onto the station list and attach the mean trip distance of each station
// 4. Compute the size scale for the result
func (te *TrafficEngine) Traffic(filter window.Filter) *Snapshot {
	startTime := time.Now()

	departureTrips := window.Query(te.store, bucketstore.Departures, filter)
	arrivalTrips := window.Query(te.store, bucketstore.Arrivals, filter)

	departures := tripcounter.ParallelRollup(departureTrips, tripcounter.ByStartStation, te.config.RollupWorkers)
	arrivals := tripcounter.ParallelRollup(arrivalTrips, tripcounter.ByEndStation, te.config.RollupWorkers)

	traffic := stationtraffic.Compose(te.stations, departures, arrivals)
	stationtraffic.AttachDistances(traffic, distanceaccumulator.ParallelAccumulate(departureTrips, te.stationsMap, te.config.RollupWorkers))

	snapshot := &Snapshot{
		Filter:     filter,
		Stations:   traffic,
		Scale:      scale.For(traffic, filter, te.config.Ranges),
		Departures: departures,
		Arrivals:   arrivals,
	}

	log.Debugf("[engine: traffic][filter: %s][status: OK] %v departures, %v arrivals in %s",
		filter, len(departureTrips), len(arrivalTrips), time.Since(startTime))
	return snapshot
}

// GetStations returns the station list of the engine
func (te *TrafficEngine) GetStations() []*station.StationData {
	return te.stations
}

// GetStore returns the BucketStore of the engine
func (te *TrafficEngine) GetStore() *bucketstore.BucketStore {
	return te.store
}
