package stationtraffic

import (
	"bikeflow/domain/business/distanceaccumulator"
	"bikeflow/domain/business/tripcounter"
	"bikeflow/domain/entities/station"
)

// NeutralFlowRatio flow ratio of a station without traffic. It means balanced or unknown,
// not that departures and arrivals are exactly even.
const NeutralFlowRatio = 0.5

// StationTraffic traffic of a station for a given time filter. It's rebuilt on every query
// + Departures: amount of trips that begin in the station
// + Arrivals: amount of trips that end in the station
// + TotalTraffic: Departures + Arrivals
// + FlowRatio: Departures / TotalTraffic, NeutralFlowRatio when TotalTraffic is 0
// + AvgTripDistanceKm: mean distance of the departures whose stations are both known
type StationTraffic struct {
	Station           *station.StationData `json:"station"`
	Departures        int                  `json:"departures"`
	Arrivals          int                  `json:"arrivals"`
	TotalTraffic      int                  `json:"total_traffic"`
	FlowRatio         float64              `json:"flow_ratio"`
	AvgTripDistanceKm float64              `json:"avg_trip_distance_km"`
}

// Compose merges departures and arrivals counts onto the stations. The result is index aligned
// with stations; a station without trips gets all counters in zero.
func Compose(stations []*station.StationData, departures tripcounter.Counts, arrivals tripcounter.Counts) []StationTraffic {
	traffic := make([]StationTraffic, len(stations))
	for idx, stationData := range stations {
		departuresCounter := departures.Get(stationData.Code)
		arrivalsCounter := arrivals.Get(stationData.Code)
		totalTraffic := departuresCounter + arrivalsCounter

		traffic[idx] = StationTraffic{
			Station:      stationData,
			Departures:   departuresCounter,
			Arrivals:     arrivalsCounter,
			TotalTraffic: totalTraffic,
			FlowRatio:    FlowRatio(departuresCounter, totalTraffic),
		}
	}
	return traffic
}

// FlowRatio returns departures / totalTraffic, or NeutralFlowRatio if totalTraffic is 0
func FlowRatio(departures int, totalTraffic int) float64 {
	if totalTraffic <= 0 {
		return NeutralFlowRatio
	}
	return float64(departures) / float64(totalTraffic)
}

// AttachDistances sets the average trip distance of each station that has an accumulator
func AttachDistances(traffic []StationTraffic, distances map[string]*distanceaccumulator.DistanceAccumulator) {
	for idx := range traffic {
		accumulator, ok := distances[traffic[idx].Station.Code]
		if !ok {
			continue
		}
		traffic[idx].AvgTripDistanceKm = accumulator.GetAverageDistance()
	}
}

// MaxTotalTraffic returns the biggest TotalTraffic, 0 for an empty slice
func MaxTotalTraffic(traffic []StationTraffic) int {
	maxTraffic := 0
	for idx := range traffic {
		if traffic[idx].TotalTraffic > maxTraffic {
			maxTraffic = traffic[idx].TotalTraffic
		}
	}
	return maxTraffic
}
