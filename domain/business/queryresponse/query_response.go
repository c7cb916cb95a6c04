package queryresponse

import (
	"bikeflow/domain/business/scale"
	"bikeflow/domain/business/stationtraffic"
	"bikeflow/domain/business/window"
	"bikeflow/domain/entities"
	"fmt"
	"github.com/google/uuid"
	"time"
)

// StationResponse traffic of a station as it's sent to the rendering layer
type StationResponse struct {
	stationtraffic.StationTraffic
	Radius     float64          `json:"radius"`
	FlowBucket scale.FlowBucket `json:"flow_bucket"`
}

// TrafficResponse contains the response of a traffic query
type TrafficResponse struct {
	Metadata    entities.Metadata `json:"metadata"`
	QueryID     string            `json:"query_id"`
	TimeFilter  int               `json:"time_filter"`
	Stations    []StationResponse `json:"stations"`
	Scale       scale.Descriptor  `json:"scale"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// NewTrafficResponse builds the response of a query. If queryID is empty a new one is generated.
// Each station carries its radius and flow bucket, so the rendering layer doesn't need to
// recompute the scale.
func NewTrafficResponse(queryID string, timeFilter int, traffic []stationtraffic.StationTraffic, descriptor scale.Descriptor, sender string) *TrafficResponse {
	if queryID == "" {
		queryID = uuid.New().String()
	}

	stations := make([]StationResponse, len(traffic))
	for idx := range traffic {
		stations[idx] = StationResponse{
			StationTraffic: traffic[idx],
			Radius:         descriptor.Radius(traffic[idx].TotalTraffic),
			FlowBucket:     scale.QuantizeFlow(traffic[idx].FlowRatio),
		}
	}

	return &TrafficResponse{
		Metadata:    entities.NewMetadata("traffic", sender, describeFilter(window.FromTimeFilter(timeFilter))),
		QueryID:     queryID,
		TimeFilter:  timeFilter,
		Stations:    stations,
		Scale:       descriptor,
		GeneratedAt: time.Now().UTC(),
	}
}

func (tr *TrafficResponse) GetMetadata() entities.Metadata {
	return tr.Metadata
}

func (tr *TrafficResponse) GetQueryID() string {
	return tr.QueryID
}

// describeFilter returns a human readable version of the minutes covered by filter
func describeFilter(filter window.Filter) string {
	if filter.IsAny() {
		return "whole day"
	}
	lo, hi := window.Bounds(filter)
	return fmt.Sprintf("window [%s, %s)", window.At(lo), window.At(hi))
}
