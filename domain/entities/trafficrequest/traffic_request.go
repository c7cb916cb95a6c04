package trafficrequest

import (
	"bikeflow/domain/business/window"
	"encoding/json"
	"fmt"
)

// TrafficRequest asks for the traffic of every station under a time filter
// + RequestID: ID used to correlate the response. Optional
// + TimeFilter: minute of the day at the center of the window, -1 or missing for the whole day
type TrafficRequest struct {
	RequestID  string `json:"request_id"`
	TimeFilter *int   `json:"time_filter"`
}

// Parse unmarshals a TrafficRequest from a message body
func Parse(body []byte) (*TrafficRequest, error) {
	var request TrafficRequest
	err := json.Unmarshal(body, &request)
	if err != nil {
		return nil, fmt.Errorf("error unmarshalling traffic request: %w", err)
	}
	return &request, nil
}

// GetFilter returns the Filter of the request
func (tr *TrafficRequest) GetFilter() window.Filter {
	if tr.TimeFilter == nil {
		return window.Any()
	}
	return window.FromTimeFilter(*tr.TimeFilter)
}
