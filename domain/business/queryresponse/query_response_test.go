package queryresponse

import (
	"encoding/json"
	"testing"

	"bikeflow/domain/business/scale"
	"bikeflow/domain/business/stationtraffic"
	"bikeflow/domain/entities/station"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTraffic() []stationtraffic.StationTraffic {
	return []stationtraffic.StationTraffic{
		{Station: &station.StationData{Code: "A"}, Departures: 4, Arrivals: 0, TotalTraffic: 4, FlowRatio: 1},
		{Station: &station.StationData{Code: "B"}, Departures: 0, Arrivals: 0, TotalTraffic: 0, FlowRatio: 0.5},
	}
}

func TestNewTrafficResponseKeepsQueryID(t *testing.T) {
	descriptor := scale.Descriptor{DomainMax: 4, Range: scale.Range{Min: 3, Max: 50}, Windowed: true}

	response := NewTrafficResponse("query-1", 480, sampleTraffic(), descriptor, "traffic-worker")

	assert.Equal(t, "query-1", response.GetQueryID())
	assert.Equal(t, 480, response.TimeFilter)
	assert.Equal(t, "traffic-worker", response.GetMetadata().GetStage())
	assert.Equal(t, "traffic", response.GetMetadata().GetType())
	assert.Equal(t, "window [07:00, 09:00)", response.GetMetadata().GetMessage())
	require.Len(t, response.Stations, 2)
	assert.InDelta(t, 50.0, response.Stations[0].Radius, 1e-9)
	assert.Equal(t, scale.FlowDepartures, response.Stations[0].FlowBucket)
	assert.InDelta(t, 3.0, response.Stations[1].Radius, 1e-9)
	assert.Equal(t, scale.FlowBalanced, response.Stations[1].FlowBucket)
}

func TestNewTrafficResponseGeneratesQueryID(t *testing.T) {
	response := NewTrafficResponse("", -1, nil, scale.Descriptor{}, "traffic-worker")

	_, err := uuid.Parse(response.GetQueryID())
	assert.NoError(t, err)
	assert.Empty(t, response.Stations)
	assert.Equal(t, "whole day", response.GetMetadata().GetMessage())
}

func TestNewTrafficResponseDescribesWrappedWindow(t *testing.T) {
	response := NewTrafficResponse("query-1", 10, nil, scale.Descriptor{}, "traffic-worker")

	assert.Equal(t, "window [23:10, 01:10)", response.GetMetadata().GetMessage())
}

func TestTrafficResponseJSONFlattensStationTraffic(t *testing.T) {
	response := NewTrafficResponse("query-1", -1, sampleTraffic(), scale.Descriptor{DomainMax: 4, Range: scale.Range{Max: 25}}, "traffic-worker")

	responseBytes, err := json.Marshal(response)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(responseBytes, &decoded))
	stations := decoded["stations"].([]any)
	first := stations[0].(map[string]any)
	assert.Equal(t, 4.0, first["departures"])
	assert.Equal(t, 4.0, first["total_traffic"])
	assert.Equal(t, "A", first["station"].(map[string]any)["code"])
	assert.Contains(t, first, "radius")
}
