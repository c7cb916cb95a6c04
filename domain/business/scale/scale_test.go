package scale

import (
	"math"
	"testing"

	"bikeflow/domain/business/stationtraffic"
	"bikeflow/domain/business/window"
	"github.com/stretchr/testify/assert"
)

func trafficWithTotals(totals ...int) []stationtraffic.StationTraffic {
	traffic := make([]stationtraffic.StationTraffic, 0, len(totals))
	for _, total := range totals {
		traffic = append(traffic, stationtraffic.StationTraffic{TotalTraffic: total})
	}
	return traffic
}

func TestForSelectsRangeByFilter(t *testing.T) {
	traffic := trafficWithTotals(4, 16, 9)

	allDay := For(traffic, window.Any(), DefaultRanges)
	assert.Equal(t, 16, allDay.DomainMax)
	assert.Equal(t, DefaultRanges.AllDay, allDay.Range)
	assert.False(t, allDay.Windowed)

	windowed := For(traffic, window.At(480), DefaultRanges)
	assert.Equal(t, 16, windowed.DomainMax)
	assert.Equal(t, DefaultRanges.Windowed, windowed.Range)
	assert.True(t, windowed.Windowed)
}

func TestRadius(t *testing.T) {
	descriptor := Descriptor{DomainMax: 16, Range: Range{Min: 0, Max: 25}}

	assert.Equal(t, 0.0, descriptor.Radius(0))
	assert.InDelta(t, 12.5, descriptor.Radius(4), 1e-9)
	assert.InDelta(t, 25.0, descriptor.Radius(16), 1e-9)
	assert.InDelta(t, 25.0, descriptor.Radius(100), 1e-9)

	previous := -1.0
	for total := 0; total <= 16; total++ {
		radius := descriptor.Radius(total)
		assert.Greater(t, radius, previous)
		previous = radius
	}
}

func TestRadiusEmptyDomain(t *testing.T) {
	descriptor := For(nil, window.At(0), DefaultRanges)

	assert.Equal(t, 0, descriptor.DomainMax)
	assert.Equal(t, 3.0, descriptor.Radius(0))
	assert.Equal(t, 3.0, descriptor.Radius(10))
}

func TestQuantizeFlow(t *testing.T) {
	assert.Equal(t, FlowArrivals, QuantizeFlow(0))
	assert.Equal(t, FlowArrivals, QuantizeFlow(0.33))
	assert.Equal(t, FlowBalanced, QuantizeFlow(1.0/3))
	assert.Equal(t, FlowBalanced, QuantizeFlow(0.5))
	assert.Equal(t, FlowBalanced, QuantizeFlow(0.66))
	assert.Equal(t, FlowDepartures, QuantizeFlow(0.67))
	assert.Equal(t, FlowDepartures, QuantizeFlow(1))
	assert.Equal(t, FlowArrivals, QuantizeFlow(-0.2))
	assert.Equal(t, FlowDepartures, QuantizeFlow(1.7))
	assert.Equal(t, FlowArrivals, QuantizeFlow(math.NaN()))
	assert.Equal(t, FlowBalanced, QuantizeFlow(stationtraffic.NeutralFlowRatio))
}
