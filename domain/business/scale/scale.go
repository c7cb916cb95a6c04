package scale

import (
	"bikeflow/domain/business/stationtraffic"
	"bikeflow/domain/business/window"
	"math"
)

// FlowBucket representative value of a quantized flow ratio, used for categorical colors
type FlowBucket float64

const (
	// FlowArrivals stations where most of the traffic are arrivals
	FlowArrivals FlowBucket = 0
	// FlowBalanced stations with similar departures and arrivals
	FlowBalanced FlowBucket = 0.5
	// FlowDepartures stations where most of the traffic are departures
	FlowDepartures FlowBucket = 1
)

var flowBuckets = []FlowBucket{FlowArrivals, FlowBalanced, FlowDepartures}

// Range output range of the size encoding
type Range struct {
	Min float64 `json:"min" yaml:"min" validate:"gte=0"`
	Max float64 `json:"max" yaml:"max" validate:"gtefield=Min"`
}

// Ranges output ranges used with and without a time window
type Ranges struct {
	AllDay   Range `json:"all_day" yaml:"all_day"`
	Windowed Range `json:"windowed" yaml:"windowed"`
}

// DefaultRanges wide range with small dots for the whole day. A window has fewer trips per
// station, so it gets a raised minimum and a bigger maximum.
var DefaultRanges = Ranges{
	AllDay:   Range{Min: 0, Max: 25},
	Windowed: Range{Min: 3, Max: 50},
}

// Descriptor square root scale from [0, DomainMax] to Range, used to size the stations
type Descriptor struct {
	DomainMax int   `json:"domain_max"`
	Range     Range `json:"range"`
	Windowed  bool  `json:"windowed"`
}

// For returns the scale descriptor for the given traffic. The range depends on whether the
// filter has a window or not.
func For(traffic []stationtraffic.StationTraffic, filter window.Filter, ranges Ranges) Descriptor {
	outputRange := ranges.Windowed
	if filter.IsAny() {
		outputRange = ranges.AllDay
	}

	return Descriptor{
		DomainMax: stationtraffic.MaxTotalTraffic(traffic),
		Range:     outputRange,
		Windowed:  !filter.IsAny(),
	}
}

// Radius maps totalTraffic to the output range. Values outside the domain are clamped and
// an empty domain maps everything to Range.Min.
func (d Descriptor) Radius(totalTraffic int) float64 {
	if d.DomainMax <= 0 || totalTraffic <= 0 {
		return d.Range.Min
	}

	value := math.Sqrt(float64(totalTraffic)) / math.Sqrt(float64(d.DomainMax))
	if value > 1 {
		value = 1
	}
	return d.Range.Min + value*(d.Range.Max-d.Range.Min)
}

// QuantizeFlow maps a flow ratio to one of three buckets splitting [0, 1] in equal parts.
// Ratios outside [0, 1] are clamped.
func QuantizeFlow(ratio float64) FlowBucket {
	if math.IsNaN(ratio) || ratio < 0 {
		return flowBuckets[0]
	}
	if ratio >= 1 {
		return flowBuckets[len(flowBuckets)-1]
	}

	idx := int(math.Floor(ratio * float64(len(flowBuckets))))
	if idx >= len(flowBuckets) {
		idx = len(flowBuckets) - 1
	}
	return flowBuckets[idx]
}
