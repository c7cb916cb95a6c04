package trip

import (
	"fmt"
	"strings"
	"time"
)

// MinutesPerDay amount of minute-of-day slots in a day
const MinutesPerDay = 1440

// DefaultTimestampLayouts layouts tried, in order, when a trip timestamp is parsed
var DefaultTimestampLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"01/02/2006 15:04",
}

// TripData struct that contains a raw trip row as it comes from the source file
// + StartedAt: timestamp in which the trip begins, not parsed yet
// + EndedAt: timestamp in which the trip ends, not parsed yet
// + StartStationCode: station code in which the trip begins
// + EndStationCode: station code in which the trip ends
type TripData struct {
	StartedAt        string `json:"started_at"`
	EndedAt          string `json:"ended_at"`
	StartStationCode string `json:"start_station_code"`
	EndStationCode   string `json:"end_station_code"`
}

// TripRecord is a trip reduced to what the traffic engine needs. Once built it cannot change.
// + StartStationCode: station code in which the trip begins
// + EndStationCode: station code in which the trip ends
// + StartedAtMinute: minute of the day in which the trip begins, in [0, 1439]
// + EndedAtMinute: minute of the day in which the trip ends, in [0, 1439]
type TripRecord struct {
	StartStationCode string `json:"start_station_code"`
	EndStationCode   string `json:"end_station_code"`
	StartedAtMinute  int    `json:"started_at_minute"`
	EndedAtMinute    int    `json:"ended_at_minute"`
}

// NewTripRecord builds a TripRecord from a raw trip. If any of the timestamps cannot be parsed
// with the given layouts an error is returned and no record is built.
func NewTripRecord(tripData *TripData, layouts []string) (*TripRecord, error) {
	startedAt, err := ParseTimestamp(tripData.StartedAt, layouts)
	if err != nil {
		return nil, err
	}

	endedAt, err := ParseTimestamp(tripData.EndedAt, layouts)
	if err != nil {
		return nil, err
	}

	return &TripRecord{
		StartStationCode: tripData.StartStationCode,
		EndStationCode:   tripData.EndStationCode,
		StartedAtMinute:  MinuteOfDay(startedAt),
		EndedAtMinute:    MinuteOfDay(endedAt),
	}, nil
}

// ParseTimestamp tries each layout until one of them parses the value. If layouts is empty
// DefaultTimestampLayouts is used.
func ParseTimestamp(value string, layouts []string) (time.Time, error) {
	if len(layouts) == 0 {
		layouts = DefaultTimestampLayouts
	}

	value = strings.TrimSpace(value)
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp %q does not match any of %v", value, layouts)
}

// MinuteOfDay returns hour*60 + minute of the wall clock of t, ignoring the date
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// GetStartedAtMinute returns the minute in which the trip departs
func (tr *TripRecord) GetStartedAtMinute() int {
	return tr.StartedAtMinute
}

// GetEndedAtMinute returns the minute in which the trip arrives
func (tr *TripRecord) GetEndedAtMinute() int {
	return tr.EndedAtMinute
}
