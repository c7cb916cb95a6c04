package trip

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	dataErrors "bikeflow/loaders/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tripsCSV = `ride_id,bike_type,started_at,ended_at,start_station_id,end_station_id,is_member
r1,classic,2024-03-01 11:40:00.123,2024-03-01 11:45:30.000,A32000,B32001,1
r2,electric,2024-03-01 11:45:00,2024-03-01 11:50:00,B32001,A32000,0
r3,classic,2024-03-01 12:00:00,2024-03-01 12:10:00,,A32000,1
r4,classic,2024-03-01 12:00:00
r5,classic,not-a-date,2024-03-01 12:10:00,A32000,B32001,1
`

func TestLoadTrips(t *testing.T) {
	result, err := LoadTrips(strings.NewReader(tripsCSV), DefaultValidColumns, ',')

	require.NoError(t, err)
	require.Len(t, result.Trips, 3)
	assert.Equal(t, 2, result.Dropped)

	first := result.Trips[0]
	assert.Equal(t, "2024-03-01 11:40:00.123", first.StartedAt)
	assert.Equal(t, "2024-03-01 11:45:30.000", first.EndedAt)
	assert.Equal(t, "A32000", first.StartStationCode)
	assert.Equal(t, "B32001", first.EndStationCode)

	// timestamps are validated when the trips are indexed, not here
	assert.Equal(t, "not-a-date", result.Trips[2].StartedAt)
}

func TestLoadTripsCustomColumnsAndDelimiter(t *testing.T) {
	data := "start;end;from;to\n08:00;08:30;X;Y\n"
	columns := ValidColumns{StartedAt: 0, EndedAt: 1, StartStationCode: 2, EndStationCode: 3}

	result, err := LoadTrips(strings.NewReader(data), columns, ';')

	require.NoError(t, err)
	require.Len(t, result.Trips, 1)
	assert.Equal(t, "X", result.Trips[0].StartStationCode)
	assert.Equal(t, "08:30", result.Trips[0].EndedAt)
}

func TestLoadTripsEmpty(t *testing.T) {
	result, err := LoadTrips(strings.NewReader(""), DefaultValidColumns, ',')

	require.NoError(t, err)
	assert.Empty(t, result.Trips)
	assert.Equal(t, 0, result.Dropped)
}

func TestGetTripDataMissingColumns(t *testing.T) {
	_, err := getTripData([]string{"r1", "classic"}, DefaultValidColumns)

	assert.ErrorIs(t, err, dataErrors.ErrInvalidTripData)
	assert.ErrorIs(t, err, dataErrors.ErrMissingColumns)
}

func TestGetTripDataMissingStationCode(t *testing.T) {
	_, err := getTripData([]string{"r1", "classic", "2024-03-01 11:40:00", "2024-03-01 11:45:00", " ", "B32001"}, DefaultValidColumns)

	assert.ErrorIs(t, err, dataErrors.ErrInvalidTripData)
	assert.ErrorIs(t, err, dataErrors.ErrMissingStationCode)
}

func TestLoadTripsFromFile(t *testing.T) {
	tripsPath := filepath.Join(t.TempDir(), "trips.csv")
	require.NoError(t, os.WriteFile(tripsPath, []byte(tripsCSV), 0o600))

	result, err := LoadTripsFromFile(tripsPath, DefaultValidColumns, ',')

	require.NoError(t, err)
	assert.Len(t, result.Trips, 3)

	_, err = LoadTripsFromFile(filepath.Join(t.TempDir(), "missing.csv"), DefaultValidColumns, ',')
	assert.ErrorIs(t, err, dataErrors.ErrOpeningFile)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
