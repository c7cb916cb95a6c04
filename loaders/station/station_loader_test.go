package station

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	dataErrors "bikeflow/loaders/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stationsJSON = `{
  "last_updated": 1709251200,
  "data": {
    "stations": [
      {"station_id": "1", "short_name": "A32000", "name": "MIT at Mass Ave", "lat": 42.3581, "lon": -71.0936, "capacity": 27, "region_id": "10"},
      {"station_id": "2", "short_name": "", "name": "No code"},
      {"station_id": "3", "short_name": " B32001 ", "name": "Central Square", "lat": 42.3651, "lon": -71.1030}
    ]
  }
}`

func TestLoadStations(t *testing.T) {
	result, err := LoadStations(strings.NewReader(stationsJSON))

	require.NoError(t, err)
	require.Len(t, result.Stations, 2)
	assert.Equal(t, 1, result.Dropped)

	first := result.Stations[0]
	assert.Equal(t, "A32000", first.Code)
	assert.Equal(t, "MIT at Mass Ave", first.Name)
	assert.Equal(t, 27, first.Capacity)
	assert.True(t, first.HasValidCoordinates())
	assert.Equal(t, "B32001", result.Stations[1].Code)
}

func TestLoadStationsInvalidDocument(t *testing.T) {
	_, err := LoadStations(strings.NewReader("[not json"))

	assert.ErrorIs(t, err, dataErrors.ErrInvalidFileFormat)
}

func TestLoadStationsWithoutStations(t *testing.T) {
	result, err := LoadStations(strings.NewReader(`{"data": {}}`))

	require.NoError(t, err)
	assert.Empty(t, result.Stations)
}

func TestLoadStationsFromFile(t *testing.T) {
	stationsPath := filepath.Join(t.TempDir(), "stations.json")
	require.NoError(t, os.WriteFile(stationsPath, []byte(stationsJSON), 0o600))

	result, err := LoadStationsFromFile(stationsPath)

	require.NoError(t, err)
	assert.Len(t, result.Stations, 2)

	_, err = LoadStationsFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorIs(t, err, dataErrors.ErrOpeningFile)
}

func TestGetStationDataMissingCode(t *testing.T) {
	_, err := getStationData(stationInformation{StationID: "a3a3", Name: "no code"})

	assert.ErrorIs(t, err, dataErrors.ErrInvalidStationData)
	assert.ErrorIs(t, err, dataErrors.ErrMissingStationCode)
}
