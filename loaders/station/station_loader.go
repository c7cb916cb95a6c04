package station

import (
	"bikeflow/domain/entities/station"
	dataErrors "bikeflow/loaders/errors"
	"encoding/json"
	"fmt"
	log "github.com/sirupsen/logrus"
	"io"
	"os"
	"strings"
)

const loaderType = "stations-loader"

// stationInformation a station as it comes in a GBFS station_information feed
type stationInformation struct {
	StationID string  `json:"station_id"`
	ShortName string  `json:"short_name"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Capacity  int     `json:"capacity"`
}

type stationsFeed struct {
	Data struct {
		Stations []stationInformation `json:"stations"`
	} `json:"data"`
}

// LoadResult stations read from a source
// + Stations: valid stations, in the same order as the source
// + Dropped: amount of stations that were skipped
type LoadResult struct {
	Stations []*station.StationData
	Dropped  int
}

// LoadStationsFromFile opens filepath and reads it with LoadStations
func LoadStationsFromFile(filepath string) (*LoadResult, error) {
	dataFile, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", dataErrors.ErrOpeningFile, filepath, err)
	}

	defer func(dataFile *os.File) {
		err := dataFile.Close()
		if err != nil {
			log.Errorf("[loader: %s] error closing %s: %s", loaderType, filepath, err.Error())
		}
	}(dataFile)

	result, err := LoadStations(dataFile)
	if err != nil {
		return nil, err
	}

	log.Infof("[loader: %s][file: %s][status: OK] %v stations read, %v dropped", loaderType, filepath, len(result.Stations), result.Dropped)
	return result, nil
}

// LoadStations reads a GBFS station_information document. The short name of each station is
// the code used in trips; stations without it are skipped. Extra fields are ignored.
func LoadStations(reader io.Reader) (*LoadResult, error) {
	var feed stationsFeed
	err := json.NewDecoder(reader).Decode(&feed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dataErrors.ErrInvalidFileFormat, err)
	}

	result := &LoadResult{}
	for idx := range feed.Data.Stations {
		stationData, err := getStationData(feed.Data.Stations[idx])
		if err != nil {
			log.Debugf("[loader: %s][station: %v] dropping station: %s", loaderType, idx, err.Error())
			result.Dropped++
			continue
		}

		if !stationData.HasValidCoordinates() {
			log.Debugf("[loader: %s][station: %s] station without valid coordinates", loaderType, stationData.Code)
		}
		result.Stations = append(result.Stations, stationData)
	}

	return result, nil
}

func getStationData(information stationInformation) (*station.StationData, error) {
	code := strings.TrimSpace(information.ShortName)
	if code == "" {
		return nil, fmt.Errorf("%w (station_id %q): %w", dataErrors.ErrMissingStationCode, information.StationID, dataErrors.ErrInvalidStationData)
	}

	return &station.StationData{
		Code:      code,
		Name:      information.Name,
		Latitude:  information.Latitude,
		Longitude: information.Longitude,
		Capacity:  information.Capacity,
	}, nil
}
