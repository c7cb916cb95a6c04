package trip

import (
	"bikeflow/domain/entities/trip"
	dataErrors "bikeflow/loaders/errors"
	"encoding/csv"
	"errors"
	"fmt"
	log "github.com/sirupsen/logrus"
	"io"
	"os"
	"strings"
)

const loaderType = "trips-loader"

// ValidColumns contains the index of each field to read from a trips row
type ValidColumns struct {
	StartedAt        int `yaml:"started_at" validate:"gte=0"`
	EndedAt          int `yaml:"ended_at" validate:"gte=0"`
	StartStationCode int `yaml:"start_station_code" validate:"gte=0"`
	EndStationCode   int `yaml:"end_station_code" validate:"gte=0"`
}

// DefaultValidColumns column layout of the Bluebikes monthly trips export:
// ride_id,bike_type,started_at,ended_at,start_station_id,end_station_id,is_member
var DefaultValidColumns = ValidColumns{
	StartedAt:        2,
	EndedAt:          3,
	StartStationCode: 4,
	EndStationCode:   5,
}

// LoadResult trips read from a source
// + Trips: rows that have every column, timestamps are not validated at this stage
// + Dropped: amount of rows that were skipped
type LoadResult struct {
	Trips   []*trip.TripData
	Dropped int
}

// LoadTripsFromFile opens filepath and reads it with LoadTrips
func LoadTripsFromFile(filepath string, columns ValidColumns, delimiter rune) (*LoadResult, error) {
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

	result, err := LoadTrips(dataFile, columns, delimiter)
	if err != nil {
		return nil, err
	}

	log.Infof("[loader: %s][file: %s][status: OK] %v trips read, %v rows dropped", loaderType, filepath, len(result.Trips), result.Dropped)
	return result, nil
}

// LoadTrips reads csv rows from reader. The first line is the header and it's dismissed.
// Rows that cannot be read or that do not have the expected columns are skipped and counted,
// they never stop the load. Only an error of the underlying reader is returned.
func LoadTrips(reader io.Reader, columns ValidColumns, delimiter rune) (*LoadResult, error) {
	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true
	csvReader.ReuseRecord = true

	result := &LoadResult{}
	headerRead := false
	line := 0
	for {
		record, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++

		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				log.Debugf("[loader: %s][line: %v] dropping row: %s", loaderType, line, err.Error())
				result.Dropped++
				continue
			}
			return nil, fmt.Errorf("error reading trips: %w", err)
		}

		if !headerRead {
			headerRead = true
			continue
		}

		tripData, err := getTripData(record, columns)
		if err != nil {
			if errors.Is(err, dataErrors.ErrInvalidTripData) {
				log.Debugf("[loader: %s][line: %v] dropping row: %s", loaderType, line, err.Error())
				result.Dropped++
				continue
			}
			return nil, err
		}
		result.Trips = append(result.Trips, tripData)
	}

	return result, nil
}

// getTripData returns a TripData with the fields of the row. Timestamps are kept as they are,
// they are parsed when the trips are indexed.
func getTripData(record []string, columns ValidColumns) (*trip.TripData, error) {
	maxIndex := maxColumn(columns)
	if len(record) <= maxIndex {
		return nil, fmt.Errorf("%w (got %v, need %v): %w", dataErrors.ErrMissingColumns, len(record), maxIndex+1, dataErrors.ErrInvalidTripData)
	}

	startStationCode := strings.TrimSpace(record[columns.StartStationCode])
	endStationCode := strings.TrimSpace(record[columns.EndStationCode])
	if startStationCode == "" || endStationCode == "" {
		return nil, fmt.Errorf("%w: %w", dataErrors.ErrMissingStationCode, dataErrors.ErrInvalidTripData)
	}

	return &trip.TripData{
		StartedAt:        strings.TrimSpace(record[columns.StartedAt]),
		EndedAt:          strings.TrimSpace(record[columns.EndedAt]),
		StartStationCode: startStationCode,
		EndStationCode:   endStationCode,
	}, nil
}

func maxColumn(columns ValidColumns) int {
	maxIndex := columns.StartedAt
	for _, index := range []int{columns.EndedAt, columns.StartStationCode, columns.EndStationCode} {
		if index > maxIndex {
			maxIndex = index
		}
	}
	return maxIndex
}
