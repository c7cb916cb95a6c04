package errors

import "errors"

var (
	ErrInvalidTripData    = errors.New("invalid trip data")
	ErrInvalidStationData = errors.New("invalid station data")
	ErrMissingColumns     = errors.New("row has fewer columns than expected")
	ErrMissingStationCode = errors.New("missing station code")
	ErrOpeningFile        = errors.New("error opening data file")
	ErrInvalidFileFormat  = errors.New("invalid data file format")
)
