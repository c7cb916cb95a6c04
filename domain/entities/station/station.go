package station

// StationData struct that contains the data of a station
// + Code: short code of the station, it's the key used to join with trips
// + Name: name of the station
// + Latitude, Longitude: position of the station. Opaque to the traffic engine
// + Capacity: amount of docks
type StationData struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Capacity  int     `json:"capacity"`
}

// GetCoordinates returns latitude and longitude of the station
func (sd *StationData) GetCoordinates() (float64, float64) {
	return sd.Latitude, sd.Longitude
}

// HasValidCoordinates returns true if latitude is between -90 and 90, longitude is between -180 and 180
// and the station is not placed at (0, 0), which is how the source marks a missing position
func (sd *StationData) HasValidCoordinates() bool {
	if sd.Latitude == 0 && sd.Longitude == 0 {
		return false
	}
	return -90 <= sd.Latitude && sd.Latitude <= 90 && -180 <= sd.Longitude && sd.Longitude <= 180
}

// IndexByCode returns a map from station code to station. If a code is repeated the first station wins
func IndexByCode(stations []*StationData) map[string]*StationData {
	stationsMap := make(map[string]*StationData, len(stations))
	for idx := range stations {
		stationData := stations[idx]
		if _, ok := stationsMap[stationData.Code]; ok {
			continue
		}
		stationsMap[stationData.Code] = stationData
	}
	return stationsMap
}
