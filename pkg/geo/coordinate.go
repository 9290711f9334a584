package geo

import "strconv"

// Coordinate is a WGS 84 latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Parse builds a Coordinate from string components, the form the YNAB API
// delivers payee locations in. Returns false when either component is empty
// or not numeric. Values are not range-checked.
func Parse(lat, lng string) (Coordinate, bool) {
	latVal, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return Coordinate{}, false
	}
	lngVal, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return Coordinate{}, false
	}
	return Coordinate{Lat: latVal, Lng: lngVal}, true
}
