package geo

import "fmt"

// SRID for WGS 84, the coordinate system used for all stored points.
const SRID = 4326

// Point is a geographic coordinate pair. Fields are named rather than
// positional so latitude and longitude cannot be swapped silently; the
// longitude-first ordering PostGIS expects is confined to the SQL layer.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewPoint validates coordinate bounds and returns a Point.
func NewPoint(lat, lon float64) (Point, error) {
	if lat < -90 || lat > 90 {
		return Point{}, fmt.Errorf("latitude must be between -90 and 90, got %f", lat)
	}
	if lon < -180 || lon > 180 {
		return Point{}, fmt.Errorf("longitude must be between -180 and 180, got %f", lon)
	}
	return Point{Lat: lat, Lon: lon}, nil
}

// String formats the point as "lat, lon" with six decimal places.
func (p Point) String() string {
	return fmt.Sprintf("%.6f, %.6f", p.Lat, p.Lon)
}
