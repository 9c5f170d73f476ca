package domain

import "math"

// GeoPoint is a latitude/longitude pair in decimal degrees.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// geoTable is the fixed location reference. It is set at process start and
// never mutated; locations outside this table carry no geo signal.
var geoTable = map[string]GeoPoint{
	"Chennai":   {Latitude: 13.0827, Longitude: 80.2707},
	"Mumbai":    {Latitude: 19.0760, Longitude: 72.8777},
	"Delhi":     {Latitude: 28.6139, Longitude: 77.2090},
	"Bangalore": {Latitude: 12.9716, Longitude: 77.5946},
}

// LookupLocation resolves a location name against the fixed geo table.
func LookupLocation(name string) (GeoPoint, bool) {
	p, ok := geoTable[name]
	return p, ok
}

const earthRadiusKm = 6371.0

// DistanceKm computes the great-circle distance between two points in
// kilometers using the haversine formula.
func DistanceKm(a, b GeoPoint) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
