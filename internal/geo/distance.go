// Package geo holds the single source of truth for location distance.
package geo

import "math"

// earthRadiusMiles per the Haversine formula.
const earthRadiusMiles = 3958.8

// Miles returns the great-circle distance between two points in miles,
// rounded to one decimal place. NaN inputs propagate as NaN.
func Miles(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return math.Round(earthRadiusMiles*c*10) / 10
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
