package model

import "math"

// Distance is the planar Euclidean norm over raw latitude/longitude degrees.
// There is no unit conversion and no curvature correction: the value only ranks
// points by proximity and is not a length on the Earth's surface. The database
// computes the same expression when a fetch is ordered by distance.
func Distance(a, b Coordinates) float64 {
	dLat := a.Latitude - b.Latitude
	dLng := a.Longitude - b.Longitude
	return math.Sqrt(dLat*dLat + dLng*dLng)
}
