package pricing

import (
	"math"

	"github.com/nekruzvatanshoev/shipcalc/pkg/shipcalc/dal"
)

const earthRadiusMeters = 6378137.0

// DistanceMeters returns the great-circle distance between a and b rounded to whole meters
func DistanceMeters(a, b dal.Coordinates) float64 {
	lat1 := degreesToRadians(a.Latitude)
	lat2 := degreesToRadians(b.Latitude)
	dLng := degreesToRadians(a.Longitude) - degreesToRadians(b.Longitude)

	cos := math.Sin(lat1)*math.Sin(lat2) + math.Cos(lat1)*math.Cos(lat2)*math.Cos(dLng)
	// rounding can push identical points slightly past 1
	cos = math.Max(-1, math.Min(1, cos))

	return math.Round(math.Acos(cos) * earthRadiusMeters)
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
