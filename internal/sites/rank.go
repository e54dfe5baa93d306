package sites

import (
	"math"
	"sort"

	"heritage/internal/models"
)

// earthRadiusMeters is the spherical earth radius used for great-circle math.
const earthRadiusMeters = 6371000

// Haversine returns the great-circle distance in meters between two points.
func Haversine(a, b models.Coordinate) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusMeters * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Distance returns the distance in meters from ref to the site. Distances are
// derived on demand and never stored on the Site itself.
func Distance(ref models.Coordinate, s models.Site) float64 {
	return Haversine(ref, s.Point())
}

// RankByDistance returns a new slice with the same sites stably sorted by
// ascending distance from ref; sites at equal distance keep their relative
// input order. A nil reference is a no-op copy. The input slice is never
// mutated.
func RankByDistance(ref *models.Coordinate, in []models.Site) []models.Site {
	out := make([]models.Site, len(in))
	copy(out, in)
	if ref == nil {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		return Distance(*ref, out[i]) < Distance(*ref, out[j])
	})
	return out
}
