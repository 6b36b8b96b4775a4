package geo

import (
	"math"
	"sort"
)

// earthRadiusMeters is the mean Earth radius used for great-circle distance.
const earthRadiusMeters = 6371000

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Haversine returns the great-circle distance between two points in meters.
func Haversine(a, b Point) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusMeters * c
}

// Centroid returns the arithmetic mean of the given points. The second
// return value is false when the slice is empty.
func Centroid(points []Point) (Point, bool) {
	if len(points) == 0 {
		return Point{}, false
	}
	var latSum, lonSum float64
	for _, p := range points {
		latSum += p.Lat
		lonSum += p.Lon
	}
	n := float64(len(points))
	return Point{Lat: latSum / n, Lon: lonSum / n}, true
}

// Candidate is a named location eligible for ranking.
type Candidate struct {
	Name     string
	Location Point
}

// Ranked is a candidate annotated with its distance from the ranking origin.
type Ranked struct {
	Name     string
	Location Point
	Meters   float64
}

// RankByDistance orders candidates by ascending great-circle distance from
// origin, ties broken lexicographically by name, and returns at most k
// entries. k <= 0 means no truncation.
func RankByDistance(origin Point, candidates []Candidate, k int) []Ranked {
	ranked := make([]Ranked, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, Ranked{
			Name:     c.Name,
			Location: c.Location,
			Meters:   Haversine(origin, c.Location),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Meters != ranked[j].Meters {
			return ranked[i].Meters < ranked[j].Meters
		}
		return ranked[i].Name < ranked[j].Name
	})
	if k > 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
