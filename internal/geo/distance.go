// Package geo computes along-track cumulative distances between station
// coordinates under a spherical (haversine) or ellipsoidal (Vincenty
// geodesic) Earth model.
//
// The two models must track each other closely: for adjacent points under
// 100 km apart the results agree within 0.1% relative error, which the test
// suite checks as a regression contract. The haversine model is cheap and
// adequate for track plots; the geodesic model is the reference for reported
// distances.
package geo

import (
	"fmt"

	"github.com/luigallucci/HYDRA/internal/domain"
)

// Method selects the Earth model for distance computation.
type Method int

const (
	Haversine Method = iota
	Geodesic
)

// ParseMethod maps the CLI method names to a Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "haversine":
		return Haversine, nil
	case "geodesic":
		return Geodesic, nil
	}
	return 0, &domain.InvalidInputError{Reason: fmt.Sprintf("unknown distance method %q (want haversine or geodesic)", s)}
}

func (m Method) String() string {
	switch m {
	case Haversine:
		return "haversine"
	case Geodesic:
		return "geodesic"
	}
	return "?"
}

// Point is one station position in decimal degrees.
type Point struct {
	StationID string
	Lat       float64
	Lon       float64
}

// Entry is one element of a distance series. Approximate marks segments
// where the geodesic iteration did not converge and the haversine fallback
// was used instead.
type Entry struct {
	StationID     string  `json:"station_id"`
	CumulativeKm  float64 `json:"cumulative_distance"`
	IncrementalKm float64 `json:"incremental_distance"`
	Approximate   bool    `json:"approximate,omitempty"`
}

// DistanceSeries holds one entry per input point, in input order. The first
// entry's cumulative distance is zero and cumulative values are
// non-decreasing.
type DistanceSeries []Entry

// TotalKm returns the cumulative distance of the last entry.
func (s DistanceSeries) TotalKm() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].CumulativeKm
}

// Compute produces the cumulative distance series for an ordered coordinate
// sequence. Order is the caller's responsibility: the series follows the
// input's fixed order and reordering the input changes the result.
//
// An empty sequence fails with an InvalidInputError; an out-of-range
// coordinate fails with a CoordinateError. A single point yields one entry
// with zero cumulative and incremental distance.
func Compute(points []Point, m Method) (DistanceSeries, error) {
	if len(points) == 0 {
		return nil, &domain.InvalidInputError{Reason: "empty coordinate sequence"}
	}
	for _, p := range points {
		if !domain.ValidCoordinates(p.Lat, p.Lon) {
			return nil, &domain.CoordinateError{StationID: p.StationID, Lat: p.Lat, Lon: p.Lon}
		}
	}

	series := make(DistanceSeries, 0, len(points))
	series = append(series, Entry{StationID: points[0].StationID})

	cumulative := 0.0
	for i := 1; i < len(points); i++ {
		seg, approx := segment(points[i-1], points[i], m)
		cumulative += seg
		series = append(series, Entry{
			StationID:     points[i].StationID,
			CumulativeKm:  cumulative,
			IncrementalKm: seg,
			Approximate:   approx,
		})
	}
	return series, nil
}

// segment returns one inter-point distance in km and whether the result is a
// fallback approximation.
func segment(a, b Point, m Method) (km float64, approximate bool) {
	switch m {
	case Geodesic:
		km, ok := vincentyKm(a.Lat, a.Lon, b.Lat, b.Lon)
		if ok {
			return km, false
		}
		// Nearly antipodal points can defeat the Vincenty iteration; fall
		// back to the spherical result and flag the segment.
		return haversineKm(a.Lat, a.Lon, b.Lat, b.Lon), true
	default:
		return haversineKm(a.Lat, a.Lon, b.Lat, b.Lon), false
	}
}
