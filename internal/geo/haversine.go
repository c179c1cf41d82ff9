package geo

import "math"

// meanEarthRadiusKm is the IUGG mean Earth radius R1. Using a single policy
// constant keeps spherical distances reproducible across call sites.
const meanEarthRadiusKm = 6371.0088

// haversineKm returns the great-circle distance in km between two points on a
// sphere of radius meanEarthRadiusKm.
//
// The longitude delta is normalized into [-180, 180] first, so a crossing of
// the antimeridian (e.g. 179°E to 179°W) takes the short way around instead
// of a naive 358° sweep.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(normalizeLonDelta(lon2 - lon1))

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat + math.Cos(radians(lat1))*math.Cos(radians(lat2))*sinLon*sinLon
	if h > 1 {
		h = 1
	}
	return 2 * meanEarthRadiusKm * math.Asin(math.Sqrt(h))
}

// normalizeLonDelta maps a longitude difference in degrees into [-180, 180].
func normalizeLonDelta(d float64) float64 {
	for d > 180 {
		d -= 360
	}
	for d < -180 {
		d += 360
	}
	return d
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
