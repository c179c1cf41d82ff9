package geo

import "math"

// WGS-84 reference ellipsoid.
const (
	wgs84MajorKm  = 6378.137
	wgs84Flatten  = 1 / 298.257223563
	wgs84MinorKm  = wgs84MajorKm * (1 - wgs84Flatten)
	vincentyEps   = 1e-12
	vincentyIters = 100
)

// vincentyKm returns the geodesic distance in km between two points on the
// WGS-84 ellipsoid using Vincenty's inverse formula. The second return is
// false when the iteration fails to converge within vincentyIters steps,
// which happens for nearly antipodal point pairs; callers fall back to the
// spherical result in that case.
func vincentyKm(lat1, lon1, lat2, lon2 float64) (float64, bool) {
	if lat1 == lat2 && normalizeLonDelta(lon1-lon2) == 0 {
		return 0, true
	}

	f := wgs84Flatten
	l := radians(normalizeLonDelta(lon2 - lon1))
	u1 := math.Atan((1 - f) * math.Tan(radians(lat1)))
	u2 := math.Atan((1 - f) * math.Tan(radians(lat2)))

	sinU1, cosU1 := math.Sincos(u1)
	sinU2, cosU2 := math.Sincos(u2)

	lambda := l
	var sinSigma, cosSigma, sigma, cosSqAlpha, cos2SigmaM float64

	converged := false
	for i := 0; i < vincentyIters; i++ {
		sinLambda, cosLambda := math.Sincos(lambda)

		t1 := cosU2 * sinLambda
		t2 := cosU1*sinU2 - sinU1*cosU2*cosLambda
		sinSigma = math.Sqrt(t1*t1 + t2*t2)
		if sinSigma == 0 {
			if sinU1*sinU2+cosU1*cosU2*math.Cos(lambda) > 0 {
				// Coincident points.
				return 0, true
			}
			// Exactly antipodal; the iteration cannot resolve the azimuth.
			return 0, false
		}
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)

		sinAlpha := cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha = 1 - sinAlpha*sinAlpha
		if cosSqAlpha == 0 {
			// Equatorial line.
			cos2SigmaM = 0
		} else {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		}

		c := f / 16 * cosSqAlpha * (4 + f*(4-3*cosSqAlpha))
		prev := lambda
		lambda = l + (1-c)*f*sinAlpha*
			(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))

		if math.Abs(lambda-prev) < vincentyEps {
			converged = true
			break
		}
	}
	if !converged {
		return 0, false
	}

	uSq := cosSqAlpha * (wgs84MajorKm*wgs84MajorKm - wgs84MinorKm*wgs84MinorKm) / (wgs84MinorKm * wgs84MinorKm)
	a := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	b := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))

	deltaSigma := b * sinSigma * (cos2SigmaM + b/4*
		(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
			b/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))

	return wgs84MinorKm * a * (sigma - deltaSigma), true
}
