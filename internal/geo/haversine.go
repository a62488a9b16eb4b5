// Forkcast - Personalized Restaurant Recommendation Service
// Copyright 2026 Forkcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/forkcast/forkcast

package geo

import "math"

// earthRadiusM is the mean earth radius in meters (spherical model).
const earthRadiusM = 6371000.0

// Displacement calculates the great-circle distance between two points
// using the haversine formula. Returns distance in meters.
func Displacement(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180.0
	lon1Rad := lon1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0
	lon2Rad := lon2 * math.Pi / 180.0

	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c
}

// DisplacementMeters rounds Displacement to the nearest meter.
func DisplacementMeters(lat1, lon1, lat2, lon2 float64) int {
	return int(math.Round(Displacement(lat1, lon1, lat2, lon2)))
}
