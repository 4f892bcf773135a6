// Licensed to NASA JPL under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. NASA JPL licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Great-circle geometry on a spherical Moon. Good enough for deciding which
// ground tracks cross a lat/lon box, not for precision navigation.
package moongeo

import (
	"math"
)

// MoonRadiusMeters - spherical Moon radius used throughout
const MoonRadiusMeters = 1737400.0

// LatLon - a point on the surface in degrees
type LatLon struct {
	Lat float64
	Lon float64
}

// Distance - great-circle distance in meters between two points given in
// degrees, by haversine
func Distance(lat1 float64, lon1 float64, lat2 float64, lon2 float64) float64 {
	p1 := lat1 * math.Pi / 180
	p2 := lat2 * math.Pi / 180
	dp := (lat2 - lat1) * math.Pi / 180
	dl := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dp/2)*math.Sin(dp/2) + math.Cos(p1)*math.Cos(p2)*math.Sin(dl/2)*math.Sin(dl/2)
	return MoonRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// initialBearing - forward azimuth in radians from point 1 towards point 2
func initialBearing(lat1 float64, lon1 float64, lat2 float64, lon2 float64) float64 {
	p1 := lat1 * math.Pi / 180
	p2 := lat2 * math.Pi / 180
	dl := (lon2 - lon1) * math.Pi / 180

	y := math.Sin(dl) * math.Cos(p2)
	x := math.Cos(p1)*math.Sin(p2) - math.Sin(p1)*math.Cos(p2)*math.Cos(dl)
	return math.Atan2(y, x)
}

// forward - destination point given start (degrees), bearing (radians) and
// distance (meters). Longitude comes back wrapped to (-180, 180]
func forward(lat float64, lon float64, bearing float64, distMeters float64) LatLon {
	p1 := lat * math.Pi / 180
	l1 := lon * math.Pi / 180
	d := distMeters / MoonRadiusMeters

	p2 := math.Asin(math.Sin(p1)*math.Cos(d) + math.Cos(p1)*math.Sin(d)*math.Cos(bearing))
	l2 := l1 + math.Atan2(math.Sin(bearing)*math.Sin(d), math.Cos(d)-math.Sin(p1)*math.Sin(p2))

	lonDeg := math.Mod(l2*180/math.Pi+540, 360) - 180
	return LatLon{Lat: p2 * 180 / math.Pi, Lon: lonDeg}
}

// IntermediateLatLon - samples the great circle between a track's start and
// stop point every samplingMeters. The interpolated points have negative
// longitudes shifted into 0-360, and the exact endpoints are prepended and
// appended as given so they are always part of the result
func IntermediateLatLon(latLim [2]float64, lonLim [2]float64, samplingMeters float64) []LatLon {
	dist := Distance(latLim[0], lonLim[0], latLim[1], lonLim[1])
	bearing := initialBearing(latLim[0], lonLim[0], latLim[1], lonLim[1])

	npts := int(dist / samplingMeters)

	result := make([]LatLon, 0, npts+2)
	result = append(result, LatLon{Lat: latLim[0], Lon: lonLim[0]})

	for i := 1; i <= npts; i++ {
		pt := forward(latLim[0], lonLim[0], bearing, float64(i)*samplingMeters)
		if pt.Lon < 0 {
			pt.Lon += 360
		}
		result = append(result, pt)
	}

	result = append(result, LatLon{Lat: latLim[1], Lon: lonLim[1]})
	return result
}
