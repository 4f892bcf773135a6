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

package moongeo

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	// Quarter circumference pole to equator
	want := MoonRadiusMeters * math.Pi / 2
	got := Distance(0, 0, 90, 0)
	if math.Abs(got-want) > 1 {
		t.Errorf("Distance got %v, want %v", got, want)
	}

	if Distance(10, 20, 10, 20) != 0 {
		t.Error("Distance between identical points should be 0")
	}
}

func TestIntermediateLatLonEndpoints(t *testing.T) {
	// Whatever the sampling, the raw endpoints are always present and
	// unmodified at the extremes of the result
	pts := IntermediateLatLon([2]float64{-75, -76}, [2]float64{100, 102}, 1e9)

	if len(pts) < 2 {
		t.Fatalf("Got %v points", len(pts))
	}
	first := pts[0]
	last := pts[len(pts)-1]
	if first.Lat != -75 || first.Lon != 100 {
		t.Errorf("First point: %+v", first)
	}
	if last.Lat != -76 || last.Lon != 102 {
		t.Errorf("Last point: %+v", last)
	}
}

func TestIntermediateLatLonSampling(t *testing.T) {
	// ~30 degrees along the equator is ~909km, so 100km sampling gives 9
	// interior points plus the two endpoints
	pts := IntermediateLatLon([2]float64{0, 0}, [2]float64{0, 30}, 100e3)
	if len(pts) != 11 {
		t.Fatalf("Got %v points", len(pts))
	}

	// Interior points stay on the equator, spaced 100km
	for i, pt := range pts[1 : len(pts)-1] {
		if math.Abs(pt.Lat) > 1e-9 {
			t.Errorf("Point %v off equator: %+v", i, pt)
		}
		wantLon := float64(i+1) * 100e3 / MoonRadiusMeters * 180 / math.Pi
		if math.Abs(pt.Lon-wantLon) > 1e-6 {
			t.Errorf("Point %v longitude %v, want %v", i, pt.Lon, wantLon)
		}
	}
}

func TestIntermediateLatLonNormalizesLongitude(t *testing.T) {
	// A westward path crossing 0 longitude: interpolated points must come
	// back in 0-360, never negative
	pts := IntermediateLatLon([2]float64{0, 0}, [2]float64{5, 355}, 50e3)
	if len(pts) < 3 {
		t.Fatalf("Got %v points", len(pts))
	}
	for _, pt := range pts[1 : len(pts)-1] {
		if pt.Lon < 0 {
			t.Fatalf("Interpolated point has negative longitude: %+v", pt)
		}
	}
}

func TestBoxPolygonContains(t *testing.T) {
	poly := BoxPolygon([2]float64{-76, -75}, [2]float64{100, 102})

	cases := []struct {
		lon, lat float64
		want     bool
	}{
		{101, -75.5, true},  // interior
		{100, -75, true},    // corner, boundary inclusive
		{102, -76, true},    // opposite corner
		{101, -75, true},    // edge
		{100, -75.5, true},  // edge
		{99.9, -75.5, false},
		{101, -74.9, false},
		{205, -75.5, false}, // far outside in longitude
	}

	for _, c := range cases {
		if got := poly.Contains(c.lon, c.lat); got != c.want {
			t.Errorf("Contains(%v, %v) = %v, want %v", c.lon, c.lat, got, c.want)
		}
	}
}
