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

// Polygon - a simple closed polygon in (lon, lat) plane coordinates. Vertices
// are listed in order, the closing edge back to the first vertex is implied
type Polygon struct {
	Lons []float64
	Lats []float64
}

// BoxPolygon - rectangle from lat/lon limits, corners in (lon, lat) order
func BoxPolygon(latLim [2]float64, lonLim [2]float64) Polygon {
	return Polygon{
		Lons: []float64{lonLim[0], lonLim[0], lonLim[1], lonLim[1]},
		Lats: []float64{latLim[0], latLim[1], latLim[1], latLim[0]},
	}
}

// Contains - boundary-inclusive point-in-polygon test. A point exactly on an
// edge or vertex counts as inside - a track ending on the box corner must
// match the box
func (p Polygon) Contains(lon float64, lat float64) bool {
	n := len(p.Lons)
	if n < 3 {
		return false
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		x1, y1 := p.Lons[j], p.Lats[j]
		x2, y2 := p.Lons[i], p.Lats[i]

		if onSegment(lon, lat, x1, y1, x2, y2) {
			return true
		}

		// Standard even-odd ray cast towards +lon
		if (y1 > lat) != (y2 > lat) {
			xCross := x1 + (lat-y1)/(y2-y1)*(x2-x1)
			if lon < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

func onSegment(px float64, py float64, x1 float64, y1 float64, x2 float64, y2 float64) bool {
	// Collinear and within the segment's bounding box
	cross := (x2-x1)*(py-y1) - (y2-y1)*(px-x1)
	if cross != 0 {
		return false
	}
	if px < min(x1, x2) || px > max(x1, x2) || py < min(y1, y2) || py > max(y1, y2) {
		return false
	}
	return true
}
