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

package catalog

import (
	"github.com/pixlise/lrs-tools/core/moongeo"
)

// ProductTrack - one spatial filter hit
type ProductTrack struct {
	Product string
	TrackID string
}

// TracksInBox - every track whose great-circle ground path between its label
// endpoints crosses the lat/lon box. The box and track longitudes must share
// the 0-360 convention, interpolated points are normalized into it.
//
// This is endpoint interpolation, not the full navigation solution: a track
// whose chord clips the box between sample points can be missed on a coarse
// sampling. The nfoc pseudo-product duplicates the high-res geometry and is
// skipped
func (c *Catalog) TracksInBox(latLim [2]float64, lonLim [2]float64, samplingMeters float64) []ProductTrack {
	poly := moongeo.BoxPolygon(latLim, lonLim)

	result := []ProductTrack{}
	for _, product := range c.ProductNames() {
		if product == NfocProduct {
			continue
		}

		for _, trackID := range c.TrackIDs(product) {
			track := c.Products[product][trackID]
			if !track.HasBounds {
				continue
			}

			pts := moongeo.IntermediateLatLon(track.LatLim, track.LonLim, samplingMeters)
			for _, pt := range pts {
				if poly.Contains(pt.Lon, pt.Lat) {
					result = append(result, ProductTrack{Product: product, TrackID: trackID})
					break
				}
			}
		}
	}
	return result
}
