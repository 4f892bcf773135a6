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

// overlaps - closed interval test: does [aStart, aStop] touch [bStart, bStop].
// Either of a's endpoints landing inside b counts
func overlaps(aStart float64, aStop float64, bStart float64, bStop float64) bool {
	return (bStart <= aStart && aStart <= bStop) || (bStart <= aStop && aStop <= bStop)
}

// OverlappingTrack - finds the track in otherProduct whose acquisition time
// interval overlaps the given track's. Concurrent acquisitions share a
// timestamp-derived id by convention but not byte-for-byte, so the match is
// on epoch bounds. Tracks without label bounds never match. Returns false if
// nothing overlaps
func (c *Catalog) OverlappingTrack(product string, trackID string, otherProduct string) (string, bool) {
	track, err := c.Track(product, trackID)
	if err != nil || !track.HasBounds {
		return "", false
	}

	for _, otherID := range c.TrackIDs(otherProduct) {
		other := c.Products[otherProduct][otherID]
		if !other.HasBounds {
			continue
		}
		if overlaps(track.StartEpoch, track.StopEpoch, other.StartEpoch, other.StopEpoch) {
			return otherID, true
		}
	}
	return "", false
}
