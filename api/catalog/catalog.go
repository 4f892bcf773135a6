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

// The catalog of LRS observation tracks discovered in the data hierarchy.
// Built once per session by walking the storage tree, then read-only. A
// rebuild recomputes everything from scratch, nothing is patched in place.
package catalog

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/pixlise/lrs-tools/core/logger"
)

// Track - one contiguous observation pass within a product. The ID is the
// 14 character timestamp-derived key shared by convention across products
// acquired concurrently
type Track struct {
	ID    string
	Files []string

	// Bounds below are only valid when HasBounds is set. A track that has no
	// label file has no usable time/position bounds and is skipped by time
	// and space queries
	HasBounds bool

	StartTime string
	StopTime  string

	StartEpoch float64
	StopEpoch  float64

	LatLim [2]float64
	LonLim [2]float64
}

// Catalog - product name -> track id -> track
type Catalog struct {
	Products map[string]map[string]*Track

	log logger.ILogger
}

// NewCatalog - an empty catalog. Mainly for tests, production code gets one
// from Builder.Build
func NewCatalog(log logger.ILogger) *Catalog {
	if log == nil {
		log = &logger.NullLogger{}
	}
	return &Catalog{
		Products: map[string]map[string]*Track{},
		log:      log,
	}
}

// ProductNames - all product names, sorted
func (c *Catalog) ProductNames() []string {
	names := maps.Keys(c.Products)
	slices.Sort(names)
	return names
}

// TrackIDs - track ids of one product, sorted
func (c *Catalog) TrackIDs(product string) []string {
	ids := maps.Keys(c.Products[product])
	slices.Sort(ids)
	return ids
}

// Track - looks up one track
func (c *Catalog) Track(product string, trackID string) (*Track, error) {
	tracks, ok := c.Products[product]
	if !ok {
		return nil, errors.Errorf("No such product: %v", product)
	}
	track, ok := tracks[trackID]
	if !ok {
		return nil, errors.Errorf("No track %v in product %v", trackID, product)
	}
	return track, nil
}

func (c *Catalog) addFile(product string, trackID string, filePath string) {
	tracks, ok := c.Products[product]
	if !ok {
		tracks = map[string]*Track{}
		c.Products[product] = tracks
	}

	track, ok := tracks[trackID]
	if !ok {
		track = &Track{ID: trackID}
		tracks[trackID] = track
	}
	track.Files = append(track.Files, filePath)
}
