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
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pixlise/lrs-tools/core/logger"
)

func addBoundedTrack(cat *Catalog, product string, id string, startEpoch float64, stopEpoch float64, latLim [2]float64, lonLim [2]float64) {
	tracks, ok := cat.Products[product]
	if !ok {
		tracks = map[string]*Track{}
		cat.Products[product] = tracks
	}
	tracks[id] = &Track{
		ID:         id,
		HasBounds:  true,
		StartEpoch: startEpoch,
		StopEpoch:  stopEpoch,
		LatLim:     latLim,
		LonLim:     lonLim,
	}
}

func TestProductMatch(t *testing.T) {
	log := &logger.MemoryLogger{}
	cat := NewCatalog(log)
	cat.Products[HighProduct] = map[string]*Track{}
	cat.Products[Sar05Product] = map[string]*Track{}
	cat.Products[Sar10Product] = map[string]*Track{}

	got, err := cat.ProductMatch("sar05")
	if err != nil || got != Sar05Product {
		t.Errorf("sar05: %v, %v", got, err)
	}

	// Several matches: warn with the candidates, resolve to nothing
	_, err = cat.ProductMatch("sar")
	if !errors.Is(err, ErrAmbiguousProduct) {
		t.Errorf("Expected ErrAmbiguousProduct, got: %v", err)
	}
	warned := false
	for _, line := range log.Lines {
		if strings.Contains(line, Sar10Product) {
			warned = true
		}
	}
	if !warned {
		t.Error("Expected candidates in warning log")
	}

	_, err = cat.ProductMatch("mystery")
	if !errors.Is(err, ErrNoSuchProduct) {
		t.Errorf("Expected ErrNoSuchProduct, got: %v", err)
	}
}

func TestOverlappingTrack(t *testing.T) {
	cat := NewCatalog(nil)
	lat := [2]float64{0, 1}
	lon := [2]float64{0, 1}

	addBoundedTrack(cat, HighProduct, "A", 0, 10, lat, lon)
	addBoundedTrack(cat, Sar05Product, "B", 5, 15, lat, lon)
	addBoundedTrack(cat, Sar10Product, "C", 20, 30, lat, lon)

	// Overlap is symmetric
	if id, ok := cat.OverlappingTrack(HighProduct, "A", Sar05Product); !ok || id != "B" {
		t.Errorf("A->B: %v, %v", id, ok)
	}
	if id, ok := cat.OverlappingTrack(Sar05Product, "B", HighProduct); !ok || id != "A" {
		t.Errorf("B->A: %v, %v", id, ok)
	}

	// Disjoint intervals never match
	if _, ok := cat.OverlappingTrack(HighProduct, "A", Sar10Product); ok {
		t.Error("A should not overlap C")
	}

	// Touching endpoints count, the interval test is closed
	addBoundedTrack(cat, Sar40Product, "D", 10, 12, lat, lon)
	if id, ok := cat.OverlappingTrack(HighProduct, "A", Sar40Product); !ok || id != "D" {
		t.Errorf("A->D: %v, %v", id, ok)
	}

	// A track without bounds can't be correlated from either side
	cat.Products[Sar05Product]["E"] = &Track{ID: "E"}
	if _, ok := cat.OverlappingTrack(Sar05Product, "E", HighProduct); ok {
		t.Error("Unbounded track matched")
	}
}

func TestTracksInBox(t *testing.T) {
	cat := NewCatalog(nil)

	addBoundedTrack(cat, HighProduct, "t1", 0, 10, [2]float64{-75, -76}, [2]float64{100, 102})
	cat.Products[HighProduct]["nolabel"] = &Track{ID: "nolabel"}

	// Track endpoints on the box's opposite corners always match, whatever
	// the sampling
	hits := cat.TracksInBox([2]float64{-75, -76}, [2]float64{100, 102}, 1e9)
	if len(hits) != 1 || hits[0] != (ProductTrack{HighProduct, "t1"}) {
		t.Errorf("Corner box: %v", hits)
	}

	// A box entirely elsewhere in longitude never matches
	hits = cat.TracksInBox([2]float64{-75, -76}, [2]float64{200, 210}, 10e3)
	if len(hits) != 0 {
		t.Errorf("Far box: %v", hits)
	}

	// A box straddling the track's midpath catches it via interpolation
	hits = cat.TracksInBox([2]float64{-75.4, -75.6}, [2]float64{99, 103}, 1e3)
	if len(hits) != 1 {
		t.Errorf("Mid box: %v", hits)
	}

	// The simulation-derived pseudo-product is excluded even when its
	// geometry matches
	addBoundedTrack(cat, NfocProduct, "t1", 0, 10, [2]float64{-75, -76}, [2]float64{100, 102})
	hits = cat.TracksInBox([2]float64{-75, -76}, [2]float64{100, 102}, 10e3)
	for _, hit := range hits {
		if hit.Product == NfocProduct {
			t.Errorf("nfoc track included: %v", hit)
		}
	}
}

func Example_trackIDFromFilename() {
	id, ok := TrackIDFromFilename("data/orig/lrs/sln-l-lrs-5-sndr-ss-high-v2.0/20071221/data/LRS_SWH_RV20_20071221033918.lbl")
	fmt.Println(id, ok)

	id, ok = TrackIDFromFilename("LRS_SAR05KM_20080115100000_srf_mouginot2010.txt")
	fmt.Println(id, ok)

	// No timestamp token at all
	id, ok = TrackIDFromFilename("README.txt")
	fmt.Println(id, ok)

	// Output:
	// 20071221033918 true
	// 20080115100000 true
	//  false
}

func Example_filenameRoot() {
	root, _ := FilenameRoot(HighProduct, "20071221033918")
	fmt.Println(root)

	root, _ = FilenameRoot(Sar05Product, "20071221033918")
	fmt.Println(root)

	_, err := FilenameRoot(NfocProduct, "20071221033918")
	fmt.Println(err)

	// Output:
	// LRS_SWH_RV20_20071221033918
	// LRS_SAR05KM_20071221033918
	// No filename convention for product: sln-l-lrs-5-sndr-ss-nfoc-power-v1.0
}

func Example_roleOf() {
	fmt.Println(RoleOf("data/orig/lrs/p/20071221/data/LRS_SWH_RV20_20071221033918.lbl"))
	fmt.Println(RoleOf("data/orig/lrs/p/20071221/data/LRS_SWH_RV20_20071221033918.img"))
	fmt.Println(RoleOf("data/xtra/lrs/anc/p/20071221/data/LRS_SWH_RV20_20071221033918_anc.txt"))
	fmt.Println(RoleOf("data/xtra/lrs/srf/p/20071221/data/LRS_SWH_RV20_20071221033918_srf_mouginot2010.txt"))
	fmt.Println(RoleOf("data/xtra/lrs/sim/p/20071221/data/LRS_SWH_RV20_20071221033918_sim_gerekos2018.txt"))

	// Output:
	// lbl
	// img
	// anc
	// srf
	// sim
}
