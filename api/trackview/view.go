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

// Builds an aligned multi-product view of one ground track: the same lat/lon
// window cut from every product acquired concurrently, vertically aligned so
// the surface echo sits at a common row. Consumed for side-by-side rendering,
// never persisted - every request rebuilds it.
package trackview

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/pixlise/lrs-tools/api/catalog"
	"github.com/pixlise/lrs-tools/api/trackdata"
	"github.com/pixlise/lrs-tools/core/logger"
)

// Options - view alignment settings
type Options struct {
	// Row where the surface echo should land after shifting
	TargetRow int

	// Add the spline-derived per-column correction to the SAR products'
	// shifts, on top of the constant term
	RelativeShift bool

	// Surface pick method, defaults to trackdata.DefaultSurfaceMethod
	Method string

	// Penalty weight of the pick smoothing spline, defaults to 100
	SmoothLambda float64
}

// ProductSlice - one product's contribution to the view
type ProductSlice struct {
	Product string
	TrackID string

	// Index of the slice's first column within the product's full table
	Offset int

	// Calibrated power, trimmed to the window and vertically rolled
	Image [][]float64

	// The per-column shift that was applied
	Shift []int
}

// View - product name -> aligned slice
type View struct {
	TrackID string
	Slices  map[string]*ProductSlice
}

// Builder - builds views from a catalog
type Builder struct {
	cat    *catalog.Catalog
	reader *trackdata.Reader
	log    logger.ILogger
}

func NewBuilder(cat *catalog.Catalog, reader *trackdata.Reader, log logger.ILogger) *Builder {
	if log == nil {
		log = &logger.NullLogger{}
	}
	return &Builder{cat: cat, reader: reader, log: log}
}

// BuildView - the aligned view for one high-res track id. The high-res
// product is the reference: its ancillary table supplies the lat/lon window
// and its surface picks drive the vertical alignment. Secondary products are
// co-registered by index off their first time sample strictly after the
// reference window start - this assumes uniform monotonic sampling with no
// gaps, a product with a gap will misalign
func (b *Builder) BuildView(trackID string, latLim [2]float64, lonLim [2]float64, opts Options) (*View, error) {
	if opts.Method == "" {
		opts.Method = trackdata.DefaultSurfaceMethod
	}
	if opts.SmoothLambda <= 0 {
		opts.SmoothLambda = 100
	}

	refAnc, err := b.reader.AncData(catalog.HighProduct, trackID)
	if err != nil {
		return nil, err
	}
	if refAnc == nil {
		return nil, errors.Errorf("No ancillary data for %v %v", catalog.HighProduct, trackID)
	}

	start, length, err := windowOf(refAnc, latLim, lonLim)
	if err != nil {
		return nil, err
	}
	if length == 0 {
		return nil, errors.Errorf("No samples of %v within the lat/lon window", trackID)
	}

	refTimes, err := refAnc.Floats("time")
	if err != nil {
		return nil, err
	}
	windowStartTime := refTimes[start]

	baseShift, relShift, err := b.alignmentShifts(trackID, start, length, opts)
	if err != nil {
		return nil, err
	}

	view := &View{TrackID: trackID, Slices: map[string]*ProductSlice{}}

	for _, product := range b.cat.ProductNames() {
		slice, err := b.buildSlice(product, trackID, windowStartTime, start, length, baseShift, relShift, opts)
		if err != nil {
			return nil, err
		}
		if slice != nil {
			view.Slices[product] = slice
		}
	}

	if len(view.Slices) == 0 {
		return nil, errors.Errorf("No products produced a slice for %v", trackID)
	}
	return view, nil
}

// windowOf - the first contiguous run of ancillary samples inside both the
// latitude and longitude ranges
func windowOf(anc *trackdata.Table, latLim [2]float64, lonLim [2]float64) (int, int, error) {
	lats, err := anc.Floats("latitude")
	if err != nil {
		return 0, 0, err
	}
	lons, err := anc.Floats("longitude")
	if err != nil {
		return 0, 0, err
	}

	latLo, latHi := ordered(latLim)
	lonLo, lonHi := ordered(lonLim)

	start := -1
	length := 0
	for i := range lats {
		in := lats[i] >= latLo && lats[i] <= latHi && lons[i] >= lonLo && lons[i] <= lonHi
		if in {
			if start < 0 {
				start = i
			}
			length++
		} else if start >= 0 {
			break
		}
	}
	if start < 0 {
		return 0, 0, nil
	}
	return start, length, nil
}

func ordered(lim [2]float64) (float64, float64) {
	if lim[0] > lim[1] {
		return lim[1], lim[0]
	}
	return lim[0], lim[1]
}

// alignmentShifts - the constant shift that puts the mean surface pick on
// the target row, plus the per-column spline-derived correction
func (b *Builder) alignmentShifts(trackID string, start int, length int, opts Options) (int, []int, error) {
	srf, err := b.reader.SrfData(catalog.HighProduct, trackID, opts.Method)
	if err != nil {
		return 0, nil, err
	}
	if srf == nil {
		return 0, nil, errors.Errorf("No surface picks for %v with method %v", trackID, opts.Method)
	}

	picks, err := srf.Floats("echo")
	if err != nil {
		return 0, nil, err
	}
	if start+length > len(picks) {
		return 0, nil, errors.Errorf("Surface picks shorter than the ancillary table: %v < %v", len(picks), start+length)
	}
	windowPicks := picks[start : start+length]

	smoothed, err := SmoothPicks(windowPicks, opts.SmoothLambda)
	if err != nil {
		return 0, nil, err
	}

	mean := stat.Mean(windowPicks, nil)
	baseShift := opts.TargetRow - int(math.Round(mean))

	relShift := make([]int, length)
	for i, s := range smoothed {
		relShift[i] = int(math.Round(mean - s))
	}
	return baseShift, relShift, nil
}

func (b *Builder) buildSlice(product string, refTrackID string, windowStartTime float64, refStart int, length int, baseShift int, relShift []int, opts Options) (*ProductSlice, error) {
	isRef := product == catalog.HighProduct

	trackID := refTrackID
	start := refStart
	if !isRef {
		id, ok := b.cat.OverlappingTrack(catalog.HighProduct, refTrackID, product)
		if !ok {
			b.log.Debugf("No %v track overlaps %v", product, refTrackID)
			return nil, nil
		}
		trackID = id

		anc, err := b.reader.AncData(product, trackID)
		if err != nil {
			return nil, err
		}
		if anc == nil {
			return nil, nil
		}
		times, err := anc.Floats("time")
		if err != nil {
			return nil, err
		}

		// Co-register by index: the first sample strictly after the window's
		// start time
		start = -1
		for j, t := range times {
			if t > windowStartTime {
				start = j
				break
			}
		}
		if start < 0 {
			b.log.Debugf("No %v samples after the window start for %v", product, trackID)
			return nil, nil
		}
	}

	orig, err := b.reader.OrigData(product, trackID)
	if err != nil {
		return nil, err
	}
	if orig == nil {
		// No label+image pair, eg the simulation-derived pseudo-product
		return nil, nil
	}

	img := orig.PowerDB
	if img == nil {
		b.log.Debugf("No power image for %v %v", product, trackID)
		return nil, nil
	}

	// SAR products sample the vertical axis at half the reference rate
	sar := strings.Contains(product, "sar")
	if sar {
		img = upsampleRows(img)
	}

	shift := make([]int, length)
	for i := range shift {
		shift[i] = baseShift
		if sar && opts.RelativeShift {
			shift[i] += relShift[i]
		}
	}

	rows := len(img)
	slice := make([][]float64, rows)
	for r := range slice {
		slice[r] = make([]float64, length)
	}

	cols := 0
	if rows > 0 {
		cols = len(img[0])
	}
	for c := 0; c < length; c++ {
		src := start + c
		if src >= cols {
			// Secondary product ran out of columns, this column stays empty.
			// Partial degradation is accepted over aborting the view
			shift[c] = 0
			continue
		}
		for r := 0; r < rows; r++ {
			slice[(r+shift[c]%rows+rows)%rows][c] = img[r][src]
		}
	}

	return &ProductSlice{
		Product: product,
		TrackID: trackID,
		Offset:  start,
		Image:   slice,
		Shift:   shift,
	}, nil
}

// upsampleRows - doubles the vertical sampling by repeating each row
func upsampleRows(img [][]float64) [][]float64 {
	result := make([][]float64, 0, len(img)*2)
	for _, row := range img {
		result = append(result, row, row)
	}
	return result
}
