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

// Readers for per-track data: decoded originals, archived ancillary and
// surface-pick tables, and simulation matrices. All readers are stateless,
// they take the catalog as input and produce fresh data on every call -
// caching is a caller's concern.
package trackdata

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/pixlise/lrs-tools/api/catalog"
	"github.com/pixlise/lrs-tools/core/fileaccess"
	"github.com/pixlise/lrs-tools/core/logger"
	"github.com/pixlise/lrs-tools/core/lrsformat"
	"github.com/pixlise/lrs-tools/core/lrslabel"
	"github.com/pixlise/lrs-tools/core/utils"
)

// Default collaborator methods for derived tables
const (
	DefaultSurfaceMethod    = "mouginot2010"
	DefaultSimulationMethod = "gerekos2018"
)

// Reader - reads track data through a catalog and a storage accessor
type Reader struct {
	fs   fileaccess.FileAccess
	root string
	cat  *catalog.Catalog
	log  logger.ILogger
}

func NewReader(fs fileaccess.FileAccess, root string, cat *catalog.Catalog, log logger.ILogger) *Reader {
	if log == nil {
		log = &logger.NullLogger{}
	}
	return &Reader{fs: fs, root: root, cat: cat, log: log}
}

// OrigData - a decoded original product track: header table, raw image and
// the calibrated power image. Returns nil with no error when the track has
// no label+image pair, matching the warn-and-continue contract of the
// ancillary readers. PowerDB is nil when the label carries no calibration
// bounds, the raw image is still returned
type OrigData struct {
	Header  *lrsformat.Header
	Image   *lrsformat.Image
	PowerDB [][]float64
}

func (r *Reader) OrigData(product string, trackID string) (*OrigData, error) {
	product, track, err := r.resolve(product, trackID)
	if err != nil {
		return nil, err
	}

	lbls := track.FilesWithRole(catalog.RoleLabel)
	imgs := track.FilesWithRole(catalog.RoleImage)
	if len(lbls) == 0 || len(imgs) == 0 {
		r.log.Infof("WARNING: No orig data for %v %v", product, trackID)
		return nil, nil
	}

	lblData, err := r.fs.ReadObject(r.root, lbls[0])
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(lblData), "\n")

	lbl, err := lrsformat.ParseImageLabel(lines)
	if err != nil {
		return nil, errors.Wrapf(err, "Bad label: %v", lbls[0])
	}

	imgData, err := r.fs.ReadObject(r.root, imgs[0])
	if err != nil {
		return nil, err
	}

	hdr, img, err := lrsformat.Decode(imgData, lbl)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to decode: %v", imgs[0])
	}

	orig := &OrigData{Header: hdr, Image: img}

	// Conversion coefficients vary per processing and track, they come from
	// this track's own label. A label can legitimately omit them, the raw DN
	// image is still usable without the power conversion
	pmax, pmin, err := lrslabel.ParseCalibrationBounds(lines)
	if err != nil {
		if !lrslabel.IsNotFound(err) {
			return nil, errors.Wrapf(err, "Bad calibration bounds in: %v", lbls[0])
		}
		r.log.Infof("WARNING: No calibration bounds in %v, power image unavailable", lbls[0])
		return orig, nil
	}

	orig.PowerDB = lrsformat.PowerImage(img, pmax, pmin)
	return orig, nil
}

// AncData - the track's archived ancillary table, columns concatenated
// across all its ancillary files. The nfoc pseudo-product has no ancillary
// data of its own and falls through to the high-res product's. Nil with no
// error when the track has none
func (r *Reader) AncData(product string, trackID string) (*Table, error) {
	product, err := r.cat.ProductMatch(product)
	if err != nil {
		return nil, err
	}
	if product == catalog.NfocProduct {
		product = catalog.HighProduct
	}

	track, err := r.cat.Track(product, trackID)
	if err != nil {
		return nil, err
	}

	files := track.FilesWithRole(catalog.RoleAncillary)
	if len(files) == 0 {
		r.log.Infof("WARNING: No anc data for %v %v", product, trackID)
		return nil, nil
	}
	return r.concatTables(files)
}

// SrfData - the track's archived surface-pick table for one pick method
func (r *Reader) SrfData(product string, trackID string, method string) (*Table, error) {
	_, track, err := r.resolve(product, trackID)
	if err != nil {
		return nil, err
	}

	files := utils.AllContaining(track.FilesWithRole(catalog.RoleSurface), method)
	if len(files) == 0 {
		r.log.Infof("WARNING: No srf data for %v %v", product, trackID)
		return nil, nil
	}
	return r.concatTables(files)
}

// SimData - the track's simulation matrix for one simulation method, rows of
// comma-separated floats
func (r *Reader) SimData(product string, trackID string, method string) ([][]float64, error) {
	product, track, err := r.resolve(product, trackID)
	if err != nil {
		return nil, err
	}

	f, ok := utils.FirstContaining(track.FilesWithRole(catalog.RoleSimulation), method)
	if !ok {
		r.log.Infof("WARNING: No sim data for %v %v", product, trackID)
		return nil, nil
	}

	data, err := r.fs.ReadObject(r.root, f)
	if err != nil {
		return nil, err
	}
	return parseFloatMatrix(data)
}

// WhereLat - a mask over the track's ancillary samples marking latitudes
// within the limits, either way round
func (r *Reader) WhereLat(product string, trackID string, latLim [2]float64) ([]bool, error) {
	anc, err := r.AncData(product, trackID)
	if err != nil {
		return nil, err
	}
	if anc == nil {
		return nil, errors.Errorf("No ancillary data for %v %v", product, trackID)
	}

	lats, err := anc.Floats("latitude")
	if err != nil {
		return nil, err
	}

	lo, hi := latLim[0], latLim[1]
	if lo > hi {
		lo, hi = hi, lo
	}

	mask := make([]bool, len(lats))
	for i, lat := range lats {
		mask[i] = lat >= lo && lat <= hi
	}
	return mask, nil
}

// resolve - product substring match plus track lookup
func (r *Reader) resolve(product string, trackID string) (string, *catalog.Track, error) {
	product, err := r.cat.ProductMatch(product)
	if err != nil {
		return "", nil, err
	}
	track, err := r.cat.Track(product, trackID)
	if err != nil {
		return "", nil, err
	}
	return product, track, nil
}

func (r *Reader) concatTables(files []string) (*Table, error) {
	result := &Table{Cells: map[string][]string{}}
	for _, f := range files {
		data, err := r.fs.ReadObject(r.root, f)
		if err != nil {
			return nil, err
		}
		table, err := ReadCSVTable(data)
		if err != nil {
			return nil, errors.Wrapf(err, "Bad table: %v", f)
		}
		result.Concat(table)
	}
	return result, nil
}

func parseFloatMatrix(data []byte) ([][]float64, error) {
	result := [][]float64{}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		cells := strings.Split(line, ",")
		row := make([]float64, len(cells))
		for i, cell := range cells {
			f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "Bad matrix value: %v", cell)
			}
			row[i] = f
		}
		result = append(result, row)
	}
	return result, nil
}
