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
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/pixlise/lrs-tools/api/config"
	"github.com/pixlise/lrs-tools/core/fileaccess"
	"github.com/pixlise/lrs-tools/core/logger"
	"github.com/pixlise/lrs-tools/core/lrslabel"
)

// labelTimeLayout - label timestamps, sub-second digits are truncated before
// parsing
const labelTimeLayout = "2006-01-02T15:04:05"

// Derived product stage directories under the xtra tree
var xtraStages = []string{string(RoleAncillary), string(RoleSurface), string(RoleSimulation)}

// EnsureHierarchy - creates the local data tree if missing. A bucket-backed
// config is a no-op, S3 has no directories
func EnsureHierarchy(cfg config.DataConfig, log logger.ILogger) error {
	if len(cfg.DataBucket) > 0 {
		return nil
	}

	for _, p := range []string{cfg.DataPath(), cfg.OrigPath(), cfg.XtraPath()} {
		full := filepath.Join(cfg.RootPath, p)
		if _, err := os.Stat(full); os.IsNotExist(err) {
			if err = os.MkdirAll(full, 0777); err != nil {
				return err
			}
			log.Infof("%v CREATED", full)
		}
	}
	return nil
}

// Builder - walks the storage hierarchy and builds a Catalog
type Builder struct {
	fs   fileaccess.FileAccess
	root string
	cfg  config.DataConfig
	log  logger.ILogger
}

func NewBuilder(fs fileaccess.FileAccess, root string, cfg config.DataConfig, log logger.ILogger) *Builder {
	if log == nil {
		log = &logger.NullLogger{}
	}
	return &Builder{fs: fs, root: root, cfg: cfg, log: log}
}

// Build - full catalog construction: discover products, index files per
// track, then read each track's label for time/position bounds
func (b *Builder) Build() (*Catalog, error) {
	cat := NewCatalog(b.log)

	products, err := b.indexProducts()
	if err != nil {
		return nil, errors.Wrap(err, "Failed to index products")
	}

	for _, product := range products {
		cat.Products[product] = map[string]*Track{}
	}

	if err := b.indexFiles(cat, products); err != nil {
		return nil, errors.Wrap(err, "Failed to index files")
	}

	b.logSummary(cat)

	if err := b.readLabels(cat); err != nil {
		return nil, err
	}

	return cat, nil
}

// list - object listing under a prefix, a missing directory is just empty
func (b *Builder) list(prefix string) ([]string, error) {
	items, err := b.fs.ListObjects(b.root, prefix+"/")
	if err != nil {
		if b.fs.IsNotFoundError(err) {
			return []string{}, nil
		}
		return nil, err
	}
	return items, nil
}

// indexProducts - the union of product directories found in the originals
// tree and under every derived stage
func (b *Builder) indexProducts() ([]string, error) {
	productSet := map[string]bool{}

	origFiles, err := b.list(b.cfg.OrigPath())
	if err != nil {
		return nil, err
	}
	for _, f := range origFiles {
		// <orig>/<product>/...
		parts := strings.Split(strings.TrimPrefix(f, b.cfg.OrigPath()+"/"), "/")
		if len(parts) > 1 {
			productSet[parts[0]] = true
		}
	}

	xtraFiles, err := b.list(b.cfg.XtraPath())
	if err != nil {
		return nil, err
	}
	for _, f := range xtraFiles {
		// <xtra>/<stage>/<product>/...
		parts := strings.Split(strings.TrimPrefix(f, b.cfg.XtraPath()+"/"), "/")
		if len(parts) > 2 {
			productSet[parts[1]] = true
		}
	}

	products := maps.Keys(productSet)
	slices.Sort(products)
	return products, nil
}

// indexFiles - collects every data file of every product into its track,
// keyed by the id embedded in the file name
func (b *Builder) indexFiles(cat *Catalog, products []string) error {
	for _, product := range products {
		indexPrefixes := []string{
			path.Join(b.cfg.OrigPath(), product),
		}
		for _, stage := range xtraStages {
			indexPrefixes = append(indexPrefixes, path.Join(b.cfg.XtraPath(), stage, product))
		}

		for _, prefix := range indexPrefixes {
			files, err := b.list(prefix)
			if err != nil {
				return err
			}

			for _, f := range files {
				// Only index the day dirs: <prefix>/<day>/data/<file>
				parts := strings.Split(strings.TrimPrefix(f, prefix+"/"), "/")
				if len(parts) != 3 || parts[1] != "data" {
					continue
				}

				trackID, ok := TrackIDFromFilename(f)
				if !ok {
					b.log.Infof("WARNING: no track id in file name, skipped: %v", f)
					continue
				}
				cat.addFile(product, trackID, f)
			}
		}
	}
	return nil
}

func (b *Builder) logSummary(cat *Catalog) {
	b.log.Infof(" %-37v %7v %7v %7v %7v %7v", "Product", "lbl", "img", "anc", "srf", "sim")
	b.log.Infof(" %-37v %7v %7v %7v %7v %7v", "---", "---", "---", "---", "---", "---")

	for _, product := range cat.ProductNames() {
		counts := map[FileRole]int{}
		for _, track := range cat.Products[product] {
			for _, f := range track.Files {
				counts[RoleOf(f)]++
			}
		}
		b.log.Infof(" %-37v %7v %7v %7v %7v %7v", product,
			counts[RoleLabel], counts[RoleImage], counts[RoleAncillary], counts[RoleSurface], counts[RoleSimulation])
	}
}

// readLabels - fills in each track's time and position bounds from its label
// file. Tracks without a label keep HasBounds false and stay out of time and
// space queries
func (b *Builder) readLabels(cat *Catalog) error {
	for _, product := range cat.ProductNames() {
		for _, trackID := range cat.TrackIDs(product) {
			track := cat.Products[product][trackID]

			lbls := track.FilesWithRole(RoleLabel)
			if len(lbls) == 0 {
				continue
			}

			if err := b.readTrackLabel(track, lbls[0]); err != nil {
				return errors.Wrapf(err, "Failed to read label for %v track %v", product, trackID)
			}
		}
	}
	return nil
}

func (b *Builder) readTrackLabel(track *Track, lblPath string) error {
	data, err := b.fs.ReadObject(b.root, lblPath)
	if err != nil {
		return err
	}
	lines := strings.Split(string(data), "\n")

	startTime, startEpoch, err := parseLabelTime(lines, "START_TIME")
	if err != nil {
		return err
	}
	stopTime, stopEpoch, err := parseLabelTime(lines, "STOP_TIME")
	if err != nil {
		return err
	}

	coords := [4]float64{}
	for i, keyword := range []string{
		"START_SUB_SPACECRAFT_LATITUDE",
		"STOP_SUB_SPACECRAFT_LATITUDE",
		"START_SUB_SPACECRAFT_LONGITUDE",
		"STOP_SUB_SPACECRAFT_LONGITUDE",
	} {
		v, err := lrslabel.ParseKeyword(lines, keyword)
		if err != nil {
			return err
		}
		coords[i], err = v.AsFloat()
		if err != nil {
			return errors.Wrapf(err, "Bad %v", keyword)
		}
	}

	track.StartTime = startTime
	track.StopTime = stopTime
	track.StartEpoch = startEpoch
	track.StopEpoch = stopEpoch
	track.LatLim = [2]float64{coords[0], coords[1]}
	track.LonLim = [2]float64{coords[2], coords[3]}
	track.HasBounds = true
	return nil
}

func parseLabelTime(lines []string, keyword string) (string, float64, error) {
	v, err := lrslabel.ParseKeyword(lines, keyword)
	if err != nil {
		return "", 0, err
	}

	// Sub-second digits are dropped, the epoch resolution is one second
	stamp := v.String()
	if len(stamp) > len(labelTimeLayout) {
		stamp = stamp[:len(labelTimeLayout)]
	}

	t, err := time.Parse(labelTimeLayout, stamp)
	if err != nil {
		return "", 0, errors.Wrapf(err, "Bad %v", keyword)
	}
	return stamp, float64(t.Unix()), nil
}
