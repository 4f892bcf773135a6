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

// Batch processing over cataloged tracks: run a named process on one track
// or on every track of a product, archiving each result into the derived
// data tree. Failures are carried per result, one bad track never aborts a
// bulk run.
package pipeline

import (
	"path"
	"sync"

	"github.com/pkg/errors"

	"github.com/pixlise/lrs-tools/api/catalog"
	"github.com/pixlise/lrs-tools/api/config"
	"github.com/pixlise/lrs-tools/api/trackdata"
	"github.com/pixlise/lrs-tools/core/fileaccess"
	"github.com/pixlise/lrs-tools/core/logger"
)

// Process names
const (
	ProcessAnc = "anc"
	ProcessSrf = "srf"
)

// Options - per-run settings
type Options struct {
	// Whether to write the result into the archive tree
	Archive bool

	// Overwrite an existing archive file instead of skipping it
	Overwrite bool

	// Pick method tag for the srf process, defaults to
	// trackdata.DefaultSurfaceMethod
	Method string
}

// Result - the outcome of one (process, product, track) run. Err carries the
// failure cause when the run failed, the other fields describe what happened
// to the archive step
type Result struct {
	Product string
	TrackID string

	Table *trackdata.Table

	// Where the archive file lives. Set even when the write was skipped
	ArchivePath string

	// The archive file already existed and Overwrite wasn't set
	ArchiveSkipped bool

	Err error
}

// Runner - executes processes against the catalog
type Runner struct {
	fs     fileaccess.FileAccess
	root   string
	cfg    config.DataConfig
	cat    *catalog.Catalog
	reader *trackdata.Reader
	log    logger.ILogger

	// The surface-pick collaborator used by the srf process. Replaceable,
	// defaults to the strongest echo per column
	Picker Picker
}

func NewRunner(fs fileaccess.FileAccess, root string, cfg config.DataConfig, cat *catalog.Catalog, log logger.ILogger) *Runner {
	if log == nil {
		log = &logger.NullLogger{}
	}
	return &Runner{
		fs:     fs,
		root:   root,
		cfg:    cfg,
		cat:    cat,
		reader: trackdata.NewReader(fs, root, cat, log),
		log:    log,
		Picker: &StrongestEchoPicker{},
	}
}

// Run - one process on one track. The product may be a substring
func (r *Runner) Run(process string, product string, trackID string, opts Options) Result {
	result := Result{TrackID: trackID}
	processRuns.WithLabelValues(process).Inc()

	fail := func(err error) Result {
		processFailures.WithLabelValues(process).Inc()
		result.Err = err
		return result
	}

	full, err := r.cat.ProductMatch(product)
	if err != nil {
		return fail(err)
	}
	result.Product = full

	var suffix string
	switch process {
	case ProcessAnc:
		suffix = "_orig.txt"
	case ProcessSrf:
		if opts.Method == "" {
			r.log.Infof("WARNING: No method given for the srf process, defaulting to %v", trackdata.DefaultSurfaceMethod)
			opts.Method = trackdata.DefaultSurfaceMethod
		}
		suffix = "_" + opts.Method + ".txt"
	default:
		return fail(errors.Errorf("Unknown process: %v", process))
	}

	orig, err := r.reader.OrigData(full, trackID)
	if err != nil {
		return fail(errors.Wrapf(err, "Process %v failed for %v %v", process, full, trackID))
	}

	var table *trackdata.Table
	switch process {
	case ProcessAnc:
		table, err = ancTable(orig)
	case ProcessSrf:
		table, err = srfTable(orig, r.Picker)
	}
	if err != nil {
		return fail(errors.Wrapf(err, "Process %v failed for %v %v", process, full, trackID))
	}
	result.Table = table

	if opts.Archive {
		if err := r.archive(process, suffix, &result, opts); err != nil {
			return fail(err)
		}
	}
	return result
}

// archive - existence-check-then-write. Not atomic: concurrent runs must
// partition work so no two jobs target the same archive file
func (r *Runner) archive(process string, suffix string, result *Result, opts Options) error {
	rootName, err := catalog.FilenameRoot(result.Product, result.TrackID)
	if err != nil {
		return err
	}

	day := result.TrackID
	if len(day) > 8 {
		day = day[:8]
	}
	result.ArchivePath = path.Join(r.cfg.XtraPath(), process, result.Product, day, "data", rootName+suffix)

	exists, err := r.fs.ObjectExists(r.root, result.ArchivePath)
	if err != nil {
		return err
	}
	if exists && !opts.Overwrite {
		r.log.Infof("%v EXISTS (NOT ARCHIVED)", result.ArchivePath)
		result.ArchiveSkipped = true
		return nil
	}

	csvData, err := result.Table.ToCSV()
	if err != nil {
		return err
	}
	if err := r.fs.WriteObject(r.root, result.ArchivePath, csvData); err != nil {
		return err
	}

	archivesWritten.WithLabelValues(process).Inc()
	r.log.Infof("%v CREATED", result.ArchivePath)
	return nil
}

// RunAll - one process across every track of a product, fanned out over a
// worker pool. Results come back indexed like the product's sorted track id
// list, whatever order the workers finished in
func (r *Runner) RunAll(process string, product string, opts Options) []Result {
	full, err := r.cat.ProductMatch(product)
	if err != nil {
		return []Result{{Err: err}}
	}

	trackIDs := r.cat.TrackIDs(full)
	results := make([]Result, len(trackIDs))

	workers := r.cfg.WorkerCount
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = r.Run(process, full, trackIDs[i], opts)
			}
		}()
	}

	for i := range trackIDs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
