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

package pipeline

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/pixlise/lrs-tools/api/catalog"
	"github.com/pixlise/lrs-tools/api/config"
	"github.com/pixlise/lrs-tools/core/fileaccess"
	"github.com/pixlise/lrs-tools/core/logger"
)

const testTrackID = "20071221033918"

const testLabel = `PDS_VERSION_ID                 = PDS3
RECORD_BYTES                   = 4
FILE_RECORDS                   = 41
LINES                          = 2
DATA_SET_ID                    = "SLN-L-LRS-5-SNDR-SS-HIGH-V2.0"
START_TIME                     = 2007-12-21T03:39:18
STOP_TIME                      = 2007-12-21T03:45:00
START_SUB_SPACECRAFT_LATITUDE  = -75.0
STOP_SUB_SPACECRAFT_LATITUDE   = -76.0
START_SUB_SPACECRAFT_LONGITUDE = 100.0
STOP_SUB_SPACECRAFT_LONGITUDE  = 102.0
  NOTE = "Converted by pdb = (255-DN)*(Pmax-Pmin)/255+Pmin (Pmax = -20.0, Pmin = -90.0)"
END
`

// 4 columns, 2 lines. Row 1 is brighter (lower DN) in every column so the
// strongest echo pick lands on row 1
func makeTestImage() []byte {
	data := make([]byte, 41*4)

	for c := 0; c < 4; c++ {
		rec := data[c*39:]
		copy(rec[0:23], "2007-12-21T03:39:18.417")
		binary.BigEndian.PutUint32(rec[23:], math.Float32bits(1.5))
		binary.BigEndian.PutUint32(rec[27:], math.Float32bits(-75.0))
		binary.BigEndian.PutUint32(rec[31:], math.Float32bits(100.0))
		binary.BigEndian.PutUint32(rec[35:], math.Float32bits(100000))
	}

	img := data[(41-2)*4:]
	copy(img, []byte{200, 200, 200, 200, 10, 10, 10, 10})
	return data
}

func makeTestRunner(t *testing.T) (*Runner, *fileaccess.FSAccess, string, *logger.MemoryLogger) {
	fs := &fileaccess.FSAccess{}
	root := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.RootPath = root
	cfg.WorkerCount = 2

	day := testTrackID[:8]
	origDir := cfg.OrigPath() + "/" + catalog.HighProduct + "/" + day + "/data/"
	if err := fs.WriteObject(root, origDir+"LRS_SWH_RV20_"+testTrackID+".lbl", []byte(testLabel)); err != nil {
		t.Fatal(err)
	}
	if err := fs.WriteObject(root, origDir+"LRS_SWH_RV20_"+testTrackID+".img", makeTestImage()); err != nil {
		t.Fatal(err)
	}

	log := &logger.MemoryLogger{}
	cat, err := catalog.NewBuilder(fs, root, cfg, log).Build()
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(fs, root, cfg, cat, log), fs, root, log
}

func TestRunAnc(t *testing.T) {
	runner, fs, root, _ := makeTestRunner(t)

	result := runner.Run(ProcessAnc, "high", testTrackID, Options{Archive: true})
	if result.Err != nil {
		t.Fatal(result.Err)
	}

	if result.Table.Rows() != 4 {
		t.Errorf("Rows: %v", result.Table.Rows())
	}

	// The compact timestamp drops sub-seconds and separators
	times := result.Table.Strings("time")
	if times[0] != "20071221033918" {
		t.Errorf("time[0]: %v", times[0])
	}

	// High-res records have no range0 field, so no range0 column
	if result.Table.Strings("range0") != nil {
		t.Error("Unexpected range0 column")
	}

	wantPath := "data/xtra/lrs/anc/" + catalog.HighProduct + "/20071221/data/LRS_SWH_RV20_" + testTrackID + "_orig.txt"
	if result.ArchivePath != wantPath {
		t.Errorf("ArchivePath: %v", result.ArchivePath)
	}
	exists, err := fs.ObjectExists(root, result.ArchivePath)
	if err != nil || !exists {
		t.Errorf("Archive missing: %v, %v", exists, err)
	}
}

func TestRunArchiveSkip(t *testing.T) {
	runner, fs, root, log := makeTestRunner(t)

	first := runner.Run(ProcessAnc, "high", testTrackID, Options{Archive: true})
	if first.Err != nil || first.ArchiveSkipped {
		t.Fatalf("First run: %+v", first)
	}

	// Second run skips the existing archive file
	second := runner.Run(ProcessAnc, "high", testTrackID, Options{Archive: true})
	if second.Err != nil {
		t.Fatal(second.Err)
	}
	if !second.ArchiveSkipped {
		t.Error("Expected skip of existing archive")
	}
	logged := false
	for _, line := range log.Lines {
		if strings.Contains(line, "EXISTS (NOT ARCHIVED)") {
			logged = true
		}
	}
	if !logged {
		t.Error("Expected skip log line")
	}

	// Overwrite forces the write
	data1, _ := fs.ReadObject(root, first.ArchivePath)
	third := runner.Run(ProcessAnc, "high", testTrackID, Options{Archive: true, Overwrite: true})
	if third.Err != nil || third.ArchiveSkipped {
		t.Fatalf("Third run: %+v", third)
	}
	data2, _ := fs.ReadObject(root, third.ArchivePath)
	if string(data1) != string(data2) {
		t.Error("Rewritten archive differs")
	}
}

func TestRunSrf(t *testing.T) {
	runner, _, _, log := makeTestRunner(t)

	// No method: warns and defaults
	result := runner.Run(ProcessSrf, "high", testTrackID, Options{Archive: true})
	if result.Err != nil {
		t.Fatal(result.Err)
	}

	warned := false
	for _, line := range log.Lines {
		if strings.Contains(line, "No method given") {
			warned = true
		}
	}
	if !warned {
		t.Error("Expected default method warning")
	}

	if !strings.HasSuffix(result.ArchivePath, "_mouginot2010.txt") {
		t.Errorf("ArchivePath: %v", result.ArchivePath)
	}

	// Row 1 is the bright row in the synthetic image
	echo := result.Table.Strings("echo")
	if len(echo) != 4 {
		t.Fatalf("Echo: %v", echo)
	}
	for _, e := range echo {
		if e != "1" {
			t.Errorf("Echo: %v", echo)
		}
	}
}

func TestRunUnknownProcess(t *testing.T) {
	runner, _, _, _ := makeTestRunner(t)

	result := runner.Run("sgy", "high", testTrackID, Options{})
	if result.Err == nil {
		t.Fatal("Expected error for unknown process")
	}
	if !strings.Contains(result.Err.Error(), "Unknown process") {
		t.Errorf("Err: %v", result.Err)
	}
}

func TestRunAll(t *testing.T) {
	runner, fs, root, _ := makeTestRunner(t)

	// Add a second track with a broken image so one job fails
	cfg := config.DefaultConfig()
	cfg.RootPath = root
	day2Dir := cfg.OrigPath() + "/" + catalog.HighProduct + "/20071222/data/"
	if err := fs.WriteObject(root, day2Dir+"LRS_SWH_RV20_20071222000000.lbl", []byte(testLabel)); err != nil {
		t.Fatal(err)
	}
	if err := fs.WriteObject(root, day2Dir+"LRS_SWH_RV20_20071222000000.img", []byte{1, 2, 3}); err != nil {
		t.Fatal(err)
	}

	cat, err := catalog.NewBuilder(fs, root, cfg, nil).Build()
	if err != nil {
		t.Fatal(err)
	}
	runner = NewRunner(fs, root, cfg, cat, nil)

	results := runner.RunAll(ProcessAnc, "high", Options{Archive: true})
	if len(results) != 2 {
		t.Fatalf("Results: %v", len(results))
	}

	// Results line up with the sorted track id list regardless of which
	// worker ran them
	if results[0].TrackID != testTrackID || results[1].TrackID != "20071222000000" {
		t.Errorf("Order: %v, %v", results[0].TrackID, results[1].TrackID)
	}
	if results[0].Err != nil {
		t.Errorf("First track failed: %v", results[0].Err)
	}
	if results[1].Err == nil {
		t.Error("Truncated track should fail")
	}
}
