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

package trackdata

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/pixlise/lrs-tools/api/catalog"
	"github.com/pixlise/lrs-tools/api/config"
	"github.com/pixlise/lrs-tools/core/fileaccess"
	"github.com/pixlise/lrs-tools/core/logger"
)

const testTrackID = "20071221033918"

// 4 columns, 2 image lines, header region exactly 4 high-res records
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

const testAncCSV = `date,time,delay,latitude,longitude,altitude
2007-12-21T03:39:18.000,20071221033918,5.0,-75.0,100.0,100000
2007-12-21T03:39:19.000,20071221033919,5.0,-75.3,100.6,100001
2007-12-21T03:39:20.000,20071221033920,5.0,-75.6,101.2,100002
2007-12-21T03:39:21.000,20071221033921,5.0,-76.0,102.0,100003
`

func makeTestImage() []byte {
	// 41 records of 4 bytes, image is the last 2 records
	data := make([]byte, 41*4)

	for c := 0; c < 4; c++ {
		rec := data[c*39:]
		copy(rec[0:23], "2007-12-21T03:39:18.000")
		binary.BigEndian.PutUint32(rec[23:], math.Float32bits(1.5))    // delay
		binary.BigEndian.PutUint32(rec[27:], math.Float32bits(-75.0))  // latitude
		binary.BigEndian.PutUint32(rec[31:], math.Float32bits(100.0))  // longitude
		binary.BigEndian.PutUint32(rec[35:], math.Float32bits(100000)) // altitude
	}

	img := data[(41-2)*4:]
	copy(img, []byte{0, 10, 20, 30, 40, 50, 60, 255})
	return data
}

// Builds a storage tree with orig, anc, srf and sim data for one track plus
// an empty nfoc product, then catalogs it
func makeTestReader(t *testing.T) (*Reader, *logger.MemoryLogger) {
	fs := &fileaccess.FSAccess{}
	root := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.RootPath = root

	write := func(relPath string, data []byte) {
		if err := fs.WriteObject(root, relPath, data); err != nil {
			t.Fatal(err)
		}
	}

	day := testTrackID[:8]
	origDir := cfg.OrigPath() + "/" + catalog.HighProduct + "/" + day + "/data/"
	write(origDir+"LRS_SWH_RV20_"+testTrackID+".lbl", []byte(testLabel))
	write(origDir+"LRS_SWH_RV20_"+testTrackID+".img", makeTestImage())

	// nfoc only exists as an empty product dir marker file so it gets
	// cataloged; its real data rides on the high-res product
	write(cfg.OrigPath()+"/"+catalog.NfocProduct+"/"+day+"/data/LRS_NFOC_"+testTrackID+".lbl", []byte(testLabel))

	write(cfg.XtraPath()+"/anc/"+catalog.HighProduct+"/"+day+"/data/LRS_SWH_RV20_"+testTrackID+"_orig.txt", []byte(testAncCSV))
	write(cfg.XtraPath()+"/srf/"+catalog.HighProduct+"/"+day+"/data/LRS_SWH_RV20_"+testTrackID+"_mouginot2010.txt",
		[]byte("echo\n1\n0\n1\n0\n"))
	write(cfg.XtraPath()+"/sim/"+catalog.HighProduct+"/"+day+"/data/LRS_SWH_RV20_"+testTrackID+"_sim_gerekos2018.txt",
		[]byte("1.0,2.0\n3.0,4.0\n"))

	log := &logger.MemoryLogger{}
	cat, err := catalog.NewBuilder(fs, root, cfg, log).Build()
	if err != nil {
		t.Fatal(err)
	}
	return NewReader(fs, root, cat, log), log
}

func TestOrigData(t *testing.T) {
	r, _ := makeTestReader(t)

	orig, err := r.OrigData("high", testTrackID)
	if err != nil {
		t.Fatal(err)
	}
	if orig == nil {
		t.Fatal("Expected orig data")
	}

	if orig.Image.Rows != 2 || orig.Image.Cols != 4 {
		t.Errorf("Image geometry: %vx%v", orig.Image.Rows, orig.Image.Cols)
	}
	if orig.Header.Columns() != 4 {
		t.Errorf("Header columns: %v", orig.Header.Columns())
	}
	if orig.Header.Delay[0] != 1.5 || orig.Header.Latitude[2] != -75.0 {
		t.Errorf("Header fields: %v, %v", orig.Header.Delay[0], orig.Header.Latitude[2])
	}

	// Power conversion: DN 0 -> Pmax, DN 255 -> Pmin
	if math.Abs(orig.PowerDB[0][0]-(-20.0)) > 1e-12 {
		t.Errorf("Power at DN 0: %v", orig.PowerDB[0][0])
	}
	if orig.PowerDB[1][3] != -90.0 {
		t.Errorf("Power at DN 255: %v", orig.PowerDB[1][3])
	}
}

func TestOrigDataNoCalibration(t *testing.T) {
	fs := &fileaccess.FSAccess{}
	root := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.RootPath = root

	// Same label minus the calibration NOTE
	lines := []string{}
	for _, line := range strings.Split(testLabel, "\n") {
		if !strings.Contains(line, "Pmax") {
			lines = append(lines, line)
		}
	}

	day := testTrackID[:8]
	origDir := cfg.OrigPath() + "/" + catalog.HighProduct + "/" + day + "/data/"
	if err := fs.WriteObject(root, origDir+"LRS_SWH_RV20_"+testTrackID+".lbl", []byte(strings.Join(lines, "\n"))); err != nil {
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
	r := NewReader(fs, root, cat, log)

	// The decode still succeeds, only the power conversion is unavailable
	orig, err := r.OrigData("high", testTrackID)
	if err != nil {
		t.Fatal(err)
	}
	if orig == nil {
		t.Fatal("Expected orig data")
	}
	if orig.Image.Rows != 2 || orig.Image.Cols != 4 {
		t.Errorf("Image geometry: %vx%v", orig.Image.Rows, orig.Image.Cols)
	}
	if orig.PowerDB != nil {
		t.Errorf("Expected no power image, got %v", orig.PowerDB)
	}

	warned := false
	for _, line := range log.Lines {
		if strings.Contains(line, "No calibration bounds") {
			warned = true
		}
	}
	if !warned {
		t.Error("Expected a warning log")
	}
}

func TestOrigDataMissing(t *testing.T) {
	r, log := makeTestReader(t)

	// The nfoc track has a label but no image: warn, return nothing
	orig, err := r.OrigData("nfoc", testTrackID)
	if err != nil {
		t.Fatal(err)
	}
	if orig != nil {
		t.Fatal("Expected no data")
	}

	warned := false
	for _, line := range log.Lines {
		if strings.Contains(line, "No orig data") {
			warned = true
		}
	}
	if !warned {
		t.Error("Expected a warning log")
	}
}

func TestAncData(t *testing.T) {
	r, _ := makeTestReader(t)

	anc, err := r.AncData("high", testTrackID)
	if err != nil {
		t.Fatal(err)
	}
	if anc == nil {
		t.Fatal("Expected anc data")
	}

	if anc.Rows() != 4 {
		t.Errorf("Rows: %v", anc.Rows())
	}
	lats, err := anc.Floats("latitude")
	if err != nil {
		t.Fatal(err)
	}
	if lats[0] != -75.0 || lats[3] != -76.0 {
		t.Errorf("Latitudes: %v", lats)
	}

	// nfoc falls through to the high-res product's ancillary table
	nfocAnc, err := r.AncData("nfoc", testTrackID)
	if err != nil {
		t.Fatal(err)
	}
	if nfocAnc == nil || nfocAnc.Rows() != 4 {
		t.Fatal("Expected nfoc to use high-res anc data")
	}
}

func TestSrfAndSimData(t *testing.T) {
	r, log := makeTestReader(t)

	srf, err := r.SrfData("high", testTrackID, DefaultSurfaceMethod)
	if err != nil {
		t.Fatal(err)
	}
	if srf == nil || srf.Rows() != 4 {
		t.Fatalf("Srf: %+v", srf)
	}

	// No table archived for this method: warn, return nothing
	srf, err = r.SrfData("high", testTrackID, "someothermethod")
	if err != nil || srf != nil {
		t.Errorf("Expected no srf data, got %v, %v", srf, err)
	}
	warned := false
	for _, line := range log.Lines {
		if strings.Contains(line, "No srf data") {
			warned = true
		}
	}
	if !warned {
		t.Error("Expected a warning log")
	}

	sim, err := r.SimData("high", testTrackID, DefaultSimulationMethod)
	if err != nil {
		t.Fatal(err)
	}
	if len(sim) != 2 || sim[1][1] != 4.0 {
		t.Errorf("Sim: %v", sim)
	}
}

func TestWhereLat(t *testing.T) {
	r, _ := makeTestReader(t)

	mask, err := r.WhereLat("high", testTrackID, [2]float64{-75.7, -75.2})
	if err != nil {
		t.Fatal(err)
	}

	want := []bool{false, true, true, false}
	if len(mask) != len(want) {
		t.Fatalf("Mask: %v", mask)
	}
	for i := range want {
		if mask[i] != want[i] {
			t.Fatalf("Mask: %v, want %v", mask, want)
		}
	}

	// Limits work either way round
	mask2, err := r.WhereLat("high", testTrackID, [2]float64{-75.2, -75.7})
	if err != nil {
		t.Fatal(err)
	}
	for i := range mask {
		if mask[i] != mask2[i] {
			t.Fatal("Reversed limits changed the mask")
		}
	}
}

func TestTableConcat(t *testing.T) {
	t1, err := ReadCSVTable([]byte("a,b\n1,2\n3,4\n"))
	if err != nil {
		t.Fatal(err)
	}
	t2, err := ReadCSVTable([]byte("c\n5\n6\n"))
	if err != nil {
		t.Fatal(err)
	}

	t1.Concat(t2)
	if fmt.Sprintf("%v", t1.Columns) != "[a b c]" {
		t.Errorf("Columns: %v", t1.Columns)
	}
	c, err := t1.Floats("c")
	if err != nil || c[1] != 6 {
		t.Errorf("Column c: %v, %v", c, err)
	}

	out, err := t1.ToCSV()
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "a,b,c\n1,2,5\n3,4,6\n" {
		t.Errorf("CSV: %q", string(out))
	}
}
