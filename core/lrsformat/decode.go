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

// Decoder for LRS flat binary data files. A data file is a run of header
// records followed by the image: one unsigned byte per pixel, LINES rows of
// RECORD_BYTES columns. The image starts (FILE_RECORDS - LINES) * RECORD_BYTES
// bytes into the file, and the header region before it carries one fixed-size
// record per image column describing the observation at that along-track
// position.
package lrsformat

import (
	"encoding/binary"
	"math"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/pixlise/lrs-tools/core/lrslabel"
)

// ImageLabel - the label keywords that drive binary decoding
type ImageLabel struct {
	RecordBytes int
	FileRecords int
	Lines       int
	DataSetID   string
}

// ImageByteOffset - where the image pixels start within the data file
func (l ImageLabel) ImageByteOffset() int {
	return (l.FileRecords - l.Lines) * l.RecordBytes
}

// ReadImageLabel - reads the decode-relevant keywords from a label file
func ReadImageLabel(lblPath string) (ImageLabel, error) {
	lines, err := os.ReadFile(lblPath)
	if err != nil {
		return ImageLabel{}, err
	}
	return ParseImageLabel(strings.Split(string(lines), "\n"))
}

// ParseImageLabel - as ReadImageLabel but over in-memory label lines
func ParseImageLabel(lines []string) (ImageLabel, error) {
	result := ImageLabel{}

	for _, item := range []struct {
		keyword string
		dest    *int
	}{
		{"RECORD_BYTES", &result.RecordBytes},
		{"FILE_RECORDS", &result.FileRecords},
		{"LINES", &result.Lines},
	} {
		v, err := lrslabel.ParseKeyword(lines, item.keyword)
		if err != nil {
			return ImageLabel{}, err
		}
		*item.dest, err = v.AsInt()
		if err != nil {
			return ImageLabel{}, errors.Wrapf(err, "Failed to read %v", item.keyword)
		}
	}

	v, err := lrslabel.ParseKeyword(lines, "DATA_SET_ID")
	if err != nil {
		return ImageLabel{}, err
	}
	result.DataSetID = v.String()

	return result, nil
}

// Header - the per-column observation metadata decoded from the header
// records. All slices have one entry per image column. Range0 and Aux are only
// filled for SAR power products
type Header struct {
	ObservationTime []string
	Delay           []float64
	Latitude        []float64
	Longitude       []float64
	Altitude        []float64
	Range0          []float64
	Aux             []uint16
}

// Columns - how many along-track columns the header describes
func (h *Header) Columns() int {
	return len(h.ObservationTime)
}

// Image - decoded radargram pixels, row major. Rows are delay bins, columns
// are along-track positions
type Image struct {
	Rows int
	Cols int
	Pix  []uint8
}

// At - pixel at row r, column c
func (img *Image) At(r, c int) uint8 {
	return img.Pix[r*img.Cols+c]
}

// Row - one delay bin across all columns. The returned slice aliases the
// image storage
func (img *Image) Row(r int) []uint8 {
	return img.Pix[r*img.Cols : (r+1)*img.Cols]
}

// Column - copies out one along-track column
func (img *Image) Column(c int) []uint8 {
	result := make([]uint8, img.Rows)
	for r := 0; r < img.Rows; r++ {
		result[r] = img.Pix[r*img.Cols+c]
	}
	return result
}

// Decode - decodes the header records and image pixels from an in-memory data
// file. The record layout comes from DATA_SET_ID, one header record is read
// per image column starting at the top of the file
func Decode(data []byte, lbl ImageLabel) (*Header, *Image, error) {
	layout, err := LayoutForDataSet(lbl.DataSetID)
	if err != nil {
		return nil, nil, err
	}

	if lbl.RecordBytes <= 0 || lbl.Lines <= 0 || lbl.FileRecords < lbl.Lines {
		return nil, nil, errors.Errorf("Bad label geometry: RECORD_BYTES=%v, FILE_RECORDS=%v, LINES=%v", lbl.RecordBytes, lbl.FileRecords, lbl.Lines)
	}

	imageOffset := lbl.ImageByteOffset()
	cols := lbl.RecordBytes

	headerBytes := cols * layout.RecordSize()
	if headerBytes > imageOffset {
		return nil, nil, errors.Errorf("Header region too small: need %v bytes for %v records, have %v before image", headerBytes, cols, imageOffset)
	}

	imageBytes := lbl.Lines * lbl.RecordBytes
	if len(data) < imageOffset+imageBytes {
		return nil, nil, errors.Errorf("Data file truncated: expected %v bytes, got %v", imageOffset+imageBytes, len(data))
	}

	hdr, err := decodeHeader(data, cols, layout)
	if err != nil {
		return nil, nil, err
	}

	img := &Image{
		Rows: lbl.Lines,
		Cols: cols,
		Pix:  data[imageOffset : imageOffset+imageBytes],
	}

	return hdr, img, nil
}

// ReadFile - reads + decodes a data file from disk, taking decode geometry
// from its label file
func ReadFile(imgPath string, lblPath string) (*Header, *Image, error) {
	lbl, err := ReadImageLabel(lblPath)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "Failed to read label: %v", lblPath)
	}

	data, err := os.ReadFile(imgPath)
	if err != nil {
		return nil, nil, err
	}

	return Decode(data, lbl)
}

func decodeHeader(data []byte, cols int, layout *RecordLayout) (*Header, error) {
	hdr := &Header{
		ObservationTime: make([]string, cols),
		Delay:           make([]float64, cols),
		Latitude:        make([]float64, cols),
		Longitude:       make([]float64, cols),
		Altitude:        make([]float64, cols),
	}

	hasRange0 := false
	for _, f := range layout.Fields {
		if f.Name == FieldRange0 {
			hasRange0 = true
		}
	}
	if hasRange0 {
		hdr.Range0 = make([]float64, cols)
		hdr.Aux = make([]uint16, cols)
	}

	recSize := layout.RecordSize()
	for c := 0; c < cols; c++ {
		rec := data[c*recSize : (c+1)*recSize]
		pos := 0

		for _, f := range layout.Fields {
			raw := rec[pos : pos+f.Size]
			pos += f.Size

			switch f.Name {
			case FieldObservationTime:
				hdr.ObservationTime[c] = strings.TrimRight(string(raw), " \x00")
			case FieldDelay:
				hdr.Delay[c] = decodeF32(raw)
			case FieldLatitude:
				hdr.Latitude[c] = decodeF32(raw)
			case FieldLongitude:
				hdr.Longitude[c] = decodeF32(raw)
			case FieldAltitude:
				hdr.Altitude[c] = decodeF32(raw)
			case FieldRange0:
				hdr.Range0[c] = decodeF32(raw)
			case FieldAux:
				hdr.Aux[c] = binary.BigEndian.Uint16(raw)
			default:
				return nil, errors.Errorf("Layout %v has unhandled field: %v", layout.Name, f.Name)
			}
		}
	}

	return hdr, nil
}

func decodeF32(raw []byte) float64 {
	return float64(math.Float32frombits(binary.BigEndian.Uint32(raw)))
}

// PowerImage - converts raw pixel values to calibrated power in dB using the
// Pmax/Pmin bounds from the label:
//
//	pdb = (255-DN)*(Pmax-Pmin)/255 + Pmin
//
// Returns one row per delay bin
func PowerImage(img *Image, pmax float64, pmin float64) [][]float64 {
	result := make([][]float64, img.Rows)
	scale := (pmax - pmin) / 255.0

	for r := 0; r < img.Rows; r++ {
		row := make([]float64, img.Cols)
		for c, dn := range img.Row(r) {
			row[c] = float64(255-int(dn))*scale + pmin
		}
		result[r] = row
	}
	return result
}
