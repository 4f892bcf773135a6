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

package lrsformat

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrUnknownDataSet - DATA_SET_ID didn't match any layout we know. We refuse
// to guess a record layout, decoding garbage silently is far worse
var ErrUnknownDataSet = errors.New("unrecognised DATA_SET_ID")

// FieldType - binary type of one header record field
type FieldType int

const (
	// FieldText - fixed length ASCII, eg the observation timestamp
	FieldText FieldType = iota
	// FieldFloat32 - 4 byte IEEE float, big endian
	FieldFloat32
	// FieldUint16 - 2 byte unsigned, big endian
	FieldUint16
)

// Field - one named field of a header record, read in file order
type Field struct {
	Name string
	Type FieldType
	Size int
}

// RecordLayout - the full fixed sequence of fields making up one header
// record. This is a byte-exact contract with the producing instrument, field
// order and widths included
type RecordLayout struct {
	Name   string
	Fields []Field
}

// RecordSize - total bytes per header record
func (l *RecordLayout) RecordSize() int {
	size := 0
	for _, f := range l.Fields {
		size += f.Size
	}
	return size
}

// Field names as they appear in the format documents
const (
	FieldObservationTime = "OBSERVATION_TIME"
	FieldDelay           = "DELAY"
	FieldLatitude        = "SUB_SPACECRAFT_LATITUDE"
	FieldLongitude       = "SUB_SPACECRAFT_LONGITUDE"
	FieldAltitude        = "SPACECRAFT_ALTITUDE"
	FieldRange0          = "DISTANCE_TO_RANGE0"
	FieldAux             = "AUX_DATA"
)

const observationTimeBytes = 23

// The SAR power products carry two extra fields over the high resolution
// sounder product: the range-zero distance and an auxiliary word
var sarLayout = RecordLayout{
	Name: "SAR-POWER",
	Fields: []Field{
		{FieldObservationTime, FieldText, observationTimeBytes},
		{FieldDelay, FieldFloat32, 4},
		{FieldLatitude, FieldFloat32, 4},
		{FieldLongitude, FieldFloat32, 4},
		{FieldAltitude, FieldFloat32, 4},
		{FieldRange0, FieldFloat32, 4},
		{FieldAux, FieldUint16, 2},
	},
}

var highResLayout = RecordLayout{
	Name: "HIGH-RES",
	Fields: []Field{
		{FieldObservationTime, FieldText, observationTimeBytes},
		{FieldDelay, FieldFloat32, 4},
		{FieldLatitude, FieldFloat32, 4},
		{FieldLongitude, FieldFloat32, 4},
		{FieldAltitude, FieldFloat32, 4},
	},
}

// Closed set - these are the only dataset ids this instrument toolchain
// produces. Anything else fails loudly
var layoutByDataSet = map[string]*RecordLayout{
	"SLN-L-LRS-5-SNDR-SS-HIGH-V2.0":        &highResLayout,
	"SLN-L-LRS-5-SNDR-SS-SAR05-POWER-V1.0": &sarLayout,
	"SLN-L-LRS-5-SNDR-SS-SAR10-POWER-V1.0": &sarLayout,
	"SLN-L-LRS-5-SNDR-SS-SAR40-POWER-V1.0": &sarLayout,
}

// LayoutForDataSet - picks the record layout for a DATA_SET_ID
func LayoutForDataSet(dataSetID string) (*RecordLayout, error) {
	layout, ok := layoutByDataSet[dataSetID]
	if !ok {
		return nil, fmt.Errorf("%w: \"%v\"", ErrUnknownDataSet, dataSetID)
	}
	return layout, nil
}
