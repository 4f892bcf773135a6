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
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/pixlise/lrs-tools/api/trackdata"
)

// Picker - the surface-echo collaborator: given a calibrated power image it
// returns the estimated surface row per along-track column
type Picker interface {
	Pick(powerDB [][]float64) []float64
}

// StrongestEchoPicker - the default pick: the row with maximum power in each
// column
type StrongestEchoPicker struct {
}

func (p *StrongestEchoPicker) Pick(powerDB [][]float64) []float64 {
	if len(powerDB) == 0 {
		return []float64{}
	}

	cols := len(powerDB[0])
	picks := make([]float64, cols)
	for c := 0; c < cols; c++ {
		best := powerDB[0][c]
		for r := 1; r < len(powerDB); r++ {
			if powerDB[r][c] > best {
				best = powerDB[r][c]
				picks[c] = float64(r)
			}
		}
	}
	return picks
}

// ancTable - the ancillary table derived from a decoded track's header: the
// raw observation timestamp, a compact numeric timestamp, and the navigation
// fields. The range0 column only exists for products whose records carry it
func ancTable(orig *trackdata.OrigData) (*trackdata.Table, error) {
	if orig == nil {
		return nil, errors.New("No orig data to process")
	}
	hdr := orig.Header

	table := &trackdata.Table{}
	table.AddColumn("date", hdr.ObservationTime)

	times := make([]string, len(hdr.ObservationTime))
	for i, date := range hdr.ObservationTime {
		times[i] = compactTimestamp(date)
	}
	table.AddColumn("time", times)

	table.AddColumn("delay", formatFloats(hdr.Delay))
	table.AddColumn("latitude", formatFloats(hdr.Latitude))
	table.AddColumn("longitude", formatFloats(hdr.Longitude))
	table.AddColumn("altitude", formatFloats(hdr.Altitude))
	if hdr.Range0 != nil {
		table.AddColumn("range0", formatFloats(hdr.Range0))
	}

	return table, nil
}

// srfTable - the surface-pick table: one echo row estimate per column
func srfTable(orig *trackdata.OrigData, picker Picker) (*trackdata.Table, error) {
	if orig == nil {
		return nil, errors.New("No orig data to process")
	}
	if orig.PowerDB == nil {
		return nil, errors.New("No calibrated power image to pick surface echoes from")
	}

	table := &trackdata.Table{}
	table.AddColumn("echo", formatFloats(picker.Pick(orig.PowerDB)))
	return table, nil
}

// compactTimestamp - "2007-12-21T03:39:18.417" -> "20071221033918". Sub
// seconds are dropped, separators removed
func compactTimestamp(stamp string) string {
	stamp = strings.SplitN(stamp, ".", 2)[0]
	for _, sep := range []string{"T", "-", ":"} {
		stamp = strings.ReplaceAll(stamp, sep, "")
	}
	return stamp
}

func formatFloats(vals []float64) []string {
	result := make([]string, len(vals))
	for i, v := range vals {
		result[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return result
}
