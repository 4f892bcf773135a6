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
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Table - a simple column-oriented table as read from archived CSV text.
// Cells stay as text until a caller asks for a typed column
type Table struct {
	Columns []string
	Cells   map[string][]string
}

// Rows - row count, 0 for an empty table
func (t *Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Cells[t.Columns[0]])
}

// Strings - one column as text. Nil if the column doesn't exist
func (t *Table) Strings(column string) []string {
	return t.Cells[column]
}

// Floats - one column parsed as float64
func (t *Table) Floats(column string) ([]float64, error) {
	cells, ok := t.Cells[column]
	if !ok {
		return nil, errors.Errorf("No column: %v", column)
	}

	result := make([]float64, len(cells))
	for i, cell := range cells {
		f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "Bad value in column %v row %v", column, i)
		}
		result[i] = f
	}
	return result, nil
}

// AddColumn - appends a column. Duplicated names overwrite, matching how
// columns concatenate when several archive files carry the same field
func (t *Table) AddColumn(name string, cells []string) {
	if _, exists := t.Cells[name]; !exists {
		t.Columns = append(t.Columns, name)
	}
	if t.Cells == nil {
		t.Cells = map[string][]string{}
	}
	t.Cells[name] = cells
}

// Concat - appends all of other's columns to this table
func (t *Table) Concat(other *Table) {
	for _, col := range other.Columns {
		t.AddColumn(col, other.Cells[col])
	}
}

// ToCSV - the table as CSV text with a header row
func (t *Table) ToCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(t.Columns); err != nil {
		return nil, err
	}

	rows := t.Rows()
	record := make([]string, len(t.Columns))
	for r := 0; r < rows; r++ {
		for i, col := range t.Columns {
			cells := t.Cells[col]
			if r < len(cells) {
				record[i] = cells[r]
			} else {
				record[i] = ""
			}
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// ReadCSVTable - parses CSV text with a header row into a Table
func ReadCSVTable(data []byte) (*Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "Failed to parse CSV")
	}
	if len(records) == 0 {
		return nil, errors.New("CSV has no header row")
	}

	result := &Table{Cells: map[string][]string{}}
	for i, col := range records[0] {
		cells := make([]string, 0, len(records)-1)
		for _, record := range records[1:] {
			if i < len(record) {
				cells = append(cells, record[i])
			} else {
				cells = append(cells, "")
			}
		}
		result.AddColumn(strings.TrimSpace(col), cells)
	}
	return result, nil
}
