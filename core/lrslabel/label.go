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

// Reader for PDS3 label files as produced for LRS sounder products.
// Labels are line oriented KEYWORD = VALUE text. A keyword can legitimately
// appear on several lines and the LAST occurrence is authoritative - that
// matches the producing pipeline and must not change.
package lrslabel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pixlise/lrs-tools/core/utils"
)

// ErrKeywordNotFound - the keyword never appeared in the label. Callers treat
// this as a logic error for keywords the format guarantees to be present.
var ErrKeywordNotFound = errors.New("keyword not found in label")

// IsNotFound - true when the error means the keyword was absent, as opposed
// to present but unparseable
func IsNotFound(err error) bool {
	return errors.Is(err, ErrKeywordNotFound)
}

// ValueType - what a label value parsed as
type ValueType int

const (
	TypeString ValueType = iota
	TypeInt
	TypeFloat
)

// Value - a typed label keyword value. Values containing a decimal point
// parse as floats, else we attempt integer, else the raw text is kept.
type Value struct {
	Type  ValueType
	Str   string
	Int   int64
	Float float64
}

func (v Value) String() string {
	switch v.Type {
	case TypeInt:
		return strconv.FormatInt(v.Int, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	}
	return v.Str
}

// AsFloat - numeric value as float64, ints widen
func (v Value) AsFloat() (float64, error) {
	switch v.Type {
	case TypeFloat:
		return v.Float, nil
	case TypeInt:
		return float64(v.Int), nil
	}
	return 0, fmt.Errorf("label value \"%v\" is not numeric", v.Str)
}

// AsInt - integer value
func (v Value) AsInt() (int, error) {
	if v.Type != TypeInt {
		return 0, fmt.Errorf("label value \"%v\" is not an integer", v.String())
	}
	return int(v.Int), nil
}

func makeValue(cleaned string) Value {
	if strings.Contains(cleaned, ".") {
		if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return Value{Type: TypeFloat, Float: f}
		}
	} else if i, err := strconv.ParseInt(cleaned, 10, 64); err == nil {
		return Value{Type: TypeInt, Int: i}
	}
	return Value{Type: TypeString, Str: cleaned}
}

// ParseKeywordLine - returns the last raw line containing the keyword,
// verbatim. Used where two values live on one line and the caller does its
// own splitting
func ParseKeywordLine(lines []string, keyword string) (string, error) {
	found := ""
	ok := false
	for _, line := range lines {
		if strings.Contains(line, keyword) {
			found = line
			ok = true
		}
	}
	if !ok {
		return "", fmt.Errorf("%w: %v", ErrKeywordNotFound, keyword)
	}
	return found, nil
}

// ParseKeyword - scans label lines for the keyword, last occurrence wins.
// All whitespace is removed, the text after the last '=' is taken and
// surrounding quotes stripped before type coercion
func ParseKeyword(lines []string, keyword string) (Value, error) {
	line, err := ParseKeywordLine(lines, keyword)
	if err != nil {
		return Value{}, err
	}

	cleaned := strings.Join(strings.Fields(line), "")
	eq := strings.LastIndex(cleaned, "=")
	if eq >= 0 {
		cleaned = cleaned[eq+1:]
	}
	cleaned = strings.ReplaceAll(cleaned, "\"", "")

	return makeValue(cleaned), nil
}

// ReadKeyword - ParseKeyword over a label file on disk
func ReadKeyword(path string, keyword string) (Value, error) {
	lines, err := utils.ReadFileLines(path)
	if err != nil {
		return Value{}, err
	}
	return ParseKeyword(lines, keyword)
}

// ReadKeywordLine - ParseKeywordLine over a label file on disk
func ReadKeywordLine(path string, keyword string) (string, error) {
	lines, err := utils.ReadFileLines(path)
	if err != nil {
		return "", err
	}
	return ParseKeywordLine(lines, keyword)
}

// ReadCalibrationBounds - Pmax/Pmin both live on one line of the label, eg
// "... (Pmax = -20.5, Pmin = -90.2)". Returns both in dB
func ReadCalibrationBounds(path string) (float64, float64, error) {
	lines, err := utils.ReadFileLines(path)
	if err != nil {
		return 0, 0, err
	}
	return ParseCalibrationBounds(lines)
}

// ParseCalibrationBounds - as ReadCalibrationBounds but over in-memory lines
func ParseCalibrationBounds(lines []string) (float64, float64, error) {
	line, err := ParseKeywordLine(lines, "Pmax")
	if err != nil {
		return 0, 0, err
	}
	return parseCalibrationLine(line)
}

func parseCalibrationLine(line string) (float64, float64, error) {
	pmax, err := calibrationValue(line, "Pmax")
	if err != nil {
		return 0, 0, err
	}
	pmin, err := calibrationValue(line, "Pmin")
	if err != nil {
		return 0, 0, err
	}
	return pmax, pmin, nil
}

// calibrationValue - the number assigned to the named coefficient. The
// conversion formula earlier in the line mentions the names too, but only
// the coefficient list assigns with " = ", so the last assignment is the one
func calibrationValue(line string, name string) (float64, error) {
	assign := name + " = "
	idx := strings.LastIndex(line, assign)
	if idx < 0 {
		return 0, fmt.Errorf("malformed calibration line: %v", line)
	}

	rest := line[idx+len(assign):]
	if end := strings.IndexAny(rest, ",)\""); end >= 0 {
		rest = rest[:end]
	}

	// Prose-style lists follow the value with more words, take the first
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return 0, fmt.Errorf("malformed calibration line: %v", line)
	}
	f, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("malformed calibration value in: %v", line)
	}
	return f, nil
}
