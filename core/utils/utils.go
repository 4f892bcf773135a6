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

// Small helper functions shared across packages. Stuff that you'd expect to
// be part of the std lib but isn't, eg searching for strings in string slices
package utils

import (
	"bufio"
	"os"
	"strings"
)

const PrettyPrintIndentForJSON = "    "

func StringInSlice(a string, list []string) bool {
	for _, b := range list {
		if b == a {
			return true
		}
	}
	return false
}

func StringSlicesEqual(test []string, ans []string) bool {
	if len(test) != len(ans) {
		return false
	}

	for c := range test {
		if test[c] != ans[c] {
			return false
		}
	}

	return true
}

// FirstContaining - Returns the first string in the slice containing substr,
// else empty string and false
func FirstContaining(list []string, substr string) (string, bool) {
	for _, item := range list {
		if strings.Contains(item, substr) {
			return item, true
		}
	}
	return "", false
}

// AllContaining - Returns all strings in the slice containing substr
func AllContaining(list []string, substr string) []string {
	result := []string{}
	for _, item := range list {
		if strings.Contains(item, substr) {
			result = append(result, item)
		}
	}
	return result
}

// ReadFileLines - Reads the file and returns it as a slice of lines
func ReadFileLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	lines := []string{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	return lines, scanner.Err()
}
