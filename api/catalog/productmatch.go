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
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrNoSuchProduct - the substring matched no cataloged product
	ErrNoSuchProduct = errors.New("no product matches")

	// ErrAmbiguousProduct - the substring matched several products. We warn
	// with the candidates and refuse to pick one
	ErrAmbiguousProduct = errors.New("several products match")
)

// ProductMatch - resolves a product substring (eg "sar05") to the one full
// product name containing it
func (c *Catalog) ProductMatch(substring string) (string, error) {
	matches := []string{}
	for _, product := range c.ProductNames() {
		if strings.Contains(product, substring) {
			matches = append(matches, product)
		}
	}

	if len(matches) == 0 {
		return "", errors.Wrap(ErrNoSuchProduct, substring)
	}
	if len(matches) > 1 {
		c.log.Infof("WARNING: Several products match this substring:")
		for _, m := range matches {
			c.log.Infof("  %v", m)
		}
		return "", errors.Wrap(ErrAmbiguousProduct, substring)
	}
	return matches[0], nil
}
