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
	"path"
	"strings"

	"github.com/pkg/errors"
)

// Product directory names as they appear in the archive
const (
	HighProduct  = "sln-l-lrs-5-sndr-ss-high-v2.0"
	Sar05Product = "sln-l-lrs-5-sndr-ss-sar05-power-v1.0"
	Sar10Product = "sln-l-lrs-5-sndr-ss-sar10-power-v1.0"
	Sar40Product = "sln-l-lrs-5-sndr-ss-sar40-power-v1.0"

	// NfocProduct is simulation-derived and shares the high-res product's
	// geometry, so spatial queries skip it and its ancillary lookups fall
	// through to HighProduct
	NfocProduct = "sln-l-lrs-5-sndr-ss-nfoc-power-v1.0"
)

// trackIDLength - track ids are a 14 character timestamp: YYYYMMDDhhmmss
const trackIDLength = 14

// FilenameRoot - the archive file name (minus extension) for a product track,
// following the JAXA convention
func FilenameRoot(product string, trackID string) (string, error) {
	var middle string
	switch product {
	case HighProduct:
		middle = "SWH_RV20"
	case Sar05Product:
		middle = "SAR05KM"
	case Sar10Product:
		middle = "SAR10KM"
	case Sar40Product:
		middle = "SAR40KM"
	default:
		return "", errors.Errorf("No filename convention for product: %v", product)
	}
	return "LRS_" + middle + "_" + trackID, nil
}

// TrackIDFromFilename - extracts the track id embedded in an archive file
// name: the last underscore-separated token containing "200" (all mission
// timestamps start with the year 200x), truncated to the id length. Returns
// false if no token qualifies
func TrackIDFromFilename(filePath string) (string, bool) {
	name := path.Base(filePath)

	found := ""
	for _, token := range strings.Split(name, "_") {
		if strings.Contains(token, "200") {
			found = token
		}
	}
	if len(found) < trackIDLength {
		return "", false
	}
	return found[:trackIDLength], true
}

// FileRole - what kind of data a cataloged file carries
type FileRole string

const (
	RoleLabel      FileRole = "lbl"
	RoleImage      FileRole = "img"
	RoleAncillary  FileRole = "anc"
	RoleSurface    FileRole = "srf"
	RoleSimulation FileRole = "sim"
	RoleOther      FileRole = "other"
)

// RoleOf - classifies a cataloged file path. Derived products are identified
// by the stage directory they live under, originals by extension
func RoleOf(filePath string) FileRole {
	for _, stage := range []FileRole{RoleAncillary, RoleSurface, RoleSimulation} {
		if strings.Contains(filePath, "/"+string(stage)+"/") {
			return stage
		}
	}

	switch path.Ext(filePath) {
	case ".lbl":
		return RoleLabel
	case ".img":
		return RoleImage
	}
	return RoleOther
}

// FilesWithRole - the subset of a track's files with the given role
func (t *Track) FilesWithRole(role FileRole) []string {
	result := []string{}
	for _, f := range t.Files {
		if RoleOf(f) == role {
			result = append(result, f)
		}
	}
	return result
}
