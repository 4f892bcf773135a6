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

// Downloads original archive products into the local hierarchy. Remote
// paths mirror the local ones, so a fetched file lands exactly where the
// catalog builder expects to find it.
package fetch

import (
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/pixlise/lrs-tools/api/catalog"
	"github.com/pixlise/lrs-tools/api/config"
	"github.com/pixlise/lrs-tools/core/fileaccess"
	"github.com/pixlise/lrs-tools/core/logger"
)

// Status - what happened to the local copy
type Status int

const (
	// StatusFetched - the file was downloaded
	StatusFetched Status = iota
	// StatusAlreadyPresent - a local copy existed, nothing was downloaded
	StatusAlreadyPresent
	// StatusDeleted - the local copy was removed on request
	StatusDeleted
)

func (s Status) String() string {
	switch s {
	case StatusFetched:
		return "fetched"
	case StatusAlreadyPresent:
		return "already-present"
	case StatusDeleted:
		return "deleted"
	}
	return "unknown"
}

// Options - per-fetch behavior
type Options struct {
	// Re-download even when a local copy exists
	Overwrite bool

	// Delete the local copy instead of fetching
	Remove bool
}

// Fetcher - resolves and downloads archive files
type Fetcher struct {
	fs   fileaccess.FileAccess
	root string
	cfg  config.DataConfig
	log  logger.ILogger

	// Replaceable for tests
	Client *http.Client
}

func NewFetcher(fs fileaccess.FileAccess, root string, cfg config.DataConfig, log logger.ILogger) *Fetcher {
	if log == nil {
		log = &logger.NullLogger{}
	}
	return &Fetcher{
		fs:     fs,
		root:   root,
		cfg:    cfg,
		log:    log,
		Client: &http.Client{Timeout: 2 * time.Minute},
	}
}

// ResolveRemote - the canonical archive URL of one product track file
func (f *Fetcher) ResolveRemote(product string, trackID string, ext string) (string, error) {
	filename, err := fileName(product, trackID, ext)
	if err != nil {
		return "", err
	}
	host := strings.TrimSuffix(f.cfg.RemoteHost, "/")
	return host + "/" + product + "/" + day(trackID) + "/data/" + filename, nil
}

// LocalPath - where the file lives in the local hierarchy, relative to the
// storage root
func (f *Fetcher) LocalPath(product string, trackID string, ext string) (string, error) {
	filename, err := fileName(product, trackID, ext)
	if err != nil {
		return "", err
	}
	return path.Join(f.cfg.OrigPath(), product, day(trackID), "data", filename), nil
}

// Fetch - ensures the local hierarchy state requested: downloads the file if
// missing (or Overwrite is set), or removes it when Remove is set. Returns
// what happened and the local path
func (f *Fetcher) Fetch(product string, trackID string, ext string, opts Options) (Status, string, error) {
	localPath, err := f.LocalPath(product, trackID, ext)
	if err != nil {
		return 0, "", err
	}

	if opts.Remove {
		if err := f.fs.DeleteObject(f.root, localPath); err != nil && !f.fs.IsNotFoundError(err) {
			return 0, localPath, err
		}
		f.log.Infof("%v DELETED", localPath)
		return StatusDeleted, localPath, nil
	}

	exists, err := f.fs.ObjectExists(f.root, localPath)
	if err != nil {
		return 0, localPath, err
	}
	if exists && !opts.Overwrite {
		f.log.Infof("%v EXISTS (NOT DOWNLOADED)", localPath)
		return StatusAlreadyPresent, localPath, nil
	}

	remote, err := f.ResolveRemote(product, trackID, ext)
	if err != nil {
		return 0, localPath, err
	}

	resp, err := f.Client.Get(remote)
	if err != nil {
		return 0, localPath, errors.Wrapf(err, "Failed to fetch %v", remote)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, localPath, errors.Errorf("Fetch of %v returned status %v", remote, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, localPath, errors.Wrapf(err, "Failed to read %v", remote)
	}

	if err := f.fs.WriteObject(f.root, localPath, data); err != nil {
		return 0, localPath, err
	}

	f.log.Infof("%v DOWNLOADED", localPath)
	return StatusFetched, localPath, nil
}

func day(trackID string) string {
	if len(trackID) > 8 {
		return trackID[:8]
	}
	return trackID
}

func fileName(product string, trackID string, ext string) (string, error) {
	root, err := catalog.FilenameRoot(product, trackID)
	if err != nil {
		return "", err
	}
	return root + "." + ext, nil
}
