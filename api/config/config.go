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

// Dataset configuration as read from strings/JSON and some constants defined here also
package config

import (
	"fmt"
	"os"
	"path"
	"reflect"
	"strconv"
	"strings"

	"github.com/pixlise/lrs-tools/core/awsutil"
	"github.com/pixlise/lrs-tools/core/fileaccess"
	"github.com/pixlise/lrs-tools/core/logger"
)

// DataConfig combines env vars and config JSON values
type DataConfig struct {
	// Local hierarchy root. All data lives under <RootPath>/data
	RootPath string

	// When set, the hierarchy lives in this S3 bucket instead of local disk
	DataBucket string

	// Archive base URL for downloading original products
	RemoteHost string

	LogLevel logger.LogLevel // Can be changed at runtime, but if we restart it goes back to configured value

	// Great-circle sampling interval for the spatial filter, meters
	SamplingMeters float64

	// How many tracks process in parallel in bulk runs
	WorkerCount int

	// Whether archive steps overwrite existing outputs
	OverwriteArchive bool
}

const defaultRemoteHost = "https://data.darts.isas.jaxa.jp/pub/pds3/"

// DefaultConfig - the values used when no config file or env overrides exist
func DefaultConfig() DataConfig {
	return DataConfig{
		RootPath:       "..",
		RemoteHost:     defaultRemoteHost,
		LogLevel:       logger.LogInfo,
		SamplingMeters: 10e3,
		WorkerCount:    4,
	}
}

// DataPath - relative path of the whole data tree within the storage root
func (c DataConfig) DataPath() string {
	return "data"
}

// OrigPath - where original archive products live
func (c DataConfig) OrigPath() string {
	return path.Join(c.DataPath(), "orig", "lrs")
}

// XtraPath - where derived products live
func (c DataConfig) XtraPath() string {
	return path.Join(c.DataPath(), "xtra", "lrs")
}

// MakeFileAccess - the storage the config points at: S3 when a bucket is
// configured, local filesystem otherwise. Returns the accessor and the root
// to pass to it
func MakeFileAccess(cfg DataConfig) (fileaccess.FileAccess, string, error) {
	if len(cfg.DataBucket) > 0 {
		sess, err := awsutil.GetSession()
		if err != nil {
			return nil, "", err
		}
		s3svc, err := awsutil.GetS3(sess)
		if err != nil {
			return nil, "", err
		}
		return fileaccess.MakeS3Access(s3svc), cfg.DataBucket, nil
	}
	return &fileaccess.FSAccess{}, cfg.RootPath, nil
}

// NewConfig - loads config JSON through a storage accessor then applies env
// overrides. The config can live beside the data, including in an S3 bucket
func NewConfig(fs fileaccess.FileAccess, root string, configPath string) (DataConfig, error) {
	cfg := DefaultConfig()
	if err := fs.ReadJSON(root, configPath, &cfg, false); err != nil {
		return DataConfig{}, fmt.Errorf("could not read config file at %s: %v", configPath, err)
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

// NewConfigFromFile - NewConfig against the local filesystem
func NewConfigFromFile(configFilePath string) (DataConfig, error) {
	return NewConfig(&fileaccess.FSAccess{}, path.Dir(configFilePath), path.Base(configFilePath))
}

// Override config with any values explicitly set in env vars (LRS_CONFIG_*)
// NOTE: For []string slices, pass in a comma-separated string to the corresponding LRS_CONFIG_ var
func applyEnvOverrides(cfg *DataConfig) {
	reflection := reflect.ValueOf(cfg).Elem()
	for i := 0; i < reflection.NumField(); i++ {
		fieldName := reflection.Type().Field(i).Name
		field := reflection.Field(i)
		if val, present := os.LookupEnv(fmt.Sprintf("LRS_CONFIG_%s", fieldName)); present {
			switch field.Kind() {
			case reflect.String:
				field.SetString(val)
			case reflect.Slice:
				if field.Type().Elem().Kind() == reflect.String {
					slicedVal := strings.Split(val, ",")
					field.Set(reflect.ValueOf(slicedVal))
				}
			case reflect.Int, reflect.Int32:
				i, err := strconv.Atoi(val)
				if err != nil {
					fmt.Printf("Could not cast value LRS_CONFIG_%s=%s to Int", fieldName, val)
					continue
				}
				field.SetInt(int64(i))
			case reflect.Float64:
				f, err := strconv.ParseFloat(val, 64)
				if err != nil {
					fmt.Printf("Could not cast value LRS_CONFIG_%s=%s to Float", fieldName, val)
					continue
				}
				field.SetFloat(f)
			case reflect.Bool:
				field.SetBool(val == "true" || val == "1")
			}
		}
	}
}
