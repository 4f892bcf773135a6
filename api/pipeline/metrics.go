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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	processRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lrs_process_runs_total",
		Help: "Number of track process runs.",
	}, []string{"process"})
	processFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lrs_process_failures_total",
		Help: "Number of failed track process runs.",
	}, []string{"process"})
	archivesWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lrs_archives_written_total",
		Help: "Number of archive files written.",
	}, []string{"process"})
)
