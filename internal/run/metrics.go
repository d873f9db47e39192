// Copyright 2023 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package run

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	completeDurations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "run_complete_duration_seconds",
		Help:    "the length of time it took to complete a production run",
		Buckets: prometheus.DefBuckets,
	})
	completeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "run_complete_errors_total",
		Help: "the number of times completeRun failed, by phase",
	}, []string{"phase"})
	completeSuccess = promauto.NewCounter(prometheus.CounterOpts{
		Name: "run_complete_success_total",
		Help: "the number of production runs successfully completed",
	})
)
