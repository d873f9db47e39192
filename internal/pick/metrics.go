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

package pick

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commitDurations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pick_commit_duration_seconds",
		Help:    "the length of time it took to commit a partial pick",
		Buckets: prometheus.DefBuckets,
	})
	commitErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pick_commit_errors_total",
		Help: "the number of times savePick failed, by phase",
	}, []string{"phase"})
	commitSuccess = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pick_commit_success_total",
		Help: "the number of partial picks successfully committed",
	})

	unpickDurations = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pick_unpick_duration_seconds",
		Help:    "the length of time it took to reverse a partial pick",
		Buckets: prometheus.DefBuckets,
	})
	unpickErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pick_unpick_errors_total",
		Help: "the number of times unpick failed, by phase",
	}, []string{"phase"})
	unpickSuccess = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pick_unpick_success_total",
		Help: "the number of partial picks successfully reversed",
	})
)
