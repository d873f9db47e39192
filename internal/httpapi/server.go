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

package httpapi

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nwfth/partialpicking/internal/types"
)

// Server wires the core packages to the partial-picking HTTP routes,
// plus the supplemented bins/workstations lookups.
type Server struct {
	Pool *types.Pool
}

// NewRouter builds the chi router. Auth and any outer envelope
// (rate limiting, request logging middleware beyond the basics) are
// left to whatever process embeds this router; chi.Mux composes
// cleanly with either.
func (s *Server) NewRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/runs/{runNo}", s.handleRunDetails)
		r.Get("/runs/{runNo}/batches/{rowNum}/items", s.handleBatchItems)
		r.Post("/runs/{runNo}/complete", s.handleCompleteRun)

		r.Post("/picks", s.handleSavePick)
		r.Delete("/picks/{runNo}/{rowNum}/{lineId}", s.handleUnpick)
		r.Get("/picks/run/{runNo}/lots", s.handlePickedLots)
		r.Get("/picks/run/{runNo}/pending", s.handlePendingItems)

		r.Get("/lots/available", s.handleAvailableLots)
		r.Get("/lots/{lotNo}", s.handleLotByNumber)

		r.Get("/bins", s.handleBins)
		r.Get("/workstations", s.handleWorkstations)
	})

	return r
}
