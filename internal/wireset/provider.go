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

// Package wireset assembles the server's dependency graph: the
// database pool, the HTTP router, and the top-level Server, via Wire
// rather than a hand-rolled constructor chain in main.
package wireset

import (
	"github.com/google/wire"
	"github.com/nwfth/partialpicking/internal/config"
	"github.com/nwfth/partialpicking/internal/dbpool"
	"github.com/nwfth/partialpicking/internal/httpapi"
	"github.com/nwfth/partialpicking/internal/stopper"
	"github.com/nwfth/partialpicking/internal/types"
)

// Set is used by Wire.
var Set = wire.NewSet(
	ProvidePool,
	ProvideServer,
)

// ProvidePool opens the shared warehouse database pool described by
// cfg, registering its cleanup against ctx.
func ProvidePool(ctx *stopper.Context, cfg *config.Config) (*types.Pool, func(), error) {
	return dbpool.Open(ctx, cfg.DatabaseDSN, cfg.PoolOptions())
}

// ProvideServer constructs the HTTP transport over pool.
func ProvideServer(pool *types.Pool) *httpapi.Server {
	return &httpapi.Server{Pool: pool}
}
