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

//go:build wireinject
// +build wireinject

package wireset

import (
	"github.com/google/wire"
	"github.com/nwfth/partialpicking/internal/config"
	"github.com/nwfth/partialpicking/internal/httpapi"
	"github.com/nwfth/partialpicking/internal/stopper"
)

// New assembles the server and its dependencies from cfg.
func New(ctx *stopper.Context, cfg *config.Config) (*httpapi.Server, func(), error) {
	panic(wire.Build(Set))
}
