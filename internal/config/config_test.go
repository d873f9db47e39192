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

package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestPreflightRequiresDSN(t *testing.T) {
	r := require.New(t)

	c := &Config{}
	c.Bind(pflag.NewFlagSet("test", pflag.ContinueOnError))
	r.Error(c.Preflight())

	c.DatabaseDSN = "sqlserver://localhost"
	r.NoError(c.Preflight())
}

func TestPreflightRejectsBadPoolSizes(t *testing.T) {
	r := require.New(t)

	c := &Config{}
	c.Bind(pflag.NewFlagSet("test", pflag.ContinueOnError))
	c.DatabaseDSN = "sqlserver://localhost"
	c.MaxOpenConns = 0
	r.Error(c.Preflight())
}
