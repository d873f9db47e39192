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

// Package config contains the user-visible configuration for running
// the partial-picking coordinator server.
package config

import (
	"time"

	"github.com/nwfth/partialpicking/internal/dbpool"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// Config is the top-level server configuration.
type Config struct {
	BindAddr string

	DatabaseDSN     string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	WaitForStartup  bool

	RequestTimeout time.Duration
}

// Bind registers flags against the given set.
func (c *Config) Bind(flags *pflag.FlagSet) {
	flags.StringVar(
		&c.BindAddr,
		"bindAddr",
		":8080",
		"the network address to bind to")
	flags.StringVar(
		&c.DatabaseDSN,
		"databaseDSN",
		"",
		"the sqlserver:// connection string for the shared warehouse database")
	flags.IntVar(
		&c.MaxOpenConns,
		"maxOpenConns",
		10,
		"the maximum number of open connections to the shared warehouse database")
	flags.IntVar(
		&c.MaxIdleConns,
		"maxIdleConns",
		10,
		"the maximum number of idle connections to keep pooled")
	flags.DurationVar(
		&c.ConnMaxLifetime,
		"connMaxLifetime",
		time.Hour,
		"the maximum lifetime of a pooled connection")
	flags.BoolVar(
		&c.WaitForStartup,
		"waitForStartup",
		false,
		"retry the initial database connection instead of failing immediately")
	flags.DurationVar(
		&c.RequestTimeout,
		"requestTimeout",
		30*time.Second,
		"the per-request deadline applied to every HTTP handler")
}

// Preflight validates the configuration; it does not fill in any
// defaults.
func (c *Config) Preflight() error {
	if c.BindAddr == "" {
		return errors.New("bindAddr unset")
	}
	if c.DatabaseDSN == "" {
		return errors.New("databaseDSN unset")
	}
	if c.MaxOpenConns <= 0 {
		return errors.New("maxOpenConns must be positive")
	}
	if c.MaxIdleConns <= 0 {
		return errors.New("maxIdleConns must be positive")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("requestTimeout must be positive")
	}
	return nil
}

// PoolOptions adapts the flag-bound fields into dbpool.Options.
func (c *Config) PoolOptions() dbpool.Options {
	return dbpool.Options{
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
		WaitForStartup:  c.WaitForStartup,
	}
}
