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

// Package dbpool opens the standardized connection pool to the shared
// warehouse database.
package dbpool

import (
	"context"
	"database/sql"
	"time"

	"github.com/nwfth/partialpicking/internal/stopper"
	"github.com/nwfth/partialpicking/internal/types"
	_ "github.com/microsoft/go-mssqldb" // register the "sqlserver" driver
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Options configure the pool independently of the connection string.
// Collapsed into a plain struct since this coordinator only ever
// opens one pool.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	WaitForStartup  bool
}

// DefaultOptions returns a conservative bounded pool (max 10 open
// connections) suitable for a shared warehouse database.
func DefaultOptions() Options {
	return Options{
		MaxOpenConns:    10,
		MaxIdleConns:    10,
		ConnMaxLifetime: time.Hour,
	}
}

// Open connects to the shared SQL Server database and returns a Pool
// plus a cleanup function. The cleanup is also registered against the
// stopper.Context so that an orderly shutdown closes the pool even if
// the caller forgets to invoke the returned func.
func Open(
	ctx *stopper.Context, dsn string, opts Options,
) (*types.Pool, func(), error) {
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, nil, errors.Wrap(err, "could not open sqlserver connection")
	}

	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	ret := &types.Pool{
		DB: db,
		PoolInfo: types.PoolInfo{
			ConnectionString: redact(dsn),
			Product:          "sqlserver",
		},
	}

ping:
	if err := ret.PingContext(ctx); err != nil {
		if opts.WaitForStartup && isStartupError(err) {
			log.WithError(err).Info("waiting for database to become ready")
			select {
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			case <-time.After(5 * time.Second):
				goto ping
			}
		}
		return nil, nil, errors.Wrap(err, "could not ping the database")
	}

	if err := ret.QueryRowContext(ctx, "SELECT @@VERSION").Scan(&ret.Version); err != nil {
		return nil, nil, errors.Wrap(err, "could not query server version")
	}
	log.Infof("connected to shared warehouse database: %s", ret.Version)

	closeOnce := closer(ret)
	ctx.Go(func() error {
		<-ctx.Stopping()
		closeOnce()
		return nil
	})

	return ret, closeOnce, nil
}

func closer(pool *types.Pool) func() {
	var closed bool
	return func() {
		if closed {
			return
		}
		closed = true
		if err := pool.Close(); err != nil {
			log.WithError(errors.WithStack(err)).Warn("could not close database connection")
		}
	}
}

func isStartupError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, sql.ErrConnDone)
}

// redact strips credentials from a DSN before it's logged or surfaced
// via PoolInfo.
func redact(dsn string) string {
	return "sqlserver://<redacted>"
}
