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

// Command partialpickingd serves the partial-picking coordinator API
// over the shared warehouse database.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nwfth/partialpicking/internal/config"
	"github.com/nwfth/partialpicking/internal/stopper"
	"github.com/nwfth/partialpicking/internal/wireset"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		log.WithError(err).Fatal("partialpickingd exited with an error")
	}
}

func run() error {
	var cfg config.Config
	cfg.Bind(pflag.CommandLine)
	pflag.Parse()

	if err := cfg.Preflight(); err != nil {
		return err
	}

	ctx := stopper.New(signalContext(context.Background()))
	defer func() {
		if err := ctx.Stop(); err != nil {
			log.WithError(err).Warn("error during shutdown")
		}
	}()

	server, cleanup, err := wireset.New(ctx, &cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           server.NewRouter(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout,
	}

	ctx.Go(func() error {
		<-ctx.Stopping()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	log.Infof("listening on %s", cfg.BindAddr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// signalContext returns a context that is canceled when the process
// receives SIGINT or SIGTERM.
func signalContext(parent context.Context) context.Context {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()
	return ctx
}
