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

// Package stopper provides a context that tracks background
// goroutines so that they can be drained on an orderly shutdown
// instead of being abandoned when main returns.
package stopper

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// A Context wraps a context.Context and tracks goroutines started
// with Go so that Stop can wait for them to finish.
type Context struct {
	context.Context

	cancel context.CancelFunc

	mu struct {
		sync.Mutex
		wg      sync.WaitGroup
		errs    []error
		stopped bool
	}
	stopping chan struct{}
}

// New wraps a parent context in a stopper.Context.
func New(parent context.Context) *Context {
	inner, cancel := context.WithCancel(parent)
	ret := &Context{
		Context:  inner,
		cancel:   cancel,
		stopping: make(chan struct{}),
	}
	return ret
}

// Go runs fn in a tracked goroutine. If fn returns a non-nil error, it
// is recorded and will be returned from the next call to Stop.
func (c *Context) Go(fn func() error) {
	c.mu.Lock()
	c.mu.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.mu.wg.Done()
		if err := fn(); err != nil {
			c.mu.Lock()
			c.mu.errs = append(c.mu.errs, err)
			c.mu.Unlock()
		}
	}()
}

// Stopping returns a channel that is closed once Stop has been called,
// so that tracked goroutines can begin winding down.
func (c *Context) Stopping() <-chan struct{} {
	return c.stopping
}

// Stop cancels the context, signals Stopping, and waits for every
// goroutine started with Go to return. It is safe to call more than
// once.
func (c *Context) Stop() error {
	c.mu.Lock()
	alreadyStopped := c.mu.stopped
	c.mu.stopped = true
	c.mu.Unlock()

	if !alreadyStopped {
		close(c.stopping)
	}
	c.cancel()
	c.mu.wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.mu.errs) == 0 {
		return nil
	}
	return errors.Errorf("stopper: %d goroutine(s) returned an error: %v", len(c.mu.errs), c.mu.errs[0])
}
