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

package types

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// NotFoundError is returned whenever an operation's required row is
// missing: DB_RECORD_NOT_FOUND (404).
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("record not found: %s", e.Entity) }

// NewNotFound constructs a NotFoundError.
func NewNotFound(entity string) error { return &NotFoundError{Entity: entity} }

// IsNotFound returns the error and true if err is (or wraps) a
// NotFoundError.
func IsNotFound(err error) (*NotFoundError, bool) {
	var nf *NotFoundError
	return nf, errors.As(err, &nf)
}

// AlreadyPickedError is returned when savePick targets a slot that is
// already (Allocated, >0): BUSINESS_ITEM_ALREADY_PICKED (400).
type AlreadyPickedError struct {
	ItemKey string
}

func (e *AlreadyPickedError) Error() string {
	return fmt.Sprintf("item already picked: %s", e.ItemKey)
}

// NewAlreadyPicked constructs an AlreadyPickedError.
func NewAlreadyPicked(itemKey string) error { return &AlreadyPickedError{ItemKey: itemKey} }

// IsAlreadyPicked returns the error and true if err is (or wraps) an
// AlreadyPickedError.
func IsAlreadyPicked(err error) (*AlreadyPickedError, bool) {
	var ap *AlreadyPickedError
	return ap, errors.As(err, &ap)
}

// InsufficientQuantityError is returned when a lot cannot cover a
// requested weight, or when a commit-sales/on-hand invariant would be
// violated: BUSINESS_INSUFFICIENT_QUANTITY (400).
type InsufficientQuantityError struct {
	Reason string
}

func (e *InsufficientQuantityError) Error() string {
	if e.Reason == "" {
		return "insufficient quantity available"
	}
	return "insufficient quantity available: " + e.Reason
}

// NewInsufficientQuantity constructs an InsufficientQuantityError.
func NewInsufficientQuantity(reason string) error {
	return &InsufficientQuantityError{Reason: reason}
}

// IsInsufficientQuantity returns the error and true if err is (or
// wraps) an InsufficientQuantityError.
func IsInsufficientQuantity(err error) (*InsufficientQuantityError, bool) {
	var iq *InsufficientQuantityError
	return iq, errors.As(err, &iq)
}

// WeightOutOfToleranceError carries the measured weight and the
// acceptable range: VALIDATION_WEIGHT_OUT_OF_TOLERANCE (400).
type WeightOutOfToleranceError struct {
	Weight, Low, High decimal.Decimal
}

func (e *WeightOutOfToleranceError) Error() string {
	return fmt.Sprintf("weight %s is outside acceptable range (%s - %s kg)", e.Weight, e.Low, e.High)
}

// IsWeightOutOfTolerance returns the error and true if err is (or
// wraps) a WeightOutOfToleranceError.
func IsWeightOutOfTolerance(err error) (*WeightOutOfToleranceError, bool) {
	var w *WeightOutOfToleranceError
	return w, errors.As(err, &w)
}

// RunNotCompleteError covers both "not all items picked yet" and
// "already completed": BUSINESS_RUN_NOT_COMPLETE (400).
type RunNotCompleteError struct {
	Reason string
	Picked, Total int
}

func (e *RunNotCompleteError) Error() string {
	if e.Reason != "" {
		return "run not complete: " + e.Reason
	}
	return fmt.Sprintf("run not complete: %d/%d items picked", e.Picked, e.Total)
}

// NewRunNotComplete constructs a RunNotCompleteError from a picked/total count.
func NewRunNotComplete(picked, total int) error {
	return &RunNotCompleteError{Picked: picked, Total: total}
}

// NewRunAlreadyComplete is the "second completeRun call" variant of
// RunNotCompleteError.
func NewRunAlreadyComplete() error {
	return &RunNotCompleteError{Reason: "already completed"}
}

// IsRunNotComplete returns the error and true if err is (or wraps) a
// RunNotCompleteError.
func IsRunNotComplete(err error) (*RunNotCompleteError, bool) {
	var rc *RunNotCompleteError
	return rc, errors.As(err, &rc)
}

// ValidationError covers malformed input: VALIDATION_ERROR (400).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return "validation error: " + e.Message }

// NewValidation constructs a ValidationError.
func NewValidation(message string) error { return &ValidationError{Message: message} }

// IsValidation returns the error and true if err is (or wraps) a
// ValidationError.
func IsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	return v, errors.As(err, &v)
}

// TransactionFailedError names the phase that failed before rollback:
// DB_TRANSACTION_FAILED (500).
type TransactionFailedError struct {
	Phase string
	Cause error
}

func (e *TransactionFailedError) Error() string {
	return fmt.Sprintf("transaction failed in phase %s: %v", e.Phase, e.Cause)
}

func (e *TransactionFailedError) Unwrap() error { return e.Cause }

// NewTransactionFailed constructs a TransactionFailedError.
func NewTransactionFailed(phase string, cause error) error {
	return &TransactionFailedError{Phase: phase, Cause: cause}
}

// IsTransactionFailed returns the error and true if err is (or wraps)
// a TransactionFailedError.
func IsTransactionFailed(err error) (*TransactionFailedError, bool) {
	var tf *TransactionFailedError
	return tf, errors.As(err, &tf)
}

// QueryFailedError wraps a failed read (no write was ever attempted):
// DB_QUERY_FAILED (500).
type QueryFailedError struct {
	Cause error
}

func (e *QueryFailedError) Error() string { return fmt.Sprintf("query failed: %v", e.Cause) }

func (e *QueryFailedError) Unwrap() error { return e.Cause }

// NewQueryFailed constructs a QueryFailedError.
func NewQueryFailed(cause error) error { return &QueryFailedError{Cause: cause} }

// IsQueryFailed returns the error and true if err is (or wraps) a
// QueryFailedError.
func IsQueryFailed(err error) (*QueryFailedError, bool) {
	var qf *QueryFailedError
	return qf, errors.As(err, &qf)
}
