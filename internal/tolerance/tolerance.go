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

// Package tolerance validates a scale reading against the acceptable
// weight range around a target quantity.
package tolerance

import (
	"context"
	"database/sql"

	"github.com/nwfth/partialpicking/internal/types"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Validate reports whether measured falls within [target-toleranceKg,
// target+toleranceKg], with both bounds clamped at zero, and returns
// that range so callers can surface it in both the success response and
// the WeightOutOfToleranceError.
func Validate(target, measured, toleranceKg decimal.Decimal) (accepted bool, low, high decimal.Decimal) {
	low = target.Sub(toleranceKg)
	high = target.Add(toleranceKg)
	if low.IsNegative() {
		low = decimal.Zero
	}
	if high.IsNegative() {
		high = decimal.Zero
	}
	accepted = measured.GreaterThanOrEqual(low) && measured.LessThanOrEqual(high)
	return accepted, low, high
}

const toleranceQuery = `SELECT User9 FROM INMAST WHERE Itemkey = @p1`

// LookupToleranceKg reads the per-item tolerance (kg) carried in
// INMAST.User9. A blank or unparsable value is treated as zero
// tolerance: no tolerance configured means an exact match is required.
func LookupToleranceKg(ctx context.Context, db types.Querier, itemKey string) (decimal.Decimal, error) {
	var raw sql.NullString
	if err := db.QueryRowContext(ctx, toleranceQuery, itemKey).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, types.NewNotFound("INMAST:" + itemKey)
		}
		return decimal.Zero, errors.Wrap(err, "querying item tolerance")
	}
	if !raw.Valid || raw.String == "" {
		return decimal.Zero, nil
	}
	tol, err := decimal.NewFromString(raw.String)
	if err != nil {
		return decimal.Zero, nil
	}
	if tol.IsNegative() {
		tol = decimal.Zero
	}
	return tol, nil
}
