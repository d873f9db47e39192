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

// Package readmodel answers the read-only questions the transport
// layer and operator UIs ask about a run: its metadata, its batch
// items annotated with tolerance, its committed picks, and what's
// still pending. None of these queries run inside a transaction —
// they're plain read-committed selects.
package readmodel

import (
	"context"
	"database/sql"

	"github.com/nwfth/partialpicking/internal/tolerance"
	"github.com/nwfth/partialpicking/internal/types"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// RunSummary is the result of RunDetails.
type RunSummary struct {
	RunNo       int32
	FormulaID   string
	FormulaDesc string
	BatchCount  int32
}

const runDetailsQuery = `
SELECT RunNo, FormulaId, FormulaDesc, BatchCount
FROM Cust_PartialRun
WHERE RunNo = @p1`

// RunDetails returns a run's formula metadata and batch count.
func RunDetails(ctx context.Context, db types.Querier, runNo int32) (RunSummary, error) {
	var s RunSummary
	row := db.QueryRowContext(ctx, runDetailsQuery, runNo)
	if err := row.Scan(&s.RunNo, &s.FormulaID, &s.FormulaDesc, &s.BatchCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunSummary{}, types.NewNotFound("Cust_PartialRun")
		}
		return RunSummary{}, types.NewQueryFailed(err)
	}
	return s, nil
}

// BatchItem is a PickItem annotated with its acceptable weight range.
type BatchItem struct {
	types.PickItem
	WeightRangeLow, WeightRangeHigh decimal.Decimal
}

const batchItemsQuery = `
SELECT
	RunNo, RowNum, LineId, ItemKey, BatchNo,
	ToPickedPartialQty, PickedPartialQty,
	ItemBatchStatus, PickingDate, ModifiedBy, ModifiedDate,
	PackSize, Unit
FROM cust_PartialPicked
WHERE RunNo = @p1 AND RowNum = @p2
ORDER BY LineId ASC`

// BatchItems returns every PickItem in a batch, each carrying the
// weight range its measured weight must fall within.
func BatchItems(ctx context.Context, db types.Querier, runNo, rowNum int32) ([]BatchItem, error) {
	rows, err := db.QueryContext(ctx, batchItemsQuery, runNo, rowNum)
	if err != nil {
		return nil, types.NewQueryFailed(err)
	}
	defer rows.Close()

	var out []BatchItem
	for rows.Next() {
		var p types.PickItem
		if err := rows.Scan(
			&p.RunNo, &p.RowNum, &p.LineID, &p.ItemKey, &p.BatchNo,
			&p.ToPickedPartialQty, &p.PickedPartialQty,
			&p.ItemBatchStatus, &p.PickingDate, &p.ModifiedBy, &p.ModifiedDate,
			&p.PackSize, &p.Unit,
		); err != nil {
			return nil, types.NewQueryFailed(err)
		}

		tol, err := tolerance.LookupToleranceKg(ctx, db, p.ItemKey)
		if err != nil {
			if _, ok := types.IsNotFound(err); !ok {
				return nil, err
			}
			tol = decimal.Zero
		}
		_, low, high := tolerance.Validate(p.ToPickedPartialQty, p.ToPickedPartialQty, tol)

		out = append(out, BatchItem{PickItem: p, WeightRangeLow: low, WeightRangeHigh: high})
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewQueryFailed(err)
	}
	return out, nil
}

// PickedLot is a row of pickedLotsForRun.
type PickedLot struct {
	LotTranNo   int64
	BatchNo     string
	LotNo       string
	ItemKey     string
	LocationKey string
	DateExpiry  string // formatted DD/MM/YYYY
	QtyReceived decimal.Decimal
	BinNo       string
	PackSize    decimal.Decimal
	RowNum      int32
	LineID      int32
}

const pickedLotsQuery = `
SELECT
	lt.LotTranNo, p.BatchNo, lt.LotNo, lt.ItemKey, lt.LocationKey,
	l.DateExpiry, lt.QtyIssued, lt.BinNo, p.PackSize, p.RowNum, p.LineId
FROM LotTransaction lt
JOIN cust_PartialPicked p ON p.BatchNo = lt.IssueDocNo AND p.LineId = lt.IssueDocLineNo
JOIN LotMaster l ON l.LotNo = lt.LotNo AND l.ItemKey = lt.ItemKey AND l.LocationKey = lt.LocationKey AND l.BinNo = lt.BinNo
WHERE p.RunNo = @p1 AND lt.TransactionType = @p2
ORDER BY lt.LotTranNo ASC`

// PickedLotsForRun joins committed picks to their LotTransaction lines
// for the "view lots" UI. Both the original pick row and any
// compensating unpick row are returned, so a pick->unpick->re-pick
// cycle shows the full reversal history rather than hiding it.
func PickedLotsForRun(ctx context.Context, db types.Querier, runNo int32) ([]PickedLot, error) {
	rows, err := db.QueryContext(ctx, pickedLotsQuery, runNo, types.TransactionTypePartialPick)
	if err != nil {
		return nil, types.NewQueryFailed(err)
	}
	defer rows.Close()

	var out []PickedLot
	for rows.Next() {
		var pl PickedLot
		var expiry sql.NullTime
		if err := rows.Scan(
			&pl.LotTranNo, &pl.BatchNo, &pl.LotNo, &pl.ItemKey, &pl.LocationKey,
			&expiry, &pl.QtyReceived, &pl.BinNo, &pl.PackSize, &pl.RowNum, &pl.LineID,
		); err != nil {
			return nil, types.NewQueryFailed(err)
		}
		if expiry.Valid {
			pl.DateExpiry = expiry.Time.Format("02/01/2006")
		}
		out = append(out, pl)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewQueryFailed(err)
	}
	return out, nil
}

// PendingItem is a row of pendingItemsForRun.
type PendingItem struct {
	BatchNo      string
	ItemKey      string
	RemainingQty decimal.Decimal
}

const pendingItemsQuery = `
SELECT BatchNo, ItemKey, (ToPickedPartialQty - PickedPartialQty) AS RemainingQty
FROM cust_PartialPicked
WHERE RunNo = @p1 AND NOT (ItemBatchStatus = 'Allocated' AND PickedPartialQty > 0)
ORDER BY LineId ASC`

// PendingItemsForRun lists every PickItem not yet picked.
func PendingItemsForRun(ctx context.Context, db types.Querier, runNo int32) ([]PendingItem, error) {
	rows, err := db.QueryContext(ctx, pendingItemsQuery, runNo)
	if err != nil {
		return nil, types.NewQueryFailed(err)
	}
	defer rows.Close()

	var out []PendingItem
	for rows.Next() {
		var pi PendingItem
		if err := rows.Scan(&pi.BatchNo, &pi.ItemKey, &pi.RemainingQty); err != nil {
			return nil, types.NewQueryFailed(err)
		}
		out = append(out, pi)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewQueryFailed(err)
	}
	return out, nil
}
