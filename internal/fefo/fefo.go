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

// Package fefo resolves which lots are eligible to satisfy a partial
// pick, in first-expired-first-out order, restricted to the partial
// picking location's usable bins.
package fefo

import (
	"context"
	"database/sql"
	"time"

	"github.com/nwfth/partialpicking/internal/types"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// LotView is a Lot enriched with the bin's parsed location components,
// for callers (the read models, the HTTP layer) that want to render
// aisle/row/rack without re-parsing BinNo themselves.
type LotView struct {
	types.Lot
	Aisle, Row, Rack string
	BinParsed        bool
}

const availableLotsQuery = `
SELECT
	LotNo, ItemKey, LocationKey, BinNo,
	QtyOnHand, QtyCommitSales, DateExpiry, LotStatus
FROM LotMaster
WHERE ItemKey = @p1
  AND LocationKey = @p2
  AND (QtyOnHand - QtyCommitSales) > 0
  AND (LotStatus = 'P' OR LotStatus = 'C' OR LotStatus = '' OR LotStatus IS NULL)
ORDER BY DateExpiry ASC, LocationKey ASC`

const availableLotsQueryMinQty = `
SELECT
	LotNo, ItemKey, LocationKey, BinNo,
	QtyOnHand, QtyCommitSales, DateExpiry, LotStatus
FROM LotMaster
WHERE ItemKey = @p1
  AND LocationKey = @p2
  AND (QtyOnHand - QtyCommitSales) >= @p3
  AND (LotStatus = 'P' OR LotStatus = 'C' OR LotStatus = '' OR LotStatus IS NULL)
ORDER BY DateExpiry ASC, LocationKey ASC`

// AvailableLots returns the lots eligible to pick for itemKey, sorted
// FEFO (DateExpiry ascending, then LocationKey). When minQty is
// non-nil, only lots whose available quantity covers it are returned.
// An empty slice (not an error) means there's nothing to pick from.
func AvailableLots(
	ctx context.Context, db types.Querier, itemKey string, minQty *decimal.Decimal,
) ([]LotView, error) {
	var rows *sql.Rows
	var err error
	if minQty != nil {
		rows, err = db.QueryContext(ctx, availableLotsQueryMinQty, itemKey, types.PartialPickingLocation, *minQty)
	} else {
		rows, err = db.QueryContext(ctx, availableLotsQuery, itemKey, types.PartialPickingLocation)
	}
	if err != nil {
		return nil, types.NewQueryFailed(err)
	}
	defer rows.Close()

	var out []LotView
	for rows.Next() {
		lv, err := scanLotView(rows)
		if err != nil {
			return nil, types.NewQueryFailed(err)
		}
		out = append(out, lv)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewQueryFailed(err)
	}
	return out, nil
}

const lotByNumberQuery = `
SELECT
	LotNo, ItemKey, LocationKey, BinNo,
	QtyOnHand, QtyCommitSales, DateExpiry, LotStatus
FROM LotMaster
WHERE LotNo = @p1 AND ItemKey = @p2 AND LocationKey = @p3`

// LotByNumber fetches a single TFC1 lot row for lotNo and itemKey, for
// the lot lookup endpoint. It takes no lock; the pick commit path reads
// and locks its lot row itself. The query has no ORDER BY, so when the
// lot sits in several bins, which bin row is returned is not defined.
func LotByNumber(ctx context.Context, db types.Querier, lotNo, itemKey string) (LotView, error) {
	row := db.QueryRowContext(ctx, lotByNumberQuery, lotNo, itemKey, types.PartialPickingLocation)
	lv, err := scanLotView(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LotView{}, types.NewNotFound("LotMaster:" + lotNo)
		}
		return LotView{}, types.NewQueryFailed(err)
	}
	return lv, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLotView(r rowScanner) (LotView, error) {
	var (
		lotNo, itemKey, locationKey, binNo string
		qtyOnHand, qtyCommitSales          decimal.Decimal
		dateExpiry                         time.Time
		lotStatus                          sql.NullString
	)
	if err := r.Scan(&lotNo, &itemKey, &locationKey, &binNo, &qtyOnHand, &qtyCommitSales, &dateExpiry, &lotStatus); err != nil {
		return LotView{}, err
	}

	lot := types.Lot{
		LotNo:          lotNo,
		ItemKey:        itemKey,
		LocationKey:    locationKey,
		BinNo:          binNo,
		QtyOnHand:      qtyOnHand,
		QtyCommitSales: qtyCommitSales,
		DateExpiry:     dateExpiry,
		LotStatus:      lotStatus,
	}

	aisle, rowPart, rack, ok := ParseBinNo(binNo)
	return LotView{Lot: lot, Aisle: aisle, Row: rowPart, Rack: rack, BinParsed: ok}, nil
}
