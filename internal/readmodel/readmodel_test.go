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

package readmodel

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestRunDetails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT RunNo, FormulaId`).WithArgs(int32(1001)).
		WillReturnRows(sqlmock.NewRows([]string{"RunNo", "FormulaId", "FormulaDesc", "BatchCount"}).
			AddRow(int32(1001), "F1", "Formula One", int32(3)))

	got, err := RunDetails(context.Background(), db, 1001)
	require.NoError(t, err)
	require.Equal(t, "F1", got.FormulaID)
	require.Equal(t, int32(3), got.BatchCount)
}

func TestBatchItemsWeightRange(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT(.|\n)*cust_PartialPicked`).WithArgs(int32(1001), int32(1)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"RunNo", "RowNum", "LineId", "ItemKey", "BatchNo",
				"ToPickedPartialQty", "PickedPartialQty",
				"ItemBatchStatus", "PickingDate", "ModifiedBy", "ModifiedDate",
				"PackSize", "Unit"}).
			AddRow(int32(1001), int32(1), int32(1), "ITEM1", "BATCH1", "10.0", "0", nil, nil, nil, nil, "1", "KG"))
	mock.ExpectQuery(`SELECT User9`).WithArgs("ITEM1").
		WillReturnRows(sqlmock.NewRows([]string{"User9"}).AddRow("0.5"))

	items, err := BatchItems(context.Background(), db, 1001, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "9.5", items[0].WeightRangeLow.String())
	require.Equal(t, "10.5", items[0].WeightRangeHigh.String())
}

func TestPickedLotsForRun(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expiry := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT(.|\n)*FROM LotTransaction`).WithArgs(int32(1001), int32(5)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"LotTranNo", "BatchNo", "LotNo", "ItemKey", "LocationKey", "DateExpiry", "QtyIssued", "BinNo", "PackSize", "RowNum", "LineId"}).
			AddRow(int64(500), "BATCH1", "L1", "ITEM1", "TFC1", expiry, "10.2", "PWBA-01", "1", int32(1), int32(1)))

	lots, err := PickedLotsForRun(context.Background(), db, 1001)
	require.NoError(t, err)
	require.Len(t, lots, 1)
	require.Equal(t, "01/08/2026", lots[0].DateExpiry)
}

func TestPickedLotsForRunIncludesUnpickReversal(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expiry := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT(.|\n)*FROM LotTransaction`).WithArgs(int32(1001), int32(5)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"LotTranNo", "BatchNo", "LotNo", "ItemKey", "LocationKey", "DateExpiry", "QtyIssued", "BinNo", "PackSize", "RowNum", "LineId"}).
			AddRow(int64(500), "BATCH1", "L1", "ITEM1", "TFC1", expiry, "10.2", "PWBA-01", "1", int32(1), int32(1)).
			AddRow(int64(501), "BATCH1", "L1", "ITEM1", "TFC1", expiry, "-10.2", "PWBA-01", "1", int32(1), int32(1)).
			AddRow(int64(502), "BATCH1", "L1", "ITEM1", "TFC1", expiry, "10.0", "PWBA-01", "1", int32(1), int32(1)))

	lots, err := PickedLotsForRun(context.Background(), db, 1001)
	require.NoError(t, err)
	require.Len(t, lots, 3, "both the original pick and its compensating unpick must be visible")
	require.Equal(t, int64(500), lots[0].LotTranNo)
	require.Equal(t, int64(501), lots[1].LotTranNo)
	require.True(t, lots[1].QtyReceived.IsNegative(), "the compensating row carries a negative quantity")
}

func TestPendingItemsForRun(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT BatchNo, ItemKey`).WithArgs(int32(1001)).
		WillReturnRows(sqlmock.NewRows([]string{"BatchNo", "ItemKey", "RemainingQty"}).
			AddRow("BATCH1", "ITEM2", "5.0"))

	items, err := PendingItemsForRun(context.Background(), db, 1001)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "ITEM2", items[0].ItemKey)
}
