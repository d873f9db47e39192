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

package fefo

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/nwfth/partialpicking/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestAvailableLotsOrdersFEFO(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	later := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	sooner := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"LotNo", "ItemKey", "LocationKey", "BinNo", "QtyOnHand", "QtyCommitSales", "DateExpiry", "LotStatus"}).
		AddRow("LOT-002", "ITEM1", "TFC1", "PWBB-12", "50", "0", sooner, "P").
		AddRow("LOT-001", "ITEM1", "TFC1", "PWAA-01", "100", "10", later, "P")

	mock.ExpectQuery(`SELECT`).WithArgs("ITEM1", types.PartialPickingLocation).WillReturnRows(rows)

	lots, err := AvailableLots(context.Background(), db, "ITEM1", nil)
	require.NoError(t, err)
	require.Len(t, lots, 2)

	require.Equal(t, "LOT-002", lots[0].LotNo)
	require.True(t, lots[0].DateExpiry.Before(lots[1].DateExpiry))
	require.Equal(t, "PW", lots[0].Aisle)
	require.Equal(t, "BB", lots[0].Row)
	require.Equal(t, "12", lots[0].Rack)
	require.True(t, lots[0].AvailableQty().Equal(decimal.NewFromInt(50)))
}

func TestAvailableLotsNone(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).WillReturnRows(sqlmock.NewRows(
		[]string{"LotNo", "ItemKey", "LocationKey", "BinNo", "QtyOnHand", "QtyCommitSales", "DateExpiry", "LotStatus"}))

	lots, err := AvailableLots(context.Background(), db, "NOSTOCK", nil)
	require.NoError(t, err)
	require.Empty(t, lots)
}

func TestLotByNumberNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).WithArgs("MISSING", "ITEM1", types.PartialPickingLocation).
		WillReturnRows(sqlmock.NewRows([]string{"LotNo", "ItemKey", "LocationKey", "BinNo", "QtyOnHand", "QtyCommitSales", "DateExpiry", "LotStatus"}))

	_, err = LotByNumber(context.Background(), db, "MISSING", "ITEM1")
	require.Error(t, err)
	_, ok := types.IsNotFound(err)
	require.True(t, ok)
}
