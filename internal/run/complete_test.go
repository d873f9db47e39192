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

package run

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/nwfth/partialpicking/internal/types"
	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T) (*types.Pool, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &types.Pool{DB: db}, mock
}

func TestCompleteRunNominal(t *testing.T) {
	pool, mock := newTestPool(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT(.|\n)*COUNT`).WithArgs(int32(1001)).
		WillReturnRows(sqlmock.NewRows([]string{"TotalItems", "PickedItems"}).AddRow(int32(3), int32(3)))
	mock.ExpectQuery(`SELECT Status FROM Cust_PartialRun`).WithArgs(int32(1001)).
		WillReturnRows(sqlmock.NewRows([]string{"Status"}).AddRow("NEW"))
	mock.ExpectQuery(`SELECT TOP 1 FormulaId`).WithArgs(int32(1001)).
		WillReturnRows(sqlmock.NewRows([]string{"FormulaId", "FormulaDesc", "RecDate"}).AddRow("F1", "Formula One", time.Now()))
	mock.ExpectQuery(`UPDATE Seqnum`).WithArgs("PT").WillReturnRows(sqlmock.NewRows([]string{"SeqNum"}).AddRow(int64(9001)))
	mock.ExpectExec(`INSERT INTO Cust_PartialPalletLotPicked`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`UPDATE Cust_PartialRun`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rec, err := Complete(context.Background(), pool, 1001, "WS3")
	require.NoError(t, err)
	require.Equal(t, "9001", rec.PalletID)
}

func TestCompleteRunNotAllPicked(t *testing.T) {
	pool, mock := newTestPool(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT(.|\n)*COUNT`).WithArgs(int32(1001)).
		WillReturnRows(sqlmock.NewRows([]string{"TotalItems", "PickedItems"}).AddRow(int32(3), int32(2)))
	mock.ExpectRollback()

	_, err := Complete(context.Background(), pool, 1001, "WS3")
	require.Error(t, err)
	rnc, ok := types.IsRunNotComplete(err)
	require.True(t, ok)
	require.Equal(t, 2, rnc.Picked)
	require.Equal(t, 3, rnc.Total)
}

func TestCompleteRunAlreadyComplete(t *testing.T) {
	pool, mock := newTestPool(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT(.|\n)*COUNT`).WithArgs(int32(1001)).
		WillReturnRows(sqlmock.NewRows([]string{"TotalItems", "PickedItems"}).AddRow(int32(3), int32(3)))
	mock.ExpectQuery(`SELECT Status FROM Cust_PartialRun`).WithArgs(int32(1001)).
		WillReturnRows(sqlmock.NewRows([]string{"Status"}).AddRow("PRINT"))
	mock.ExpectRollback()

	_, err := Complete(context.Background(), pool, 1001, "WS3")
	require.Error(t, err)
	_, ok := types.IsRunNotComplete(err)
	require.True(t, ok, "second completeRun call should fail without allocating a new pallet")
}
