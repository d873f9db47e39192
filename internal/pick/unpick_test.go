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

package pick

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/nwfth/partialpicking/internal/types"
	"github.com/stretchr/testify/require"
)

func expectRunStatus(mock sqlmock.Sqlmock, runNo int32, status string) {
	mock.ExpectQuery(`SELECT Status FROM Cust_PartialRun`).
		WithArgs(runNo).
		WillReturnRows(sqlmock.NewRows([]string{"Status"}).AddRow(status))
}

func TestUnpickNominal(t *testing.T) {
	pool, mock := newTestPool(t)

	mock.ExpectBegin()
	expectRunStatus(mock, 1001, string(types.RunStatusNew))
	expectPickItemRow(mock, types.ItemBatchStatusAllocated, "10.2")
	mock.ExpectQuery(`SELECT TOP 1 LotTranNo`).
		WithArgs("BATCH1", int32(1), types.User5Pick).
		WillReturnRows(sqlmock.NewRows([]string{"LotTranNo", "LotNo", "ItemKey", "LocationKey", "BinNo", "QtyIssued"}).
			AddRow(int64(500), "L1", "ITEM1", "TFC1", "PWBA-01", "10.2"))
	mock.ExpectExec(`UPDATE LotMaster`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE cust_PartialPicked`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`UPDATE Seqnum`).WithArgs("LT").WillReturnRows(sqlmock.NewRows([]string{"SeqNum"}).AddRow(int64(501)))
	mock.ExpectExec(`INSERT INTO LotTransaction`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	rec, err := Unpick(context.Background(), pool, 1001, 1, 1, "WS3")
	require.NoError(t, err)
	require.Equal(t, int64(501), rec.LotTranNo)
}

func TestUnpickNotPicked(t *testing.T) {
	pool, mock := newTestPool(t)

	mock.ExpectBegin()
	expectRunStatus(mock, 1001, string(types.RunStatusNew))
	expectPickItemRow(mock, "", "0")
	mock.ExpectRollback()

	_, err := Unpick(context.Background(), pool, 1001, 1, 1, "WS3")
	require.Error(t, err)
	_, ok := types.IsValidation(err)
	require.True(t, ok)
}

func TestUnpickRunAlreadyComplete(t *testing.T) {
	pool, mock := newTestPool(t)

	mock.ExpectBegin()
	expectRunStatus(mock, 1001, string(types.RunStatusPrint))
	mock.ExpectRollback()

	_, err := Unpick(context.Background(), pool, 1001, 1, 1, "WS3")
	require.Error(t, err)
	_, ok := types.IsRunNotComplete(err)
	require.True(t, ok, "unpick after run completion must fail as RunNotComplete-class")
}
