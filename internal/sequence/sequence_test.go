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

package sequence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/nwfth/partialpicking/internal/types"
	"github.com/stretchr/testify/require"
)

func TestNext(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`UPDATE Seqnum`).
		WithArgs("PT").
		WillReturnRows(sqlmock.NewRows([]string{"SeqNum"}).AddRow(int64(42)))

	got, err := Next(context.Background(), db, types.SequencePallet)
	require.NoError(t, err)
	require.Equal(t, int64(42), got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNextString(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`UPDATE Seqnum`).
		WithArgs("LT").
		WillReturnRows(sqlmock.NewRows([]string{"SeqNum"}).AddRow(int64(7)))

	got, err := NextString(context.Background(), db, types.SequenceLotTran)
	require.NoError(t, err)
	require.Equal(t, "7", got)
}

func TestNextMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`UPDATE Seqnum`).
		WithArgs("PT").
		WillReturnRows(sqlmock.NewRows([]string{"SeqNum"}))

	_, err = Next(context.Background(), db, types.SequencePallet)
	require.Error(t, err)

	_, ok := types.IsNotFound(err)
	require.True(t, ok, "expected a NotFoundError, got %T: %v", err, err)
}
