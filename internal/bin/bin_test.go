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

package bin

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestListNoFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT Location, BinNo`).
		WithArgs("TFC1", "WHTFC1", "PARTIAL").
		WillReturnRows(sqlmock.NewRows([]string{"Location", "BinNo", "Description", "aisle", "row", "rack", "User1", "User4"}).
			AddRow("TFC1", "PWBB-12", "Partial bin", "PW", "BB", "12", "WHTFC1", "PARTIAL"))

	bins, err := List(context.Background(), db, Filter{})
	require.NoError(t, err)
	require.Len(t, bins, 1)
	require.Equal(t, "PWBB-12", bins[0].BinNo)
}

func TestListWithAisleFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT Location, BinNo`).
		WithArgs("TFC1", "WHTFC1", "PARTIAL", "PW").
		WillReturnRows(sqlmock.NewRows([]string{"Location", "BinNo", "Description", "aisle", "row", "rack", "User1", "User4"}))

	bins, err := List(context.Background(), db, Filter{Aisle: "PW"})
	require.NoError(t, err)
	require.Empty(t, bins)
}
