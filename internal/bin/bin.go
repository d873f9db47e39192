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

// Package bin lists the partial-picking bins in BINMaster, so a
// picking UI has somewhere to ask "which bins exist" to render FEFO
// results against a floor plan.
package bin

import (
	"context"
	"strconv"

	"github.com/nwfth/partialpicking/internal/fefo"
	"github.com/nwfth/partialpicking/internal/types"
)

// Bin is a single BINMaster row scoped to partial picking.
type Bin struct {
	Location, BinNo, Description string
	Aisle, Row, Rack             string
	User1, User4                 string
}

// Filter narrows List by any combination of aisle/row/rack; a blank
// field means "don't filter on this".
type Filter struct {
	Aisle, Row, Rack string
}

// List returns the TFC1/WHTFC1/PARTIAL bins, optionally narrowed by
// Filter, ordered by BinNo.
func List(ctx context.Context, db types.Querier, f Filter) ([]Bin, error) {
	query := `
SELECT Location, BinNo, Description, aisle, row, rack, User1, User4
FROM BINMaster
WHERE Location = @p1 AND User1 = @p2 AND User4 = @p3`
	args := []any{types.PartialPickingLocation, types.PartialPickingUser1, types.PartialPickingUser4}

	if f.Aisle != "" {
		args = append(args, f.Aisle)
		query += " AND aisle = @p" + strconv.Itoa(len(args))
	}
	if f.Row != "" {
		args = append(args, f.Row)
		query += " AND row = @p" + strconv.Itoa(len(args))
	}
	if f.Rack != "" {
		args = append(args, f.Rack)
		query += " AND rack = @p" + strconv.Itoa(len(args))
	}
	query += " ORDER BY BinNo ASC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, types.NewQueryFailed(err)
	}
	defer rows.Close()

	var out []Bin
	for rows.Next() {
		var b Bin
		if err := rows.Scan(&b.Location, &b.BinNo, &b.Description, &b.Aisle, &b.Row, &b.Rack, &b.User1, &b.User4); err != nil {
			return nil, types.NewQueryFailed(err)
		}
		if b.Aisle == "" && b.Row == "" && b.Rack == "" {
			b.Aisle, b.Row, b.Rack, _ = fefo.ParseBinNo(b.BinNo)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewQueryFailed(err)
	}
	return out, nil
}

