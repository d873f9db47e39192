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

// Package workstation lists the scale-equipped picking stations a
// workstationId in a savePick call must resolve against, so an
// operator UI can enumerate valid stations instead of treating
// workstationId as an opaque caller-supplied string. Unpick and
// completeRun do not check workstationId against this table.
package workstation

import (
	"context"
	"database/sql"

	"github.com/nwfth/partialpicking/internal/types"
	"github.com/pkg/errors"
)

// Workstation is a row of TFC_Weighup_WorkStations2.
type Workstation struct {
	ID, Name                 string
	SmallScaleID, BigScaleID string
	Active                   bool
}

const listActiveQuery = `
SELECT WorkstationName, ControllerID_Small, ControllerID_Big, IsActive
FROM TFC_Weighup_WorkStations2
WHERE IsActive = @p1
ORDER BY WorkstationName ASC`

const lookupQuery = `
SELECT WorkstationName, ControllerID_Small, ControllerID_Big, IsActive
FROM TFC_Weighup_WorkStations2
WHERE WorkstationName = @p1`

// Lookup fetches a single workstation by id (its WorkstationName).
func Lookup(ctx context.Context, db types.Querier, id string) (Workstation, error) {
	row := db.QueryRowContext(ctx, lookupQuery, id)
	var w Workstation
	var isActive bool
	if err := row.Scan(&w.Name, &w.SmallScaleID, &w.BigScaleID, &isActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Workstation{}, types.NewNotFound("TFC_Weighup_WorkStations2:" + id)
		}
		return Workstation{}, types.NewQueryFailed(err)
	}
	w.ID = w.Name
	w.Active = isActive
	return w, nil
}

// ValidateActive fails with a ValidationError if id does not name an
// active workstation, the check savePick applies to workstationId
// before it will accept a pick.
func ValidateActive(ctx context.Context, db types.Querier, id string) error {
	w, err := Lookup(ctx, db, id)
	if err != nil {
		if _, ok := types.IsNotFound(err); ok {
			return types.NewValidation("unknown workstationId: " + id)
		}
		return err
	}
	if !w.Active {
		return types.NewValidation("workstationId is not active: " + id)
	}
	return nil
}

// List returns workstations filtered by active status.
func List(ctx context.Context, db types.Querier, active bool) ([]Workstation, error) {
	rows, err := db.QueryContext(ctx, listActiveQuery, active)
	if err != nil {
		return nil, types.NewQueryFailed(err)
	}
	defer rows.Close()

	var out []Workstation
	for rows.Next() {
		var w Workstation
		var isActive bool
		if err := rows.Scan(&w.Name, &w.SmallScaleID, &w.BigScaleID, &isActive); err != nil {
			return nil, types.NewQueryFailed(err)
		}
		w.ID = w.Name
		w.Active = isActive
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewQueryFailed(err)
	}
	return out, nil
}
