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

// Package sequence allocates the next value from a named row in
// Seqnum: pallet IDs (SequencePallet) and LotTransaction numbers
// (SequenceLotTran). A row must already exist; this package never
// creates one, matching the "never auto-create" rule other warehouse
// subsystems rely on when they own a sequence's lifecycle.
package sequence

import (
	"context"
	"strconv"

	"github.com/nwfth/partialpicking/internal/types"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Next atomically increments and returns the named sequence's current
// value in a single round trip via SQL Server's OUTPUT clause, so no
// separate SELECT is needed and no race exists between read and write.
func Next(ctx context.Context, db types.Querier, name types.SequenceName) (int64, error) {
	const stmt = `
UPDATE Seqnum
SET SeqNum = SeqNum + 1
OUTPUT INSERTED.SeqNum
WHERE SeqName = @p1`

	row := db.QueryRowContext(ctx, stmt, string(name))

	var next int64
	if err := row.Scan(&next); err != nil {
		return 0, types.NewNotFound("Seqnum:" + string(name))
	}

	log.WithField("sequence", name).WithField("value", next).Debug("allocated sequence value")
	return next, nil
}

// NextString is a convenience wrapper for callers that need the
// allocated value formatted as a string, e.g. when it composes part
// of a document number.
func NextString(ctx context.Context, db types.Querier, name types.SequenceName) (string, error) {
	n, err := Next(ctx, db, name)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return strconv.FormatInt(n, 10), nil
}
