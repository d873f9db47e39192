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

// Package run completes a production run: validates that every
// PickItem has been picked, allocates a pallet id, and transitions the
// run from NEW to PRINT — all as a single atomic unit. This is also
// where the pick commit engine's reserved fourth phase (pallet
// bookkeeping) is folded in, rather than modeled as a separate step.
package run

import (
	"context"
	"database/sql"
	"time"

	"github.com/nwfth/partialpicking/internal/sequence"
	"github.com/nwfth/partialpicking/internal/types"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// CompletionReceipt is returned by Complete on success.
type CompletionReceipt struct {
	PalletID    string
	CompletedAt time.Time
}

const countPickItemsQuery = `
SELECT
	COUNT(*) AS TotalItems,
	SUM(CASE WHEN ItemBatchStatus = 'Allocated' AND PickedPartialQty > 0 THEN 1 ELSE 0 END) AS PickedItems
FROM cust_PartialPicked
WHERE RunNo = @p1`

const runStatusQuery = `
SELECT Status FROM Cust_PartialRun WITH (UPDLOCK, ROWLOCK) WHERE RunNo = @p1`

const runMetadataQuery = `
SELECT TOP 1 FormulaId, FormulaDesc, RecDate
FROM Cust_PartialRun
WHERE RunNo = @p1`

const insertPallet = `
INSERT INTO Cust_PartialPalletLotPicked (
	PalletID, RunNo, ItemKey, ItemDescription,
	RecUserid, RecDate, ModifiedBy, ModifiedDate, Status, ProductionDate
) VALUES (@p1, @p2, @p3, @p4, @p5, GETDATE(), @p5, GETDATE(), 'PRINT', @p6)`

const updateRunStatus = `
UPDATE Cust_PartialRun
SET Status = 'PRINT', ModifiedBy = @p2, ModifiedDate = GETDATE()
WHERE RunNo = @p1 AND Status = 'NEW'`

// Complete validates that every PickItem under runNo has been picked,
// then allocates a pallet id via the "PT" sequence, records the
// pallet, and transitions the run to PRINT. A run already in PRINT
// fails deterministically rather than allocating a second pallet.
func Complete(
	ctx context.Context, pool *types.Pool, runNo int32, workstationID string,
) (rec CompletionReceipt, err error) {
	start := time.Now()
	defer func() {
		completeDurations.Observe(time.Since(start).Seconds())
		if err == nil {
			completeSuccess.Inc()
		}
	}()

	tx, err := pool.BeginTx(ctx, nil)
	if err != nil {
		return CompletionReceipt{}, errors.WithStack(err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.WithError(rbErr).Warn("rollback after failed run completion also failed")
			}
		}
	}()

	var total, picked int32
	row := tx.QueryRowContext(ctx, countPickItemsQuery, runNo)
	if err = row.Scan(&total, &picked); err != nil {
		err = types.NewTransactionFailed("validate", err)
		completeErrors.WithLabelValues("validate").Inc()
		return CompletionReceipt{}, err
	}
	if total == 0 {
		err = types.NewNotFound("Cust_PartialRun")
		completeErrors.WithLabelValues("validate").Inc()
		return CompletionReceipt{}, err
	}
	if picked < total {
		err = types.NewRunNotComplete(int(picked), int(total))
		completeErrors.WithLabelValues("validate").Inc()
		return CompletionReceipt{}, err
	}

	var status string
	row = tx.QueryRowContext(ctx, runStatusQuery, runNo)
	if err = row.Scan(&status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = types.NewNotFound("Cust_PartialRun")
		} else {
			err = types.NewTransactionFailed("validate", err)
		}
		completeErrors.WithLabelValues("validate").Inc()
		return CompletionReceipt{}, err
	}
	if status != string(types.RunStatusNew) {
		err = types.NewRunAlreadyComplete()
		completeErrors.WithLabelValues("validate").Inc()
		return CompletionReceipt{}, err
	}

	var formulaID, formulaDesc string
	var recDate sql.NullTime
	row = tx.QueryRowContext(ctx, runMetadataQuery, runNo)
	if err = row.Scan(&formulaID, &formulaDesc, &recDate); err != nil {
		err = types.NewTransactionFailed("metadata", err)
		completeErrors.WithLabelValues("metadata").Inc()
		return CompletionReceipt{}, err
	}

	palletID, err := sequence.NextString(ctx, tx, types.SequencePallet)
	if err != nil {
		completeErrors.WithLabelValues("pallet-sequence").Inc()
		return CompletionReceipt{}, types.NewTransactionFailed("pallet-sequence", err)
	}

	var productionDate any
	if recDate.Valid {
		productionDate = recDate.Time
	}
	_, err = tx.ExecContext(ctx, insertPallet, palletID, runNo, formulaID, formulaDesc, workstationID, productionDate)
	if err != nil {
		completeErrors.WithLabelValues("insert-pallet").Inc()
		return CompletionReceipt{}, types.NewTransactionFailed("insert-pallet", err)
	}

	res, err := tx.ExecContext(ctx, updateRunStatus, runNo, workstationID)
	if err != nil {
		completeErrors.WithLabelValues("update-run").Inc()
		return CompletionReceipt{}, types.NewTransactionFailed("update-run", err)
	}
	if n, _ := res.RowsAffected(); n != 1 {
		err = types.NewNotFound("Cust_PartialRun")
		completeErrors.WithLabelValues("update-run").Inc()
		return CompletionReceipt{}, err
	}

	if err = tx.Commit(); err != nil {
		completeErrors.WithLabelValues("commit").Inc()
		return CompletionReceipt{}, types.NewTransactionFailed("commit", err)
	}

	now := time.Now().UTC()
	log.WithFields(log.Fields{"runNo": runNo, "palletId": palletID}).Info("run completed")
	return CompletionReceipt{PalletID: palletID, CompletedAt: now}, nil
}
