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
	"database/sql"
	"time"

	"github.com/nwfth/partialpicking/internal/sequence"
	"github.com/nwfth/partialpicking/internal/types"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// UnpickReceipt is returned by Unpick on success.
type UnpickReceipt struct {
	LotTranNo  int64
	UnpickedAt time.Time
}

const selectRunStatusForUpdate = `
SELECT Status FROM Cust_PartialRun WITH (UPDLOCK, ROWLOCK) WHERE RunNo = @p1`

const selectLastLotTransaction = `
SELECT TOP 1 LotTranNo, LotNo, ItemKey, LocationKey, BinNo, QtyIssued
FROM LotTransaction WITH (UPDLOCK, ROWLOCK)
WHERE IssueDocNo = @p1 AND IssueDocLineNo = @p2 AND User5 = @p3
ORDER BY LotTranNo DESC`

const decrementLotCommitSales = `
UPDATE LotMaster
SET QtyCommitSales = QtyCommitSales - @p1
WHERE LotNo = @p2 AND ItemKey = @p3 AND LocationKey = @p4 AND BinNo = @p5
  AND QtyCommitSales - @p1 >= 0`

const clearPickedQty = `
UPDATE cust_PartialPicked
SET PickedPartialQty = 0
WHERE RunNo = @p1 AND RowNum = @p2 AND LineId = @p3`

// Unpick reverses a committed pick, leaving a compensating negative
// LotTransaction entry rather than deleting the original one, and
// zeroing PickedPartialQty while leaving ItemBatchStatus, PickingDate,
// and ModifiedBy untouched — the audit-preservation contract.
func Unpick(
	ctx context.Context, pool *types.Pool, runNo, rowNum, lineID int32, workstationID string,
) (rec UnpickReceipt, err error) {
	start := time.Now()
	defer func() {
		unpickDurations.Observe(time.Since(start).Seconds())
		if err == nil {
			unpickSuccess.Inc()
		}
	}()

	tx, err := pool.BeginTx(ctx, nil)
	if err != nil {
		return UnpickReceipt{}, errors.WithStack(err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.WithError(rbErr).Warn("rollback after failed unpick also failed")
			}
		}
	}()

	var runStatus string
	row := tx.QueryRowContext(ctx, selectRunStatusForUpdate, runNo)
	if err = row.Scan(&runStatus); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = types.NewNotFound("Cust_PartialRun")
		} else {
			err = types.NewTransactionFailed("preconditions", err)
		}
		unpickErrors.WithLabelValues("preconditions").Inc()
		return UnpickReceipt{}, err
	}
	if runStatus != string(types.RunStatusNew) {
		err = types.NewRunAlreadyComplete()
		unpickErrors.WithLabelValues("preconditions").Inc()
		return UnpickReceipt{}, err
	}

	item, err := loadPickItem(ctx, tx, runNo, rowNum, lineID)
	if err != nil {
		unpickErrors.WithLabelValues("preconditions").Inc()
		return UnpickReceipt{}, err
	}
	if !item.Picked() {
		err = types.NewValidation("item is not currently picked")
		unpickErrors.WithLabelValues("preconditions").Inc()
		return UnpickReceipt{}, err
	}

	var (
		priorLotTranNo                     int64
		lotNo, itemKey, locationKey, binNo string
		priorWeight                        decimal.Decimal
	)
	row = tx.QueryRowContext(ctx, selectLastLotTransaction, item.BatchNo, lineID, types.User5Pick)
	if err = row.Scan(&priorLotTranNo, &lotNo, &itemKey, &locationKey, &binNo, &priorWeight); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = types.NewNotFound("LotTransaction")
		} else {
			err = types.NewTransactionFailed("preconditions", err)
		}
		unpickErrors.WithLabelValues("preconditions").Inc()
		return UnpickReceipt{}, err
	}

	res, err := tx.ExecContext(ctx, decrementLotCommitSales, priorWeight, lotNo, itemKey, locationKey, binNo)
	if err != nil {
		unpickErrors.WithLabelValues("decrement").Inc()
		return UnpickReceipt{}, types.NewTransactionFailed("decrement-commit-sales", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = types.NewTransactionFailed("decrement-commit-sales", errors.New("QtyCommitSales would go negative"))
		unpickErrors.WithLabelValues("decrement").Inc()
		return UnpickReceipt{}, err
	}

	res, err = tx.ExecContext(ctx, clearPickedQty, runNo, rowNum, lineID)
	if err != nil {
		unpickErrors.WithLabelValues("clear-qty").Inc()
		return UnpickReceipt{}, types.NewTransactionFailed("clear-picked-qty", err)
	}
	if n, _ := res.RowsAffected(); n != 1 {
		err = types.NewTransactionFailed("clear-picked-qty", errors.Errorf("expected to update exactly one PickItem row, affected %d", n))
		unpickErrors.WithLabelValues("clear-qty").Inc()
		return UnpickReceipt{}, err
	}

	now := time.Now().UTC()
	lotTranNo, err := sequence.Next(ctx, tx, types.SequenceLotTran)
	if err != nil {
		unpickErrors.WithLabelValues("compensate").Inc()
		return UnpickReceipt{}, types.NewTransactionFailed("compensating-sequence", err)
	}
	_, err = tx.ExecContext(ctx, insertLotTransaction,
		lotTranNo, lotNo, itemKey, locationKey, binNo,
		types.TransactionTypePartialPick, priorWeight.Neg(), item.BatchNo, lineID, now,
		workstationID, types.User5Unpick)
	if err != nil {
		unpickErrors.WithLabelValues("compensate").Inc()
		return UnpickReceipt{}, types.NewTransactionFailed("compensating-insert", err)
	}

	if err = tx.Commit(); err != nil {
		unpickErrors.WithLabelValues("commit").Inc()
		return UnpickReceipt{}, types.NewTransactionFailed("commit", err)
	}

	log.WithFields(log.Fields{
		"runNo": runNo, "rowNum": rowNum, "lineId": lineID, "compensatingLotTranNo": lotTranNo,
	}).Info("pick reversed")

	return UnpickReceipt{LotTranNo: lotTranNo, UnpickedAt: now}, nil
}
