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

// Package pick implements the transactional commit and reversal of a
// single partial pick: the engine that moves a PickItem from pending
// to Allocated (or back) while keeping LotMaster and the LotTransaction
// audit trail consistent with it.
package pick

import (
	"context"
	"database/sql"
	"time"

	"github.com/nwfth/partialpicking/internal/fefo"
	"github.com/nwfth/partialpicking/internal/sequence"
	"github.com/nwfth/partialpicking/internal/tolerance"
	"github.com/nwfth/partialpicking/internal/types"
	"github.com/nwfth/partialpicking/internal/workstation"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Receipt is returned by Commit on success.
type Receipt struct {
	ItemKey          string
	TargetQty        decimal.Decimal
	PickedPartialQty decimal.Decimal
	LotTranNo        int64
	PickingDate      time.Time
	Status           string
}

const selectPickItemForUpdate = `
SELECT
	RunNo, RowNum, LineId, ItemKey, BatchNo,
	ToPickedPartialQty, PickedPartialQty,
	ItemBatchStatus, PickingDate, ModifiedBy, ModifiedDate,
	PackSize, Unit
FROM cust_PartialPicked WITH (UPDLOCK, ROWLOCK)
WHERE RunNo = @p1 AND RowNum = @p2 AND LineId = @p3`

const selectLotForUpdate = `
SELECT
	LotNo, ItemKey, LocationKey, BinNo,
	QtyOnHand, QtyCommitSales, DateExpiry, LotStatus
FROM LotMaster WITH (UPDLOCK, ROWLOCK)
WHERE LotNo = @p1 AND ItemKey = @p2 AND LocationKey = @p3 AND BinNo = @p4`

const insertLotTransaction = `
INSERT INTO LotTransaction (
	LotTranNo, LotNo, ItemKey, LocationKey, BinNo,
	TransactionType, QtyIssued, IssueDocNo, IssueDocLineNo, IssueDate,
	RecUserid, Processed, User5
) VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7, @p8, @p9, @p10, @p11, 'N', @p12)`

const updateLotCommitSales = `
UPDATE LotMaster
SET QtyCommitSales = QtyCommitSales + @p1
WHERE LotNo = @p2 AND ItemKey = @p3 AND LocationKey = @p4 AND BinNo = @p5
  AND QtyCommitSales + @p1 <= QtyOnHand`

const updatePickItem = `
UPDATE cust_PartialPicked
SET PickedPartialQty = @p1, ItemBatchStatus = @p2, PickingDate = @p3,
	ModifiedBy = @p4, ModifiedDate = @p5
WHERE RunNo = @p6 AND RowNum = @p7 AND LineId = @p8`

// Commit performs the four-phase transactional pick described for
// savePick: it validates the target slot and lot, checks the weight
// against tolerance, then writes the LotTransaction audit line,
// increments the lot's committed quantity, and marks the PickItem
// Allocated — all inside one transaction. P4 (see the completion
// engine) is folded into run completion rather than modeled here.
func Commit(
	ctx context.Context, pool *types.Pool,
	runNo, rowNum, lineID int32, lotNo, binNo string, weight decimal.Decimal, workstationID string,
) (rec Receipt, err error) {
	start := time.Now()
	defer func() {
		commitDurations.Observe(time.Since(start).Seconds())
		if err == nil {
			commitSuccess.Inc()
		}
	}()

	tx, err := pool.BeginTx(ctx, nil)
	if err != nil {
		return Receipt{}, errors.WithStack(err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.WithError(rbErr).Warn("rollback after failed pick commit also failed")
			}
		}
	}()

	if err = workstation.ValidateActive(ctx, tx, workstationID); err != nil {
		commitErrors.WithLabelValues("preconditions").Inc()
		return Receipt{}, err
	}

	item, err := loadPickItem(ctx, tx, runNo, rowNum, lineID)
	if err != nil {
		commitErrors.WithLabelValues("preconditions").Inc()
		return Receipt{}, err
	}
	if item.Picked() {
		err = types.NewAlreadyPicked(item.ItemKey)
		commitErrors.WithLabelValues("preconditions").Inc()
		return Receipt{}, err
	}

	lot, err := loadLotForUpdate(ctx, tx, lotNo, item.ItemKey, binNo)
	if err != nil {
		commitErrors.WithLabelValues("preconditions").Inc()
		return Receipt{}, err
	}
	if !lot.Usable() || !lot.AvailableQty().IsPositive() {
		err = types.NewInsufficientQuantity("lot " + lotNo + " has no available quantity in bin " + binNo)
		commitErrors.WithLabelValues("preconditions").Inc()
		return Receipt{}, err
	}

	tol, err := tolerance.LookupToleranceKg(ctx, tx, item.ItemKey)
	if err != nil {
		commitErrors.WithLabelValues("preconditions").Inc()
		return Receipt{}, err
	}
	accepted, low, high := tolerance.Validate(item.ToPickedPartialQty, weight, tol)
	if !accepted {
		err = &types.WeightOutOfToleranceError{Weight: weight, Low: low, High: high}
		commitErrors.WithLabelValues("preconditions").Inc()
		return Receipt{}, err
	}

	now := time.Now().UTC()

	// P1: append the audit line.
	lotTranNo, err := sequence.Next(ctx, tx, types.SequenceLotTran)
	if err != nil {
		commitErrors.WithLabelValues("p1").Inc()
		return Receipt{}, types.NewTransactionFailed("p1-sequence", err)
	}
	_, err = tx.ExecContext(ctx, insertLotTransaction,
		lotTranNo, lot.LotNo, lot.ItemKey, lot.LocationKey, lot.BinNo,
		types.TransactionTypePartialPick, weight, item.BatchNo, lineID, now,
		workstationID, types.User5Pick)
	if err != nil {
		commitErrors.WithLabelValues("p1").Inc()
		return Receipt{}, types.NewTransactionFailed("p1-insert", err)
	}

	// P2: reserve the quantity against the lot, rejecting over-commit.
	res, err := tx.ExecContext(ctx, updateLotCommitSales, weight, lot.LotNo, lot.ItemKey, lot.LocationKey, lot.BinNo)
	if err != nil {
		commitErrors.WithLabelValues("p2").Inc()
		return Receipt{}, types.NewTransactionFailed("p2", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = types.NewInsufficientQuantity("committing would exceed quantity on hand")
		commitErrors.WithLabelValues("p2").Inc()
		return Receipt{}, err
	}

	// P3: mark the slot Allocated.
	res, err = tx.ExecContext(ctx, updatePickItem,
		weight, types.ItemBatchStatusAllocated, now, workstationID, now,
		runNo, rowNum, lineID)
	if err != nil {
		commitErrors.WithLabelValues("p3").Inc()
		return Receipt{}, types.NewTransactionFailed("p3", err)
	}
	if n, _ := res.RowsAffected(); n != 1 {
		err = types.NewTransactionFailed("p3", errors.Errorf("expected to update exactly one PickItem row, affected %d", n))
		commitErrors.WithLabelValues("p3").Inc()
		return Receipt{}, err
	}

	if err = tx.Commit(); err != nil {
		commitErrors.WithLabelValues("commit").Inc()
		return Receipt{}, types.NewTransactionFailed("commit", err)
	}

	log.WithFields(log.Fields{
		"runNo": runNo, "rowNum": rowNum, "lineId": lineID, "lotTranNo": lotTranNo,
	}).Info("pick committed")

	return Receipt{
		ItemKey:          item.ItemKey,
		TargetQty:        item.ToPickedPartialQty,
		PickedPartialQty: weight,
		LotTranNo:        lotTranNo,
		PickingDate:      now,
		Status:           types.ItemBatchStatusAllocated,
	}, nil
}

func loadPickItem(ctx context.Context, db types.Querier, runNo, rowNum, lineID int32) (types.PickItem, error) {
	row := db.QueryRowContext(ctx, selectPickItemForUpdate, runNo, rowNum, lineID)
	var p types.PickItem
	err := row.Scan(
		&p.RunNo, &p.RowNum, &p.LineID, &p.ItemKey, &p.BatchNo,
		&p.ToPickedPartialQty, &p.PickedPartialQty,
		&p.ItemBatchStatus, &p.PickingDate, &p.ModifiedBy, &p.ModifiedDate,
		&p.PackSize, &p.Unit,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.PickItem{}, types.NewNotFound("cust_PartialPicked")
		}
		return types.PickItem{}, types.NewTransactionFailed("preconditions", err)
	}
	return p, nil
}

func loadLotForUpdate(ctx context.Context, db types.Querier, lotNo, itemKey, binNo string) (fefo.LotView, error) {
	row := db.QueryRowContext(ctx, selectLotForUpdate, lotNo, itemKey, types.PartialPickingLocation, binNo)
	var (
		l         types.Lot
		qtyOnHand decimal.Decimal
		qtyCommit decimal.Decimal
		lotStatus sql.NullString
	)
	if err := row.Scan(&l.LotNo, &l.ItemKey, &l.LocationKey, &l.BinNo, &qtyOnHand, &qtyCommit, &l.DateExpiry, &lotStatus); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fefo.LotView{}, types.NewNotFound("LotMaster:" + lotNo)
		}
		return fefo.LotView{}, types.NewTransactionFailed("preconditions", err)
	}
	l.QtyOnHand = qtyOnHand
	l.QtyCommitSales = qtyCommit
	l.LotStatus = lotStatus

	aisle, rowPart, rack, ok := fefo.ParseBinNo(l.BinNo)
	return fefo.LotView{Lot: l, Aisle: aisle, Row: rowPart, Rack: rack, BinParsed: ok}, nil
}
