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

// Package types contains the data types and interfaces that define the
// major functional blocks of the partial-picking coordinator. Placing
// them here makes it easy to compose engines, read models, and the
// transport layer against a shared vocabulary without import cycles.
package types

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Querier is implemented by [sql.DB], [sql.Tx], and [sql.Conn]. Engines
// accept a Querier rather than a concrete pool or transaction type so
// that the same code path can run standalone or as one phase of a
// larger caller-managed transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
	_ Querier = (*sql.Conn)(nil)
)

// Tx is implemented by [sql.Tx]. Engines that must commit or roll back
// a transaction they began take a Tx; engines that only need to issue
// statements within a transaction someone else owns take a Querier.
type Tx interface {
	Querier
	Commit() error
	Rollback() error
}

var _ Tx = (*sql.Tx)(nil)

// PoolInfo describes a database connection pool and what it is
// connected to.
type PoolInfo struct {
	ConnectionString string
	Product          string // "sqlserver"
	Version          string
}

// Info returns the PoolInfo when embedded.
func (i *PoolInfo) Info() *PoolInfo { return i }

// Pool is the injection point for the shared warehouse database. It is
// the same database that bulk picking, receiving, putaway, and finance
// subsystems write to; the coordinator never assumes exclusive access
// to any table it touches.
type Pool struct {
	*sql.DB
	PoolInfo
	_ noCopy
}

// BeginTx starts a transaction. Callers are responsible for committing
// or rolling it back; every engine in this repository does so within
// the same function that opened it.
func (p *Pool) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	tx, err := p.DB.BeginTx(ctx, opts)
	return tx, errors.WithStack(err)
}

type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// SequenceName identifies a row in Seqnum. The two names this
// coordinator allocates are PT (pallet IDs) and LT (LotTransaction
// LotTranNo values).
type SequenceName string

const (
	// SequencePallet is the pallet/transaction sequence shared with
	// other warehouse subsystems.
	SequencePallet SequenceName = "PT"
	// SequenceLotTran allocates LotTransaction.LotTranNo values.
	SequenceLotTran SequenceName = "LT"
)

// RunStatus is the workflow status of a Run.
type RunStatus string

const (
	RunStatusNew   RunStatus = "NEW"
	RunStatusPrint RunStatus = "PRINT"
)

// Run is keyed by (RunNo, RowNum); RowNum denotes a batch within a run.
type Run struct {
	RunNo        int32
	RowNum       int32
	FormulaID    string
	FormulaDesc  string
	BatchCount   int32
	Status       RunStatus
	ModifiedBy   string
	ModifiedDate time.Time
	RecDate      time.Time
}

// ItemBatchStatus is the only non-null value PickItem.ItemBatchStatus
// ever takes.
const ItemBatchStatusAllocated = "Allocated"

// PickItem is keyed by (RunNo, RowNum, LineId); it is the atomic unit
// of work for a pick.
type PickItem struct {
	RunNo              int32
	RowNum             int32
	LineID             int32
	ItemKey            string
	BatchNo            string
	ToPickedPartialQty decimal.Decimal
	PickedPartialQty   decimal.Decimal
	ItemBatchStatus    sql.NullString
	PickingDate        sql.NullTime
	ModifiedBy         sql.NullString
	ModifiedDate       sql.NullTime
	PackSize           decimal.Decimal
	Unit               string
}

// Picked reports the "picked" state of a PickItem:
// Allocated with a positive quantity.
func (p PickItem) Picked() bool {
	return p.ItemBatchStatus.Valid && p.ItemBatchStatus.String == ItemBatchStatusAllocated &&
		p.PickedPartialQty.IsPositive()
}

// PreviouslyUnpicked reports the "Allocated, zero quantity" state that
// a re-pick is allowed to land on.
func (p PickItem) PreviouslyUnpicked() bool {
	return p.ItemBatchStatus.Valid && p.ItemBatchStatus.String == ItemBatchStatusAllocated &&
		p.PickedPartialQty.IsZero()
}

// LotStatus values. Usable-for-picking is P, C, '', or NULL; H (Hold)
// is never usable.
const (
	LotStatusAvailable    = "P"
	LotStatusCleared      = "C"
	LotStatusHold         = "H"
	LotStatusEmptyIsValid = ""
)

// PartialPickingLocation and the bin-scope columns: a bin is
// in scope for partial picking iff Location=PartialPickingLocation and
// User1/User4 match.
const (
	PartialPickingLocation = "TFC1"
	PartialPickingUser1    = "WHTFC1"
	PartialPickingUser4    = "PARTIAL"
)

// Lot is keyed by (LotNo, ItemKey, LocationKey, BinNo); the same lot
// number may appear in several bins as distinct rows.
type Lot struct {
	LotNo          string
	ItemKey        string
	LocationKey    string
	BinNo          string
	QtyOnHand      decimal.Decimal
	QtyCommitSales decimal.Decimal
	DateExpiry     time.Time
	LotStatus      sql.NullString
}

// AvailableQty is QtyOnHand net of what is already committed.
func (l Lot) AvailableQty() decimal.Decimal {
	return l.QtyOnHand.Sub(l.QtyCommitSales)
}

// Usable reports whether the lot row is eligible for picking under
// the FEFO scope filters: not on hold, and in TFC1.
func (l Lot) Usable() bool {
	if l.LocationKey != PartialPickingLocation {
		return false
	}
	if !l.LotStatus.Valid {
		return true
	}
	switch l.LotStatus.String {
	case LotStatusAvailable, LotStatusCleared, LotStatusEmptyIsValid:
		return true
	default:
		return false
	}
}

// LotTransaction is the append-only audit line, keyed by the
// monotonically allocated LotTranNo.
type LotTransaction struct {
	LotTranNo      int64
	LotNo          string
	ItemKey        string
	LocationKey    string
	BinNo          string
	TransactionType int32
	QtyIssued      decimal.Decimal
	IssueDocNo     string
	IssueDocLineNo int32
	IssueDate      time.Time
	RecUserid      string
	Processed      string
	User5          string
}

// TransactionTypePartialPick is the fixed TransactionType for every
// LotTransaction this coordinator writes, pick or unpick alike.
const TransactionTypePartialPick int32 = 5

// User5 markers distinguish an original pick's audit line from its
// compensating unpick line: a negative-quantity entry, never a
// deletion, keeps LotTransaction append-only.
const (
	User5Pick   = "Picking Customization"
	User5Unpick = "Picking Customization - Unpick"
)

// Pallet is keyed by (RunNo, RowNum, LineId) with LineId always 1.
type Pallet struct {
	RunNo         int32
	RowNum        int32
	LineID        int32
	PalletID      string
	ItemKey       string
	ItemDesc      string
	Status        string
	RecUserid     string
	RecDate       time.Time
	ModifiedBy    string
	ModifiedDate  time.Time
	ProductionDate sql.NullTime
}
