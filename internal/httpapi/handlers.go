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

package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nwfth/partialpicking/internal/bin"
	"github.com/nwfth/partialpicking/internal/fefo"
	"github.com/nwfth/partialpicking/internal/pick"
	"github.com/nwfth/partialpicking/internal/readmodel"
	"github.com/nwfth/partialpicking/internal/run"
	"github.com/nwfth/partialpicking/internal/types"
	"github.com/nwfth/partialpicking/internal/workstation"
	"github.com/shopspring/decimal"
)

func pathInt32(r *http.Request, name string) (int32, error) {
	v, err := strconv.ParseInt(chi.URLParam(r, name), 10, 32)
	if err != nil {
		return 0, types.NewValidation(name + " must be an integer")
	}
	return int32(v), nil
}

func (s *Server) handleRunDetails(w http.ResponseWriter, r *http.Request) {
	runNo, err := pathInt32(r, "runNo")
	if err != nil {
		writeError(w, err)
		return
	}
	summary, err := readmodel.RunDetails(r.Context(), s.Pool, runNo)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleBatchItems(w http.ResponseWriter, r *http.Request) {
	runNo, err := pathInt32(r, "runNo")
	if err != nil {
		writeError(w, err)
		return
	}
	rowNum, err := pathInt32(r, "rowNum")
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := readmodel.BatchItems(r.Context(), s.Pool, runNo, rowNum)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type completeRunRequest struct {
	WorkstationID string `json:"workstationId"`
}

func (s *Server) handleCompleteRun(w http.ResponseWriter, r *http.Request) {
	runNo, err := pathInt32(r, "runNo")
	if err != nil {
		writeError(w, err)
		return
	}
	var req completeRunRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.WorkstationID == "" {
		writeError(w, types.NewValidation("workstationId is required"))
		return
	}
	rec, err := run.Complete(r.Context(), s.Pool, runNo, req.WorkstationID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type savePickRequest struct {
	RunNo         int32           `json:"runNo"`
	RowNum        int32           `json:"rowNum"`
	LineID        int32           `json:"lineId"`
	LotNo         string          `json:"lotNo"`
	BinNo         string          `json:"binNo"`
	Weight        decimal.Decimal `json:"weight"`
	WorkstationID string          `json:"workstationId"`
}

// savePickResponse is the full savePick response contract: the
// request's own identifying fields plus pick.Receipt's outcome,
// camelCased and tagged independently of either struct's Go names.
type savePickResponse struct {
	RunNo       int32           `json:"runNo"`
	RowNum      int32           `json:"rowNum"`
	LineID      int32           `json:"lineId"`
	ItemKey     string          `json:"itemKey"`
	LotNo       string          `json:"lotNo"`
	BinNo       string          `json:"binNo"`
	TargetQty   decimal.Decimal `json:"targetQty"`
	PickedQty   decimal.Decimal `json:"pickedQty"`
	LotTranNo   int64           `json:"lotTranNo"`
	PickingDate time.Time       `json:"pickingDate"`
	Status      string          `json:"status"`
}

func (s *Server) handleSavePick(w http.ResponseWriter, r *http.Request) {
	var req savePickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, types.NewValidation("malformed request body"))
		return
	}
	if req.LotNo == "" || req.BinNo == "" || req.WorkstationID == "" {
		writeError(w, types.NewValidation("lotNo, binNo, and workstationId are required"))
		return
	}
	if !req.Weight.IsPositive() {
		writeError(w, types.NewValidation("weight must be positive"))
		return
	}

	rec, err := pick.Commit(r.Context(), s.Pool, req.RunNo, req.RowNum, req.LineID, req.LotNo, req.BinNo, req.Weight, req.WorkstationID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, savePickResponse{
		RunNo:       req.RunNo,
		RowNum:      req.RowNum,
		LineID:      req.LineID,
		ItemKey:     rec.ItemKey,
		LotNo:       req.LotNo,
		BinNo:       req.BinNo,
		TargetQty:   rec.TargetQty,
		PickedQty:   rec.PickedPartialQty,
		LotTranNo:   rec.LotTranNo,
		PickingDate: rec.PickingDate,
		Status:      rec.Status,
	})
}

func (s *Server) handleUnpick(w http.ResponseWriter, r *http.Request) {
	runNo, err := pathInt32(r, "runNo")
	if err != nil {
		writeError(w, err)
		return
	}
	rowNum, err := pathInt32(r, "rowNum")
	if err != nil {
		writeError(w, err)
		return
	}
	lineID, err := pathInt32(r, "lineId")
	if err != nil {
		writeError(w, err)
		return
	}
	workstationID := r.URL.Query().Get("workstationId")
	if workstationID == "" {
		writeError(w, types.NewValidation("workstationId query parameter is required"))
		return
	}

	rec, err := pick.Unpick(r.Context(), s.Pool, runNo, rowNum, lineID, workstationID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handlePickedLots(w http.ResponseWriter, r *http.Request) {
	runNo, err := pathInt32(r, "runNo")
	if err != nil {
		writeError(w, err)
		return
	}
	lots, err := readmodel.PickedLotsForRun(r.Context(), s.Pool, runNo)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lots)
}

func (s *Server) handlePendingItems(w http.ResponseWriter, r *http.Request) {
	runNo, err := pathInt32(r, "runNo")
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := readmodel.PendingItemsForRun(r.Context(), s.Pool, runNo)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleAvailableLots(w http.ResponseWriter, r *http.Request) {
	itemKey := r.URL.Query().Get("itemKey")
	if itemKey == "" {
		writeError(w, types.NewValidation("itemKey query parameter is required"))
		return
	}

	var minQty *decimal.Decimal
	if raw := r.URL.Query().Get("minQty"); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			writeError(w, types.NewValidation("minQty must be a decimal number"))
			return
		}
		minQty = &v
	}

	lots, err := fefo.AvailableLots(r.Context(), s.Pool, itemKey, minQty)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lots)
}

func (s *Server) handleLotByNumber(w http.ResponseWriter, r *http.Request) {
	lotNo := chi.URLParam(r, "lotNo")
	itemKey := r.URL.Query().Get("itemKey")
	if itemKey == "" {
		writeError(w, types.NewValidation("itemKey query parameter is required"))
		return
	}

	lot, err := fefo.LotByNumber(r.Context(), s.Pool, lotNo, itemKey)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lot)
}

func (s *Server) handleBins(w http.ResponseWriter, r *http.Request) {
	f := bin.Filter{
		Aisle: r.URL.Query().Get("aisle"),
		Row:   r.URL.Query().Get("row"),
		Rack:  r.URL.Query().Get("rack"),
	}
	bins, err := bin.List(r.Context(), s.Pool, f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bins)
}

func (s *Server) handleWorkstations(w http.ResponseWriter, r *http.Request) {
	active := true
	if raw := r.URL.Query().Get("active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, types.NewValidation("active must be a boolean"))
			return
		}
		active = v
	}
	stations, err := workstation.List(r.Context(), s.Pool, active)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stations)
}
