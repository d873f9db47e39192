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

// Package httpapi is the thin HTTP/JSON transport wired over the core
// engines. Auth and correlation-id propagation beyond logging are
// external collaborators' concern; this package only maps requests to
// core calls and core errors to the stable error envelope.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/nwfth/partialpicking/internal/types"
	log "github.com/sirupsen/logrus"
)

type errorBody struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId"`
	Details       any    `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			log.WithError(err).Warn("could not encode response body")
		}
	}
}

// writeError maps a core error to the stable {error:{code,message,...}}
// envelope, logging a correlation id for every 5xx.
func writeError(w http.ResponseWriter, err error) {
	correlationID := uuid.NewString()

	status, code, details := classify(err)

	if status >= 500 {
		log.WithError(err).WithField("correlationId", correlationID).Error("request failed")
	}

	writeJSON(w, status, errorEnvelope{Error: errorBody{
		Code:          code,
		Message:       err.Error(),
		CorrelationID: correlationID,
		Details:       details,
	}})
}

func classify(err error) (status int, code string, details any) {
	if nf, ok := types.IsNotFound(err); ok {
		return http.StatusNotFound, "DB_RECORD_NOT_FOUND", map[string]string{"entity": nf.Entity}
	}
	if ap, ok := types.IsAlreadyPicked(err); ok {
		return http.StatusBadRequest, "BUSINESS_ITEM_ALREADY_PICKED", map[string]string{"itemKey": ap.ItemKey}
	}
	if _, ok := types.IsInsufficientQuantity(err); ok {
		return http.StatusBadRequest, "BUSINESS_INSUFFICIENT_QUANTITY", nil
	}
	if w, ok := types.IsWeightOutOfTolerance(err); ok {
		return http.StatusBadRequest, "VALIDATION_WEIGHT_OUT_OF_TOLERANCE", map[string]string{
			"weight": w.Weight.String(), "weightRangeLow": w.Low.String(), "weightRangeHigh": w.High.String(),
		}
	}
	if _, ok := types.IsRunNotComplete(err); ok {
		return http.StatusBadRequest, "BUSINESS_RUN_NOT_COMPLETE", nil
	}
	if _, ok := types.IsValidation(err); ok {
		return http.StatusBadRequest, "VALIDATION_ERROR", nil
	}
	if tf, ok := types.IsTransactionFailed(err); ok {
		return http.StatusInternalServerError, "DB_TRANSACTION_FAILED", map[string]string{"failedPhase": tf.Phase}
	}
	if _, ok := types.IsQueryFailed(err); ok {
		return http.StatusInternalServerError, "DB_QUERY_FAILED", nil
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR", nil
}
