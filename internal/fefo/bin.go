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

package fefo

import "strings"

// ParseBinNo splits a bin code such as "PWBB-12" into its aisle ("PW"),
// row ("BB"), and rack ("12") components. The heuristic is: the first
// two characters are always the aisle, the characters between the
// aisle and the dash are the row, and everything after the dash is the
// rack. Codes shorter than four characters or missing a dash don't
// carry enough information and ok is false.
func ParseBinNo(binNo string) (aisle, row, rack string, ok bool) {
	if len(binNo) < 4 {
		return "", "", "", false
	}
	aisle = binNo[0:2]

	dash := strings.IndexByte(binNo, '-')
	if dash < 0 {
		return aisle, "", "", false
	}
	if dash < 2 {
		return "", "", "", false
	}
	row = binNo[2:dash]
	rack = binNo[dash+1:]
	return aisle, row, rack, true
}
