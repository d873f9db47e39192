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

import "testing"

func TestParseBinNo(t *testing.T) {
	cases := []struct {
		binNo            string
		aisle, row, rack string
		ok               bool
	}{
		{"PWBB-12", "PW", "BB", "12", true},
		{"PWBA-01", "PW", "BA", "01", true},
		{"PW00-00", "PW", "00", "00", true},
		{"abc", "", "", "", false},
		{"NODASH", "NO", "", "", false},
	}
	for _, tc := range cases {
		aisle, row, rack, ok := ParseBinNo(tc.binNo)
		if aisle != tc.aisle || row != tc.row || rack != tc.rack || ok != tc.ok {
			t.Errorf("ParseBinNo(%q) = (%q, %q, %q, %v), want (%q, %q, %q, %v)",
				tc.binNo, aisle, row, rack, ok, tc.aisle, tc.row, tc.rack, tc.ok)
		}
	}
}
