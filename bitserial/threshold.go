// Copyright 2025 go-highway Authors
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

package bitserial

// ApplyThresholds implements the thresholded-activation output interface
// (spec section 3, "Threshold matrix"): thresholds has shape
// [numThresholds][rows], monotonically non-decreasing along the first
// axis for each row, and the output for cell (row, col) is the count of
// thresholds that value crosses. The returned slice has the same shape as
// values (rows x cols, row-major); every column of output row r is
// compared against thresholds[t][r] for each t.
//
// Broadcasting a single threshold value across every output row -- as
// opposed to one value per output row -- is the "broadcast thresholds"
// mode the reference implementation never supported; if any thresholds[t]
// has fewer than rows entries, UnsupportedMode is returned.
func ApplyThresholds(values []int32, rows, cols int, thresholds [][]int32) ([]int32, error) {
	for t, row := range thresholds {
		if len(row) < rows {
			return nil, newError(UnsupportedMode, "applyThresholds: threshold row %d has %d entries, want %d (broadcast thresholds not implemented)", t, len(row), rows)
		}
	}

	out := make([]int32, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := values[r*cols+c]
			var crossed int32
			for _, row := range thresholds {
				if v >= row[r] {
					crossed++
				} else {
					break
				}
			}
			out[r*cols+c] = crossed
		}
	}
	return out, nil
}
