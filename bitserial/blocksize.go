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

import "math"

// paddingWasteThreshold is the fraction of padding waste above which the
// fine-tuner is invoked to look for a less wasteful block size.
const paddingWasteThreshold = 0.10

// SolveBlockSize chooses row-tile counts L (a multiple of mL) and R (a
// multiple of mR) that maximise use of a cacheBits budget subject to
// 32*L*R + d*(L+R) <= cacheBits, where d is the padded depth in bits.
// lhsRows and rhsRows are the logical row counts of the two operands
// (their padded counts depend on the block sizes chosen here); they bound
// the candidate block sizes and drive the degenerate and fine-tuning
// fallbacks.
func SolveBlockSize(mL, mR, d, cacheBits, lhsRows, rhsRows int) (L, R int, err error) {
	a := 32 * mL * mR
	b := d * (mL + mR)

	discriminant := float64(b)*float64(b) + 4*float64(a)*float64(cacheBits)
	if discriminant <= 0 {
		return 0, 0, newError(SolverInfeasible, "discriminant %.0f non-positive", discriminant)
	}

	root := (-float64(b) + math.Sqrt(discriminant)) / (2 * float64(a))
	if root <= 0 {
		return 0, 0, newError(SolverInfeasible, "positive root %.4f non-positive", root)
	}

	x := int(math.Floor(root))
	if x <= 0 {
		return 0, 0, newError(SolverInfeasible, "floor(root) %d non-positive", x)
	}

	L = mL * x
	R = mR * x

	if L > lhsRows || R > rhsRows {
		L = alignTo(lhsRows, mL)
		R = alignTo(rhsRows, mR)
		return L, R, nil
	}

	if paddingWaste(lhsRows, L) > paddingWasteThreshold {
		L = fineTuneBlock(lhsRows, mL, L)
	}
	if paddingWaste(rhsRows, R) > paddingWasteThreshold {
		R = fineTuneBlock(rhsRows, mR, R)
	}

	return L, R, nil
}

func paddingWaste(rows, block int) float64 {
	if rows == 0 {
		return 0
	}
	return float64(alignTo(rows, block)-rows) / float64(rows)
}

// fineTuneBlock searches candidate block sizes from bsMax down to bsDiv in
// steps of bsDiv, keeping only multiples of bsDiv, and returns the
// candidate minimising padding waste (alignTo(rows, cand) - rows),
// breaking ties by picking the largest candidate.
func fineTuneBlock(rows, bsDiv, bsMax int) int {
	best := bsMax
	bestWaste := alignTo(rows, bsMax) - rows

	for cand := bsMax - bsDiv; cand >= bsDiv; cand -= bsDiv {
		waste := alignTo(rows, cand) - rows
		if waste < bestWaste {
			best = cand
			bestWaste = waste
		}
	}
	return best
}
