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

import "github.com/ajroetker/go-bitserial/bitserial/contrib/workerpool"

// cellPlanes holds the precomputed per-row popcounts a tile needs when one
// or both operands are bipolar, so the kernel never re-scans a bit-plane
// while filling a tile.
type cellPlanes struct {
	lhsSum      []int   // SumRows(LHS), only when LHS is bipolar
	rhsSum      []int   // SumRows(RHS), only when RHS is bipolar
	lhsPlanes   [][]int // rowPopcountsAllPlanes(LHS), only when RHS is bipolar and LHS is not
	rhsPlanes   [][]int // rowPopcountsAllPlanes(RHS), only when LHS is bipolar and RHS is not
}

// buildCellPlanes precomputes cp for ctx. When pool is non-nil, the
// both-bipolar case sums each operand's rows across the pool instead of
// scanning them on the calling goroutine (sumRowsParallel falls back to
// SumRows itself when the operand is too small to bother splitting).
func buildCellPlanes(ctx *GEMMContext, pool *workerpool.Pool) cellPlanes {
	var cp cellPlanes
	lhsBipolar := ctx.LHS.IsBipolar()
	rhsBipolar := ctx.RHS.IsBipolar()

	switch {
	case lhsBipolar && rhsBipolar:
		cp.lhsSum = sumRowsParallel(pool, ctx.LHS)
		cp.rhsSum = sumRowsParallel(pool, ctx.RHS)
	case lhsBipolar && !rhsBipolar:
		cp.rhsPlanes = rowPopcountsAllPlanes(ctx.RHS)
	case !lhsBipolar && rhsBipolar:
		cp.lhsPlanes = rowPopcountsAllPlanes(ctx.LHS)
	}
	return cp
}

// GEMM runs the bit-serial kernel for ctx, reading ctx.LHS and ctx.RHS and
// writing ctx.Result in place. It is the sequential reference entry point;
// ParallelGEMM dispatches the same per-tile work to a worker pool.
func GEMM(ctx *GEMMContext) {
	cp := buildCellPlanes(ctx, nil)
	lhsRows, rhsRows := ctx.LHS.NRows(), ctx.RHS.NRows()

	for iTile := 0; iTile < lhsRows; iTile += ctx.LHSBlock {
		iEnd := min(iTile+ctx.LHSBlock, lhsRows)
		computeRowTileRange(ctx, cp, iTile, iEnd, 0, rhsRows)
	}
}

// computeRowTileRange fills ctx.Result for LHS rows [iStart, iEnd) against
// all RHS rows [jStart, jEnd), tiling the RHS side into ctx.RHSBlock-sized
// chunks as the outer cache-blocked algorithm calls for.
func computeRowTileRange(ctx *GEMMContext, cp cellPlanes, iStart, iEnd, jStart, jEnd int) {
	for jTile := jStart; jTile < jEnd; jTile += ctx.RHSBlock {
		jTileEnd := min(jTile+ctx.RHSBlock, jEnd)
		for i := iStart; i < iEnd; i++ {
			for j := jTile; j < jTileEnd; j++ {
				ctx.Result[i*ctx.RHS.NRows()+j] = int32(computeCell(ctx, cp, i, j))
			}
		}
	}
}

// computeCell computes C[i,j] = sum_k LHS[i,k] * RHS[j,k] for one output
// cell, branching on which operands are bipolar (spec section 4.5,
// "Bipolar handling").
func computeCell(ctx *GEMMContext, cp cellPlanes, i, j int) int {
	lhs, rhs := ctx.LHS, ctx.RHS
	lhsBipolar, rhsBipolar := lhs.IsBipolar(), rhs.IsBipolar()

	switch {
	case lhsBipolar && rhsBipolar:
		return bipolarBipolarCell(ctx, cp, i, j)
	case lhsBipolar && !rhsBipolar:
		return bipolarMultiBitCell(ctx, cp.rhsPlanes, lhs, rhs, i, j)
	case !lhsBipolar && rhsBipolar:
		return bipolarMultiBitCell(ctx, cp.lhsPlanes, rhs, lhs, j, i)
	default:
		return weightedPopcountCell(ctx, i, j)
	}
}

// bipolarBipolarCell computes the signed dot product of two bipolar rows
// from the AND-cardinality of their {-1,+1} bit-planes.
//
// Deriving the correction: let a_k, b_k in {-1,+1} for k in [0,depth), and
// let a'_k, b'_k in {0,1} be the stored bits (1 iff the value is +1). Let
// p = popcount(a' AND b'), pA = popcount(a'), pB = popcount(b'), over the
// depth logical columns. Splitting the depth sum by the four (a_k, b_k)
// sign combinations and counting each combination via p, pA, pB, and
// depth gives the signed sum S = 4p - 2*pA - 2*pB + depth.
func bipolarBipolarCell(ctx *GEMMContext, cp cellPlanes, i, j int) int {
	aWords := ctx.LHS.RowWords(0, i)
	bWords := ctx.RHS.RowWords(0, j)
	p := ctx.Backend.AndPopcountRow(aWords, bWords)
	depth := ctx.LHS.NCols()
	return 4*p - 2*cp.lhsSum[i] - 2*cp.rhsSum[j] + depth
}

// bipolarMultiBitCell computes the signed dot product of a bipolar row
// against a multi-bit (unsigned or signed) row, one bit-plane of the
// multi-bit operand at a time.
//
// Deriving the correction: for bit-plane b of the multi-bit operand m
// (weight 2^b), let rowPop_b = the per-row popcount of that plane for row
// mRow, and p_b = popcount(AND(bipolar row, plane-b row)), i.e. the count
// of depth positions where the bipolar value is +1 and bit b is set.
// Summing +1 over those p_b positions and -1 over the remaining
// (rowPop_b - p_b) set-bit positions where the bipolar value is -1 gives
// a per-bit-plane contribution of (2*p_b - rowPop_b) to the unsigned
// value; it is negated for the sign bit of a signed multi-bit operand,
// matching the top-bit sign correction used elsewhere in the kernel.
// The caller passes (bipolarRow, otherRow) regardless of which of LHS/RHS
// is the bipolar operand; the sign math is the same either way.
func bipolarMultiBitCell(ctx *GEMMContext, otherPlanes [][]int, bipolarM, otherM *BitSerialMatrix, bipolarRow, otherRow int) int {
	bipolarWords := bipolarM.RowWords(0, bipolarRow)
	sum := 0
	for b := 0; b < otherM.NBits; b++ {
		planeWords := otherM.RowWords(b, otherRow)
		pB := ctx.Backend.AndPopcountRow(bipolarWords, planeWords)
		contribution := 2*pB - otherPlanes[b][otherRow]
		if otherM.Signed && b == otherM.NBits-1 {
			contribution = -contribution
		}
		sum += contribution << uint(b)
	}
	return sum
}

// weightedPopcountCell computes C[i,j] when neither operand is bipolar:
// the sum over every (bL, bR) bit-plane pair of 2^(bL+bR) *
// popcount(AND(LHS plane bL row i, RHS plane bR row j)), negated when
// exactly one operand's top (sign) bit-plane is active.
func weightedPopcountCell(ctx *GEMMContext, i, j int) int {
	lhs, rhs := ctx.LHS, ctx.RHS
	sum := 0
	for bL := 0; bL < lhs.NBits; bL++ {
		lhsWords := lhs.RowWords(bL, i)
		signL := lhs.Signed && bL == lhs.NBits-1
		for bR := 0; bR < rhs.NBits; bR++ {
			rhsWords := rhs.RowWords(bR, j)
			p := ctx.Backend.AndPopcountRow(lhsWords, rhsWords)
			weighted := p << uint(bL+bR)
			signR := rhs.Signed && bR == rhs.NBits-1
			if signL != signR {
				weighted = -weighted
			}
			sum += weighted
		}
	}
	return sum
}
