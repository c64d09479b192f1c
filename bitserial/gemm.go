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

import (
	"math/bits"

	"github.com/ajroetker/go-bitserial/bitserial/contrib/workerpool"
)

// minParallelRows is the smallest LHS row count ParallelGEMM will bother
// splitting across the pool; below this, dispatch overhead would dominate
// the work itself.
const minParallelRows = 64

// ParallelGEMM runs the same kernel as GEMM, but dispatches independent
// LHS row-tiles to pool. Every (i, j) result cell is written by exactly
// one worker, and ParallelGEMM does not return until all workers have
// completed (spec section 5's concurrency contract).
func ParallelGEMM(pool *workerpool.Pool, ctx *GEMMContext) {
	lhsRows, rhsRows := ctx.LHS.NRows(), ctx.RHS.NRows()
	if pool == nil || lhsRows < minParallelRows {
		GEMM(ctx)
		return
	}

	cp := buildCellPlanes(ctx, pool)

	numTiles := (lhsRows + ctx.LHSBlock - 1) / ctx.LHSBlock
	pool.ParallelForAtomic(numTiles, func(tile int) {
		iStart := tile * ctx.LHSBlock
		iEnd := min(iStart+ctx.LHSBlock, lhsRows)
		computeRowTileRange(ctx, cp, iStart, iEnd, 0, rhsRows)
	})
}

// sumRowsParallel is SumRows split across pool, one chunk of rows per
// worker; the bipolar x bipolar path uses it for both operands, and it
// falls back to SumRows when an operand has too few rows to make the
// dispatch worthwhile.
func sumRowsParallel(pool *workerpool.Pool, m *BitSerialMatrix) []int {
	if m.NBits != 1 {
		invalidShape("sumRowsParallel: matrix has %d bit-planes, want 1", m.NBits)
	}
	nrows := m.NRows()
	if pool == nil || nrows < minParallelRows {
		return SumRows(m)
	}

	sums := make([]int, nrows)
	wpr := wordsPerRow(m.NColsA())
	nrowsA := m.NRowsA()
	ncolsA := m.NColsA()

	pool.ParallelFor(nrows, func(start, end int) {
		for r := start; r < end; r++ {
			rowStart := wordOffset(0, r, 0, nrowsA, ncolsA)
			var sum int
			for w := 0; w < wpr; w++ {
				sum += bits.OnesCount64(m.Words[rowStart+w])
			}
			sums[r] = sum
		}
	})
	return sums
}
