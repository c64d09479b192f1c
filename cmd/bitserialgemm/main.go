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

// Command bitserialgemm is a small harness for exercising the bit-serial
// GEMM kernel end to end: allocate random operands of a given shape and
// bit-width, run the kernel, and print the raw int32 result. It applies no
// thresholds and does not call ExportRegular.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/ajroetker/go-bitserial/bitserial"
	"github.com/ajroetker/go-bitserial/bitserial/contrib/workerpool"
)

func main() {
	lhsRows := flag.Int("lhs-rows", 4, "number of LHS rows")
	rhsRows := flag.Int("rhs-rows", 4, "number of RHS rows")
	depth := flag.Int("depth", 16, "shared depth (number of columns)")
	bits := flag.Int("bits", 4, "bit-width of both operands (1-8)")
	signed := flag.Bool("signed", false, "use two's-complement signed encoding")
	bipolar := flag.Bool("bipolar", false, "use 1-bit bipolar ({-1,+1}) encoding; overrides -bits and -signed")
	parallel := flag.Bool("parallel", false, "dispatch row-tiles to a worker pool")
	seed := flag.Uint64("seed", 1, "PRNG seed for random operands")
	flag.Parse()

	nbits := *bits
	isSigned := *signed
	if *bipolar {
		nbits = 1
		isSigned = true
	}

	if err := run(*lhsRows, *rhsRows, *depth, nbits, isSigned, *bipolar, *parallel, *seed); err != nil {
		log.Fatal(err)
	}
}

func run(lhsRows, rhsRows, depth, nbits int, signed, bipolar, parallel bool, seed uint64) error {
	ctx, err := bitserial.AllocGEMMContext(lhsRows, depth, rhsRows, nbits, nbits, signed, signed, nil)
	if err != nil {
		return fmt.Errorf("allocating GEMM context: %w", err)
	}
	defer ctx.Dealloc()

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	lhsSrc := randomInt32s(rng, lhsRows*depth, nbits, signed, bipolar)
	rhsSrc := randomInt32s(rng, rhsRows*depth, nbits, signed, bipolar)

	bitserial.ImportRegular(ctx.LHS, lhsSrc, false)
	bitserial.ImportRegular(ctx.RHS, rhsSrc, false)

	if parallel {
		// The CLI has no long-lived pool of its own; one is created for
		// the single run and closed immediately after.
		pool := workerpool.New(0)
		bitserial.ParallelGEMM(pool, ctx)
		pool.Close()
	} else {
		bitserial.GEMM(ctx)
	}

	printResult(os.Stdout, ctx.Result, lhsRows, rhsRows)
	return nil
}

// randomInt32s draws lhsRows*depth (or rhsRows*depth) random elements in
// range for (nbits, signed, bipolar) using an unbiased draw (see
// DESIGN.md for why this departs from a biased rand()%max generator).
func randomInt32s(rng *rand.Rand, n, nbits int, signed, bipolar bool) []int32 {
	out := make([]int32, n)
	if bipolar {
		for i := range out {
			if rng.IntN(2) == 1 {
				out[i] = 1
			} else {
				out[i] = -1
			}
		}
		return out
	}
	if signed {
		maxVal := int32(1) << uint(nbits-1)
		for i := range out {
			out[i] = int32(rng.IntN(int(2*maxVal))) - maxVal
		}
		return out
	}
	maxVal := (int32(1) << uint(nbits)) - 1
	for i := range out {
		out[i] = int32(rng.IntN(int(maxVal + 1)))
	}
	return out
}

func printResult(w *os.File, result []int32, rows, cols int) {
	var b strings.Builder
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if c > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%d", result[r*cols+c])
		}
		b.WriteByte('\n')
	}
	fmt.Fprint(w, b.String())
}
