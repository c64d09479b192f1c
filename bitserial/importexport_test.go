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
	"errors"
	"math/rand/v2"
	"testing"
)

// TestRoundTripUnsigned covers concrete scenario 5: a random 16x65
// unsigned 3-bit matrix survives an import/export round trip.
func TestRoundTripUnsigned(t *testing.T) {
	const rows, cols, nbits = 16, 65, 3
	m, err := Alloc(nbits, rows, cols, false, 1, 64)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}

	rng := rand.New(rand.NewPCG(1, 2))
	src := make([]uint8, rows*cols)
	for i := range src {
		src[i] = uint8(rng.IntN(1 << nbits))
	}

	ImportRegular(m, src, false)

	dst := make([]uint8, rows*cols)
	ExportRegular(m, dst)

	for i := range src {
		if dst[i] != src[i] {
			t.Fatalf("dst[%d] = %d, want %d", i, dst[i], src[i])
		}
	}
}

func TestRoundTripSigned(t *testing.T) {
	const rows, cols, nbits = 6, 70, 4
	m, err := Alloc(nbits, rows, cols, true, 1, 64)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}

	maxVal := int32(1) << uint(nbits-1)
	rng := rand.New(rand.NewPCG(3, 4))
	src := make([]int32, rows*cols)
	for i := range src {
		src[i] = int32(rng.IntN(int(2*maxVal))) - maxVal
	}

	ImportRegular(m, src, false)

	dst := make([]int32, rows*cols)
	ExportRegular(m, dst)

	for i := range src {
		if dst[i] != src[i] {
			t.Fatalf("dst[%d] = %d, want %d", i, dst[i], src[i])
		}
	}
}

func TestRoundTripColMajor(t *testing.T) {
	const rows, cols, nbits = 4, 9, 2
	m, err := Alloc(nbits, rows, cols, false, 1, 64)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}

	// Column-major source: src[c*rows+r].
	src := make([]uint8, rows*cols)
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			src[c*rows+r] = uint8((r + c) % (1 << nbits))
		}
	}

	ImportRegular(m, src, true)

	dst := make([]uint8, rows*cols)
	ExportRegular(m, dst) // row-major
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			want := uint8((r + c) % (1 << nbits))
			if got := dst[r*cols+c]; got != want {
				t.Fatalf("dst[%d][%d] = %d, want %d", r, c, got, want)
			}
		}
	}
}

func TestRoundTripBipolar(t *testing.T) {
	const rows, cols = 3, 8
	m, err := Alloc(1, rows, cols, true, 1, 64)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	src := []int8{1, -1, 1, -1, 1, -1, 1, -1, -1, 1, -1, 1, -1, 1, -1, 1, 1, 1, 1, 1, -1, -1, -1, -1}
	ImportRegular(m, src, false)

	dst := make([]int8, rows*cols)
	ExportRegular(m, dst)
	for i := range src {
		if dst[i] != src[i] {
			t.Fatalf("dst[%d] = %d, want %d", i, dst[i], src[i])
		}
	}
}

// TestImportPaddingIsZero covers the "padding is zero" invariant: after
// import, bits addressing row >= nrows or col >= ncols stay 0.
func TestImportPaddingIsZero(t *testing.T) {
	const rows, cols, nbits = 5, 70, 3
	m, err := Alloc(nbits, rows, cols, false, 8, 128)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	src := make([]uint8, rows*cols)
	for i := range src {
		src[i] = uint8((i % 7) + 1) // never zero, so any leakage would show
	}
	ImportRegular(m, src, false)

	for b := 0; b < nbits; b++ {
		for r := 0; r < m.NRowsA(); r++ {
			for c := 0; c < m.NColsA(); c++ {
				if r < rows && c < cols {
					continue
				}
				if m.Get(b, r, c) {
					t.Fatalf("padded bit (b=%d,r=%d,c=%d) set after import", b, r, c)
				}
			}
		}
	}
}

func TestImportRegularAndQuantize(t *testing.T) {
	const rows, cols = 2, 3
	// 2-bit unsigned quantised index in [0,3].
	m, err := Alloc(2, rows, cols, false, 1, 64)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}

	src := []int32{1, 5, 10, 2, 6, 11}
	thresholds := [][]int32{
		{3, 4}, // row 0 threshold0=3, row1 threshold0=4
		{8, 9}, // row 0 threshold1=8, row1 threshold1=9
	}
	// row0: 1<=3 -> t=0; 5 -> not<=3, <=8 -> t=1; 10 -> exceeds all -> t=2(numThres)
	// row1: 2<=4 -> t=0; 6<=9 -> t=1 (not<=4); 11 -> t=2
	if err := ImportRegularAndQuantize(m, src, thresholds, false); err != nil {
		t.Fatalf("ImportRegularAndQuantize: %v", err)
	}

	dst := make([]int32, rows*cols)
	ExportRegular(m, dst)
	want := []int32{0, 1, 2, 0, 1, 2}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst[%d] = %d, want %d", i, dst[i], want[i])
		}
	}
}

func TestImportRegularAndQuantizeSignedUnsupported(t *testing.T) {
	m, err := Alloc(2, 2, 2, true, 1, 64)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	src := []int32{1, 2, 3, 4}
	err = ImportRegularAndQuantize(m, src, [][]int32{{1, 1}}, false)
	if err == nil {
		t.Fatal("expected UnsupportedMode error for signed quantise import")
	}
	var bsErr *Error
	if !errors.As(err, &bsErr) || bsErr.Kind != UnsupportedMode {
		t.Fatalf("err = %v, want UnsupportedMode *Error", err)
	}
}
