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

// encodeElement converts a logical element value to its stored bit
// pattern. Bipolar matrices store only bit 0 (1 for any strictly positive
// value). Signed matrices remap negative values into their two's-
// complement form; unsigned and non-negative signed values are stored
// directly.
func encodeElement(v int64, nbits int, signed, bipolar bool) uint64 {
	if bipolar {
		if v > 0 {
			return 1
		}
		return 0
	}
	if signed && v < 0 {
		half := int64(1) << uint(nbits-1)
		return uint64(half + (v + half))
	}
	return uint64(v)
}

// decodeElement reconstructs the logical element value from a stored bit
// pattern of nbits bits.
func decodeElement(u uint64, nbits int, signed, bipolar bool) int64 {
	if bipolar {
		if u&1 != 0 {
			return 1
		}
		return -1
	}
	v := int64(0)
	for b := 0; b < nbits; b++ {
		if u&(uint64(1)<<uint(b)) != 0 {
			if signed && b == nbits-1 {
				v -= int64(1) << uint(b)
			} else {
				v += int64(1) << uint(b)
			}
		}
	}
	return v
}

func srcIndex(row, col, nrows, ncols int, colMajor bool) int {
	if colMajor {
		return col*nrows + row
	}
	return row*ncols + col
}

// ImportRegular clears m, then writes every logical cell of src into its
// bit-plane encoding. src is laid out row-major unless readColMajor is
// true. Padded cells (row >= m.NRows() or col >= m.NCols()) are left zero.
func ImportRegular[T Elem](m *BitSerialMatrix, src []T, readColMajor bool) {
	m.ClearAll()
	nrows, ncols := m.NRows(), m.NCols()
	bipolar := m.IsBipolar()
	for r := 0; r < nrows; r++ {
		for c := 0; c < ncols; c++ {
			v := toInt64(src[srcIndex(r, c, nrows, ncols, readColMajor)])
			u := encodeElement(v, m.NBits, m.Signed, bipolar)
			for b := 0; b < m.NBits; b++ {
				if u&(uint64(1)<<uint(b)) != 0 {
					m.Set(b, r, c)
				}
			}
		}
	}
}

// ImportRegularAndQuantize clears m, then for each logical cell replaces
// the source value with the smallest threshold index t for which
// src <= thresholds[t][row], or len(thresholds) if none, and bit-decomposes
// the quantised value. Only valid for unsigned matrices; thresholds must
// be non-decreasing along the first axis for the result to be monotone.
func ImportRegularAndQuantize[T Elem](m *BitSerialMatrix, src []T, thresholds [][]T, readColMajor bool) error {
	if m.Signed {
		return newError(UnsupportedMode, "importRegularAndQuantize: signed-quantise import not implemented")
	}
	numThres := len(thresholds)

	m.ClearAll()
	nrows, ncols := m.NRows(), m.NCols()
	for r := 0; r < nrows; r++ {
		for c := 0; c < ncols; c++ {
			v := src[srcIndex(r, c, nrows, ncols, readColMajor)]
			t := numThres
			for ti := 0; ti < numThres; ti++ {
				if v <= thresholds[ti][r] {
					t = ti
					break
				}
			}
			u := uint64(t)
			for b := 0; b < m.NBits; b++ {
				if u&(uint64(1)<<uint(b)) != 0 {
					m.Set(b, r, c)
				}
			}
		}
	}
	return nil
}

// ExportRegular reconstructs every logical cell of m into dst, which must
// have length m.NRows()*m.NCols() and is written row-major.
func ExportRegular[T Elem](m *BitSerialMatrix, dst []T) {
	nrows, ncols := m.NRows(), m.NCols()
	bipolar := m.IsBipolar()
	for r := 0; r < nrows; r++ {
		for c := 0; c < ncols; c++ {
			var u uint64
			for b := 0; b < m.NBits; b++ {
				if m.Get(b, r, c) {
					u |= uint64(1) << uint(b)
				}
			}
			v := decodeElement(u, m.NBits, m.Signed, bipolar)
			dst[r*ncols+c] = fromInt64[T](v)
		}
	}
}
