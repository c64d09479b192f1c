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

// GEMMContext bundles an LHS and RHS BitSerialMatrix, the block sizes
// chosen for them, the back-end that will run the kernel, and the result
// buffer. It owns all three and releasing it releases them.
type GEMMContext struct {
	LHS, RHS *BitSerialMatrix
	LHSBlock int
	RHSBlock int
	Backend  Backend
	Result   []int32
}

// AllocGEMMContext allocates a GEMMContext for multiplying an
// lhsRows x depth LHS matrix by an rhsRows x depth RHS matrix (i.e.
// computing LHS * RHS^T). If backend is nil, SelectBackend's process
// default is used. Depth is aligned up to the backend's depth register
// multiple before the block-size solver runs against it (spec 4.4).
func AllocGEMMContext(lhsRows, depth, rhsRows, lhsBits, rhsBits int, lhsSigned, rhsSigned bool, backend Backend) (*GEMMContext, error) {
	if backend == nil {
		backend = SelectBackend()
	}
	mL, mR, mD, cacheBits := backend.TuningParams()

	depthA := alignTo(depth, mD*wordBits)

	L, R, err := SolveBlockSize(mL, mR, depthA, cacheBits, lhsRows, rhsRows)
	if err != nil {
		return nil, err
	}

	lhs, err := Alloc(lhsBits, lhsRows, depth, lhsSigned, L, mD*wordBits)
	if err != nil {
		return nil, err
	}
	rhs, err := Alloc(rhsBits, rhsRows, depth, rhsSigned, R, mD*wordBits)
	if err != nil {
		lhs.Dealloc()
		return nil, err
	}

	return &GEMMContext{
		LHS:      lhs,
		RHS:      rhs,
		LHSBlock: L,
		RHSBlock: R,
		Backend:  backend,
		Result:   make([]int32, lhsRows*rhsRows),
	}, nil
}

// Dealloc releases the context's LHS, RHS, and result buffer.
func (ctx *GEMMContext) Dealloc() {
	ctx.LHS.Dealloc()
	ctx.RHS.Dealloc()
	ctx.Result = nil
}
