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

import "testing"

func TestAllocGEMMContextShapes(t *testing.T) {
	ctx, err := AllocGEMMContext(10, 50, 6, 3, 3, false, false, GenericBackend{})
	if err != nil {
		t.Fatalf("AllocGEMMContext: %v", err)
	}
	defer ctx.Dealloc()

	if ctx.LHS.NRows() != 10 || ctx.LHS.NCols() != 50 {
		t.Errorf("LHS shape = %dx%d, want 10x50", ctx.LHS.NRows(), ctx.LHS.NCols())
	}
	if ctx.RHS.NRows() != 6 || ctx.RHS.NCols() != 50 {
		t.Errorf("RHS shape = %dx%d, want 6x50", ctx.RHS.NRows(), ctx.RHS.NCols())
	}
	if len(ctx.Result) != 10*6 {
		t.Errorf("len(Result) = %d, want 60", len(ctx.Result))
	}
	// Depth is aligned per backend.TuningParams's mD before allocation, so
	// both operands' allocated column count must match and be a multiple
	// of mD*64.
	_, _, mD, _ := GenericBackend{}.TuningParams()
	if ctx.LHS.NColsA()%(mD*wordBits) != 0 {
		t.Errorf("LHS.NColsA() = %d, not a multiple of %d", ctx.LHS.NColsA(), mD*wordBits)
	}
	if ctx.LHS.NColsA() != ctx.RHS.NColsA() {
		t.Errorf("LHS.NColsA()=%d != RHS.NColsA()=%d", ctx.LHS.NColsA(), ctx.RHS.NColsA())
	}
}

func TestAllocGEMMContextDefaultBackend(t *testing.T) {
	ctx, err := AllocGEMMContext(4, 16, 4, 2, 2, false, false, nil)
	if err != nil {
		t.Fatalf("AllocGEMMContext: %v", err)
	}
	defer ctx.Dealloc()
	if ctx.Backend == nil {
		t.Error("AllocGEMMContext with nil backend should select a default")
	}
}
