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

// Package bitserial provides a bit-serial general matrix-matrix
// multiplication (GEMM) kernel for low-precision integer arithmetic.
//
// Matrices hold elements of configurable bit-width B (1-64 bits), either
// plain binary, two's-complement signed, or 1-bit bipolar ({-1, +1}).
// Each matrix is decomposed into B binary bit-planes; the kernel computes
// the product by ANDing bit-plane pairs and counting set bits
// (AND-cardinality), then accumulates the popcounts with the appropriate
// power-of-two weight and sign correction.
//
// Basic usage:
//
//	ctx, _ := bitserial.AllocGEMMContext(2, 3, 2, 2, 2, false, false, nil)
//	defer ctx.Dealloc()
//	bitserial.ImportRegular(ctx.LHS, []uint8{1, 2, 3, 0, 1, 2}, false)
//	bitserial.ImportRegular(ctx.RHS, []uint8{1, 1, 1, 2, 0, 1}, false)
//
//	bitserial.GEMM(ctx)
//	// ctx.Result now holds LHS * RHS^T as a row-major []int32.
//
// The result matrix C has shape lhs.NRows() x rhs.NRows(), with
// C[i,j] = sum_k lhs[i,k] * rhs[j,k] -- i.e. LHS multiplied by the
// transpose of RHS.
package bitserial
