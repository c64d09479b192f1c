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

import "fmt"

// Kind classifies an Error. InvalidShape and OutOfRange are contract
// violations: callers that hit them have a bug, so the corresponding
// operations panic instead of returning a Kind (see alloc, get/set/unset).
// OutOfMemory, UnsupportedMode, and SolverInfeasible are conditions a
// caller may legitimately need to recover from or branch on, so they are
// surfaced as an *Error.
type Kind int

const (
	// OutOfMemory indicates a buffer allocation failed, typically because
	// the requested size overflows the platform's addressable range.
	OutOfMemory Kind = iota
	// UnsupportedMode indicates a requested combination of flags is not
	// implemented (e.g. signed quantised import, broadcast thresholds).
	UnsupportedMode
	// SolverInfeasible indicates the block-size solver's quadratic has no
	// positive root for the given cache budget and register tiles.
	SolverInfeasible
)

func (k Kind) String() string {
	switch k {
	case OutOfMemory:
		return "OutOfMemory"
	case UnsupportedMode:
		return "UnsupportedMode"
	case SolverInfeasible:
		return "SolverInfeasible"
	default:
		return "Unknown"
	}
}

// Error is returned for the "surface" error kinds. InvalidShape and
// OutOfRange contract violations are not representable as an Error; they
// panic at the point of violation.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("bitserial: %s: %s", e.Kind, e.Msg)
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// invalidShape panics with an InvalidShape-contract message. alloc and its
// callers use this for negative/zero sizes, out-of-range nbits, and
// non-64-multiple colalign -- all programmer errors per spec.
func invalidShape(format string, args ...any) {
	panic(fmt.Sprintf("bitserial: InvalidShape: %s", fmt.Sprintf(format, args...)))
}

// outOfRange panics for indices outside a BSM's allocated extents.
func outOfRange(format string, args ...any) {
	panic(fmt.Sprintf("bitserial: OutOfRange: %s", fmt.Sprintf(format, args...)))
}
