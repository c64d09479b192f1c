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

// Elem enumerates the scalar source/destination element types supported by
// the importers and exporters, per the "Template-over-T" design note: the
// conversion to and from the bit-serial encoding is identical up to the
// scalar-to-integer step, so a single constraint covers all of them.
type Elem interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~float32
}

// toInt64 converts a source element to its integer value for bit-plane
// encoding. float32 truncates toward zero, matching the source types'
// other integer conversions.
func toInt64[T Elem](v T) int64 {
	switch x := any(v).(type) {
	case float32:
		return int64(x)
	case int8:
		return int64(x)
	case uint8:
		return int64(x)
	case int16:
		return int64(x)
	case uint16:
		return int64(x)
	case int32:
		return int64(x)
	case uint32:
		return int64(x)
	default:
		// Unreachable for the Elem constraint's underlying types.
		return int64(any(v).(int64))
	}
}

// fromInt64 converts a decoded integer value back to T for export.
func fromInt64[T Elem](v int64) T {
	var zero T
	switch any(zero).(type) {
	case float32:
		return any(float32(v)).(T)
	case int8:
		return any(int8(v)).(T)
	case uint8:
		return any(uint8(v)).(T)
	case int16:
		return any(int16(v)).(T)
	case uint16:
		return any(uint16(v)).(T)
	case int32:
		return any(int32(v)).(T)
	case uint32:
		return any(uint32(v)).(T)
	default:
		return zero
	}
}
