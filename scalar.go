// Copyright (C) 2024 LightningJSON authors.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package lightningjson

import "strconv"

// Int decodes the value as a signed integer. In strict mode, a Value whose
// Type isn't Integer or Double returns a TypeMismatchError; in loose mode
// it best-efforts a zero-value on mismatch, matching the original engine's
// permissive default.
func (v Value) Int() (int64, error) {
	switch v.Type() {
	case Integer:
		return parseInt(v.h.raw.Bytes()), nil
	case Double:
		return int64(parseFloat(v.h.raw.Bytes())), nil
	default:
		if v.strictMode() {
			return 0, &TypeMismatchError{Expected: Integer, Found: v.Type()}
		}
		return 0, nil
	}
}

// Uint decodes the value as an unsigned integer, same mismatch behavior as Int.
func (v Value) Uint() (uint64, error) {
	switch v.Type() {
	case Integer:
		return parseUint(v.h.raw.Bytes()), nil
	case Double:
		return uint64(parseFloat(v.h.raw.Bytes())), nil
	default:
		if v.strictMode() {
			return 0, &TypeMismatchError{Expected: Integer, Found: v.Type()}
		}
		return 0, nil
	}
}

// Float decodes the value as a floating-point number.
func (v Value) Float() (float64, error) {
	switch v.Type() {
	case Double, Integer:
		return parseFloat(v.h.raw.Bytes()), nil
	default:
		if v.strictMode() {
			return 0, &TypeMismatchError{Expected: Double, Found: v.Type()}
		}
		return 0, nil
	}
}

// Bool decodes the value as a boolean. Matching the original's ToBool, the
// token must read exactly "true" to be true; anything else (including any
// other non-boolean type in loose mode) is false.
func (v Value) Bool() (bool, error) {
	if v.Type() != Boolean {
		if v.strictMode() {
			return false, &TypeMismatchError{Expected: Boolean, Found: v.Type()}
		}
		return false, nil
	}
	b := v.h.raw.Bytes()
	return len(b) == 4 && b[0] == 't' && b[1] == 'r' && b[2] == 'u' && b[3] == 'e', nil
}

// Str decodes the value as a string, unescaping it if needed. A non-string
// value returns an empty string in loose mode, or an error in strict mode.
func (v Value) Str() (string, error) {
	if v.Type() != String {
		if v.strictMode() {
			return "", &TypeMismatchError{Expected: String, Found: v.Type()}
		}
		return "", nil
	}
	unescaped, err := unescapeString(v.h.raw.Bytes(), v.strictMode())
	if err != nil {
		return "", err
	}
	return string(unescaped), nil
}

// parseInt decodes a signed decimal integer token with no overflow
// checking, matching the original's ToInt: digits past int64 range wrap
// rather than erroring, since spec.md documents overflow as undefined
// rather than an error condition.
func parseInt(b []byte) int64 {
	if len(b) == 0 {
		return 0
	}
	neg := false
	i := 0
	if b[0] == '-' {
		neg = true
		i++
	} else if b[0] == '+' {
		i++
	}
	var n int64
	for ; i < len(b) && b[i] >= '0' && b[i] <= '9'; i++ {
		n = n*10 + int64(b[i]-'0')
	}
	if neg {
		n = -n
	}
	return n
}

// parseUint decodes an unsigned decimal integer token, ignoring any sign.
func parseUint(b []byte) uint64 {
	i := 0
	if len(b) > 0 && (b[0] == '-' || b[0] == '+') {
		i++
	}
	var n uint64
	for ; i < len(b) && b[i] >= '0' && b[i] <= '9'; i++ {
		n = n*10 + uint64(b[i]-'0')
	}
	return n
}

// parseFloat decodes a JSON number token (integer part, optional fraction,
// optional exponent) by composing the integer part with the fractional
// part scaled by a power of ten and an optional exponent, the same
// decomposition the original's ToDouble uses, rather than a generic
// strtod-style parser.
func parseFloat(b []byte) float64 {
	i := 0
	neg := false
	if i < len(b) && (b[i] == '-' || b[i] == '+') {
		neg = b[i] == '-'
		i++
	}
	var intPart float64
	for ; i < len(b) && b[i] >= '0' && b[i] <= '9'; i++ {
		intPart = intPart*10 + float64(b[i]-'0')
	}
	result := intPart
	if i < len(b) && b[i] == '.' {
		i++
		frac := 0.0
		scale := 1.0
		for ; i < len(b) && b[i] >= '0' && b[i] <= '9'; i++ {
			frac = frac*10 + float64(b[i]-'0')
			scale *= 10
		}
		result += frac / scale
	}
	if i < len(b) && (b[i] == 'e' || b[i] == 'E') {
		i++
		expNeg := false
		if i < len(b) && (b[i] == '-' || b[i] == '+') {
			expNeg = b[i] == '-'
			i++
		}
		exp := 0
		for ; i < len(b) && b[i] >= '0' && b[i] <= '9'; i++ {
			exp = exp*10 + int(b[i]-'0')
		}
		mult := pow10(exp)
		if expNeg {
			result /= mult
		} else {
			result *= mult
		}
	}
	if neg {
		result = -result
	}
	return result
}

func pow10(exp int) float64 {
	result := 1.0
	base := 10.0
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

// appendInt/appendUint/appendFloat format scalars for freshly constructed
// values (NewInt/NewUint/NewDouble), using the shortest round-trippable
// representation via strconv, the same approach the teacher's
// scratch.f64/scratch.int helpers in ion/reader.go take to avoid losing
// precision when re-emitting a decoded numeric scalar.
func appendInt(dst []byte, n int64) []byte {
	return strconv.AppendInt(dst, n, 10)
}

func appendUint(dst []byte, n uint64) []byte {
	return strconv.AppendUint(dst, n, 10)
}

func appendFloat(dst []byte, f float64) []byte {
	return strconv.AppendFloat(dst, f, 'g', -1, 64)
}
