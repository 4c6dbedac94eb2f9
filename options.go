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

// Strict is the runtime stand-in for the original engine's compile-time
// LIGHTNINGJSON_STRICT switch: when true, the parser rejects malformed
// input it would otherwise silently tolerate, and scalar readers
// (Int/Uint/Float/Bool/Str) return TypeMismatchError instead of a
// best-effort zero value. Defaults to false (loose), matching the
// original's default build configuration.
//
// This is a package variable rather than a parameter threaded through
// every call because the original switch was global for an entire binary;
// WithStrict lets one Parse call override it for the duration of that call
// without disturbing the package default for concurrent callers parsing
// other documents in loose mode.
var Strict bool

// Option configures a single Parse call.
type Option func(*parseConfig)

type parseConfig struct {
	strict bool
}

func newParseConfig() *parseConfig {
	return &parseConfig{strict: Strict}
}

// WithStrict enables strict validation for one Parse call, regardless of
// the package-level Strict default.
func WithStrict() Option {
	return func(c *parseConfig) { c.strict = true }
}
