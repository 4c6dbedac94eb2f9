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

import (
	"bytes"
	"io"
)

// String renders v as a JSON document. Pretty enables tab-indented,
// multi-line output (matching the original engine's formatter); otherwise
// the result is the minimal single-line form.
func (v Value) String(pretty bool) string {
	var buf bytes.Buffer
	writeValue(&buf, v, pretty, 0)
	return buf.String()
}

// WriteTo serializes v directly to w, the same shape as String but
// without an intermediate buffer for the whole document -- grounded in
// the teacher's toJSON/jswriter split in ion/reader.go, which writes
// straight to an io.Writer rather than building a string up front.
func (v Value) WriteTo(w io.Writer, pretty bool) (int64, error) {
	cw := &countingWriter{w: w}
	writeValue(cw, v, pretty, 0)
	return cw.n, cw.err
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	if err != nil {
		c.err = err
	}
	return n, err
}

func writeIndent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		io.WriteString(w, "\t")
	}
}

func writeValue(w io.Writer, v Value, pretty bool, depth int) {
	switch v.Type() {
	case Null:
		io.WriteString(w, "null")
	case Empty:
		// Reached only when the value being serialized is itself Empty
		// (e.g. the result of parsing empty input); an Empty child of a
		// container is filtered out by writeArray/writeObject before
		// writeValue is ever called on it, per spec.
		io.WriteString(w, "null")
	case Boolean, Integer, Double:
		w.Write(v.h.raw.Bytes())
	case String:
		writeQuoted(w, v.h.raw.Bytes())
	case Array:
		writeArray(w, v, pretty, depth)
	case Object:
		writeObject(w, v, pretty, depth)
	}
}

func writeQuoted(w io.Writer, raw []byte) {
	io.WriteString(w, `"`)
	w.Write(raw)
	io.WriteString(w, `"`)
}

// writeArray writes every element of v except children whose type is
// Empty, which are skipped entirely (spec.md §4.4; original_source's
// LightningJSON.inl:702 does the same for array serialization).
func writeArray(w io.Writer, v Value, pretty bool, depth int) {
	arr := v.h.arr
	n := 0
	for _, child := range arr {
		if child.Type() != Empty {
			n++
		}
	}
	if n == 0 {
		io.WriteString(w, "[]")
		return
	}
	io.WriteString(w, "[")
	first := true
	for _, child := range arr {
		if child.Type() == Empty {
			continue
		}
		if !first {
			io.WriteString(w, ",")
		}
		first = false
		if pretty {
			io.WriteString(w, "\n")
			writeIndent(w, depth+1)
		}
		writeValue(w, child, pretty, depth+1)
	}
	if pretty {
		io.WriteString(w, "\n")
		writeIndent(w, depth)
	}
	io.WriteString(w, "]")
}

// writeObject writes every member of v except children whose type is
// Empty, which are skipped entirely (spec.md §4.4; original_source's
// LightningJSON.inl:641 skips Empty members the same way -- this is what
// lets GetOrInsert's placeholder children disappear again on output if
// they're never actually assigned a real value).
func writeObject(w io.Writer, v Value, pretty bool, depth int) {
	n := 0
	v.h.obj.Each(func(_ []byte, child Value) bool {
		if child.Type() != Empty {
			n++
		}
		return true
	})
	if n == 0 {
		io.WriteString(w, "{}")
		return
	}
	io.WriteString(w, "{")
	first := true
	v.h.obj.Each(func(key []byte, child Value) bool {
		if child.Type() == Empty {
			return true
		}
		if !first {
			io.WriteString(w, ",")
		}
		first = false
		if pretty {
			io.WriteString(w, "\n")
			writeIndent(w, depth+1)
		}
		writeQuotedEscaped(w, key)
		if pretty {
			io.WriteString(w, " : ")
		} else {
			io.WriteString(w, ":")
		}
		writeValue(w, child, pretty, depth+1)
		return true
	})
	if pretty {
		io.WriteString(w, "\n")
		writeIndent(w, depth)
	}
	io.WriteString(w, "}")
}

// writeQuotedEscaped quotes and escapes an object key. Keys are stored
// already unescaped (see parser.go), unlike string scalar values, which
// keep their original escaped form borrowed from the input; both must be
// re-escaped on the way out.
func writeQuotedEscaped(w io.Writer, raw []byte) {
	io.WriteString(w, `"`)
	w.Write(escapeString(nil, raw))
	io.WriteString(w, `"`)
}
