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
	"fmt"
	"strings"
	"testing"

	"github.com/ShadauxCat/LightningJSON/internal/pool"
)

func TestParseScalars(t *testing.T) {
	cases := []struct {
		name string
		in   string
		typ  Type
	}{
		{"integer", `42`, Integer},
		{"negative integer", `-7`, Integer},
		{"double", `3.14`, Double},
		{"exponent", `1e10`, Double},
		{"string", `"hello"`, String},
		{"true", `true`, Boolean},
		{"false", `false`, Boolean},
		{"null", `null`, Null},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v, err := Parse([]byte(c.in))
			if err != nil {
				t.Fatalf("Parse(%q): %v", c.in, err)
			}
			if v.Type() != c.typ {
				t.Fatalf("Type() = %v, want %v", v.Type(), c.typ)
			}
		})
	}
}

func TestParseAndReadInt(t *testing.T) {
	v, err := Parse([]byte("12345"))
	if err != nil {
		t.Fatal(err)
	}
	n, err := v.Int()
	if err != nil {
		t.Fatal(err)
	}
	if n != 12345 {
		t.Fatalf("Int() = %d, want 12345", n)
	}
}

func TestParseAndReadDouble(t *testing.T) {
	v, err := Parse([]byte("3.5"))
	if err != nil {
		t.Fatal(err)
	}
	f, err := v.Float()
	if err != nil {
		t.Fatal(err)
	}
	if f != 3.5 {
		t.Fatalf("Float() = %v, want 3.5", f)
	}
}

func TestParseAndReadBool(t *testing.T) {
	v, err := Parse([]byte("true"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := v.Bool()
	if err != nil {
		t.Fatal(err)
	}
	if !b {
		t.Fatal("Bool() = false, want true")
	}
}

func TestNestedArrayAccess(t *testing.T) {
	doc := `{"a": [1, 2, {"b": "c"}]}`
	v, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	arr := v.Get("a")
	if !arr.IsArray() {
		t.Fatalf("a is %v, want array", arr.Type())
	}
	if arr.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", arr.Len())
	}
	first, err := arr.At(0).Int()
	if err != nil || first != 1 {
		t.Fatalf("At(0).Int() = %d, %v; want 1, nil", first, err)
	}
	nested := arr.At(2).Get("b")
	s, err := nested.Str()
	if err != nil || s != "c" {
		t.Fatalf("At(2).Get(b).Str() = %q, %v; want c, nil", s, err)
	}
}

func TestStringEscapeRoundTrip(t *testing.T) {
	doc := `"line1\nline2\ttabbed\"quoted\""`
	v, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	s, err := v.Str()
	if err != nil {
		t.Fatal(err)
	}
	want := "line1\nline2\ttabbed\"quoted\""
	if s != want {
		t.Fatalf("Str() = %q, want %q", s, want)
	}
	// Round trip back out through the emitter.
	out := v.String(false)
	if out != doc {
		t.Fatalf("String() = %q, want %q", out, doc)
	}
}

func TestUnicodeEscape(t *testing.T) {
	// U+1F600 GRINNING FACE, encoded as a UTF-16 surrogate pair.
	doc := "\"\\uD83D\\uDE00\""
	v, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	s, err := v.Str()
	if err != nil {
		t.Fatal(err)
	}
	want := "\U0001F600"
	if s != want {
		t.Fatalf("Str() = %q, want %q", s, want)
	}
}

func TestInsertAndSerialize(t *testing.T) {
	obj := NewObject()
	if _, err := obj.Insert("name", NewString("ada")); err != nil {
		t.Fatal(err)
	}
	if _, err := obj.Insert("age", NewInt(30)); err != nil {
		t.Fatal(err)
	}
	// Duplicate insert must be a silent no-op.
	inserted, err := obj.Insert("name", NewString("grace"))
	if err != nil {
		t.Fatal(err)
	}
	if inserted {
		t.Fatal("duplicate Insert reported success")
	}
	name, err := obj.Get("name").Str()
	if err != nil || name != "ada" {
		t.Fatalf("Get(name).Str() = %q, %v; want ada, nil", name, err)
	}

	out := obj.String(false)
	reparsed, err := Parse([]byte(out))
	if err != nil {
		t.Fatalf("reparsing emitted JSON: %v", err)
	}
	age, err := reparsed.Get("age").Int()
	if err != nil || age != 30 {
		t.Fatalf("round-tripped age = %d, %v; want 30, nil", age, err)
	}
}

func TestLargeArrayScan(t *testing.T) {
	var b strings.Builder
	b.WriteByte('[')
	const n = 10000
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", i)
	}
	b.WriteByte(']')
	v, err := Parse([]byte(b.String()))
	if err != nil {
		t.Fatal(err)
	}
	if v.Len() != n {
		t.Fatalf("Len() = %d, want %d", v.Len(), n)
	}
	sum := int64(0)
	v.Each(func(child Value) bool {
		x, err := child.Int()
		if err != nil {
			t.Fatal(err)
		}
		sum += x
		return true
	})
	want := int64(n-1) * n / 2
	if sum != want {
		t.Fatalf("sum = %d, want %d", sum, want)
	}
}

func TestPushBackThenReparse(t *testing.T) {
	arr := NewArray()
	for i := 0; i < 5; i++ {
		if _, err := arr.PushBack(NewInt(int64(i))); err != nil {
			t.Fatal(err)
		}
	}
	out := arr.String(false)
	reparsed, err := Parse([]byte(out))
	if err != nil {
		t.Fatal(err)
	}
	if reparsed.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", reparsed.Len())
	}
	for i := 0; i < 5; i++ {
		n, err := reparsed.At(i).Int()
		if err != nil || n != int64(i) {
			t.Fatalf("At(%d).Int() = %d, %v; want %d, nil", i, n, err, i)
		}
	}
}

func TestArrayWriteSubscriptDoesNotExtend(t *testing.T) {
	arr := NewArray()
	arr.PushBack(NewInt(1))
	if err := arr.SetAt(0, NewInt(2)); err != nil {
		t.Fatalf("SetAt(0): %v", err)
	}
	n, _ := arr.At(0).Int()
	if n != 2 {
		t.Fatalf("At(0) = %d, want 2", n)
	}
	if err := arr.SetAt(1, NewInt(3)); err == nil {
		t.Fatal("SetAt(1) on a length-1 array should error, not extend it")
	}
}

func TestMissingKeyReturnsEmpty(t *testing.T) {
	v, err := Parse([]byte(`{"a": 1}`))
	if err != nil {
		t.Fatal(err)
	}
	missing := v.Get("nope")
	if !missing.IsEmpty() {
		t.Fatalf("Get(nope).Type() = %v, want Empty", missing.Type())
	}
	if v.Has("nope") {
		t.Fatal("Has(nope) = true")
	}
	if !v.Has("a") {
		t.Fatal("Has(a) = false")
	}
}

func TestDeepCopyIsIndependent(t *testing.T) {
	data := []byte(`{"a": [1, 2, 3]}`)
	v, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	dup := v.DeepCopy()
	for i := range data {
		data[i] = 'x'
	}
	arr := dup.Get("a")
	second, err := arr.At(1).Int()
	if err != nil || second != 2 {
		t.Fatalf("after mutating source buffer, DeepCopy's At(1).Int() = %d, %v; want 2, nil", second, err)
	}
}

func TestDeepCopyWithArena(t *testing.T) {
	data := []byte(`{"names": ["ada", "grace", "katherine"]}`)
	v, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	arena := pool.New(16)
	dup := v.DeepCopyWithArena(arena)
	for i := range data {
		data[i] = 'x'
	}
	names := dup.Get("names")
	if names.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", names.Len())
	}
	second, err := names.At(1).Str()
	if err != nil || second != "grace" {
		t.Fatalf("At(1).Str() = %q, %v; want grace, nil", second, err)
	}
	if arena.Stats().Allocs == 0 && arena.Stats().ForeignAllocs == 0 {
		t.Fatal("expected DeepCopyWithArena to exercise the arena")
	}
}

func TestShallowCopyClearsKey(t *testing.T) {
	v, err := Parse([]byte(`{"a": 1}`))
	if err != nil {
		t.Fatal(err)
	}
	child := v.Get("a")
	if child.Key() != "a" {
		t.Fatalf("Key() = %q, want a", child.Key())
	}
	sc := child.ShallowCopy()
	if sc.Key() != "" {
		t.Fatalf("ShallowCopy().Key() = %q, want empty", sc.Key())
	}
	n, err := sc.Int()
	if err != nil || n != 1 {
		t.Fatalf("ShallowCopy().Int() = %d, %v; want 1, nil", n, err)
	}
}

func TestObjectIterationVisitsAllKeys(t *testing.T) {
	v, err := Parse([]byte(`{"a":1,"b":2,"c":3}`))
	if err != nil {
		t.Fatal(err)
	}
	seen := map[string]bool{}
	it := v.Iterate()
	for it.Next() {
		seen[it.Key()] = true
	}
	for _, k := range []string{"a", "b", "c"} {
		if !seen[k] {
			t.Fatalf("iteration did not visit key %q", k)
		}
	}
}

func TestLooseModeTolerance(t *testing.T) {
	// A trailing comma is tolerated in the default loose mode instead of
	// erroring.
	v, err := Parse([]byte(`{"a": 1,}`))
	if err != nil {
		t.Fatalf("loose mode should tolerate a trailing comma, got: %v", err)
	}
	n, _ := v.Get("a").Int()
	if n != 1 {
		t.Fatalf("Get(a).Int() = %d, want 1", n)
	}
}

func TestStrictModeRejectsTrailingComma(t *testing.T) {
	_, err := Parse([]byte(`{"a": 1,}`), WithStrict())
	if err == nil {
		t.Fatal("strict mode should reject a trailing comma")
	}
}

func TestEmptyInputYieldsEmptyValue(t *testing.T) {
	v, err := Parse([]byte(""))
	if err != nil {
		t.Fatalf("Parse(\"\") returned an error: %v", err)
	}
	if !v.IsEmpty() {
		t.Fatalf("Type() = %v, want Empty", v.Type())
	}

	v, err = Parse([]byte("   \n\t  "))
	if err != nil {
		t.Fatalf("Parse(whitespace-only) returned an error: %v", err)
	}
	if !v.IsEmpty() {
		t.Fatalf("Type() = %v, want Empty", v.Type())
	}
}

func TestEmptyChildrenAreSkippedOnEmit(t *testing.T) {
	obj := NewObject()
	if _, err := obj.GetOrInsert("x"); err != nil {
		t.Fatal(err)
	}
	if out := obj.String(false); out != "{}" {
		t.Fatalf("String() = %q, want {}", out)
	}

	arr := NewArray()
	if _, err := arr.PushBack(EmptyValue); err != nil {
		t.Fatal(err)
	}
	if out := arr.String(false); out != "[]" {
		t.Fatalf("String() = %q, want []", out)
	}
}

func TestUnknownEscapeKeepsBackslash(t *testing.T) {
	v, err := Parse([]byte(`"\q"`))
	if err != nil {
		t.Fatal(err)
	}
	s, err := v.Str()
	if err != nil {
		t.Fatal(err)
	}
	if s != `\q` {
		t.Fatalf("Str() = %q, want %q", s, `\q`)
	}
}

// A lone trailing backslash inside an unterminated string must not run the
// scanner past the end of the input in loose mode.
func TestUnterminatedStringTrailingBackslashDoesNotPanic(t *testing.T) {
	v, err := Parse([]byte(`"\`))
	if err != nil {
		t.Fatal(err)
	}
	if !v.IsString() {
		t.Fatalf("Type() = %v, want String", v.Type())
	}

	if _, err := Parse([]byte(`"\`), WithStrict()); err == nil {
		t.Fatal("expected an error for an unterminated string in strict mode")
	}
}

// WithStrict's effect on scalar type-mismatch errors must follow the Value
// tree produced by that call, not whatever the package-level Strict default
// happens to be at the time Int/Str/etc. are later called.
func TestWithStrictAppliesToScalarReaders(t *testing.T) {
	v, err := Parse([]byte(`{"a":"notanumber"}`), WithStrict())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := v.Get("a").Int(); err == nil {
		t.Fatal("expected a TypeMismatchError reading a non-numeric field as Int under WithStrict")
	}

	loose, err := Parse([]byte(`{"a":"notanumber"}`))
	if err != nil {
		t.Fatal(err)
	}
	if n, err := loose.Get("a").Int(); err != nil || n != 0 {
		t.Fatalf("Int() = (%d, %v), want (0, nil) in loose mode", n, err)
	}
}
