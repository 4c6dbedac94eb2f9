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

// Parse recognizes a single JSON value from data, one recursive-descent
// function per production, exactly mirroring the original engine's
// ParseString/ParseNumber/ParseBool/ParseArray/ParseObject. Every scalar
// token becomes a View borrowed directly from data: callers that need the
// returned Value (or any of its descendants) to outlive data must call
// DeepCopy first.
//
// In loose mode (the default), most structural errors are tolerated on a
// best-effort basis instead of failing the parse, matching the original's
// non-STRICT build. WithStrict (or the package-level Strict default)
// enables the full set of validity checks.
func Parse(data []byte, opts ...Option) (Value, error) {
	cfg := newParseConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	p := &parser{data: data, cfg: cfg}
	p.skipWhitespace()
	if p.pos >= len(p.data) {
		// Empty (or whitespace-only) input yields an Empty handle rather
		// than an error, matching the original engine's FromString, which
		// unconditionally returns GetEmpty() when length == 0.
		return EmptyValue, nil
	}
	v, err := p.parseValue()
	if err != nil {
		return Value{}, err
	}
	if cfg.strict {
		p.skipWhitespace()
		if p.pos != len(p.data) {
			return Value{}, &InvalidJSONError{Reason: "trailing data after JSON value", Offset: p.pos}
		}
	}
	return v, nil
}

type parser struct {
	data []byte
	pos  int
	cfg  *parseConfig
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func hasPrefixAt(data []byte, pos int, s string) bool {
	if pos+len(s) > len(data) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if data[pos+i] != s[i] {
			return false
		}
	}
	return true
}

func (p *parser) skipWhitespace() {
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) parseValue() (Value, error) {
	p.skipWhitespace()
	if p.pos >= len(p.data) {
		return Value{}, &InvalidJSONError{Reason: "unexpected end of input", Offset: p.pos}
	}
	switch p.data[p.pos] {
	case '{':
		return p.parseObject()
	case '[':
		return p.parseArray()
	case '"':
		return p.parseString()
	case 't', 'f':
		return p.parseBool()
	case 'n':
		return p.parseNull()
	default:
		return p.parseNumber()
	}
}

// parseString recognizes a quoted string token and stores its content
// (still backslash-escaped) as a borrowed View; unescaping happens lazily
// in Value.Str.
func (p *parser) parseString() (Value, error) {
	start := p.pos
	p.pos++ // opening quote
	contentStart := p.pos
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c == '\\' {
			// A lone trailing backslash with nothing after it is an
			// unterminated escape, not a two-byte escape sequence --
			// advancing by 2 here would run p.pos past len(p.data).
			if p.pos+1 >= len(p.data) {
				p.pos++
				break
			}
			p.pos += 2
			continue
		}
		if c == '"' {
			content := p.data[contentStart:p.pos]
			p.pos++
			h := newHolder(String, p.cfg.strict)
			h.raw = ViewOf(content)
			return newValue(h), nil
		}
		p.pos++
	}
	if p.cfg.strict {
		return Value{}, &InvalidJSONError{Reason: "unterminated string", Offset: start}
	}
	end := p.pos
	if end > len(p.data) {
		end = len(p.data)
	}
	content := p.data[contentStart:end]
	h := newHolder(String, p.cfg.strict)
	h.raw = ViewOf(content)
	return newValue(h), nil
}

// parseNumber recognizes a JSON number token, promoting Integer to Double
// the moment a '.' or exponent marker appears, matching ParseNumber.
func (p *parser) parseNumber() (Value, error) {
	start := p.pos
	if p.pos < len(p.data) && (p.data[p.pos] == '-' || p.data[p.pos] == '+') {
		p.pos++
	}
	digitsStart := p.pos
	for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
		p.pos++
	}
	if p.pos == digitsStart && p.cfg.strict {
		return Value{}, &InvalidJSONError{Reason: "invalid number literal", Offset: start}
	}
	isDouble := false
	if p.pos < len(p.data) && p.data[p.pos] == '.' {
		isDouble = true
		p.pos++
		for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
			p.pos++
		}
	}
	if p.pos < len(p.data) && (p.data[p.pos] == 'e' || p.data[p.pos] == 'E') {
		isDouble = true
		p.pos++
		if p.pos < len(p.data) && (p.data[p.pos] == '+' || p.data[p.pos] == '-') {
			p.pos++
		}
		for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
			p.pos++
		}
	}
	typ := Integer
	if isDouble {
		typ = Double
	}
	h := newHolder(typ, p.cfg.strict)
	h.raw = ViewOf(p.data[start:p.pos])
	return newValue(h), nil
}

// parseBool recognizes true/false. In loose mode only the leading byte is
// checked and the cursor advances the expected literal's width regardless
// of what actually follows, matching the original's non-strict ParseBool;
// strict mode validates the full literal.
func (p *parser) parseBool() (Value, error) {
	start := p.pos
	if p.data[p.pos] == 't' {
		if p.cfg.strict && !hasPrefixAt(p.data, p.pos, "true") {
			return Value{}, &InvalidJSONError{Reason: "invalid literal, expected 'true'", Offset: start}
		}
		p.pos += 4
		h := newHolder(Boolean, p.cfg.strict)
		h.raw = ViewString("true")
		return newValue(h), nil
	}
	if p.cfg.strict && !hasPrefixAt(p.data, p.pos, "false") {
		return Value{}, &InvalidJSONError{Reason: "invalid literal, expected 'false'", Offset: start}
	}
	p.pos += 5
	h := newHolder(Boolean, p.cfg.strict)
	h.raw = ViewString("false")
	return newValue(h), nil
}

func (p *parser) parseNull() (Value, error) {
	start := p.pos
	if p.cfg.strict && !hasPrefixAt(p.data, p.pos, "null") {
		return Value{}, &InvalidJSONError{Reason: "invalid literal, expected 'null'", Offset: start}
	}
	p.pos += 4
	return newValue(newHolder(Null, p.cfg.strict)), nil
}

func (p *parser) parseArray() (Value, error) {
	start := p.pos
	p.pos++ // '['
	h := newHolder(Array, p.cfg.strict)
	p.skipWhitespace()
	if p.pos < len(p.data) && p.data[p.pos] == ']' {
		p.pos++
		return newValue(h), nil
	}
	for {
		p.skipWhitespace()
		child, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		h.arr = append(h.arr, child)
		p.skipWhitespace()
		if p.pos >= len(p.data) {
			if p.cfg.strict {
				return Value{}, &InvalidJSONError{Reason: "unterminated array", Offset: start}
			}
			break
		}
		switch p.data[p.pos] {
		case ',':
			p.pos++
			continue
		case ']':
			p.pos++
		default:
			if p.cfg.strict {
				return Value{}, &InvalidJSONError{Reason: "expected ',' or ']'", Offset: p.pos}
			}
		}
		break
	}
	return newValue(h), nil
}

func (p *parser) parseObject() (Value, error) {
	start := p.pos
	p.pos++ // '{'
	h := newHolder(Object, p.cfg.strict)
	p.skipWhitespace()
	if p.pos < len(p.data) && p.data[p.pos] == '}' {
		p.pos++
		return newValue(h), nil
	}
	for {
		p.skipWhitespace()
		if p.pos >= len(p.data) || p.data[p.pos] != '"' {
			if p.cfg.strict {
				return Value{}, &InvalidJSONError{Reason: "expected string key", Offset: p.pos}
			}
			break
		}
		keyTok, err := p.parseString()
		if err != nil {
			return Value{}, err
		}
		keyBytes, err := unescapeString(keyTok.h.raw.Bytes(), p.cfg.strict)
		if err != nil {
			return Value{}, err
		}
		p.skipWhitespace()
		if p.pos >= len(p.data) || p.data[p.pos] != ':' {
			if p.cfg.strict {
				return Value{}, &InvalidJSONError{Reason: "expected ':' after object key", Offset: p.pos}
			}
			break
		}
		p.pos++
		p.skipWhitespace()
		child, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		child.key = ViewOf(keyBytes)
		if !h.obj.Insert(keyBytes, child) {
			// Duplicate key: the first occurrence wins, matching the
			// original engine's CheckedInsert-based ParseObject.
			child.Release()
		}
		p.skipWhitespace()
		if p.pos >= len(p.data) {
			if p.cfg.strict {
				return Value{}, &InvalidJSONError{Reason: "unterminated object", Offset: start}
			}
			break
		}
		switch p.data[p.pos] {
		case ',':
			p.pos++
			continue
		case '}':
			p.pos++
		default:
			if p.cfg.strict {
				return Value{}, &InvalidJSONError{Reason: "expected ',' or '}'", Offset: p.pos}
			}
		}
		break
	}
	return newValue(h), nil
}
