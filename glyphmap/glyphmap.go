// Copyright 2018 Google Inc.
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

/*
Package glyphmap extracts icon name to codepoint mappings from icon font
sources, for use by icon components at runtime.

Two source formats are supported:
  - CSS stylesheets following the icon font convention of one rule per glyph,
    e.g. `.fa-home:before { content: "\f015"; }`
  - codepoints manifests with one `name hex` pair per line, as shipped by
    Material Design Icons.

The result is a GlyphMap, serialised as JSON (keys in the order they were
first seen) or substituted into a text template as ${glyphMap}.

Example usage:
  out, err := glyphmap.Extract(
      []string{"css/font-awesome.css"}, ".fa-", glyphmap.ModeCSS)
*/
package glyphmap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is the glyph for an icon: either a codepoint in the icon font, or for
// ligature based fonts, the literal text that renders the icon.
type Value struct {
	codepoint int
	literal   string
	isLiteral bool
}

// Codepoint creates a glyph value for a single codepoint.
func Codepoint(cp int) Value {
	return Value{codepoint: cp}
}

// Literal creates a glyph value that is rendered as the given text.
func Literal(text string) Value {
	return Value{literal: text, isLiteral: true}
}

// IsLiteral returns true if the glyph is literal text instead of a codepoint.
func (v Value) IsLiteral() bool {
	return v.isLiteral
}

// Codepoint returns the glyph's codepoint, and false if it is a literal.
func (v Value) Codepoint() (int, bool) {
	return v.codepoint, !v.isLiteral
}

// Literal returns the glyph's literal text, and false if it is a codepoint.
func (v Value) Literal() (string, bool) {
	return v.literal, v.isLiteral
}

// String returns the text that renders this glyph in the icon font.
func (v Value) String() string {
	if v.isLiteral {
		return v.literal
	}
	return string(rune(v.codepoint))
}

// MarshalJSON encodes codepoints as numbers and literals as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.isLiteral {
		return encodeString(v.literal)
	}
	return []byte(strconv.Itoa(v.codepoint)), nil
}

// UnmarshalJSON accepts a non-negative integer or a string.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	val, err := valueFromToken(tok)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

func valueFromToken(tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case string:
		return Literal(t), nil
	case json.Number:
		cp, err := strconv.ParseInt(string(t), 10, 32)
		if err != nil || cp < 0 {
			return Value{}, fmt.Errorf("invalid codepoint %s", t)
		}
		return Codepoint(int(cp)), nil
	}
	return Value{}, fmt.Errorf("unexpected glyph value %v", tok)
}

// GlyphMap maps icon names to glyphs. Names are kept in the order they were
// first added, and setting an existing name replaces the glyph in place.
type GlyphMap struct {
	names  []string
	glyphs map[string]Value
}

// New creates an empty GlyphMap.
func New() *GlyphMap {
	return &GlyphMap{glyphs: map[string]Value{}}
}

// Set adds or replaces the glyph for the named icon.
func (m *GlyphMap) Set(name string, v Value) {
	if m.glyphs == nil {
		m.glyphs = map[string]Value{}
	}
	if _, ok := m.glyphs[name]; !ok {
		m.names = append(m.names, name)
	}
	m.glyphs[name] = v
}

// Get returns the glyph for the named icon.
func (m *GlyphMap) Get(name string) (Value, bool) {
	v, ok := m.glyphs[name]
	return v, ok
}

// Len returns the number of icons in the map.
func (m *GlyphMap) Len() int {
	return len(m.names)
}

// Names returns all icon names, in the order they were first added.
func (m *GlyphMap) Names() []string {
	return append([]string(nil), m.names...)
}

// MarshalJSON encodes the glyph map as a compact JSON object.
func (m *GlyphMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range m.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := encodeString(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := m.glyphs[name].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping its key order.
func (m *GlyphMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if tok, err := dec.Token(); err != nil {
		return err
	} else if tok != json.Delim('{') {
		return fmt.Errorf("expected glyph map object, got %v", tok)
	}
	*m = GlyphMap{glyphs: map[string]Value{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name := tok.(string)
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		v, err := valueFromToken(tok)
		if err != nil {
			return fmt.Errorf("icon %q: %w", name, err)
		}
		m.Set(name, v)
	}
	_, err := dec.Token()
	return err
}

// JSON returns the glyph map as a JSON object indented by two spaces.
func (m *GlyphMap) JSON() (string, error) {
	compact, err := m.MarshalJSON()
	if err != nil {
		return "", err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return "", err
	}
	return out.String(), nil
}

// encodeString encodes s as a JSON string without escaping HTML characters.
func encodeString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}
