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

package glyphmap

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderAndOverwrite(t *testing.T) {
	m := New()
	m.Set("b", Codepoint(2))
	m.Set("a", Codepoint(1))
	m.Set("c", Literal("home"))
	m.Set("b", Codepoint(3))

	require.Equal(t, []string{"b", "a", "c"}, m.Names())
	require.Equal(t, 3, m.Len())
	v, ok := m.Get("b")
	require.True(t, ok)
	require.Equal(t, Codepoint(3), v, "overwritten value")
	_, ok = m.Get("d")
	require.False(t, ok)

	out, err := m.JSON()
	require.NoError(t, err)
	require.Equal(t, "{\n  \"b\": 3,\n  \"a\": 1,\n  \"c\": \"home\"\n}", out)
}

func TestEmptyJSON(t *testing.T) {
	out, err := New().JSON()
	require.NoError(t, err)
	require.Equal(t, "{}", out)

	var zero GlyphMap
	zero.Set("x", Codepoint(0x78))
	out, err = zero.JSON()
	require.NoError(t, err)
	require.Equal(t, "{\n  \"x\": 120\n}", out, "zero value is usable")
}

func TestNoHTMLEscaping(t *testing.T) {
	m := New()
	m.Set("a<b>", Literal("x&y"))
	out, err := m.JSON()
	require.NoError(t, err)
	require.Equal(t, "{\n  \"a<b>\": \"x&y\"\n}", out)
}

func TestValue(t *testing.T) {
	cp := Codepoint(0xf101)
	require.False(t, cp.IsLiteral())
	n, ok := cp.Codepoint()
	require.True(t, ok)
	require.Equal(t, 61697, n)
	_, ok = cp.Literal()
	require.False(t, ok)
	require.Equal(t, "", cp.String())

	lig := Literal("3d_rotation")
	require.True(t, lig.IsLiteral())
	s, ok := lig.Literal()
	require.True(t, ok)
	require.Equal(t, "3d_rotation", s)
	require.Equal(t, "3d_rotation", lig.String())
}

func TestUnmarshal(t *testing.T) {
	var m GlyphMap
	require.NoError(t, json.Unmarshal(
		[]byte(`{"zoom": 59648, "alarm": "alarm", "add": 43}`), &m))
	require.Equal(t, []string{"zoom", "alarm", "add"}, m.Names())
	v, _ := m.Get("alarm")
	require.Equal(t, Literal("alarm"), v)
	v, _ = m.Get("add")
	require.Equal(t, Codepoint(43), v)

	for _, invalid := range []string{
		`[]`,
		`{"a": 1.5}`,
		`{"a": -1}`,
		`{"a": true}`,
		`{"a": {"b": 1}}`,
		`{"a": 1`,
	} {
		require.Error(t, json.Unmarshal([]byte(invalid), &m), invalid)
	}

	var v2 Value
	require.NoError(t, json.Unmarshal([]byte(`"ab"`), &v2))
	require.Equal(t, Literal("ab"), v2)
}
