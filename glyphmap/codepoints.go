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
	"errors"
	"strconv"
	"strings"
)

var errNoHexDigits = errors.New("no hex digits")

// FromCodepoints extracts glyphs from a codepoints manifest, which has one
// "name hex" pair per line. Lines without both a name and a value are
// skipped. Underscores in names are replaced with hyphens.
func FromCodepoints(file string) (*GlyphMap, error) {
	text, err := readText(file)
	if err != nil {
		return nil, err
	}
	m := New()
	for i, line := range strings.Split(text, "\n") {
		parts := strings.Split(line, " ")
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		cp, err := parseHex(parts[1])
		if err != nil {
			return nil, &CodepointError{
				File: file, Line: i + 1, Name: parts[0], Value: parts[1], Err: err,
			}
		}
		// Material Design Icons uses '_', but all other fonts use '-',
		// so we'll normalise it here.
		m.Set(strings.Replace(parts[0], "_", "-", -1), Codepoint(cp))
	}
	return m, nil
}

// parseHex parses the leading hex digits of s (after an optional 0x), and
// ignores anything that follows, e.g. a trailing '\r'.
func parseHex(s string) (int, error) {
	s = strings.TrimLeft(s, " \t")
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
	}
	end := 0
	for end < len(s) && isHexDigit(s[end]) {
		end++
	}
	if end == 0 {
		return 0, errNoHexDigits
	}
	cp, err := strconv.ParseUint(s[:end], 16, 32)
	if err != nil {
		return 0, err
	}
	return int(cp), nil
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
