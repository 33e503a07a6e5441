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
	"fmt"
	"regexp"
	"strconv"
	"unicode/utf16"

	l "github.com/soumya92/iconset/logging"
)

// styleRuleRe matches a rule block with a quoted content declaration,
// capturing the selector list, and either the hex digits of a CSS escape
// or the literal content.
var styleRuleRe = regexp.MustCompile(
	`(\.[A-Za-z0-9_.:, \n\t-]+)\{[^}]*content: ?["'](?:\\([A-Fa-f0-9]+)|([^"']+))["'][^}]*\}`)

const (
	ruleGroup = iota
	selectorsGroup
	hexGroup
	literalGroup
)

// selectorRe returns a regexp that matches "<prefix><name>:before" or
// "<prefix><name>::before", capturing the name.
func selectorRe(prefix string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(prefix) + `([A-Za-z0-9_-]+)::?before`)
}

// FromCSS extracts glyphs from the given stylesheets. Every selector in a
// rule that matches the prefix maps to the glyph in that rule's content.
func FromCSS(files []string, selectorPrefix string) (*GlyphMap, error) {
	contents := make([]string, len(files))
	for i, file := range files {
		text, err := readText(file)
		if err != nil {
			return nil, err
		}
		contents[i] = text
	}
	selectors := selectorRe(selectorPrefix)
	m := New()
	for i, text := range contents {
		rules := styleRuleRe.FindAllStringSubmatch(text, -1)
		l.Fine("%s: %d rules", files[i], len(rules))
		for _, rule := range rules {
			if err := addRule(m, rule, selectors); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func addRule(m *GlyphMap, rule []string, selectors *regexp.Regexp) error {
	glyph, err := glyphFromRule(rule)
	if err != nil {
		return err
	}
	if rule[selectorsGroup] == "" {
		return &ParseConsistencyError{Rule: rule[ruleGroup], Reason: "no selectors"}
	}
	for _, sel := range selectors.FindAllStringSubmatch(rule[selectorsGroup], -1) {
		if sel[1] == "" {
			return &ParseConsistencyError{Rule: rule[ruleGroup], Reason: "empty icon name"}
		}
		m.Set(sel[1], glyph)
	}
	return nil
}

func glyphFromRule(rule []string) (Value, error) {
	if hex := rule[hexGroup]; hex != "" {
		cp, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Value{}, fmt.Errorf("codepoint in %q: %w", rule[ruleGroup], err)
		}
		return Codepoint(int(cp)), nil
	}
	literal := rule[literalGroup]
	if literal == "" {
		return Value{}, &ParseConsistencyError{Rule: rule[ruleGroup], Reason: "no content"}
	}
	units := utf16.Encode([]rune(literal))
	if len(units) > 1 {
		// Ligature fonts render the icon from the whole string.
		return Literal(literal), nil
	}
	return Codepoint(int(units[0])), nil
}
