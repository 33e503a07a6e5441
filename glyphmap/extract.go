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
	"fmt"
)

// Mode selects the format of the source files.
type Mode int

const (
	// ModeCSS reads icon font stylesheets. This is the default.
	ModeCSS Mode = iota
	// ModeCodepoints reads a single codepoints manifest.
	ModeCodepoints
)

func (m Mode) String() string {
	switch m {
	case ModeCSS:
		return "css"
	case ModeCodepoints:
		return "codepoints"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses "css" or "codepoints". An empty string is ModeCSS.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "css":
		return ModeCSS, nil
	case "codepoints":
		return ModeCodepoints, nil
	}
	return ModeCSS, fmt.Errorf("unknown mode %q (want css or codepoints)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	mode, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

var errNoSources = errors.New("no source files")

// Parse builds a glyph map from the source files. In codepoints mode only the
// first source is read.
func Parse(sources []string, selectorPrefix string, mode Mode) (*GlyphMap, error) {
	switch mode {
	case ModeCSS:
		return FromCSS(sources, selectorPrefix)
	case ModeCodepoints:
		if len(sources) == 0 {
			return nil, errNoSources
		}
		return FromCodepoints(sources[0])
	}
	return nil, fmt.Errorf("unknown mode %v", mode)
}

// Format returns the glyph map as indented JSON, or substituted into the
// template if one is given.
func Format(m *GlyphMap, template string, data map[string]string) (string, error) {
	if template == "" {
		return m.JSON()
	}
	return Render(m, template, data)
}

type options struct {
	template string
	data     map[string]string
}

// Option configures Extract.
type Option func(*options)

// WithTemplate renders the glyph map into the given template instead of
// returning plain JSON.
func WithTemplate(template string) Option {
	return func(o *options) { o.template = template }
}

// WithData adds values for template placeholders other than ${glyphMap}.
func WithData(data map[string]string) Option {
	return func(o *options) { o.data = data }
}

// Extract parses the sources in the given mode and returns the glyph map as
// JSON, or rendered into a template if WithTemplate is used.
func Extract(sources []string, selectorPrefix string, mode Mode, opts ...Option) (string, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	m, err := Parse(sources, selectorPrefix, mode)
	if err != nil {
		return "", err
	}
	return Format(m, o.template, o.data)
}
