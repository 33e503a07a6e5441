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
Package icons provides icon lookup from generated glyph maps, loading the
icon font on demand.

To use an icon font:
  - Generate a glyph map with cmd/glyphmap
  - Bundle the font file as an asset
  - Create a provider with the glyph map, font family and asset
  - Render Symbol(name) in the provider's font once LoadFont is done

Example usage:
  material := icons.NewProvider(icons.Config{
      GlyphMapFile: "glyphmaps/MaterialIcons.json",
      Font:         "Material Icons",
      Asset:        materialRef,
  }, fonts)
  if err := material.Load(); err != nil { ... }
  <-material.LoadFont().Done()
  text, _ := material.Symbol("today")
*/
package icons

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/afero"

	"github.com/soumya92/iconset/fontload"
	"github.com/soumya92/iconset/glyphmap"
	l "github.com/soumya92/iconset/logging"
)

// Config stores configuration options for building a Provider.
type Config struct {
	// Path to the generated glyph map JSON.
	GlyphMapFile string
	// Name of the font family.
	Font string
	// Font file asset, used for dynamic loading.
	Asset fontload.AssetRef
}

// Provider provides the text for named icons in an icon font.
type Provider struct {
	font    string
	asset   fontload.AssetRef
	file    string
	symbols *glyphmap.GlyphMap
	fonts   *fontload.Coordinator
}

// NewProvider creates a new icon provider. The coordinator may be nil if
// the font is always installed.
func NewProvider(c Config, fonts *fontload.Coordinator) *Provider {
	return &Provider{
		font:    c.Font,
		asset:   c.Asset,
		file:    c.GlyphMapFile,
		symbols: glyphmap.New(),
		fonts:   fonts,
	}
}

var fs = afero.NewOsFs()

// Load reads the provider's glyph map.
func (p *Provider) Load() error {
	contents, err := afero.ReadFile(fs, p.file)
	if err != nil {
		return err
	}
	symbols := glyphmap.New()
	if err := json.Unmarshal(contents, symbols); err != nil {
		return fmt.Errorf("glyph map %s: %w", p.file, err)
	}
	p.symbols = symbols
	l.Fine("%s: %d icons", p.font, symbols.Len())
	return nil
}

// UseGlyphMap replaces the provider's glyph map, e.g. with one extracted
// directly from icon font sources.
func (p *Provider) UseGlyphMap(m *glyphmap.GlyphMap) {
	p.symbols = m
}

// Font returns the name of the font family.
func (p *Provider) Font() string {
	return p.font
}

// Symbol returns the text that renders the named icon in the provider's font.
func (p *Provider) Symbol(name string) (string, bool) {
	glyph, ok := p.symbols.Get(name)
	if !ok {
		return "", false
	}
	return glyph.String(), true
}

// LoadFont loads the provider's font if dynamic loading is enabled and the
// font is not already loaded. The returned load is already settled if there
// is nothing to do.
func (p *Provider) LoadFont() *fontload.Load {
	if p.fonts == nil || !p.fonts.IsDynamicLoadingEnabled() {
		return fontload.Completed(p.font)
	}
	if p.fonts.IsLoadedNative(p.font) {
		return fontload.Completed(p.font)
	}
	return p.fonts.LoadFontAsync(p.font, p.asset)
}

// SymbolFromHex parses a hex string (e.g. "1F44D") and converts
// it to a string (e.g. "👍").
func SymbolFromHex(hex string) (string, error) {
	intVal, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return "", err
	}
	return string(rune(intVal)), nil
}
