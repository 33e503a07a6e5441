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

// Package assets provides an in-memory asset registry that resolves
// fontload.AssetRefs, optionally populated from a JSON manifest.
package assets

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/soumya92/iconset/fontload"
	l "github.com/soumya92/iconset/logging"
)

var fs = afero.NewOsFs()

// Registry maps asset references to descriptors. References are assigned in
// registration order, starting at 1.
type Registry struct {
	mu     sync.RWMutex
	assets []fontload.AssetDescriptor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{}
}

// Register adds an asset and returns its reference.
func (r *Registry) Register(asset fontload.AssetDescriptor) fontload.AssetRef {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assets = append(r.assets, asset)
	ref := fontload.AssetRef(len(r.assets))
	l.Fine("%s -> %v", asset.Name, ref)
	return ref
}

// Resolve implements fontload.AssetResolver.
func (r *Registry) Resolve(ref fontload.AssetRef) (fontload.AssetDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx := int(ref) - 1
	if idx < 0 || idx >= len(r.assets) {
		return fontload.AssetDescriptor{}, false
	}
	return r.assets[idx], true
}

// Lookup returns the reference of the first asset with the given name.
func (r *Registry) Lookup(name string) (fontload.AssetRef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i, a := range r.assets {
		if a.Name == name {
			return fontload.AssetRef(i + 1), true
		}
	}
	return 0, false
}

// manifestEntry is an asset registry entry as bundled by the packager. The
// font file is served at <httpServerLocation>/<name>.<type>.
type manifestEntry struct {
	Name               string `json:"name"`
	HTTPServerLocation string `json:"httpServerLocation"`
	Hash               string `json:"hash"`
	Type               string `json:"type"`
}

func (e manifestEntry) descriptor() fontload.AssetDescriptor {
	ext := strings.TrimPrefix(e.Type, ".")
	file := e.Name
	if ext != "" {
		file += "." + ext
	}
	return fontload.AssetDescriptor{
		Name:           e.Name,
		SourceLocation: path.Join(e.HTTPServerLocation, file),
		Hash:           e.Hash,
		FileExtension:  ext,
	}
}

// LoadManifest creates a registry from a JSON array of asset registry
// entries, e.g. [{"name": "MaterialIcons", "httpServerLocation":
// "/assets/fonts", "hash": "...", "type": "ttf"}]. References follow the
// order of the array.
func LoadManifest(manifest string) (*Registry, error) {
	contents, err := afero.ReadFile(fs, manifest)
	if err != nil {
		return nil, err
	}
	var entries []manifestEntry
	if err := json.Unmarshal(contents, &entries); err != nil {
		return nil, fmt.Errorf("asset manifest %s: %w", manifest, err)
	}
	r := New()
	for i, e := range entries {
		if e.Name == "" || e.HTTPServerLocation == "" {
			return nil, fmt.Errorf("asset manifest %s: entry %d needs a name and location", manifest, i)
		}
		r.Register(e.descriptor())
	}
	return r, nil
}
