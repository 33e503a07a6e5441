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
Package fontload downloads and registers icon fonts on demand.

A Coordinator ensures that at most one download and registration is in
flight for each font family. Concurrent requests for the same family share
the pending Load, and once it settles the next request starts a new attempt.

Failures are logged and never reported to callers: a settled Load only means
the attempt is over. Use IsLoadedNative to find out whether the font is
actually available.

Example usage:
  installed, err := fontdir.New(fontdir.DefaultDir())
  if err != nil { ... }
  fonts := fontload.New(assets, httpasset.New(cfg), installed)
  if fonts.IsDynamicLoadingEnabled() && !fonts.IsLoadedNative("Material Icons") {
      <-fonts.LoadFontAsync("Material Icons", materialIconsRef).Done()
  }
*/
package fontload

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	l "github.com/soumya92/iconset/logging"
)

// Load is a pending or settled attempt to load a font.
type Load struct {
	family string
	done   chan struct{}
}

// Family returns the font family being loaded.
func (ld *Load) Family() string {
	return ld.family
}

// Done returns a channel that is closed once the load settles, whether or
// not it succeeded.
func (ld *Load) Done() <-chan struct{} {
	return ld.done
}

// Wait blocks until the load settles or the context is done. It only returns
// an error if the context ends first, in which case the load continues.
func (ld *Load) Wait(ctx context.Context) error {
	select {
	case <-ld.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Completed returns an already settled Load, for callers that need a Load
// but have nothing to load.
func Completed(family string) *Load {
	ld := &Load{family: family, done: make(chan struct{})}
	close(ld.done)
	return ld
}

// Coordinator loads fonts on demand, deduplicating concurrent requests.
type Coordinator struct {
	resolver   AssetResolver
	downloader Downloader
	registry   FontRegistry

	supported bool
	enabled   atomic.Bool

	mu       sync.Mutex
	inFlight map[string]*Load
	loaded   map[string]bool
}

// present returns false for nil capabilities, including nil pointers (or
// maps, funcs, ...) wrapped in a non-nil interface.
func present(capability interface{}) bool {
	if capability == nil {
		return false
	}
	v := reflect.ValueOf(capability)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return !v.IsNil()
	}
	return true
}

// New creates a coordinator. Dynamic loading is supported (and enabled by
// default) only if both a downloader and a registry are provided; either may
// be nil on platforms that lack the capability.
func New(resolver AssetResolver, downloader Downloader, registry FontRegistry) *Coordinator {
	if !present(resolver) {
		resolver = nil
	}
	if !present(downloader) {
		downloader = nil
	}
	if !present(registry) {
		registry = nil
	}
	c := &Coordinator{
		resolver:   resolver,
		downloader: downloader,
		registry:   registry,
		supported:  downloader != nil && registry != nil,
		inFlight:   map[string]*Load{},
		loaded:     map[string]bool{},
	}
	c.enabled.Store(c.supported)
	return c
}

// IsDynamicLoadingSupported returns true if the download and registration
// capabilities are both available.
func (c *Coordinator) IsDynamicLoadingSupported() bool {
	return c.supported
}

// SetDynamicLoadingEnabled enables or disables dynamic loading. Loading
// cannot be enabled if it is not supported. It returns false if the
// resulting state differs from the requested one.
func (c *Coordinator) SetDynamicLoadingEnabled(enable bool) bool {
	c.enabled.Store(enable && c.supported)
	return c.enabled.Load() == enable
}

// IsDynamicLoadingEnabled returns whether dynamic loading is enabled.
func (c *Coordinator) IsDynamicLoadingEnabled() bool {
	return c.enabled.Load()
}

// LoadFontAsync starts loading the font asset for the family, unless a load
// for it is already in flight, in which case the pending Load is returned.
func (c *Coordinator) LoadFontAsync(family string, ref AssetRef) *Load {
	c.mu.Lock()
	if ld, ok := c.inFlight[family]; ok {
		c.mu.Unlock()
		l.Fine("%s: joining pending load", family)
		return ld
	}
	ld := &Load{family: family, done: make(chan struct{})}
	c.inFlight[family] = ld
	c.mu.Unlock()
	l.Fine("%s: loading asset %v", family, ref)
	go c.run(ld, ref)
	return ld
}

func (c *Coordinator) run(ld *Load, ref AssetRef) {
	err := c.load(context.Background(), ld.family, ref)
	if err != nil {
		// Callers are expected to check IsLoadedNative, so failures stop here.
		l.Log("Failed to load font %s: %v", ld.family, err)
	}
	c.mu.Lock()
	delete(c.inFlight, ld.family)
	c.mu.Unlock()
	close(ld.done)
}

func (c *Coordinator) load(ctx context.Context, family string, ref AssetRef) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	var asset AssetDescriptor
	ok := false
	if c.resolver != nil {
		asset, ok = c.resolver.Resolve(ref)
	}
	if !ok {
		return &AssetResolutionError{Family: family, Ref: ref}
	}
	if !c.supported {
		return &NativeCapabilityError{Op: "download", Family: family, Err: ErrUnsupported}
	}
	localFile, err := c.downloader.Download(ctx, asset.SourceLocation, asset.Hash, asset.FileExtension)
	if err != nil {
		return &NativeCapabilityError{Op: "download", Family: family, Err: err}
	}
	if err := c.registry.Load(ctx, asset.Name, localFile); err != nil {
		return &NativeCapabilityError{Op: "register", Family: family, Err: err}
	}
	l.Fine("%s: registered %s as %s", family, localFile, asset.Name)
	return nil
}

// IsLoadedNative returns true if the font subsystem has the family loaded.
// Families once seen as loaded are assumed to stay loaded, so the subsystem
// is only queried again for families not yet seen.
func (c *Coordinator) IsLoadedNative(family string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded[family] {
		return true
	}
	if c.registry == nil {
		return false
	}
	for _, f := range c.registry.LoadedFonts() {
		c.loaded[f] = true
	}
	return c.loaded[family]
}
