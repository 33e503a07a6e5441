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

package fontload

import (
	"context"
	"strconv"
)

// AssetRef is an opaque reference to a bundled font asset, resolved to an
// AssetDescriptor by an AssetResolver.
type AssetRef int

func (r AssetRef) String() string {
	return strconv.Itoa(int(r))
}

// AssetDescriptor describes a font asset that can be downloaded.
type AssetDescriptor struct {
	// Name of the asset, used as the alias when registering the font.
	Name string
	// Server relative path of the font file.
	SourceLocation string
	// Content hash of the font file.
	Hash string
	// File extension, without the leading '.'.
	FileExtension string
}

// AssetResolver resolves asset references. It returns false for unknown
// references.
type AssetResolver interface {
	Resolve(ref AssetRef) (AssetDescriptor, bool)
}

// Downloader downloads font files, returning the path of a local copy.
type Downloader interface {
	Download(ctx context.Context, sourceLocation, hash, fileExtension string) (string, error)
}

// FontRegistry registers font files with the platform's font subsystem.
type FontRegistry interface {
	// Load registers the local font file under the given family alias.
	Load(ctx context.Context, alias, localFile string) error
	// LoadedFonts lists all families registered so far, including those
	// registered outside this process.
	LoadedFonts() []string
}
