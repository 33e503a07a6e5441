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
Package fontdir registers fonts by installing them into a fonts directory
scanned by fontconfig (e.g. ~/.fonts), implementing fontload.FontRegistry.

Fonts already present in the directory when the registry is created are
reported as loaded, so they are never downloaded again.
*/
package fontdir

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/afero"

	l "github.com/soumya92/iconset/logging"
)

var fs = afero.NewOsFs()

var fontExtensions = map[string]bool{
	".ttf":   true,
	".otf":   true,
	".woff":  true,
	".woff2": true,
}

// DefaultDir returns the user's font directory, $XDG_DATA_HOME/fonts if
// XDG_DATA_HOME is set, or ~/.fonts otherwise.
func DefaultDir() string {
	if xdgData, ok := os.LookupEnv("XDG_DATA_HOME"); ok {
		return filepath.Join(xdgData, "fonts")
	}
	return os.ExpandEnv("$HOME/.fonts")
}

// Registry installs fonts into a directory.
type Registry struct {
	dir   string
	mu    sync.Mutex
	fonts []string
	known map[string]bool
}

// New creates a registry for the given directory, creating it if needed.
func New(dir string) (*Registry, error) {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, err
	}
	r := &Registry{dir: dir, known: map[string]bool{}}
	for _, info := range infos {
		ext := filepath.Ext(info.Name())
		if info.IsDir() || !fontExtensions[strings.ToLower(ext)] {
			continue
		}
		r.add(strings.TrimSuffix(info.Name(), ext))
	}
	l.Fine("%s: %d fonts installed", dir, len(r.fonts))
	return r, nil
}

// Dir returns the directory fonts are installed into.
func (r *Registry) Dir() string {
	return r.dir
}

func (r *Registry) add(alias string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.known[alias] {
		r.known[alias] = true
		r.fonts = append(r.fonts, alias)
	}
}

// Load implements fontload.FontRegistry, copying the font file into the
// directory as <alias><ext>.
func (r *Registry) Load(ctx context.Context, alias, localFile string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if alias == "" || strings.ContainsAny(alias, "/\\") {
		return fmt.Errorf("invalid font alias %q", alias)
	}
	ext := filepath.Ext(localFile)
	if !fontExtensions[strings.ToLower(ext)] {
		return fmt.Errorf("unsupported font file %s", localFile)
	}
	dest := filepath.Join(r.dir, alias+ext)
	if err := copyFile(localFile, dest); err != nil {
		return err
	}
	r.add(alias)
	l.Fine("Installed %s as %s", localFile, dest)
	return nil
}

// LoadedFonts implements fontload.FontRegistry.
func (r *Registry) LoadedFonts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	fonts := append([]string(nil), r.fonts...)
	sort.Strings(fonts)
	return fonts
}

func copyFile(src, dest string) error {
	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	tmp := dest + ".part"
	out, err := fs.Create(tmp)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = fs.Rename(tmp, dest)
	}
	if err != nil {
		fs.Remove(tmp)
	}
	return err
}
