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

// Package githubfs provides an afero FS that's backed by github.com.
// Live tests use it to read icon font sources from upstream repositories,
// with paths of the form /owner/repo/ref/path/to/file.
package githubfs

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/afero"
)

var root = "https://raw.githubusercontent.com"

// Fs is a readonly filesystem that fetches files from GitHub on first use.
type Fs struct {
	// readonly view into the backing fs.
	afero.Fs
	// backing mem-mapped fs, holding fetched files.
	backingFs afero.Fs
}

// New constructs an instance of GitHubFs.
func New() afero.Fs {
	backingFs := afero.NewMemMapFs()
	return &Fs{afero.NewReadOnlyFs(backingFs), backingFs}
}

// fetch downloads the named file into the backing fs, unless it was
// already fetched.
func (f *Fs) fetch(name string) error {
	if _, err := f.backingFs.Stat(name); err == nil {
		return nil
	}
	r, err := http.Get(fmt.Sprintf("%s/%s", root, strings.TrimPrefix(name, "/")))
	if err != nil {
		return err
	}
	defer r.Body.Close()
	if r.StatusCode != http.StatusOK {
		return &os.PathError{Op: "fetch", Path: name, Err: fmt.Errorf("%s", r.Status)}
	}
	contents, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if err := afero.WriteFile(f.backingFs, name, contents, 0444); err != nil {
		return err
	}
	if parsed, err := http.ParseTime(r.Header.Get("Last-Modified")); err == nil {
		local := parsed.Local()
		f.backingFs.Chtimes(name, local, local)
	}
	return nil
}

// Open opens a file, returning it or an error, if any happens.
func (f *Fs) Open(name string) (afero.File, error) {
	if err := f.fetch(name); err != nil {
		return nil, err
	}
	return f.Fs.Open(name)
}

// OpenFile opens a file using the given flags and the given mode.
func (f *Fs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if err := f.fetch(name); err != nil {
		return nil, err
	}
	return f.Fs.OpenFile(name, flag, perm)
}

// Stat returns a FileInfo describing the named file, or an error, if any
// happens.
func (f *Fs) Stat(name string) (os.FileInfo, error) {
	if err := f.fetch(name); err != nil {
		return nil, err
	}
	return f.Fs.Stat(name)
}

// Name returns the name of this FileSystem
func (f *Fs) Name() string {
	return fmt.Sprintf("GitHubFS/backed by %s", f.Fs.Name())
}
