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

// Package file uses the fsnotify library to watch for changes to a set of
// files, such as the stylesheets and templates used to generate glyph maps.
package file

import (
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/soumya92/iconset/base/notifier"
	l "github.com/soumya92/iconset/logging"
)

// Watcher watches for changes to any of a set of named files. It notifies the
// Updates chan on any changes, coalescing notifications that arrive before
// the previous one is consumed.
type Watcher struct {
	Updates <-chan struct{}
	Errors  <-chan error

	fswatcher *fsnotify.Watcher
	// Parent directories are watched instead of the files themselves, so that
	// files replaced by rename (as most editors save) are still tracked.
	files    map[string]bool
	notifyFn func()
	errorCh  chan error
	done     int32 // atomic bool.
}

// relevant is the set of operations that change a watched file's contents.
const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// Unsubscribe stops listening for updates and frees any resources used.
func (w *Watcher) Unsubscribe() {
	if atomic.CompareAndSwapInt32(&w.done, 0, 1) {
		l.Fine("Watch on %d files done", len(w.files))
		if w.fswatcher != nil {
			w.fswatcher.Close()
		}
	}
}

func (w *Watcher) fail(err error) {
	w.Unsubscribe()
	select {
	case w.errorCh <- err:
	default:
	}
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.fswatcher.Events:
			if !ok {
				return
			}
			if !w.files[filepath.Clean(event.Name)] || event.Op&relevant == 0 {
				continue
			}
			l.Fine("Notified: %s", event)
			w.notifyFn()
		case err, ok := <-w.fswatcher.Errors:
			if !ok {
				return
			}
			l.Log("File watch failed: %v", err)
			w.fail(err)
			return
		}
	}
}

// Watch creates a new file watcher for the given filenames. The files need
// not exist yet, but their parent directories must.
func Watch(filenames ...string) *Watcher {
	w := &Watcher{files: map[string]bool{}}
	w.errorCh = make(chan error, 1)
	w.Errors = w.errorCh
	w.notifyFn, w.Updates = notifier.New()
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.fail(err)
		return w
	}
	w.fswatcher = watcher
	dirs := map[string]bool{}
	for _, name := range filenames {
		abs, err := filepath.Abs(name)
		if err != nil {
			w.fail(err)
			return w
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			w.fail(err)
			return w
		}
		l.Fine("Watch added for %s", dir)
	}
	go w.watchLoop()
	return w
}
