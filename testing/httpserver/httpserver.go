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

// Package httpserver provides a test asset server that serves font files
// from an afero filesystem, along with some canned failures: http status
// codes, an infinite redirect loop, and requests that never complete.
package httpserver

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/spf13/afero"
)

// Server is an httptest.Server that counts requests.
type Server struct {
	*httptest.Server
	files    afero.Fs
	requests int32
}

// parsePath parses the request path (of the form "/{command}/{arg}")
// into its command and arg components.
func parsePath(path string) (command, arg string) {
	parts := strings.SplitN(path, "/", 3)
	command = parts[1]
	if len(parts) > 2 {
		arg = parts[2]
	}
	return command, arg
}

// handleError returns false if error is nil, otherwise writes a 500
// with the error string and returns true.
func handleError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	w.WriteHeader(500)
	w.Write([]byte(err.Error()))
	return true
}

// handleHTTPCode handles the '/code/' path. It parses the arg as an
// http status code, writes a header with that code, and writes the
// corresponding message in the body (e.g. '/code/404' => 'Not Found').
func handleHTTPCode(w http.ResponseWriter, arg string) {
	code, err := strconv.ParseInt(arg, 10, 32)
	if handleError(w, err) {
		return
	}
	w.WriteHeader(int(code))
	w.Write([]byte(http.StatusText(int(code))))
}

// handleAsset handles the '/assets/' path, serving arg from the root of
// the server's filesystem.
func (s *Server) handleAsset(w http.ResponseWriter, arg string) {
	file, err := s.files.Open("/" + arg)
	if os.IsNotExist(err) {
		handleHTTPCode(w, "404")
		return
	}
	if handleError(w, err) {
		return
	}
	defer file.Close()
	if info, err := file.Stat(); err == nil {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	}
	w.WriteHeader(200)
	io.Copy(w, file)
}

// New creates a new test server serving assets from the given filesystem.
func New(files afero.Fs) *Server {
	s := &Server{files: files}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&s.requests, 1)
		cmd, arg := parsePath(r.URL.Path)
		switch cmd {
		case "assets":
			s.handleAsset(w, arg)
		case "code":
			handleHTTPCode(w, arg)
		case "redir":
			w.Header().Set("Location", r.URL.Path)
			w.WriteHeader(307)
		case "hang":
			<-r.Context().Done()
		default:
			handleHTTPCode(w, "404")
		}
	}))
	return s
}

// Requests returns the number of requests received so far.
func (s *Server) Requests() int {
	return int(atomic.LoadInt32(&s.requests))
}
