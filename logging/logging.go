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
Package logging provides diagnostic logging for the icon set tools.

Log always writes to stderr (or the output set with SetOutput). Fine only
writes for packages named on the command line using
`--finelog=fontload,glyphmap:FromCSS`, matched by prefix against the
shortened name of the calling function.
*/
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
)

func trimSuffix(s, suffix string) (result string, trimmed bool) {
	return strings.TrimSuffix(s, suffix), strings.HasSuffix(s, suffix)
}

func trimPrefix(s, prefix string) (result string, trimmed bool) {
	return strings.TrimPrefix(s, prefix), strings.HasPrefix(s, prefix)
}

func construct() {
	logger = log.New(os.Stderr, "", 0)
	SetFlags(log.LstdFlags | log.Lshortfile)
	fineLogModules = nil
	for _, arg := range os.Args {
		mods, ok := trimPrefix(arg, "--finelog=")
		if !ok {
			mods, ok = trimPrefix(arg, "-finelog=")
		}
		if !ok {
			continue
		}
		for _, mod := range strings.Split(mods, ",") {
			if mod != "" {
				fineLogModules = append(fineLogModules, mod)
			}
		}
	}
	pc, file, _, ok := runtime.Caller(0)
	if !ok {
		return
	}
	fnName := runtime.FuncForPC(pc).Name()
	if pkg, ok := trimSuffix(fnName, "/logging.construct"); ok {
		modulePkg = pkg
		srcRoot, _ = trimSuffix(file, "logging/logging.go")
	}
}

func init() {
	// runtime.Caller(0) reports differently inside init functions.
	construct()
}

var modulePkg = "#unknown#"
var srcRoot = ""

// shorten shortens a package/function/type for logging. Functions in this
// module become pkg:rest (e.g. fontload:Coordinator.LoadFontAsync), and
// receivers are simplified from (*Type) to Type.
func shorten(path string) string {
	path = strings.Replace(path, "*", "", -1)
	path = strings.Replace(path, "(", "", -1)
	path = strings.Replace(path, ")", "", -1)

	rest, ok := trimPrefix(path, modulePkg+"/")
	if !ok {
		return path
	}
	idx := strings.IndexAny(rest, "/.")
	if idx < 0 {
		return rest
	}
	return fmt.Sprintf("%s:%s", rest[:idx], rest[idx+1:])
}

var fineLogModules []string
var fineLogModulesCache sync.Map

// fineLogEnabled returns true if finelog is enabled for the module.
func fineLogEnabled(mod string) bool {
	cache, ok := fineLogModulesCache.Load(mod)
	if ok {
		return cache.(bool)
	}
	for _, fineMod := range fineLogModules {
		if strings.HasPrefix(mod, fineMod) {
			fineLogModulesCache.Store(mod, true)
			return true
		}
	}
	fineLogModulesCache.Store(mod, false)
	return false
}

// callingModule returns the shortened name of the function that called into
// this package, and its source location if file flags are set.
func callingModule() (mod string, loc string) {
	pc, file, line, ok := runtime.Caller(2)
	fFlags := int(atomic.LoadInt64(&fileFlags))
	if fFlags != 0 {
		file, _ = trimPrefix(file, srcRoot)
		if fFlags&log.Lshortfile != 0 {
			file = filepath.Base(file)
		}
		loc = fmt.Sprintf("%s:%d", file, line)
	}
	if !ok {
		return "unknown", loc
	}
	return shorten(runtime.FuncForPC(pc).Name()), loc
}

var fileFlags int64
var logger *log.Logger

func doLog(mod, loc string, format string, args ...interface{}) {
	out := fmt.Sprintf(format, args...)
	if loc != "" {
		out = fmt.Sprintf("%s (%s) %s", loc, mod, out)
	} else {
		out = fmt.Sprintf("(%s) %s", mod, out)
	}
	logger.Output(3, out)
}

// SetOutput sets the output stream for logging.
func SetOutput(output io.Writer) {
	logger.SetOutput(output)
}

// SetFlags sets flags to control logging output. Lshortfile and Llongfile
// control the source location written before the module name.
func SetFlags(flags int) {
	fFlags := flags & (log.Llongfile | log.Lshortfile)
	atomic.StoreInt64(&fileFlags, int64(fFlags))
	logger.SetFlags(flags &^ fFlags)
}

// Log logs a formatted message.
func Log(format string, args ...interface{}) {
	mod, loc := callingModule()
	doLog(mod, loc, format, args...)
}

// Fine logs a formatted message if fine logging is enabled for the
// calling module. Enable fine logging using the commandline flag,
// `--finelog=$module1,$module2`.
func Fine(format string, args ...interface{}) {
	mod, loc := callingModule()
	if fineLogEnabled(mod) {
		doLog(mod, loc, format, args...)
	}
}
