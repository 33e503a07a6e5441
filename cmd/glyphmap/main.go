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

// glyphmap extracts icon name to glyph mappings from icon font stylesheets
// or codepoints manifests, and writes them as JSON or through a template.
//
// Usage:
//
//	glyphmap [flags] source...
//	glyphmap -config iconsets.yml [-watch]
//
// Defaults for -prefix, -mode, -template and -config may be set with the
// GLYPHMAP_PREFIX, GLYPHMAP_MODE, GLYPHMAP_TEMPLATE and GLYPHMAP_CONFIG
// environment variables.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	"github.com/soumya92/iconset/base/watchers/file"
	"github.com/soumya92/iconset/glyphmap"
	"github.com/soumya92/iconset/iconset"
	l "github.com/soumya92/iconset/logging"
)

type options struct {
	Prefix   string        `env:"GLYPHMAP_PREFIX"`
	Mode     glyphmap.Mode `env:"GLYPHMAP_MODE"`
	Template string        `env:"GLYPHMAP_TEMPLATE"`
	Config   string        `env:"GLYPHMAP_CONFIG"`
	Output   string
	Watch    bool
	Data     map[string]string
	Sources  []string
}

var fs = afero.NewOsFs()

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	o := &options{Data: map[string]string{}}
	if err := env.Parse(o); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	flags := flag.NewFlagSet("glyphmap", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&o.Prefix, "prefix", o.Prefix, "selector prefix of icon rules, e.g. .fa-")
	flags.TextVar(&o.Mode, "mode", o.Mode, "source format: css or codepoints")
	flags.StringVar(&o.Template, "template", o.Template, "template file, with ${glyphMap} for the glyph map")
	flags.Func("data", "template value as key=value (repeatable)", func(kv string) error {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return fmt.Errorf("expected key=value, got %q", kv)
		}
		o.Data[k] = v
		return nil
	})
	flags.StringVar(&o.Output, "o", "", "output file (default stdout)")
	flags.StringVar(&o.Config, "config", o.Config, "YAML file listing icon sets to generate")
	flags.BoolVar(&o.Watch, "watch", false, "regenerate when sources change")
	// Handled by the logging package, which reads os.Args directly.
	flags.String("finelog", "", "comma-separated packages to enable fine logging for")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	o.Sources = flags.Args()
	if o.Config != "" {
		if len(o.Sources) > 0 || o.Output != "" {
			return nil, errors.New("-config cannot be used with sources or -o")
		}
		return o, nil
	}
	if len(o.Sources) == 0 {
		return nil, errors.New("no source files")
	}
	if o.Watch && o.Output == "" {
		return nil, errors.New("-watch requires -o or -config")
	}
	return o, nil
}

// files returns the files that generation depends on.
func (o *options) files() ([]string, error) {
	if o.Config == "" {
		files := append([]string(nil), o.Sources...)
		if o.Template != "" {
			files = append(files, o.Template)
		}
		return files, nil
	}
	conf, err := iconset.LoadConfig(o.Config)
	if err != nil {
		return nil, err
	}
	return append(conf.Files(), o.Config), nil
}

func (o *options) generate(stdout io.Writer) error {
	if o.Config != "" {
		conf, err := iconset.LoadConfig(o.Config)
		if err != nil {
			return err
		}
		results, err := conf.Generate()
		for _, r := range results {
			l.Log("%s: %d glyphs, %s to %s",
				r.Name, r.Glyphs, humanize.Bytes(uint64(r.Bytes)), r.Output)
		}
		return err
	}
	var template string
	if o.Template != "" {
		contents, err := afero.ReadFile(fs, o.Template)
		if err != nil {
			return err
		}
		template = string(contents)
	}
	out, err := glyphmap.Extract(o.Sources, o.Prefix, o.Mode,
		glyphmap.WithTemplate(template), glyphmap.WithData(o.Data))
	if err != nil {
		return err
	}
	if o.Output == "" {
		_, err = fmt.Fprintln(stdout, out)
		return err
	}
	if err := fs.MkdirAll(filepath.Dir(o.Output), 0755); err != nil {
		return err
	}
	if err := afero.WriteFile(fs, o.Output, []byte(out), 0644); err != nil {
		return err
	}
	l.Log("Wrote %s to %s", humanize.Bytes(uint64(len(out))), o.Output)
	return nil
}

func sameFiles(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	a = append([]string(nil), a...)
	b = append([]string(nil), b...)
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// rewatch replaces the watcher if the config now lists different files. The
// new watcher is started before the files are listed again, so that a config
// change made while switching is never missed.
func (o *options) rewatch(w *file.Watcher, files []string) (*file.Watcher, []string) {
	for {
		next, err := o.files()
		if err != nil || sameFiles(files, next) {
			// An invalid config keeps the previous watches.
			return w, files
		}
		l.Fine("Watching %d files", len(next))
		newWatcher := file.Watch(next...)
		w.Unsubscribe()
		w, files = newWatcher, next
	}
}

func watch(ctx context.Context, o *options, stdout io.Writer) error {
	files, err := o.files()
	if err != nil {
		return err
	}
	w := file.Watch(files...)
	defer func() { w.Unsubscribe() }()
	if err := o.generate(stdout); err != nil {
		l.Log("Generation failed: %v", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-w.Errors:
			return err
		case <-w.Updates:
			l.Fine("Sources changed, regenerating")
			if o.Config != "" {
				w, files = o.rewatch(w, files)
			}
			if err := o.generate(stdout); err != nil {
				l.Log("Generation failed: %v", err)
			}
		}
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}
	if o.Watch {
		return watch(ctx, o, stdout)
	}
	return o.generate(stdout)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "glyphmap: %v\n", err)
		stop()
		os.Exit(1)
	}
}
