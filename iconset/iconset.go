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
Package iconset generates glyph maps for several icon fonts at once, as
described by a YAML file:

  sets:
  - name: material
    mode: codepoints
    sources: [MaterialIcons-Regular.codepoints]
    output: glyphmaps/material.json
  - name: fontawesome
    sources: [css/font-awesome.css]
    prefix: .fa-
    template_file: templates/fontawesome.ts.tpl
    data: {family: FontAwesome}
    output: src/fontawesome.ts

Relative paths are resolved against the directory of the YAML file.
*/
package iconset

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"

	"github.com/soumya92/iconset/glyphmap"
	l "github.com/soumya92/iconset/logging"
)

// Set describes one generated glyph map.
type Set struct {
	Name         string            `yaml:"name"`
	Sources      []string          `yaml:"sources"`
	Prefix       string            `yaml:"prefix"`
	Mode         string            `yaml:"mode"`
	Template     string            `yaml:"template"`
	TemplateFile string            `yaml:"template_file"`
	Data         map[string]string `yaml:"data"`
	Output       string            `yaml:"output"`
}

// Config is a list of icon sets to generate.
type Config struct {
	Sets []Set `yaml:"sets"`
}

// Result summarises a generated icon set.
type Result struct {
	Name   string
	Output string
	Glyphs int
	Bytes  int
}

var fs = afero.NewOsFs()

// LoadConfig reads and validates an icon set configuration.
func LoadConfig(path string) (*Config, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var conf Config
	if err := yaml.NewDecoder(f).Decode(&conf); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i := range conf.Sets {
		s := &conf.Sets[i]
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("%s: set %d: %w", path, i, err)
		}
		s.resolve(dir)
	}
	return &conf, nil
}

func (s *Set) validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if s.Output == "" {
		return fmt.Errorf("%s: output is required", s.Name)
	}
	if len(s.Sources) == 0 {
		return fmt.Errorf("%s: no sources", s.Name)
	}
	if _, err := glyphmap.ParseMode(s.Mode); err != nil {
		return fmt.Errorf("%s: %w", s.Name, err)
	}
	if s.Template != "" && s.TemplateFile != "" {
		return fmt.Errorf("%s: template and template_file are mutually exclusive", s.Name)
	}
	return nil
}

func (s *Set) resolve(dir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	for i, src := range s.Sources {
		s.Sources[i] = abs(src)
	}
	s.TemplateFile = abs(s.TemplateFile)
	s.Output = abs(s.Output)
}

// Files returns all files read while generating the icon sets.
func (c *Config) Files() []string {
	var files []string
	for _, s := range c.Sets {
		files = append(files, s.Sources...)
		if s.TemplateFile != "" {
			files = append(files, s.TemplateFile)
		}
	}
	return files
}

// Generate extracts each icon set and writes it to its output. It stops at
// the first set that fails.
func (c *Config) Generate() ([]Result, error) {
	var results []Result
	for _, s := range c.Sets {
		r, err := s.generate()
		if err != nil {
			return results, fmt.Errorf("%s: %w", s.Name, err)
		}
		results = append(results, r)
	}
	return results, nil
}

func (s Set) generate() (Result, error) {
	mode, err := glyphmap.ParseMode(s.Mode)
	if err != nil {
		return Result{}, err
	}
	template := s.Template
	if s.TemplateFile != "" {
		contents, err := afero.ReadFile(fs, s.TemplateFile)
		if err != nil {
			return Result{}, err
		}
		template = string(contents)
	}
	m, err := glyphmap.Parse(s.Sources, s.Prefix, mode)
	if err != nil {
		return Result{}, err
	}
	out, err := glyphmap.Format(m, template, s.Data)
	if err != nil {
		return Result{}, err
	}
	if err := write(s.Output, []byte(out)); err != nil {
		return Result{}, err
	}
	l.Fine("%s: %d glyphs to %s", s.Name, m.Len(), s.Output)
	return Result{Name: s.Name, Output: s.Output, Glyphs: m.Len(), Bytes: len(out)}, nil
}

// write replaces the file only if its contents changed, so that watchers on
// generated files are not triggered needlessly.
func write(path string, contents []byte) error {
	if existing, err := afero.ReadFile(fs, path); err == nil && bytes.Equal(existing, contents) {
		return nil
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return afero.WriteFile(fs, path, contents, 0644)
}
