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

package main

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soumya92/iconset/glyphmap"
)

const faCSS = `.fa-glass:before {
  content: "\f000";
}
.fa-music:before {
  content: "\f001";
}`

func writeFile(t *testing.T, path, contents string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
}

func runArgs(t *testing.T, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func TestCSS(t *testing.T) {
	dir := t.TempDir()
	css := filepath.Join(dir, "font-awesome.css")
	writeFile(t, css, faCSS)

	out, err := runArgs(t, "-prefix", ".fa-", css)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"glass\": 61440,\n  \"music\": 61441\n}\n", out)
}

func TestCodepointsToFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "codepoints")
	writeFile(t, src, "3d_rotation e84d\r\nac_unit eb3b\r\n")
	dest := filepath.Join(dir, "out", "material.json")

	out, err := runArgs(t, "-mode", "codepoints", "-o", dest, src)
	require.NoError(t, err)
	assert.Empty(t, out)
	contents, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"3d-rotation\": 59469,\n  \"ac-unit\": 60219\n}", string(contents))
}

func TestTemplate(t *testing.T) {
	dir := t.TempDir()
	css := filepath.Join(dir, "fa.css")
	writeFile(t, css, faCSS)
	tpl := filepath.Join(dir, "fa.tpl")
	writeFile(t, tpl, "const ${name} = ${glyphMap};")

	out, err := runArgs(t, "-prefix=.fa-", "-template", tpl, "-data", "name=FA", css)
	require.NoError(t, err)
	assert.Equal(t, "const FA = {\n  \"glass\": 61440,\n  \"music\": 61441\n};\n", out)

	_, err = runArgs(t, "-prefix=.fa-", "-template", tpl, css)
	var tplErr *glyphmap.TemplateSubstitutionError
	require.ErrorAs(t, err, &tplErr)
	assert.Equal(t, "name", tplErr.Key)
}

func TestEnvDefaults(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "codepoints")
	writeFile(t, src, "home e88a\n")
	t.Setenv("GLYPHMAP_MODE", "codepoints")

	out, err := runArgs(t, src)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"home\": 59530\n}\n", out)

	_, err = runArgs(t, "-mode", "css", src)
	require.NoError(t, err, "flags override env, and codepoints are not CSS")

	t.Setenv("GLYPHMAP_MODE", "yaml")
	_, err = runArgs(t, src)
	assert.Error(t, err)
}

func TestInvalidArgs(t *testing.T) {
	for _, tc := range []struct {
		desc string
		args []string
	}{
		{"no sources", nil},
		{"bad mode", []string{"-mode", "yaml", "a.css"}},
		{"bad data", []string{"-data", "novalue", "a.css"}},
		{"unknown flag", []string{"-foo", "a.css"}},
		{"config and sources", []string{"-config", "c.yml", "a.css"}},
		{"watch to stdout", []string{"-watch", "a.css"}},
		{"missing source", []string{"/no/such/file.css"}},
	} {
		_, err := runArgs(t, tc.args...)
		assert.Error(t, err, tc.desc)
	}
	_, err := runArgs(t, "-h")
	assert.ErrorIs(t, err, flag.ErrHelp)
}

func TestConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "fa.css"), faCSS)
	conf := filepath.Join(dir, "iconsets.yml")
	writeFile(t, conf, "sets:\n- name: fa\n  prefix: .fa-\n  sources: [fa.css]\n  output: gen/fa.json\n")

	_, err := runArgs(t, "-config", conf)
	require.NoError(t, err)
	contents, err := os.ReadFile(filepath.Join(dir, "gen", "fa.json"))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"glass\": 61440,\n  \"music\": 61441\n}", string(contents))
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	css := filepath.Join(dir, "icons.css")
	writeFile(t, css, `.i-a:before { content: "a"; }`)
	dest := filepath.Join(dir, "icons.json")

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() {
		var stdout, stderr bytes.Buffer
		errs <- run(ctx, []string{"-prefix", ".i-", "-o", dest, "-watch", css}, &stdout, &stderr)
	}()

	readDest := func() string {
		contents, _ := os.ReadFile(dest)
		return string(contents)
	}
	require.Eventually(t, func() bool {
		return readDest() == "{\n  \"a\": 97\n}"
	}, 5*time.Second, 10*time.Millisecond, "initial generation")

	writeFile(t, css, `.i-a:before { content: "a"; } .i-b:before { content: "b"; }`)
	require.Eventually(t, func() bool {
		return readDest() == "{\n  \"a\": 97,\n  \"b\": 98\n}"
	}, 5*time.Second, 10*time.Millisecond, "regenerated on change")

	cancel()
	select {
	case err := <-errs:
		require.NoError(t, err)
	case <-time.After(time.Second):
		require.Fail(t, "watch did not stop on cancel")
	}
}

func TestWatchConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.css"), `.i-a:before { content: "a"; }`)
	writeFile(t, filepath.Join(dir, "b.css"), `.i-b:before { content: "b"; }`)
	conf := filepath.Join(dir, "iconsets.yml")
	setConfig := func(sources string) {
		writeFile(t, conf, "sets:\n- name: i\n  prefix: .i-\n  sources: ["+sources+"]\n  output: out.json\n")
	}
	setConfig("a.css")
	dest := filepath.Join(dir, "out.json")

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() {
		var stdout, stderr bytes.Buffer
		errs <- run(ctx, []string{"-config", conf, "-watch"}, &stdout, &stderr)
	}()

	readDest := func() string {
		contents, _ := os.ReadFile(dest)
		return string(contents)
	}
	require.Eventually(t, func() bool {
		return readDest() == "{\n  \"a\": 97\n}"
	}, 5*time.Second, 10*time.Millisecond, "initial generation")

	setConfig("a.css, b.css")
	require.Eventually(t, func() bool {
		return readDest() == "{\n  \"a\": 97,\n  \"b\": 98\n}"
	}, 5*time.Second, 10*time.Millisecond, "regenerated on config change")

	writeFile(t, filepath.Join(dir, "b.css"),
		`.i-b:before { content: "b"; } .i-c:before { content: "c"; }`)
	require.Eventually(t, func() bool {
		return readDest() == "{\n  \"a\": 97,\n  \"b\": 98,\n  \"c\": 99\n}"
	}, 5*time.Second, 10*time.Millisecond, "source added by the config is watched")

	setConfig("b.css")
	require.Eventually(t, func() bool {
		return readDest() == "{\n  \"b\": 98,\n  \"c\": 99\n}"
	}, 5*time.Second, 10*time.Millisecond, "source removed from the config")

	cancel()
	select {
	case err := <-errs:
		require.NoError(t, err)
	case <-time.After(time.Second):
		require.Fail(t, "watch did not stop on cancel")
	}
}

func TestSameFiles(t *testing.T) {
	assert.True(t, sameFiles(nil, nil))
	assert.True(t, sameFiles([]string{"a", "b"}, []string{"b", "a"}))
	assert.False(t, sameFiles([]string{"a"}, []string{"a", "b"}))
	assert.False(t, sameFiles([]string{"a", "c"}, []string{"a", "b"}))
}
