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

package httpasset

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/soumya92/iconset/fontload"
	"github.com/soumya92/iconset/testing/httpserver"
)

func testServer(t *testing.T) *httpserver.Server {
	files := afero.NewMemMapFs()
	afero.WriteFile(files, "/fonts/MaterialIcons.ttf", []byte("material icons font"), 0644)
	afero.WriteFile(files, "/fonts/Empty.ttf", nil, 0644)
	s := httpserver.New(files)
	t.Cleanup(s.Close)
	return s
}

func TestDownload(t *testing.T) {
	fs = afero.NewMemMapFs()
	s := testServer(t)
	d := New(Config{BaseURL: s.URL + "/assets/", CacheDir: "/cache"})
	var _ fontload.Downloader = d

	path, err := d.Download(context.Background(), "/fonts/MaterialIcons.ttf", "4e85bc9e", "ttf")
	require.NoError(t, err)
	require.Equal(t, "/cache/4e85bc9e.ttf", path)
	contents, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	require.Equal(t, "material icons font", string(contents))
	require.Equal(t, 1, s.Requests())

	path, err = d.Download(context.Background(), "/fonts/MaterialIcons.ttf", "4e85bc9e", ".ttf")
	require.NoError(t, err)
	require.Equal(t, "/cache/4e85bc9e.ttf", path)
	require.Equal(t, 1, s.Requests(), "cached files are not downloaded again")

	path, err = d.Download(context.Background(), "fonts/MaterialIcons.ttf", "", "ttf")
	require.NoError(t, err)
	require.Equal(t, "/cache/fonts-MaterialIcons.ttf", path)
	require.Equal(t, 2, s.Requests())
}

func TestCacheKey(t *testing.T) {
	for _, tc := range []struct {
		location, hash, ext, expected string
	}{
		{"/fonts/Icons.ttf", "4e85bc9e", "ttf", "4e85bc9e.ttf"},
		{"/fonts/Icons.ttf", "4e85bc9e", ".ttf", "4e85bc9e.ttf"},
		{"/fonts/Icons.ttf", "4e85bc9e", "", "4e85bc9e"},
		{"/fonts/Icons.ttf", "", "ttf", "fonts-Icons.ttf"},
		{"/fonts/../Icons.ttf", "", "ttf", "fonts----Icons.ttf"},
		{"/fonts/Icons.ttf", "../../x", "ttf", "------x.ttf"},
		{"/fonts/Icons.ttf", "x", "../sh", "x.--sh"},
		{"/fonts/Icons.ttf", ".", "", "-"},
		{"/fonts/Icons.ttf", "..", "", "--"},
	} {
		key := cacheKey(tc.location, tc.hash, tc.ext)
		require.Equal(t, tc.expected, key, "%+v", tc)
		require.NotContains(t, key, "/")
	}
}

func TestDownloadStaysInCache(t *testing.T) {
	fs = afero.NewMemMapFs()
	s := testServer(t)
	d := New(Config{BaseURL: s.URL + "/assets", CacheDir: "/cache/fonts"})

	path, err := d.Download(context.Background(), "/fonts/MaterialIcons.ttf", "../../escape", "ttf")
	require.NoError(t, err)
	require.Equal(t, "/cache/fonts", filepath.Dir(path))
	_, err = fs.Stat("/escape.ttf")
	require.True(t, os.IsNotExist(err), "nothing written outside the cache")
}

func TestDownloadErrors(t *testing.T) {
	fs = afero.NewMemMapFs()
	s := testServer(t)
	d := New(Config{BaseURL: s.URL, CacheDir: "/cache", Timeout: 50 * time.Millisecond})

	_, err := d.Download(context.Background(), "/assets/fonts/Missing.ttf", "abc", "ttf")
	require.Error(t, err)
	require.Contains(t, err.Error(), "404")
	_, err = fs.Stat("/cache/abc.ttf")
	require.Error(t, err, "failed downloads are not cached")

	_, err = d.Download(context.Background(), "/code/500", "def", "ttf")
	require.Error(t, err)

	_, err = d.Download(context.Background(), "/hang/", "ghi", "ttf")
	require.Error(t, err, "times out")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = d.Download(ctx, "/assets/fonts/MaterialIcons.ttf", "jkl", "ttf")
	require.Error(t, err)

	// Empty files are downloaded again instead of being used from the cache.
	path, err := d.Download(context.Background(), "/assets/fonts/Empty.ttf", "empty", "ttf")
	require.NoError(t, err)
	before := s.Requests()
	_, err = d.Download(context.Background(), "/assets/fonts/Empty.ttf", "empty", "ttf")
	require.NoError(t, err)
	require.Equal(t, before+1, s.Requests())
	require.Equal(t, "/cache/empty.ttf", path)

	bad := New(Config{BaseURL: "http://[::1", CacheDir: "/cache"})
	_, err = bad.Download(context.Background(), "/x.ttf", "x", "ttf")
	require.Error(t, err)
}

func TestRateLimit(t *testing.T) {
	fs = afero.NewMemMapFs()
	s := testServer(t)
	d := New(Config{BaseURL: s.URL + "/assets", CacheDir: "/cache", Rate: 20, Burst: 1})
	start := time.Now()
	for _, hash := range []string{"a", "b", "c"} {
		_, err := d.Download(context.Background(), "/fonts/MaterialIcons.ttf", hash, "ttf")
		require.NoError(t, err)
	}
	require.True(t, time.Since(start) >= 90*time.Millisecond,
		"3 downloads at 20/s with burst 1 take at least 100ms")
}

func TestConfigFromEnv(t *testing.T) {
	defer func(prev env.Options) { envOptions = prev }(envOptions)

	envOptions = env.Options{Environment: map[string]string{}}
	_, err := ConfigFromEnv()
	require.Error(t, err, "base url is required")

	envOptions = env.Options{Environment: map[string]string{
		"ICONSET_ASSET_BASE_URL": "http://localhost:8081",
	}}
	t.Setenv("XDG_CACHE_HOME", "/home/me/.cache")
	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	require.Equal(t, Config{
		BaseURL:  "http://localhost:8081",
		CacheDir: "/home/me/.cache/iconset/fonts",
		Rate:     4,
		Burst:    2,
		Timeout:  30 * time.Second,
	}, cfg)

	envOptions = env.Options{Environment: map[string]string{
		"ICONSET_ASSET_BASE_URL":   "http://localhost:8081",
		"ICONSET_CACHE_DIR":        "/tmp/fonts",
		"ICONSET_DOWNLOAD_RATE":    "0.5",
		"ICONSET_DOWNLOAD_BURST":   "1",
		"ICONSET_DOWNLOAD_TIMEOUT": "2m",
	}}
	cfg, err = ConfigFromEnv()
	require.NoError(t, err)
	require.Equal(t, Config{
		BaseURL:  "http://localhost:8081",
		CacheDir: "/tmp/fonts",
		Rate:     0.5,
		Burst:    1,
		Timeout:  2 * time.Minute,
	}, cfg)

	envOptions = env.Options{Environment: map[string]string{
		"ICONSET_ASSET_BASE_URL": "http://localhost:8081",
		"ICONSET_DOWNLOAD_RATE":  "fast",
	}}
	_, err = ConfigFromEnv()
	require.Error(t, err)
}
