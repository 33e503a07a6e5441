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
Package httpasset downloads font assets over HTTP into a local cache,
implementing fontload.Downloader.

Files are cached by content hash at <CacheDir>/<hash>.<ext>, and cached files
are returned without any network access. Downloads are rate limited, since a
screen full of icons can trigger loads for several fonts at once.

The cache is located at ~/.cache/iconset/fonts (using XDG_CACHE_HOME for
~/.cache if set) unless ICONSET_CACHE_DIR is set.
*/
package httpasset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"golang.org/x/time/rate"

	l "github.com/soumya92/iconset/logging"
)

var fs = afero.NewOsFs()

// Config configures a Downloader.
type Config struct {
	// Base URL of the asset server; source locations are relative to it.
	BaseURL string `env:"ICONSET_ASSET_BASE_URL,required"`
	// Directory for downloaded fonts.
	CacheDir string `env:"ICONSET_CACHE_DIR"`
	// Maximum downloads per second, 0 for no limit.
	Rate float64 `env:"ICONSET_DOWNLOAD_RATE" envDefault:"4"`
	// Number of downloads that can start at once.
	Burst int `env:"ICONSET_DOWNLOAD_BURST" envDefault:"2"`
	// Timeout for each download, 0 for none.
	Timeout time.Duration `env:"ICONSET_DOWNLOAD_TIMEOUT" envDefault:"30s"`
}

var envOptions = env.Options{}

// ConfigFromEnv loads the configuration from environment variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, envOptions); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = defaultCacheDir()
	}
	return cfg, nil
}

// defaultCacheDir gets an XDG compliant directory for downloaded fonts.
func defaultCacheDir() string {
	cacheRoot := os.ExpandEnv("$HOME/.cache")
	if xdgCache, ok := os.LookupEnv("XDG_CACHE_HOME"); ok {
		cacheRoot = xdgCache
	}
	return filepath.Join(cacheRoot, "iconset", "fonts")
}

// Downloader downloads font assets over HTTP.
type Downloader struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
}

// New creates a Downloader. An empty CacheDir uses the default location.
func New(cfg Config) *Downloader {
	if cfg.CacheDir == "" {
		cfg.CacheDir = defaultCacheDir()
	}
	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	return &Downloader{
		cfg:     cfg,
		client:  &http.Client{},
		limiter: rate.NewLimiter(limit, cfg.Burst),
	}
}

var sanitizeRe = regexp.MustCompile(`[^[:alnum:].-]`)

// cacheKey returns the file name for a cached asset. Assets without a hash
// are keyed by their location instead. The result never contains a path
// separator, so cached files stay inside the cache directory.
func cacheKey(sourceLocation, hash, fileExtension string) string {
	if hash == "" {
		return sanitize(strings.TrimPrefix(sourceLocation, "/"))
	}
	key := sanitize(hash)
	if ext := sanitize(strings.TrimPrefix(fileExtension, ".")); ext != "" {
		key += "." + ext
	}
	return key
}

// sanitize replaces anything other than letters, digits, '-' and '.' with
// '-'. Runs of dots and a leading dot are also replaced.
func sanitize(s string) string {
	s = strings.ReplaceAll(sanitizeRe.ReplaceAllString(s, "-"), "..", "--")
	if strings.HasPrefix(s, ".") {
		s = "-" + s[1:]
	}
	return s
}

// Download implements fontload.Downloader.
func (d *Downloader) Download(ctx context.Context, sourceLocation, hash, fileExtension string) (string, error) {
	path := filepath.Join(d.cfg.CacheDir, cacheKey(sourceLocation, hash, fileExtension))
	if info, err := fs.Stat(path); err == nil && info.Size() > 0 {
		l.Fine("Using cached %s", path)
		return path, nil
	}
	if err := d.limiter.Wait(ctx); err != nil {
		return "", err
	}
	if d.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.Timeout)
		defer cancel()
	}
	url := strings.TrimSuffix(d.cfg.BaseURL, "/") + "/" + strings.TrimPrefix(sourceLocation, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	size, err := d.store(path, resp.Body)
	if err != nil {
		return "", err
	}
	l.Log("Downloaded %s (%s)", url, humanize.Bytes(uint64(size)))
	return path, nil
}

// store writes the body to a temporary file and then moves it into place, so
// that an interrupted download never looks like a cached file.
func (d *Downloader) store(path string, body io.Reader) (int64, error) {
	if err := fs.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return 0, err
	}
	tmp := path + ".part"
	f, err := fs.Create(tmp)
	if err != nil {
		return 0, err
	}
	size, err := io.Copy(f, body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = fs.Rename(tmp, path)
	}
	if err != nil {
		fs.Remove(tmp)
		return 0, err
	}
	return size, nil
}
