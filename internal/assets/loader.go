package assets

import (
	"context"
	"crypto/sha256"
	"embed"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

//go:embed builtin/*.json
var builtinFS embed.FS

const builtinScheme = "builtin:"

// Loader fetches the bytes behind an asset.
type Loader interface {
	Load(ctx context.Context, a Asset) ([]byte, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, a Asset) ([]byte, error)

func (f LoaderFunc) Load(ctx context.Context, a Asset) ([]byte, error) { return f(ctx, a) }

// HTTPLoader downloads remote assets, caching them on disk when CacheDir is set.
type HTTPLoader struct {
	HTTPClient *http.Client
	Token      string
	// TokenHosts are the mapping backend hosts the token is sent to. A host
	// matches itself and its subdomains; every other host gets no token.
	TokenHosts []string
	CacheDir   string
}

// NewHTTPLoader creates a loader with the specified request timeout.
func NewHTTPLoader(timeout time.Duration, token, cacheDir string, tokenHosts ...string) *HTTPLoader {
	return &HTTPLoader{
		HTTPClient: &http.Client{Timeout: timeout},
		Token:      token,
		TokenHosts: tokenHosts,
		CacheDir:   cacheDir,
	}
}

func (l *HTTPLoader) sendsToken(u *url.URL) bool {
	if l.Token == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range l.TokenHosts {
		h = strings.ToLower(h)
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

func (l *HTTPLoader) cachePath(a Asset) string {
	sum := sha256.Sum256([]byte(a.URL))
	return filepath.Join(l.CacheDir, fmt.Sprintf("%s-%x", a.ID, sum[:6]))
}

func (l *HTTPLoader) Load(ctx context.Context, a Asset) ([]byte, error) {
	if l.CacheDir != "" {
		if data, err := os.ReadFile(l.cachePath(a)); err == nil {
			return data, nil
		}
	}
	u, err := url.Parse(a.URL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if l.sendsToken(u) {
		q := u.Query()
		q.Set("access_token", l.Token)
		u.RawQuery = q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := l.HTTPClient.Do(req)
	if err != nil {
		// url.Error carries the full request URL, token included
		return nil, fmt.Errorf("fetch %s: %w", a.ID, redact(err, l.Token))
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", a.ID, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if l.CacheDir != "" {
		if err := writeCache(l.cachePath(a), data); err != nil {
			return nil, fmt.Errorf("write cache: %w", err)
		}
	}
	return data, nil
}

func writeCache(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func redact(err error, token string) error {
	if token == "" {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), url.QueryEscape(token), "REDACTED"))
}

// SchemeLoader routes an asset by URL scheme: http(s) to HTTP, builtin: to
// the embedded files, everything else (file:// or a bare path) to disk.
type SchemeLoader struct {
	HTTP Loader
}

func NewLoader(timeout time.Duration, token, cacheDir string, tokenHosts ...string) *SchemeLoader {
	return &SchemeLoader{HTTP: NewHTTPLoader(timeout, token, cacheDir, tokenHosts...)}
}

func (l *SchemeLoader) Load(ctx context.Context, a Asset) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch {
	case strings.HasPrefix(a.URL, builtinScheme):
		return builtinFS.ReadFile("builtin/" + strings.TrimPrefix(a.URL, builtinScheme))
	case strings.HasPrefix(a.URL, "http://"), strings.HasPrefix(a.URL, "https://"):
		if l.HTTP == nil {
			return nil, errors.New("http loading disabled")
		}
		return l.HTTP.Load(ctx, a)
	default:
		return os.ReadFile(strings.TrimPrefix(a.URL, "file://"))
	}
}
