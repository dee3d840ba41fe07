package assets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPLoaderTokenAndCache(t *testing.T) {
	var hits atomic.Int32
	var gotToken atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		gotToken.Store(r.URL.Query().Get("access_token"))
		_, _ = w.Write([]byte(`{"type":"Point","coordinates":[1,2]}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	l := NewHTTPLoader(5*time.Second, "pk.secret", dir, "127.0.0.1")
	a := Asset{ID: MapScriptID, URL: srv.URL + "/v1/basemap.geojson", Kind: Script}

	data, err := l.Load(context.Background(), a)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"Point","coordinates":[1,2]}`, string(data))
	assert.Equal(t, "pk.secret", gotToken.Load())

	again, err := l.Load(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, data, again)
	assert.Equal(t, int32(1), hits.Load())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), MapScriptID)
}

func TestHTTPLoaderTokenOnlyForBackendHosts(t *testing.T) {
	var gotToken atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken.Store(r.URL.Query().Get("access_token"))
		_, _ = w.Write([]byte("POINT(1 2)"))
	}))
	defer srv.Close()

	a := Asset{ID: MapScriptID, URL: srv.URL + "/basemap.wkt", Kind: Script}
	for _, hosts := range [][]string{nil, {"api.mapbackend.example"}} {
		l := NewLoader(time.Second, "pk.mapbackend-secret", "", hosts...)
		_, err := l.Load(context.Background(), a)
		require.NoError(t, err, hosts)
		assert.Equal(t, "", gotToken.Load(), hosts)
	}

	l := NewHTTPLoader(time.Second, "pk.mapbackend-secret", "")
	for _, tc := range []struct {
		hosts []string
		url   string
		want  bool
	}{
		{[]string{"api.mapbackend.example"}, "https://api.mapbackend.example/v1/style", true},
		{[]string{"mapbackend.example"}, "https://tiles.mapbackend.example/a", true},
		{[]string{"MapBackend.example"}, "https://mapbackend.example/a", true},
		{[]string{"mapbackend.example"}, "https://evilmapbackend.example/a", false},
		{[]string{"mapbackend.example"}, "https://raw.githubusercontent.com/x", false},
	} {
		l.TokenHosts = tc.hosts
		u, err := url.Parse(tc.url)
		require.NoError(t, err)
		assert.Equal(t, tc.want, l.sendsToken(u), tc.url)
	}
}

func TestHTTPLoaderStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	l := NewHTTPLoader(5*time.Second, "", "")
	_, err := l.Load(context.Background(), Asset{ID: MapScriptID, URL: srv.URL})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestHTTPLoaderRedactsToken(t *testing.T) {
	l := NewHTTPLoader(time.Second, "pk.secret", "", "127.0.0.1")
	// nothing listens on port 1
	_, err := l.Load(context.Background(), Asset{ID: MapScriptID, URL: "http://127.0.0.1:1/basemap"})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "pk.secret")
}

func TestSchemeLoaderBuiltin(t *testing.T) {
	l := NewLoader(time.Second, "", "")
	data, err := l.Load(context.Background(), Asset{ID: DrawScriptID, URL: DefaultDrawScriptURL})
	require.NoError(t, err)

	var manifest map[string]any
	require.NoError(t, json.Unmarshal(data, &manifest))
	assert.Contains(t, manifest, "controls")

	for _, u := range []string{DefaultMapStylesheetURL, DefaultDrawStylesheetURL} {
		_, err := l.Load(context.Background(), Asset{URL: u})
		assert.NoError(t, err, u)
	}

	_, err = l.Load(context.Background(), Asset{URL: "builtin:missing.json"})
	assert.Error(t, err)
}

func TestSchemeLoaderFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "basemap.wkt")
	require.NoError(t, os.WriteFile(path, []byte("POINT(1 2)"), 0o644))

	l := NewLoader(time.Second, "", "")
	for _, u := range []string{path, "file://" + path} {
		data, err := l.Load(context.Background(), Asset{URL: u})
		require.NoError(t, err, u)
		assert.Equal(t, "POINT(1 2)", string(data))
	}
}

func TestSchemeLoaderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLoader(time.Second, "", "").Load(ctx, Asset{URL: DefaultDrawScriptURL})
	assert.ErrorIs(t, err, context.Canceled)
}
