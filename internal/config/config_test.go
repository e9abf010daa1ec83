package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(Options{Dir: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Repository.URL)
	assert.Equal(t, 30*time.Second, cfg.Repository.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, time.Duration(0), cfg.Diff.Timeout)
	assert.False(t, cfg.Diff.UTF16Columns)
	assert.True(t, cfg.Search.CountPreflight)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "", cfg.File)
	assert.False(t, cfg.Remote())
}

func TestLoad_NearestFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), `{"repository": {"url": "https://blobs.example.com", "timeout": "5s"}, "log": {"level": "debug"}}`)
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := Load(Options{Dir: nested})
	require.NoError(t, err)
	assert.Equal(t, "https://blobs.example.com", cfg.Repository.URL)
	assert.Equal(t, 5*time.Second, cfg.Repository.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, filepath.Join(root, FileName), cfg.File)
	assert.True(t, cfg.Remote())
}

func TestLoad_SkipsEmptyFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), `{"server": {"addr": ":9000"}}`)
	nested := filepath.Join(root, "child")
	writeFile(t, filepath.Join(nested, FileName), "  \n")

	cfg, err := Load(Options{Dir: nested})
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), `{"server": {"addr": ":9000"}, "cache": {"ttl": "1h"}}`)
	t.Setenv("BLOBDIFF_SERVER_ADDR", ":7000")
	t.Setenv("BLOBDIFF_DIFF_UTF16_COLUMNS", "true")
	t.Setenv("BLOBDIFF_REPOSITORY_API_KEY", "secret")

	cfg, err := Load(Options{Dir: root})
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.True(t, cfg.Diff.UTF16Columns)
	assert.Equal(t, "secret", cfg.Repository.APIKey)
}

func TestLoad_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.json")
	writeFile(t, path, `{"search": {"count_preflight": false}}`)

	cfg, err := Load(Options{Path: path})
	require.NoError(t, err)
	assert.False(t, cfg.Search.CountPreflight)
	assert.Equal(t, path, cfg.File)

	_, err = Load(Options{Path: filepath.Join(t.TempDir(), "missing.json")})
	assert.Error(t, err)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad json", content: `{"server": `},
		{name: "bad url", content: `{"repository": {"url": "ftp://x"}}`},
		{name: "url without host", content: `{"repository": {"url": "https://"}}`},
		{name: "bad level", content: `{"log": {"level": "loud"}}`},
		{name: "bad duration", content: `{"repository": {"timeout": "soon"}}`},
		{name: "negative ttl", content: `{"cache": {"ttl": "-1s"}}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, filepath.Join(root, FileName), tc.content)
			_, err := Load(Options{Dir: root})
			assert.Error(t, err)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "x", "y.json"), ExpandPath("~/x/y.json"))
	assert.True(t, filepath.IsAbs(ExpandPath("relative.json")))
}
