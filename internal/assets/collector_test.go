package assets

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, contents string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestCollectCopiesAndHashes(t *testing.T) {
	src := t.TempDir()
	writeFile(t, src, "css/site.css", "body { color: black }")
	writeFile(t, src, "js/app.js", "console.log('hi')")

	collect := filepath.Join(t.TempDir(), "staticfiles")
	c := &Collector{SourceRoots: []string{src}, CollectRoot: collect}

	res, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Copied)

	// Plain copies exist.
	assert.FileExists(t, filepath.Join(collect, "css", "site.css"))
	assert.FileExists(t, filepath.Join(collect, "js", "app.js"))

	// Hashed copies exist and are recorded in the manifest.
	hashed, ok := res.Manifest.Paths["css/site.css"]
	require.True(t, ok)
	assert.Regexp(t, `^css/site\.[0-9a-f]{12}\.css$`, hashed)
	assert.FileExists(t, filepath.Join(collect, filepath.FromSlash(hashed)))

	// Manifest file is written and parses back.
	data, err := os.ReadFile(filepath.Join(collect, ManifestName))
	require.NoError(t, err)
	var m Manifest
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, res.Manifest.Paths, m.Paths)
	assert.Equal(t, "1.0", m.Version)
}

func TestCollectIsIdempotent(t *testing.T) {
	src := t.TempDir()
	writeFile(t, src, "css/site.css", "body {}")

	collect := filepath.Join(t.TempDir(), "staticfiles")
	c := &Collector{SourceRoots: []string{src}, CollectRoot: collect}

	first, err := c.Collect(context.Background())
	require.NoError(t, err)
	second, err := c.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Manifest.Paths, second.Manifest.Paths)
}

func TestCollectFirstRootWins(t *testing.T) {
	primary := t.TempDir()
	override := t.TempDir()
	writeFile(t, primary, "logo.svg", "<svg>primary</svg>")
	writeFile(t, override, "logo.svg", "<svg>other</svg>")
	writeFile(t, override, "extra.css", "p {}")

	collect := filepath.Join(t.TempDir(), "staticfiles")
	c := &Collector{SourceRoots: []string{primary, override}, CollectRoot: collect}

	res, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Copied)

	data, err := os.ReadFile(filepath.Join(collect, "logo.svg"))
	require.NoError(t, err)
	assert.Equal(t, "<svg>primary</svg>", string(data))
}

func TestCollectMissingSourceRoot(t *testing.T) {
	c := &Collector{
		SourceRoots: []string{filepath.Join(t.TempDir(), "missing")},
		CollectRoot: filepath.Join(t.TempDir(), "staticfiles"),
	}
	_, err := c.Collect(context.Background())
	assert.Error(t, err)
}

func TestHashedPath(t *testing.T) {
	tests := []struct {
		logical  string
		hash     string
		expected string
	}{
		{"css/site.css", "abc123", "css/site.abc123.css"},
		{"logo.svg", "deadbeef", "logo.deadbeef.svg"},
		{"fonts/icons.woff2", "0011", "fonts/icons.0011.woff2"},
		{"README", "ff", "README.ff"},
	}
	for _, tt := range tests {
		t.Run(tt.logical, func(t *testing.T) {
			assert.Equal(t, tt.expected, hashedPath(tt.logical, tt.hash))
		})
	}
}
