package assets

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckable(t *testing.T) {
	tests := []struct {
		ref      string
		expected bool
	}{
		{"css/site.css", true},
		{"/static/app.js", true},
		{"../img/logo.png", true},
		{"https://cdn.example.com/lib.js", false},
		{"http://example.com/x.css", false},
		{"//cdn.example.com/lib.js", false},
		{"data:image/png;base64,AAAA", false},
		{"#main", false},
		{"{{ static 'css/site.css' }}", false},
		{"{% static 'css/site.css' %}", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			assert.Equal(t, tt.expected, checkable(tt.ref))
		})
	}
}

func TestVerifyReferencesFindsMissingAssets(t *testing.T) {
	src := t.TempDir()
	writeFile(t, src, "css/site.css", "body {}")
	writeFile(t, src, "index.html", `<!doctype html>
<html><head>
  <link rel="stylesheet" href="css/site.css">
  <script src="js/missing.js"></script>
  <script src="https://cdn.example.com/external.js"></script>
</head><body>
  <img src="img/gone.png">
</body></html>`)

	collect := filepath.Join(t.TempDir(), "staticfiles")
	c := &Collector{SourceRoots: []string{src}, CollectRoot: collect, VerifyReferences: true}

	_, err := c.Collect(context.Background())
	require.Error(t, err)

	var brokenErr *BrokenReferenceError
	require.ErrorAs(t, err, &brokenErr)
	require.Len(t, brokenErr.References, 2)

	refs := []string{brokenErr.References[0].Ref, brokenErr.References[1].Ref}
	assert.Contains(t, refs, "js/missing.js")
	assert.Contains(t, refs, "img/gone.png")
	assert.Contains(t, err.Error(), "broken static reference")
}

func TestVerifyReferencesPassesWhenResolved(t *testing.T) {
	src := t.TempDir()
	writeFile(t, src, "css/site.css", "body {}")
	writeFile(t, src, "js/app.js", "void 0")
	writeFile(t, src, "pages/about.html", `<html><head>
  <link rel="stylesheet" href="../css/site.css">
  <link rel="stylesheet" href="/css/site.css">
  <script src="../js/app.js?v=3"></script>
</head></html>`)

	collect := filepath.Join(t.TempDir(), "staticfiles")
	c := &Collector{SourceRoots: []string{src}, CollectRoot: collect, VerifyReferences: true}

	res, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Copied)
}

func TestResolvesHashedReferences(t *testing.T) {
	known := map[string]bool{
		"css/site.css":              true,
		"css/site.abc123abc123.css": true,
	}
	assert.True(t, resolves("index.html", "css/site.abc123abc123.css", known))
	assert.False(t, resolves("index.html", "css/other.css", known))
}
