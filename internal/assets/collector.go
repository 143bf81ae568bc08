// Package assets collects the platform's static assets into their served
// location, writing a content-hash manifest and optionally verifying that
// collected HTML only references assets that exist.
package assets

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ManifestName is the manifest file written into the collect root.
const ManifestName = "staticfiles.manifest.json"

// hashLen is the number of hex digits of the content hash carried in hashed
// filenames.
const hashLen = 12

// copyConcurrency bounds the hash/copy fan-out.
const copyConcurrency = 8

// Collector copies static files from source roots into the collect root.
// When the same logical path exists in several roots, the first root wins.
type Collector struct {
	SourceRoots []string
	CollectRoot string
	// VerifyReferences fails collection when collected HTML references a
	// static file that was not collected.
	VerifyReferences bool
}

// Manifest maps logical asset paths to their content-hashed names.
type Manifest struct {
	Version string            `json:"version"`
	Paths   map[string]string `json:"paths"`
}

// Result summarizes a collection run.
type Result struct {
	Copied   int
	Manifest Manifest
}

// Collect materializes the static tree. It is idempotent: recollecting the
// same sources produces the same collect root contents.
func (c *Collector) Collect(ctx context.Context) (*Result, error) {
	if c.CollectRoot == "" {
		return nil, fmt.Errorf("no collect root configured")
	}

	files, err := c.gather()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(c.CollectRoot, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create collect root %s: %w", c.CollectRoot, err)
	}

	manifest := Manifest{Version: "1.0", Paths: make(map[string]string, len(files))}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(copyConcurrency)

	for logical, source := range files {
		logical, source := logical, source
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			hashed, err := c.copyOne(logical, source)
			if err != nil {
				return err
			}
			mu.Lock()
			manifest.Paths[logical] = hashed
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := c.writeManifest(manifest); err != nil {
		return nil, err
	}

	if c.VerifyReferences {
		broken, err := VerifyReferences(c.CollectRoot, manifest.Paths)
		if err != nil {
			return nil, err
		}
		if len(broken) > 0 {
			return nil, &BrokenReferenceError{References: broken}
		}
	}

	return &Result{Copied: len(files), Manifest: manifest}, nil
}

// gather walks every source root and resolves logical path collisions,
// first root wins.
func (c *Collector) gather() (map[string]string, error) {
	files := make(map[string]string)
	for _, root := range c.SourceRoots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("asset source root %s: %w", root, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("asset source root %s is not a directory", root)
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			logical := filepath.ToSlash(rel)
			if _, seen := files[logical]; !seen {
				files[logical] = path
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk asset root %s: %w", root, err)
		}
	}
	return files, nil
}

// copyOne copies source to the collect root under its logical path and under
// its hashed name, returning the hashed logical path.
func (c *Collector) copyOne(logical, source string) (string, error) {
	data, err := os.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf("failed to read asset %s: %w", source, err)
	}

	sum := sha256.Sum256(data)
	hashed := hashedPath(logical, hex.EncodeToString(sum[:])[:hashLen])

	for _, target := range []string{logical, hashed} {
		dest := filepath.Join(c.CollectRoot, filepath.FromSlash(target))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return "", fmt.Errorf("failed to create asset directory for %s: %w", target, err)
		}
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return "", fmt.Errorf("failed to write asset %s: %w", target, err)
		}
	}
	return hashed, nil
}

func (c *Collector) writeManifest(m Manifest) error {
	path := filepath.Join(c.CollectRoot, ManifestName)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// hashedPath turns "css/site.css" + "abc123" into "css/site.abc123.css".
func hashedPath(logical, hash string) string {
	dir, file := splitPath(logical)
	ext := filepath.Ext(file)
	name := strings.TrimSuffix(file, ext)
	hashedFile := name + "." + hash + ext
	if dir == "" {
		return hashedFile
	}
	return dir + "/" + hashedFile
}

func splitPath(logical string) (dir, file string) {
	idx := strings.LastIndex(logical, "/")
	if idx < 0 {
		return "", logical
	}
	return logical[:idx], logical[idx+1:]
}

// Dump renders the manifest for diagnostics, sorted by logical path.
func (m Manifest) Dump(w io.Writer) {
	keys := make([]string, 0, len(m.Paths))
	for k := range m.Paths {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s -> %s\n", k, m.Paths[k])
	}
}
