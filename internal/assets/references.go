package assets

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// BrokenReference is a static reference in collected HTML that resolves to a
// file missing from the collected tree.
type BrokenReference struct {
	Page string // HTML file containing the reference
	Ref  string // the href/src value as written
}

// BrokenReferenceError reports all broken references found during
// verification.
type BrokenReferenceError struct {
	References []BrokenReference
}

func (e *BrokenReferenceError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d broken static reference(s):", len(e.References))
	for _, r := range e.References {
		fmt.Fprintf(&sb, "\n  %s -> %s", r.Page, r.Ref)
	}
	return sb.String()
}

// VerifyReferences parses every collected HTML page and checks that local
// static references (link href, script src, img src) resolve to a collected
// asset. External URLs, anchors, data URIs and template expressions are
// ignored. Only the logical pages from the manifest are checked; their
// hashed copies carry the same content.
func VerifyReferences(collectRoot string, paths map[string]string) ([]BrokenReference, error) {
	known := make(map[string]bool, len(paths)*2)
	var pages []string
	for logical, hashed := range paths {
		known[logical] = true
		known[hashed] = true
		if strings.HasSuffix(strings.ToLower(logical), ".html") {
			pages = append(pages, logical)
		}
	}
	sort.Strings(pages)

	var broken []BrokenReference
	for _, page := range pages {
		refs, err := extractReferences(filepath.Join(collectRoot, filepath.FromSlash(page)))
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", page, err)
		}
		for _, ref := range refs {
			if !resolves(page, ref, known) {
				broken = append(broken, BrokenReference{Page: page, Ref: ref})
			}
		}
	}
	return broken, nil
}

// extractReferences returns the checkable href/src values in an HTML file.
func extractReferences(htmlPath string) ([]string, error) {
	f, err := os.Open(htmlPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, err
	}

	var refs []string
	collect := func(attr string) func(int, *goquery.Selection) {
		return func(_ int, s *goquery.Selection) {
			val, ok := s.Attr(attr)
			if ok && checkable(val) {
				refs = append(refs, val)
			}
		}
	}
	doc.Find("link[href]").Each(collect("href"))
	doc.Find("script[src]").Each(collect("src"))
	doc.Find("img[src]").Each(collect("src"))
	return refs, nil
}

// checkable reports whether a reference points at a local static file.
func checkable(ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return false
	}
	for _, prefix := range []string{"http://", "https://", "//", "data:", "mailto:", "#"} {
		if strings.HasPrefix(ref, prefix) {
			return false
		}
	}
	// Server-side template expressions are resolved at render time.
	if strings.Contains(ref, "{{") || strings.Contains(ref, "{%") {
		return false
	}
	return true
}

// resolves checks a reference against the collected logical paths, relative
// to the referencing page and to the collect root.
func resolves(page, ref string, known map[string]bool) bool {
	ref = strings.TrimSpace(ref)
	if idx := strings.IndexAny(ref, "?#"); idx >= 0 {
		ref = ref[:idx]
	}
	if ref == "" {
		return true
	}

	if strings.HasPrefix(ref, "/") {
		return known[strings.TrimPrefix(ref, "/")]
	}

	relative := path.Join(path.Dir(page), ref)
	return known[relative] || known[path.Clean(ref)]
}
