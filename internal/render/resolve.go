package render

import (
	"path"
	"strings"

	"github.com/standardbeagle/vaultproc/internal/catalog"
	"github.com/standardbeagle/vaultproc/internal/config"
	"github.com/standardbeagle/vaultproc/internal/issues"
	"github.com/standardbeagle/vaultproc/internal/slug"
)

// splitSuffix separates a leading fragment/query (beginning with '#' or
// '?') from the path portion of a reference, per spec.md §4.5's "plus any
// fragment/query preserved from the source reference".
func splitSuffix(target string) (clean, suffix string) {
	idx := strings.IndexAny(target, "#?")
	if idx < 0 {
		return target, ""
	}
	return target[:idx], target[idx:]
}

// isExternal reports whether dest should bypass internal link resolution:
// already a fragment-only anchor, or carries a recognized external scheme.
func isExternal(dest string) bool {
	d := strings.TrimSpace(dest)
	if d == "" || strings.HasPrefix(d, "#") {
		return true
	}
	lower := strings.ToLower(d)
	for _, scheme := range []string{"http://", "https://", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return false
}

// ResolvePostLink implements spec.md §4.5's link resolution order: explicit
// slug (as written, then slugified), exact filename, exact
// original-relative-path, case-insensitive alias
// (lexicographically-smallest-slug tie-break), else a broken-link
// placeholder with a recorded diagnostic.
func ResolvePostLink(target, sourceRelPath string, postCat *catalog.PostCatalog, coll *issues.Collector, notesPrefix string) string {
	clean, suffix := splitSuffix(target)
	if clean == "" {
		return notesPrefix + "/" + suffix
	}

	if p, ok := postCat.BySlug[clean]; ok {
		return notesPrefix + "/" + p.Slug + suffix
	}
	if p, ok := postCat.BySlug[slug.Of(clean)]; ok {
		return notesPrefix + "/" + p.Slug + suffix
	}
	if p, ok := postCat.ByFilename[clean]; ok {
		return notesPrefix + "/" + p.Slug + suffix
	}
	if p, ok := postCat.ByOrigPath[clean]; ok {
		return notesPrefix + "/" + p.Slug + suffix
	}
	if p, ok := postCat.ResolveAlias(clean); ok {
		return notesPrefix + "/" + p.Slug + suffix
	}

	coll.BrokenLink(sourceRelPath, target, issues.LinkWiki)
	return "#broken-link-" + clean
}

// ResolveMediaLink normalizes target against the source file's directory
// and the vault root, consults the media path map in strict order, and
// falls back to filename equality only for from == issues.FromBody.
func ResolveMediaLink(target, sourceDir, sourceRelPath string, mediaCat *catalog.MediaCatalog, coll *issues.Collector, from issues.ReferencedFrom) string {
	clean, suffix := splitSuffix(target)
	if clean == "" {
		coll.MissingMedia(sourceRelPath, clean, from, target, "render")
		return "#broken-link-" + clean
	}

	candidates := mediaCandidatePaths(clean, sourceDir)
	for _, c := range candidates {
		if url, ok := mediaCat.PathMap[c]; ok {
			return url + suffix
		}
	}

	if from == issues.FromBody {
		base := path.Base(clean)
		if descs := mediaCat.ByFilename(base); len(descs) > 0 {
			if best, ok := descs[0].BestVariant(config.BestSizeOrder, config.BestFormatOrder); ok {
				return best.PublicPath + suffix
			}
		}
	}

	coll.MissingMedia(sourceRelPath, clean, from, target, "render")
	return "#broken-link-" + clean
}

// findMediaDescriptor locates the MediaDescriptor a raw frontmatter
// reference resolves to, using the same candidate-path order as
// ResolveMediaLink and, like frontmatter resolution there, no filename
// fallback, so frontmatter expansion can read its size variants instead of
// just its best-variant URL.
func findMediaDescriptor(target, sourceDir string, mediaCat *catalog.MediaCatalog) (*catalog.MediaDescriptor, bool) {
	clean, _ := splitSuffix(target)
	if clean == "" {
		return nil, false
	}
	candidates := mediaCandidatePaths(clean, sourceDir)
	for _, c := range candidates {
		for _, m := range mediaCat.Media {
			if m.OriginalRelPath == c {
				return m, true
			}
		}
	}
	return nil, false
}

// mediaCandidatePaths builds the ordered set of vault-relative paths a raw
// reference could resolve to: as-written (vault-root-relative) first, then
// relative to the referencing file's own directory.
func mediaCandidatePaths(clean, sourceDir string) []string {
	seen := map[string]bool{}
	var out []string
	add := func(p string) {
		p = path.Clean(p)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	add(clean)
	if sourceDir != "" {
		add(path.Join(sourceDir, clean))
	}
	return out
}
