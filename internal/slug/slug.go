// Package slug implements C4, the Slug Allocator: a single-threaded,
// two-phase pass over the parsed posts that assigns every included file
// exactly one unique slug, grounded on lci/internal/indexing's
// deterministic single-pass aggregation style (no worker pool; the
// allocator mutates one map and must run after parsing completes).
package slug

import (
	"encoding/hex"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/standardbeagle/vaultproc/internal/catalog"
	"github.com/standardbeagle/vaultproc/internal/config"
	"github.com/standardbeagle/vaultproc/internal/debug"
	"github.com/standardbeagle/vaultproc/internal/issues"
)

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
	trimDashes   = regexp.MustCompile(`^-+|-+$`)
)

// Of slugifies an arbitrary string: lowercase, non-alphanumerics collapsed
// to single hyphens, leading/trailing hyphens trimmed.
func Of(s string) string {
	lower := strings.ToLower(s)
	dashed := nonSlugChars.ReplaceAllString(lower, "-")
	return trimDashes.ReplaceAllString(dashed, "")
}

// Assignment is one file's final slug allocation outcome.
type Assignment struct {
	File  catalog.ParsedPost
	Slug  string
	Info  catalog.SlugInfo
}

// byDirCount groups parsed posts to detect "sole occupant of its
// directory" for the index.md special case.
func byDirCount(posts []*catalog.ParsedPost) map[string]int {
	counts := make(map[string]int)
	for _, p := range posts {
		counts[p.File.ParentFolder]++
	}
	return counts
}

// Allocate runs the two-phase algorithm over posts in their given (walker)
// order, which must already be the deterministic enumeration order.
func Allocate(posts []*catalog.ParsedPost, cfg *config.Config, coll *issues.Collector) []Assignment {
	owned := make(map[string]string) // slug -> owning file's original path
	assignments := make([]Assignment, len(posts))
	dirCounts := byDirCount(posts)

	claimed := make([]bool, len(posts))

	// Phase A: frontmatter claims, in input order.
	for i, p := range posts {
		fmSlug := p.Frontmatter.StringOr("slug", "")
		if fmSlug == "" {
			continue
		}
		desired := Of(fmSlug)
		final := disambiguate(desired, p, owned, cfg, coll)
		owned[final] = p.File.RelPath
		assignments[i] = Assignment{File: *p, Slug: final, Info: catalog.SlugInfo{
			Desired: desired, Final: final, IsDisambiguated: final != desired,
		}}
		claimed[i] = true
	}

	// Phase B: derived claims.
	for i, p := range posts {
		if claimed[i] {
			continue
		}
		desired := derivedSlug(p, dirCounts)
		final := disambiguate(desired, p, owned, cfg, coll)
		owned[final] = p.File.RelPath
		assignments[i] = Assignment{File: *p, Slug: final, Info: catalog.SlugInfo{
			Desired: desired, Final: final, IsDisambiguated: final != desired,
		}}
	}

	debug.LogSlug("allocated %d slugs", len(assignments))
	return assignments
}

// derivedSlug implements Phase B: slug_of(filename), unless filename is
// exactly "index", in which case the parent folder's name disambiguates
// it up front rather than waiting for a numeric collision suffix:
// slug_of(basename(parentFolder)) when the file is the sole occupant of
// its directory, slug_of(basename(parentFolder) + "-index") otherwise.
func derivedSlug(p *catalog.ParsedPost, dirCounts map[string]int) string {
	if p.File.Filename != "index" {
		return Of(p.File.Filename)
	}
	base := path.Base(p.File.ParentFolder)
	if base == "." || base == "/" || base == "" {
		return Of(p.File.Filename)
	}
	if dirCounts[p.File.ParentFolder] == 1 {
		return Of(base)
	}
	return Of(base + "-index")
}

// disambiguate resolves a collision with owned using cfg.SlugStrategy,
// reporting every disambiguation to coll.
func disambiguate(desired string, p *catalog.ParsedPost, owned map[string]string, cfg *config.Config, coll *issues.Collector) string {
	if _, taken := owned[desired]; !taken {
		return desired
	}

	conflicting := []string{owned[desired], p.File.RelPath}

	var final string
	if cfg.SlugStrategy == "hash" {
		final = desired + "-" + shortHash(p)
		for n := 2; ownedHas(owned, final); n++ {
			final = desired + "-" + shortHash(p) + strconv.Itoa(n)
		}
	} else {
		n := 2
		for {
			candidate := desired + strconv.Itoa(n)
			if _, taken := owned[candidate]; !taken {
				final = candidate
				break
			}
			conflicting = append(conflicting, owned[candidate])
			n++
		}
	}

	sort.Strings(conflicting)
	coll.SlugConflict(p.File.RelPath, desired, final, conflicting)
	return final
}

func ownedHas(owned map[string]string, slug string) bool {
	_, ok := owned[slug]
	return ok
}

func shortHash(p *catalog.ParsedPost) string {
	sum := fnv64(p.ASTSource)
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(sum >> (56 - 8*i))
	}
	return hex.EncodeToString(b)[:8]
}

// fnv64 is a tiny deterministic fallback digest used only to derive the
// hash-strategy suffix from raw source bytes when no content hash is
// otherwise available at this phase.
func fnv64(data []byte) uint64 {
	var h uint64 = 14695981039346656037
	for _, b := range data {
		h ^= uint64(b)
		h *= 1099511628211
	}
	return h
}
