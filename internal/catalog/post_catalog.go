package catalog

import "strings"

// PostCatalog is the frozen index C4/C5 build over the final post set:
// filesBySlug, filesByOriginalPath, filesByFilename, filesByAlias (per
// spec.md's Link Resolver section).
type PostCatalog struct {
	Posts       []*Post
	BySlug      map[string]*Post
	ByOrigPath  map[string]*Post
	ByFilename  map[string]*Post
	ByAlias     map[string][]*Post // case-insensitive key, multivalued
}

// NewPostCatalog builds the index maps from a finished post slice. Posts
// must already carry their final slug.
func NewPostCatalog(posts []*Post) *PostCatalog {
	c := &PostCatalog{
		Posts:      posts,
		BySlug:     make(map[string]*Post, len(posts)),
		ByOrigPath: make(map[string]*Post, len(posts)),
		ByFilename: make(map[string]*Post, len(posts)),
		ByAlias:    make(map[string][]*Post),
	}
	for _, p := range posts {
		c.BySlug[p.Slug] = p
		c.ByOrigPath[p.File.RelPath] = p
		c.ByFilename[p.File.Filename] = p

		if v, ok := p.Frontmatter.Get("aliases"); ok {
			for _, alias := range flattenAliasValue(v) {
				key := strings.ToLower(alias)
				c.ByAlias[key] = append(c.ByAlias[key], p)
			}
		}
	}
	return c
}

func flattenAliasValue(v Value) []string {
	switch v.Kind {
	case ValueString:
		return []string{v.Str}
	case ValueSequence:
		var out []string
		for _, item := range v.Sequence {
			out = append(out, flattenAliasValue(item)...)
		}
		return out
	default:
		return nil
	}
}

// ResolveAlias returns the lexicographically smallest final slug among the
// files claiming alias (case-insensitive), for deterministic tie-breaking
// when an alias is multivalued, and whether any match was found.
func (c *PostCatalog) ResolveAlias(alias string) (*Post, bool) {
	candidates, ok := c.ByAlias[strings.ToLower(alias)]
	if !ok || len(candidates) == 0 {
		return nil, false
	}
	best := candidates[0]
	for _, p := range candidates[1:] {
		if p.Slug < best.Slug {
			best = p
		}
	}
	return best, true
}
