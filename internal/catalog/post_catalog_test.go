package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPost(relPath, filename, slug, hash string, aliases ...string) *Post {
	fm := NewFrontmatter()
	if len(aliases) > 0 {
		var seq []Value
		for _, a := range aliases {
			seq = append(seq, Value{Kind: ValueString, Str: a})
		}
		fm.Set("aliases", Value{Kind: ValueSequence, Sequence: seq})
	}
	return &Post{
		File:        FileDescriptor{RelPath: relPath, Filename: filename},
		Frontmatter: fm,
		Slug:        slug,
		Hash:        hash,
	}
}

func TestNewPostCatalog_IndexesBySlugPathAndFilename(t *testing.T) {
	p1 := newTestPost("notes/alpha.md", "alpha", "alpha", "hash1")
	p2 := newTestPost("notes/beta.md", "beta", "beta", "hash2")

	cat := NewPostCatalog([]*Post{p1, p2})

	assert.Same(t, p1, cat.BySlug["alpha"])
	assert.Same(t, p2, cat.ByOrigPath["notes/beta.md"])
	assert.Same(t, p1, cat.ByFilename["alpha"])
}

func TestNewPostCatalog_IndexesAliasesCaseInsensitively(t *testing.T) {
	p := newTestPost("notes/alpha.md", "alpha", "alpha", "hash1", "Alpha Notes", "old-name")

	cat := NewPostCatalog([]*Post{p})

	assert.Contains(t, cat.ByAlias["alpha notes"], p)
	assert.Contains(t, cat.ByAlias["old-name"], p)
}

func TestPostCatalog_ResolveAlias_TieBreaksOnSmallestSlug(t *testing.T) {
	p1 := newTestPost("notes/b.md", "b", "zeta", "hash1", "shared")
	p2 := newTestPost("notes/a.md", "a", "alpha", "hash2", "shared")

	cat := NewPostCatalog([]*Post{p1, p2})

	best, ok := cat.ResolveAlias("Shared")
	require.True(t, ok)
	assert.Equal(t, "alpha", best.Slug)
}

func TestPostCatalog_ResolveAlias_Missing(t *testing.T) {
	cat := NewPostCatalog(nil)
	_, ok := cat.ResolveAlias("nope")
	assert.False(t, ok)
}
