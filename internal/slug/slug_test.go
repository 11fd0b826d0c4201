package slug

import (
	"testing"

	"github.com/standardbeagle/vaultproc/internal/catalog"
	"github.com/standardbeagle/vaultproc/internal/config"
	"github.com/standardbeagle/vaultproc/internal/issues"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(relPath, parent, filename, fmSlug string) *catalog.ParsedPost {
	fm := catalog.NewFrontmatter()
	if fmSlug != "" {
		fm.Set("slug", catalog.Value{Kind: catalog.ValueString, Str: fmSlug})
	}
	return &catalog.ParsedPost{
		File: catalog.FileDescriptor{
			RelPath:      relPath,
			ParentFolder: parent,
			Filename:     filename,
		},
		Frontmatter: fm,
		ASTSource:   []byte(relPath),
	}
}

func TestAllocate_FrontmatterSlugPriority(t *testing.T) {
	a := post("a.md", "", "a", "shared")
	b := post("b.md", "", "shared", "")

	cfg := config.Default()
	coll := issues.New()
	assigns := Allocate([]*catalog.ParsedPost{a, b}, &cfg, coll)

	require.Len(t, assigns, 2)
	assert.Equal(t, "shared", assigns[0].Slug)
	assert.Equal(t, "shared2", assigns[1].Slug)
	assert.Equal(t, 1, coll.Len())
	assert.Equal(t, issues.KindSlugConflict, coll.All()[0].Kind)
}

func TestAllocate_SoleIndexUsesParentFolder(t *testing.T) {
	p := post("foo/index.md", "foo", "index", "")

	cfg := config.Default()
	coll := issues.New()
	assigns := Allocate([]*catalog.ParsedPost{p}, &cfg, coll)

	require.Len(t, assigns, 1)
	assert.Equal(t, "foo", assigns[0].Slug)
}

func TestAllocate_IndexWithSiblingsUsesFolderPrefixedSlug(t *testing.T) {
	idx := post("foo/index.md", "foo", "index", "")
	sibling := post("foo/notes.md", "foo", "notes", "")

	cfg := config.Default()
	coll := issues.New()
	assigns := Allocate([]*catalog.ParsedPost{idx, sibling}, &cfg, coll)

	require.Len(t, assigns, 2)
	assert.Equal(t, "foo-index", assigns[0].Slug)
	assert.Equal(t, "notes", assigns[1].Slug)
}

func TestAllocate_HashStrategyAppendsContentDigest(t *testing.T) {
	a := post("a.md", "", "shared", "")
	b := post("b.md", "", "shared", "")

	cfg := config.Default()
	cfg.SlugStrategy = "hash"
	coll := issues.New()
	assigns := Allocate([]*catalog.ParsedPost{a, b}, &cfg, coll)

	require.Len(t, assigns, 2)
	assert.Equal(t, "shared", assigns[0].Slug)
	assert.True(t, assigns[1].Info.IsDisambiguated)
	assert.Contains(t, assigns[1].Slug, "shared-")
	assert.NotEqual(t, "shared", assigns[1].Slug)
}

func TestAllocate_EverySlugUnique(t *testing.T) {
	posts := []*catalog.ParsedPost{
		post("a.md", "", "dup", ""),
		post("b.md", "", "dup", ""),
		post("c.md", "", "dup", ""),
	}
	cfg := config.Default()
	coll := issues.New()
	assigns := Allocate(posts, &cfg, coll)

	seen := map[string]bool{}
	for _, a := range assigns {
		assert.False(t, seen[a.Slug], "duplicate slug %s", a.Slug)
		seen[a.Slug] = true
	}
}

func TestOf_Slugify(t *testing.T) {
	assert.Equal(t, "hello-world", Of("Hello World!"))
	assert.Equal(t, "a-b-c", Of("A_B--C"))
}
