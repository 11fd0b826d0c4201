package render

import (
	"testing"

	"github.com/standardbeagle/vaultproc/internal/catalog"
	"github.com/standardbeagle/vaultproc/internal/config"
	"github.com/standardbeagle/vaultproc/internal/issues"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parsedPost(relPath, parent, filename, body string) *catalog.ParsedPost {
	return &catalog.ParsedPost{
		File: catalog.FileDescriptor{
			RelPath:      relPath,
			ParentFolder: parent,
			Filename:     filename,
		},
		Frontmatter: catalog.NewFrontmatter(),
		ASTSource:   []byte(body),
		Title:       filename,
	}
}

func TestRender_WikiLinkResolvesToPostURL(t *testing.T) {
	a := parsedPost("a.md", "", "a", "See [[B]]")
	b := &catalog.Post{File: catalog.FileDescriptor{RelPath: "b.md", Filename: "b"}, Slug: "b", Frontmatter: catalog.NewFrontmatter()}
	postCat := catalog.NewPostCatalog([]*catalog.Post{b})
	mediaCat := catalog.NewMediaCatalog(nil, config.BestSizeOrder, config.BestFormatOrder)

	cfg := config.Default()
	coll := issues.New()
	post, err := Render("a", a, postCat, mediaCat, &cfg, coll)
	require.NoError(t, err)
	assert.Contains(t, post.HTML, `href="/notes/b"`)
	assert.Equal(t, 0, coll.Len())
}

func TestRender_BrokenWikiLinkRecordsIssue(t *testing.T) {
	a := parsedPost("a.md", "", "a", "See [[Nonexistent]]")
	postCat := catalog.NewPostCatalog(nil)
	mediaCat := catalog.NewMediaCatalog(nil, config.BestSizeOrder, config.BestFormatOrder)

	cfg := config.Default()
	coll := issues.New()
	post, err := Render("a", a, postCat, mediaCat, &cfg, coll)
	require.NoError(t, err)
	assert.Contains(t, post.HTML, `#broken-link-Nonexistent`)
	require.Equal(t, 1, coll.Len())
	assert.Equal(t, issues.KindBrokenLink, coll.All()[0].Kind)
}

func TestRender_HashIsStableAcrossIdenticalRuns(t *testing.T) {
	a := parsedPost("a.md", "", "a", "Hello world")
	postCat := catalog.NewPostCatalog(nil)
	mediaCat := catalog.NewMediaCatalog(nil, config.BestSizeOrder, config.BestFormatOrder)
	cfg := config.Default()

	p1, err := Render("a", a, postCat, mediaCat, &cfg, issues.New())
	require.NoError(t, err)
	p2, err := Render("a", a, postCat, mediaCat, &cfg, issues.New())
	require.NoError(t, err)
	assert.Equal(t, p1.Hash, p2.Hash)
	assert.NotEmpty(t, p1.Hash)
}

func TestRender_URLMatchesNotesPrefixPlusSlug(t *testing.T) {
	a := parsedPost("a.md", "", "a", "body")
	postCat := catalog.NewPostCatalog(nil)
	mediaCat := catalog.NewMediaCatalog(nil, config.BestSizeOrder, config.BestFormatOrder)
	cfg := config.Default()

	post, err := Render("a", a, postCat, mediaCat, &cfg, issues.New())
	require.NoError(t, err)
	assert.Equal(t, cfg.Paths.NotesPrefix+"/a", post.URL)
}

func TestRender_EmbeddedImageResolvesMediaURL(t *testing.T) {
	a := parsedPost("a.md", "", "a", "![[photo.jpg]]")
	media := &catalog.MediaDescriptor{
		OriginalRelPath: "photo.jpg",
		Filename:        "photo.jpg",
		Sizes: map[string][]catalog.MediaVariant{
			"original": {{SizeName: "original", Format: "jpeg", PublicPath: "/media/photo.jpg"}},
		},
	}
	mediaCat := catalog.NewMediaCatalog([]*catalog.MediaDescriptor{media}, config.BestSizeOrder, config.BestFormatOrder)
	postCat := catalog.NewPostCatalog(nil)
	cfg := config.Default()
	coll := issues.New()

	post, err := Render("a", a, postCat, mediaCat, &cfg, coll)
	require.NoError(t, err)
	assert.Contains(t, post.HTML, `src="/media/photo.jpg"`)
	assert.Equal(t, 0, coll.Len())
}
