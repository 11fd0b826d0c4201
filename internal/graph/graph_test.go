package graph

import (
	"testing"

	"github.com/standardbeagle/vaultproc/internal/catalog"
	"github.com/standardbeagle/vaultproc/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_CreatesPostLinkEdge(t *testing.T) {
	a := &catalog.Post{Hash: "hash-a", Slug: "a", File: catalog.FileDescriptor{Filename: "a"}, HTML: `<p><a href="/notes/b">B</a></p>`}
	b := &catalog.Post{Hash: "hash-b", Slug: "b", File: catalog.FileDescriptor{Filename: "b"}, HTML: `<p>no links</p>`}
	posts := []*catalog.Post{a, b}
	mediaCat := catalog.NewMediaCatalog(nil, config.BestSizeOrder, config.BestFormatOrder)
	cfg := config.Default()

	g := Build(posts, mediaCat, &cfg)

	require.Len(t, g.Edges, 1)
	assert.Equal(t, catalog.EdgePostLinksToPost, g.Edges[0].Type)
	assert.Equal(t, "hash-a", g.Edges[0].Source)
	assert.Equal(t, "hash-b", g.Edges[0].Target)
	assert.Equal(t, []string{"hash-b"}, a.Links)
}

func TestBuild_CreatesMediaUseEdgeAndNode(t *testing.T) {
	media := &catalog.MediaDescriptor{
		OriginalRelPath: "photo.jpg", Filename: "photo.jpg",
		Sizes: map[string][]catalog.MediaVariant{"original": {{PublicPath: "/media/photo.jpg"}}},
	}
	mediaCat := catalog.NewMediaCatalog([]*catalog.MediaDescriptor{media}, config.BestSizeOrder, config.BestFormatOrder)
	a := &catalog.Post{Hash: "hash-a", Slug: "a", File: catalog.FileDescriptor{Filename: "a"}, HTML: `<img src="/media/photo.jpg">`}
	cfg := config.Default()

	g := Build([]*catalog.Post{a}, mediaCat, &cfg)

	require.Len(t, g.Edges, 1)
	assert.Equal(t, catalog.EdgePostUsesImage, g.Edges[0].Type)
	foundMediaNode := false
	for _, n := range g.Nodes {
		if n.Type == "media" {
			foundMediaNode = true
			assert.Equal(t, "photo.jpg", n.Label)
		}
	}
	assert.True(t, foundMediaNode)
}

func TestBuild_SkipsExternalAndAnchorLinks(t *testing.T) {
	a := &catalog.Post{Hash: "hash-a", Slug: "a", File: catalog.FileDescriptor{Filename: "a"},
		HTML: `<a href="https://example.com">ext</a><a href="#frag">frag</a><a href="mailto:x@y.com">mail</a>`}
	mediaCat := catalog.NewMediaCatalog(nil, config.BestSizeOrder, config.BestFormatOrder)
	cfg := config.Default()

	g := Build([]*catalog.Post{a}, mediaCat, &cfg)
	assert.Empty(t, g.Edges)
}

func TestBuild_DedupesRepeatedLinkToSameTarget(t *testing.T) {
	a := &catalog.Post{Hash: "hash-a", Slug: "a", File: catalog.FileDescriptor{Filename: "a"},
		HTML: `<a href="/notes/b">one</a><a href="/notes/b">two</a>`}
	b := &catalog.Post{Hash: "hash-b", Slug: "b", File: catalog.FileDescriptor{Filename: "b"}}
	mediaCat := catalog.NewMediaCatalog(nil, config.BestSizeOrder, config.BestFormatOrder)
	cfg := config.Default()

	g := Build([]*catalog.Post{a, b}, mediaCat, &cfg)
	require.Len(t, g.Edges, 1)
}
