package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMediaCatalog_BuildsPathAndHashMaps(t *testing.T) {
	media := []*MediaDescriptor{
		{
			OriginalRelPath: "images/cat.png",
			Filename:        "cat",
			ContentHash:     "abc123",
			HashPath:        "media/abc123.webp",
			Sizes: map[string][]MediaVariant{
				"lg": {{SizeName: "lg", Format: "webp", PublicPath: "/media/cat-lg.webp"}},
			},
		},
	}

	cat := NewMediaCatalog(media, []string{"lg"}, []string{"webp"})

	assert.Equal(t, "/media/cat-lg.webp", cat.PathMap["images/cat.png"])
	assert.Equal(t, "/media/cat-lg.webp", cat.PathMap["media/abc123.webp"])
	assert.Equal(t, "/media/cat-lg.webp", cat.PathUrlMap["images/cat.png"])
	assert.Equal(t, "abc123", cat.PathHashMap["images/cat.png"])
	assert.Equal(t, "/media/cat-lg.webp", cat.HashUrlMap["abc123"])
	assert.Equal(t, media, cat.ByFilename("cat"))
}

func TestNewMediaCatalog_SkipsEntriesWithNoResolvableVariant(t *testing.T) {
	media := []*MediaDescriptor{
		{OriginalRelPath: "images/missing.png", Filename: "missing", Sizes: map[string][]MediaVariant{}},
	}

	cat := NewMediaCatalog(media, []string{"lg"}, []string{"webp"})

	_, ok := cat.PathMap["images/missing.png"]
	assert.False(t, ok)
}

func TestMediaCatalog_ByFilename_UnknownReturnsNil(t *testing.T) {
	cat := NewMediaCatalog(nil, nil, nil)
	assert.Nil(t, cat.ByFilename("nope"))
}
