package catalog

// MediaCatalog is C2's frozen output: the descriptor list plus the index
// maps C5 and C7 consume (pathMap, pathHashMap, pathUrlMap, and the
// inverted hash→url map).
type MediaCatalog struct {
	Media       []*MediaDescriptor
	PathMap     map[string]string // original-relative-path -> best-variant URL (and hashPath -> URL when hashing)
	PathHashMap map[string]string // original-relative-path -> content hash
	PathUrlMap  map[string]string // original-relative-path -> best-variant URL
	HashUrlMap  map[string]string // content hash -> best-variant URL
	byFilename  map[string][]*MediaDescriptor
}

// NewMediaCatalog builds the index maps from a finished media descriptor
// slice, selecting each descriptor's best variant via sizeOrder/formatOrder.
func NewMediaCatalog(media []*MediaDescriptor, sizeOrder, formatOrder []string) *MediaCatalog {
	c := &MediaCatalog{
		Media:       media,
		PathMap:     make(map[string]string, len(media)),
		PathHashMap: make(map[string]string, len(media)),
		PathUrlMap:  make(map[string]string, len(media)),
		HashUrlMap:  make(map[string]string, len(media)),
		byFilename:  make(map[string][]*MediaDescriptor),
	}
	for _, m := range media {
		c.byFilename[m.Filename] = append(c.byFilename[m.Filename], m)

		best, ok := m.BestVariant(sizeOrder, formatOrder)
		if !ok {
			continue
		}
		url := best.PublicPath
		c.PathMap[m.OriginalRelPath] = url
		c.PathUrlMap[m.OriginalRelPath] = url
		if m.ContentHash != "" {
			c.PathHashMap[m.OriginalRelPath] = m.ContentHash
			c.HashUrlMap[m.ContentHash] = url
			if m.HashPath != "" {
				c.PathMap[m.HashPath] = url
			}
		}
	}
	return c
}

// ByFilename returns every media descriptor sharing filename, used by the
// body-resolution fallback which may match on filename equality as a last
// resort (frontmatter resolution never falls back this way).
func (c *MediaCatalog) ByFilename(filename string) []*MediaDescriptor {
	return c.byFilename[filename]
}
