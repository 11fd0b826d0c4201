// Package graph implements C6, the Relationship/Graph Builder: a single
// pass over every rendered post's HTML extracting POST_LINKS_TO_POST and
// POST_USE_IMAGE edges, grounded on lci's single-threaded post-index
// aggregation style (it runs after C5 freezes every post, same as the
// slug allocator runs after C3 freezes every parsed post).
package graph

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/standardbeagle/vaultproc/internal/catalog"
	"github.com/standardbeagle/vaultproc/internal/config"
	"github.com/standardbeagle/vaultproc/internal/debug"
)

var (
	hrefPattern = regexp.MustCompile(`href="([^"]*)"`)
	srcPattern  = regexp.MustCompile(`src="([^"]*)"`)
)

// Build scans every post's HTML and returns the relationship graph, also
// populating each post's Links field with the hashes of posts it links to.
func Build(posts []*catalog.Post, mediaCat *catalog.MediaCatalog, cfg *config.Config) *catalog.Graph {
	g := &catalog.Graph{}

	nodeSeen := map[string]bool{}
	for _, p := range posts {
		if !nodeSeen[p.Hash] {
			nodeSeen[p.Hash] = true
			g.Nodes = append(g.Nodes, catalog.GraphNode{ID: p.Hash, Type: "post", Label: p.File.Filename})
		}
	}

	for _, p := range posts {
		dedupTarget := map[string]bool{}
		var links []string

		for _, href := range hrefPattern.FindAllStringSubmatch(p.HTML, -1) {
			target := href[1]
			if skippable(target) {
				continue
			}
			slug := stripNotesPrefix(target, cfg.Paths.NotesPrefix)
			if slug == "" {
				continue
			}
			targetPost := findBySlug(posts, slug)
			if targetPost == nil {
				continue
			}
			if !dedupTarget["post:"+targetPost.Hash] {
				dedupTarget["post:"+targetPost.Hash] = true
				g.Edges = append(g.Edges, catalog.GraphEdge{Source: p.Hash, Target: targetPost.Hash, Type: catalog.EdgePostLinksToPost})
				links = append(links, targetPost.Hash)
			}
		}

		for _, src := range srcPattern.FindAllStringSubmatch(p.HTML, -1) {
			target := src[1]
			if skippable(target) {
				continue
			}
			media := findMedia(mediaCat, target)
			if media == nil {
				continue
			}
			nodeID := mediaNodeID(media)
			if !nodeSeen[nodeID] {
				nodeSeen[nodeID] = true
				g.Nodes = append(g.Nodes, catalog.GraphNode{ID: nodeID, Type: "media", Label: media.Filename})
			}
			if !dedupTarget[nodeID] {
				dedupTarget[nodeID] = true
				g.Edges = append(g.Edges, catalog.GraphEdge{Source: p.Hash, Target: nodeID, Type: catalog.EdgePostUsesImage})
			}
		}

		sort.Strings(links)
		p.Links = links
	}

	debug.LogGraph("built graph: %d nodes, %d edges", len(g.Nodes), len(g.Edges))
	return g
}

func skippable(target string) bool {
	t := strings.TrimSpace(target)
	if t == "" || strings.HasPrefix(t, "#") {
		return true
	}
	lower := strings.ToLower(t)
	for _, scheme := range []string{"http://", "https://", "data:", "mailto:", "tel:"} {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return false
}

// stripNotesPrefix extracts the slug portion of an internal post URL,
// dropping any query/fragment, or "" if target doesn't match notesPrefix.
func stripNotesPrefix(target, notesPrefix string) string {
	path := target
	if u, err := url.Parse(target); err == nil {
		path = u.Path
	}
	prefix := strings.TrimSuffix(notesPrefix, "/") + "/"
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	return strings.TrimPrefix(path, prefix)
}

func findBySlug(posts []*catalog.Post, slug string) *catalog.Post {
	for _, p := range posts {
		if p.Slug == slug {
			return p
		}
	}
	return nil
}

// mediaNodeID keys a media graph node by its content hash, matching
// GLOSSARY's POST_USE_IMAGE definition and keeping identical-content images
// reachable under different paths collapsed to one node, the same as post
// nodes already key on p.Hash. Falls back to the path only when the source
// was unreadable and ContentHash is empty.
func mediaNodeID(m *catalog.MediaDescriptor) string {
	if m.ContentHash != "" {
		return m.ContentHash
	}
	return "media:" + m.OriginalRelPath
}

// findMedia matches an <img src> against any media variant's public path
// (with or without domain) or the original media filename as a substring
// fallback.
func findMedia(mediaCat *catalog.MediaCatalog, src string) *catalog.MediaDescriptor {
	for _, m := range mediaCat.Media {
		for _, variants := range m.Sizes {
			for _, v := range variants {
				if v.PublicPath != "" && strings.Contains(src, v.PublicPath) {
					return m
				}
				if v.AbsolutePublicPath != "" && strings.Contains(src, v.AbsolutePublicPath) {
					return m
				}
			}
		}
		if m.Filename != "" && strings.Contains(src, m.Filename) {
			return m
		}
	}
	return nil
}
