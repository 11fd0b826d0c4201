// Package render implements C5, the Link Resolver & Renderer: it resolves
// every wiki-link and markdown link/image against the frozen post and
// media catalogs, serializes the AST to HTML, and computes each post's
// stable content hash. Grounded on
// Kush-Singh-26-blogs/builder/services/post_service.go's single
// goldmark.Markdown-per-conversion style, extended with a bound resolver
// context instead of a package-global one so concurrent file renders never
// share mutable state.
package render

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/standardbeagle/vaultproc/internal/catalog"
	"github.com/standardbeagle/vaultproc/internal/config"
	"github.com/standardbeagle/vaultproc/internal/debug"
	"github.com/standardbeagle/vaultproc/internal/issues"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Render turns one parsed post, now carrying its final slug, into the
// fully resolved catalog.Post: resolved HTML, table of contents, and
// content hash. The Links field is left empty; C6 populates it once every
// post's hash is known.
func Render(slug string, p *catalog.ParsedPost, postCat *catalog.PostCatalog, mediaCat *catalog.MediaCatalog, cfg *config.Config, coll *issues.Collector) (*catalog.Post, error) {
	debug.LogLink("rendering %s as slug %s", p.File.RelPath, slug)

	ctx := &resolverContext{file: p.File, postCat: postCat, mediaCat: mediaCat, cfg: cfg, coll: coll}
	md := newResolvingMarkdown(ctx)

	reader := text.NewReader(p.ASTSource)
	doc := md.Parser().Parse(reader)

	rewriteMarkdownLinks(doc, p.File, postCat, mediaCat, cfg, coll)
	rewriteYouTubeEmbeds(doc, cfg)
	toc := extractTOC(doc, p.ASTSource)

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, p.ASTSource, doc); err != nil {
		return nil, err
	}
	html := rewriteMermaidBlocks(buf.String(), cfg)
	html = rewriteExternalLinks(html)

	frontmatter := expandFrontmatter(p.Frontmatter, p.File, mediaCat, coll)

	url := cfg.Paths.NotesPrefix + "/" + slug
	hash := computeHash(p.File.Filename, slug, p.Title, frontmatter, p.File.RelPath, html, url)

	return &catalog.Post{
		File:           p.File,
		Frontmatter:    frontmatter,
		Title:          p.Title,
		FirstParagraph: p.FirstParagraph,
		Plaintext:      p.Plaintext,
		WordCount:      p.WordCount,
		Slug:           slug,
		URL:            url,
		Hash:           hash,
		HTML:           html,
		TOC:            toc,
		Folder:         p.File.ParentFolder,
	}, nil
}

// rewriteMarkdownLinks mutates standard ast.Link/ast.Image destinations in
// place: resolution never needs to restructure the tree since both node
// types already expose a settable Destination.
func rewriteMarkdownLinks(doc gast.Node, file catalog.FileDescriptor, postCat *catalog.PostCatalog, mediaCat *catalog.MediaCatalog, cfg *config.Config, coll *issues.Collector) {
	_ = gast.Walk(doc, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gast.Image:
			dest := string(node.Destination)
			if !isExternal(dest) {
				node.Destination = []byte(ResolveMediaLink(dest, file.ParentFolder, file.RelPath, mediaCat, coll, issues.FromBody))
			}
		case *gast.Link:
			dest := string(node.Destination)
			if !isExternal(dest) {
				node.Destination = []byte(ResolvePostLink(dest, file.RelPath, postCat, coll, cfg.Paths.NotesPrefix))
			}
		}
		return gast.WalkContinue, nil
	})
}

// extractTOC walks every heading node, reading the "id" attribute the
// parser.WithAutoHeadingID() option already stamped on it.
func extractTOC(doc gast.Node, source []byte) []catalog.TOCEntry {
	var entries []catalog.TOCEntry
	_ = gast.Walk(doc, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		h, ok := n.(*gast.Heading)
		if !ok {
			return gast.WalkContinue, nil
		}
		var buf bytes.Buffer
		for c := h.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*gast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		entries = append(entries, catalog.TOCEntry{
			Level: h.Level,
			Text:  buf.String(),
			Slug:  headingID(h),
		})
		return gast.WalkContinue, nil
	})
	return entries
}

func headingID(h *gast.Heading) string {
	v, ok := h.AttributeString("id")
	if !ok {
		return ""
	}
	switch id := v.(type) {
	case []byte:
		return string(id)
	case string:
		return id
	default:
		return ""
	}
}

// hashInput is the canonical field order spec.md §4.5 names for the post
// hash digest. Struct field order drives json.Marshal's output order,
// which is what keeps the digest stable across runs.
type hashInput struct {
	FileName         string               `json:"fileName"`
	Slug             string               `json:"slug"`
	Title            string               `json:"title"`
	Frontmatter      *catalog.Frontmatter `json:"frontmatter"`
	OriginalFilePath string               `json:"originalFilePath"`
	HTML             string               `json:"html"`
	URL              string               `json:"url"`
}

func computeHash(fileName, slug, title string, fm *catalog.Frontmatter, origPath, html, url string) string {
	payload, err := json.Marshal(hashInput{
		FileName:         fileName,
		Slug:             slug,
		Title:            title,
		Frontmatter:      fm,
		OriginalFilePath: origPath,
		HTML:             html,
		URL:              url,
	})
	if err != nil {
		payload = []byte(fileName + slug + title + origPath + html + url)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
