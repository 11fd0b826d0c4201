package render

import (
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// NewMarkdown builds the single CommonMark+GFM engine shared by the parser
// (C3, metric extraction only) and the renderer (C5, full resolution and
// HTML serialization), grounded on Kush-Singh-26-blogs/builder/services/post_service.go's
// goldmark.Markdown + goldmark-meta + extension.GFM wiring, extended with
// the wikilink stub and syntax highlighting (style "github"; every language
// the highlighter knows is enabled, no curated subset).
//
// Registration order matches spec.md §4.5's documented plugin order:
// GFM (tables/strikethrough/autolink), highlighting, the wikilink inline
// parser, callouts and math are goldmark extensions wired here since they
// need no catalog lookups; the wikilink node renderer (which needs the post
// and media catalogs) and the iframe-embed transformer/renderer (which need
// cfg) are attached separately per render pass by newResolvingMarkdown in
// wikilink_renderer.go.
func NewMarkdown() goldmark.Markdown {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			meta.Meta,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
			WikiLinkExtension,
			CalloutExtension,
			MathExtension,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(), // dangerous HTML permitted, per spec.md §4.5
		),
	)
	return md
}
