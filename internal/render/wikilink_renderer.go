package render

import (
	"fmt"
	"path"
	"strings"

	"github.com/standardbeagle/vaultproc/internal/catalog"
	"github.com/standardbeagle/vaultproc/internal/config"
	"github.com/standardbeagle/vaultproc/internal/issues"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// resolverContext binds a single file's rendering pass to the frozen post
// and media catalogs it resolves references against.
type resolverContext struct {
	file     catalog.FileDescriptor
	postCat  *catalog.PostCatalog
	mediaCat *catalog.MediaCatalog
	cfg      *config.Config
	coll     *issues.Collector
}

// wikiLinkRenderer is the NodeRenderer for KindWikiLink, resolving each
// token against ctx at render time rather than rewriting the AST ahead of
// rendering, grounded on goldmark-highlighting's RegisterFuncs pattern
// (a NodeRenderer extension already wired into NewMarkdown).
type wikiLinkRenderer struct{ ctx *resolverContext }

func (r *wikiLinkRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindWikiLink, r.render)
}

func (r *wikiLinkRenderer) render(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	link := n.(*WikiLink)

	if link.Embed {
		url := ResolveMediaLink(link.Target, r.ctx.file.ParentFolder, r.ctx.file.RelPath, r.ctx.mediaCat, r.ctx.coll, issues.FromBody)
		alt := link.Display
		if alt == "" {
			alt = path.Base(link.Target)
		}
		fmt.Fprintf(w, `<img src="%s" alt="%s">`, escapeAttr(url), escapeAttr(alt))
		return ast.WalkSkipChildren, nil
	}

	target := link.Target
	if link.Heading != "" {
		target += "#" + link.Heading
	}
	url := ResolvePostLink(target, r.ctx.file.RelPath, r.ctx.postCat, r.ctx.coll, r.ctx.cfg.Paths.NotesPrefix)

	text := link.Display
	if text == "" {
		text = link.Target
		if link.Heading != "" {
			text += " > " + link.Heading
		}
	}
	fmt.Fprintf(w, `<a href="%s">%s</a>`, escapeAttr(url), escapeHTML(text))
	return ast.WalkSkipChildren, nil
}

type wikiLinkRenderExtension struct{ r *wikiLinkRenderer }

func (e *wikiLinkRenderExtension) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(e.r, 500),
	))
}

// newResolvingMarkdown builds a fresh goldmark engine for one file's render
// pass: NewMarkdown plus the wikilink renderer bound to ctx and the
// iframe-embed transformer and renderer bound to ctx.cfg. A fresh instance
// per file keeps C5's worker pool lock-free: no
// renderer state is shared across concurrent files.
func newResolvingMarkdown(ctx *resolverContext) goldmark.Markdown {
	md := NewMarkdown()
	ext := &wikiLinkRenderExtension{r: &wikiLinkRenderer{ctx: ctx}}
	ext.Extend(md)
	iframeExt := &iframeASTExtension{cfg: ctx.cfg}
	iframeExt.Extend(md)
	(&iframeRenderExtension{}).Extend(md)
	return md
}

func escapeAttr(s string) string {
	return strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;").Replace(s)
}

func escapeHTML(s string) string {
	return strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;").Replace(s)
}
