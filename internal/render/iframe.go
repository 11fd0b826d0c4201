package render

import (
	"fmt"
	"path"
	"strings"

	"github.com/standardbeagle/vaultproc/internal/config"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// IframeEmbed stands in for a link recognized as an embeddable video, MIDI
// player, or 3D model viewer, per spec.md §4.5's "iframe embeds" render-
// plugin step. Mermaid fences keep their own code-fence rewriting in
// postprocess.go rather than routing through this node.
type IframeEmbed struct {
	ast.BaseInline
	Src  string
	Kind string // "video", "midi", "model3d", "youtube"
}

// KindIframeEmbed is the dummy node kind used for type-switching.
var KindIframeEmbed = ast.NewNodeKind("IframeEmbed")

// Kind implements ast.Node.
func (n *IframeEmbed) Kind() ast.NodeKind { return KindIframeEmbed }

// Dump implements ast.Node for debugging.
func (n *IframeEmbed) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Src": n.Src, "Kind": n.Kind}, nil)
}

var videoExts = map[string]bool{".mp4": true, ".webm": true, ".mov": true, ".ogv": true}
var midiExts = map[string]bool{".mid": true, ".midi": true}
var model3DExts = map[string]bool{".glb": true, ".gltf": true, ".obj": true}

// classifyIframeTarget reports which embed kind dest's extension names, or
// "" if it doesn't match any recognized kind.
func classifyIframeTarget(dest string) string {
	clean, _ := splitSuffix(dest)
	ext := strings.ToLower(path.Ext(clean))
	switch {
	case videoExts[ext]:
		return "video"
	case midiExts[ext]:
		return "midi"
	case model3DExts[ext]:
		return "model3d"
	default:
		return ""
	}
}

// iframeTransformer rewrites ast.Link nodes whose destination is a
// recognized video/MIDI/3D-model target into an IframeEmbed node, the
// parser.ASTTransformer half of the "iframe embeds" plugin step. It needs
// cfg to honor the per-kind enable flags, so it's attached per render pass
// in newResolvingMarkdown rather than once in NewMarkdown.
type iframeTransformer struct{ cfg *config.Config }

func (t *iframeTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	var targets []*ast.Link
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if link, ok := n.(*ast.Link); ok {
				targets = append(targets, link)
			}
		}
		return ast.WalkContinue, nil
	})
	for _, link := range targets {
		dest := string(link.Destination)
		kind := classifyIframeTarget(dest)
		if kind == "" || !t.cfg.Iframe.Allows(kind) {
			continue
		}
		parent := link.Parent()
		if parent == nil {
			continue
		}
		parent.ReplaceChild(parent, link, &IframeEmbed{Src: dest, Kind: kind})
	}
}

type iframeASTExtension struct{ cfg *config.Config }

func (e *iframeASTExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&iframeTransformer{cfg: e.cfg}, 50),
	))
}

type iframeRenderer struct{}

func (r *iframeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindIframeEmbed, r.render)
}

func (r *iframeRenderer) render(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	embed := n.(*IframeEmbed)
	fmt.Fprintf(w, `<iframe class="embed-%s" src="%s" allowfullscreen loading="lazy"></iframe>`,
		embed.Kind, escapeAttr(embed.Src))
	return ast.WalkSkipChildren, nil
}

type iframeRenderExtension struct{}

func (e *iframeRenderExtension) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&iframeRenderer{}, 500),
	))
}
