package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Callout replaces a blockquote whose first line reads "[!type] Title" with
// a labeled admonition block, per spec.md §4.3/§4.5's `> [!note]`-style
// callouts.
type Callout struct {
	ast.BaseBlock
	CalloutType string
	Title       string
}

// KindCallout is the dummy node kind used for type-switching.
var KindCallout = ast.NewNodeKind("Callout")

// Kind implements ast.Node.
func (n *Callout) Kind() ast.NodeKind { return KindCallout }

// Dump implements ast.Node for debugging.
func (n *Callout) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"CalloutType": n.CalloutType, "Title": n.Title}, nil)
}

// calloutMarker matches the first line of a callout blockquote: "[!type]"
// with an optional fold marker ("+"/"-", not otherwise distinguished here)
// and an optional trailing title.
var calloutMarker = regexp.MustCompile(`^\[!([a-zA-Z][\w-]*)\][+-]?\s*(.*)$`)

// calloutTransformer converts Blockquote nodes matching calloutMarker into
// Callout nodes, folding the remainder of the blockquote's children in as
// the callout body.
type calloutTransformer struct{}

func (t *calloutTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()
	var targets []*ast.Blockquote
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if bq, ok := n.(*ast.Blockquote); ok {
				targets = append(targets, bq)
			}
		}
		return ast.WalkContinue, nil
	})

	for _, bq := range targets {
		para, ok := bq.FirstChild().(*ast.Paragraph)
		if !ok {
			continue
		}
		textNode, ok := para.FirstChild().(*ast.Text)
		if !ok {
			continue
		}
		line := strings.TrimSpace(string(textNode.Segment.Value(source)))
		m := calloutMarker.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		calloutType := strings.ToLower(m[1])
		title := strings.TrimSpace(m[2])
		if title == "" {
			title = strings.ToUpper(calloutType[:1]) + calloutType[1:]
		}
		callout := &Callout{CalloutType: calloutType, Title: title}

		bq.RemoveChild(bq, para)
		for c := bq.FirstChild(); c != nil; {
			next := c.NextSibling()
			bq.RemoveChild(bq, c)
			callout.AppendChild(callout, c)
			c = next
		}

		parent := bq.Parent()
		if parent == nil {
			continue
		}
		parent.ReplaceChild(parent, bq, callout)
	}
}

type calloutExtension struct{}

// CalloutExtension registers the callout transformer and renderer with a
// goldmark instance. Unlike the iframe pass, it needs no per-render
// context, so it's wired directly into NewMarkdown.
var CalloutExtension = &calloutExtension{}

func (e *calloutExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&calloutTransformer{}, 100),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&calloutRenderer{}, 500),
	))
}

type calloutRenderer struct{}

func (r *calloutRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindCallout, r.render)
}

func (r *calloutRenderer) render(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	callout := n.(*Callout)
	if entering {
		fmt.Fprintf(w, `<div class="callout callout-%s"><div class="callout-title">%s</div><div class="callout-body">`,
			callout.CalloutType, escapeHTML(callout.Title))
		return ast.WalkContinue, nil
	}
	_, err := w.WriteString("</div></div>")
	return ast.WalkContinue, err
}
