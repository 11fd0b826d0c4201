package render

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Math is the AST node produced for `$...$` and `$$...$$` spans. It carries
// the raw LaTeX source rather than a rendered glyph tree: rasterizing to
// CHTML requires a math typesetter this module doesn't vendor, so, like the
// mermaid code-fence handling in postprocess.go, the renderer emits a
// container a client-side (or build-time) math engine picks up by class
// name.
type Math struct {
	ast.BaseInline
	Source  string
	Display bool // true for "$$...$$"
}

// KindMath is the dummy node kind used for type-switching.
var KindMath = ast.NewNodeKind("Math")

// Kind implements ast.Node.
func (n *Math) Kind() ast.NodeKind { return KindMath }

// Dump implements ast.Node for debugging.
func (n *Math) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Source": n.Source, "Display": fmt.Sprint(n.Display)}, nil)
}

type mathParser struct{}

var defaultMathParser = &mathParser{}

// Trigger returns the byte that can start a math token.
func (p *mathParser) Trigger() []byte {
	return []byte{'$'}
}

// Parse consumes "$...$" or "$$...$$" at the current position, grounded on
// wikilink.go's trigger-and-consume inline parser shape.
func (p *mathParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if len(line) == 0 || line[0] != '$' {
		return nil
	}

	display := false
	pos := 1
	closer := "$"
	if len(line) > 1 && line[1] == '$' {
		display = true
		pos = 2
		closer = "$$"
	}

	idx := strings.Index(string(line[pos:]), closer)
	if idx <= 0 {
		return nil
	}
	inner := string(line[pos : pos+idx])
	if strings.TrimSpace(inner) == "" {
		return nil
	}

	block.Advance(pos + idx + len(closer))
	return &Math{Source: inner, Display: display}
}

type mathExtension struct{}

// MathExtension registers the math inline parser and renderer with a
// goldmark instance. Like CalloutExtension, it needs no catalog/config
// context, so it's wired directly into NewMarkdown.
var MathExtension = &mathExtension{}

func (e *mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(defaultMathParser, 180),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&mathRenderer{}, 500),
	))
}

type mathRenderer struct{}

func (r *mathRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMath, r.render)
}

func (r *mathRenderer) render(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	m := n.(*Math)
	tag, class := "span", "math-inline"
	if m.Display {
		tag, class = "div", "math-display"
	}
	fmt.Fprintf(w, `<%s class="math %s" data-math="%s"></%s>`, tag, class, escapeAttr(m.Source), tag)
	return ast.WalkSkipChildren, nil
}
