package render

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// WikiLink is the AST node produced for `[[target]]` and `![[target]]`
// tokens, grounded on the regex-based wikilink/transclusion handling in
// selimozten-walgo/internal/obsidian/enhanced.go but reimplemented as a
// goldmark parser.InlineParser so it composes with the documented
// render-plugin order instead of running as a pre/post regex pass.
type WikiLink struct {
	ast.BaseInline
	Target  string // link/embed target, before '#' heading and '|' display split
	Heading string // optional "#heading" fragment
	Display string // optional "|display" override, empty if none
	Embed   bool   // true for "![[...]]"
}

// Dummy kind for type-switching in renderers/transformers.
var KindWikiLink = ast.NewNodeKind("WikiLink")

// Kind implements ast.Node.
func (n *WikiLink) Kind() ast.NodeKind { return KindWikiLink }

// Dump implements ast.Node for debugging.
func (n *WikiLink) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Target": n.Target, "Heading": n.Heading, "Display": n.Display,
	}, nil)
}

type wikiLinkParser struct{}

var defaultWikiLinkParser = &wikiLinkParser{}

// Trigger returns the bytes that can start a wikilink token.
func (p *wikiLinkParser) Trigger() []byte {
	return []byte{'[', '!'}
}

// Parse consumes "[[target]]" or "![[target]]" at the current position.
func (p *wikiLinkParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, seg := block.PeekLine()
	start := seg.Start

	embed := false
	pos := 0
	if len(line) > 0 && line[0] == '!' {
		embed = true
		pos = 1
	}
	if pos+1 >= len(line) || line[pos] != '[' || line[pos+1] != '[' {
		return nil
	}
	pos += 2

	closeIdx := indexClose(line[pos:])
	if closeIdx < 0 {
		return nil
	}
	inner := string(line[pos : pos+closeIdx])
	consumed := pos + closeIdx + 2
	if embed {
		consumed++ // account for leading '!'
	}

	block.Advance(consumed)
	_ = start
	_ = seg

	target, heading, display := splitWikiLinkInner(inner)
	return &WikiLink{Target: target, Heading: heading, Display: display, Embed: embed}
}

func indexClose(b []byte) int {
	for i := 0; i+1 < len(b); i++ {
		if b[i] == ']' && b[i+1] == ']' {
			return i
		}
	}
	return -1
}

func splitWikiLinkInner(inner string) (target, heading, display string) {
	target = inner
	if idx := strings.Index(target, "|"); idx >= 0 {
		display = target[idx+1:]
		target = target[:idx]
	}
	if idx := strings.Index(target, "#"); idx >= 0 {
		heading = target[idx+1:]
		target = target[:idx]
	}
	return target, heading, display
}

type wikiLinkExtension struct{}

// WikiLinkExtension registers the wikilink inline parser with a goldmark
// instance. It never renders on its own: the render-plugin pipeline attaches
// the resolution-aware renderer once the post/media catalogs are frozen.
var WikiLinkExtension = &wikiLinkExtension{}

func (e *wikiLinkExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(defaultWikiLinkParser, 199),
	))
}
