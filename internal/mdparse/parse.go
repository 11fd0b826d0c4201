// Package mdparse implements C3, the Markdown Parser: it parses each
// included file into an AST using the shared goldmark engine and extracts
// lightweight per-post metrics. Wiki/media link resolution is deferred to
// C5 (internal/render) because it requires the complete slug catalog.
package mdparse

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/standardbeagle/vaultproc/internal/catalog"
	"github.com/standardbeagle/vaultproc/internal/render"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Parse builds a ParsedPost from a file descriptor and its raw bytes.
func Parse(file catalog.FileDescriptor, content []byte) (*catalog.ParsedPost, error) {
	raw, body := SplitFrontmatter(content)
	fm, err := ParseFrontmatter(raw)
	if err != nil {
		return nil, err
	}

	md := render.NewMarkdown()
	reader := text.NewReader(body)
	doc := md.Parser().Parse(reader)

	title := fm.StringOr("title", humanizeFilename(file.Filename))
	plaintext := extractPlaintext(doc, body)
	firstParagraph := extractFirstParagraph(doc, body)
	firstImage := extractFirstImageRef(doc)

	return &catalog.ParsedPost{
		File:           file,
		Frontmatter:    fm,
		ASTSource:      body,
		Title:          title,
		FirstParagraph: firstParagraph,
		Plaintext:      plaintext,
		WordCount:      countWords(plaintext),
		FirstImageRef:  firstImage,
	}, nil
}

// humanizeFilename turns "my-cool-post" or "my_cool_post" into "My Cool Post".
func humanizeFilename(name string) string {
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	words := strings.Fields(name)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func countWords(s string) int {
	return len(strings.Fields(s))
}

// extractPlaintext walks the full AST collecting every text segment.
func extractPlaintext(doc gast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = gast.Walk(doc, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		if t, ok := n.(*gast.Text); ok {
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		}
		if n.Kind() == gast.KindParagraph || n.Kind() == gast.KindHeading {
			buf.WriteByte('\n')
		}
		return gast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}

// extractFirstParagraph returns the plain text of the first paragraph node.
func extractFirstParagraph(doc gast.Node, source []byte) string {
	var text string
	found := false
	_ = gast.Walk(doc, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if found || !entering {
			return gast.WalkContinue, nil
		}
		if n.Kind() == gast.KindParagraph {
			var buf bytes.Buffer
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*gast.Text); ok {
					buf.Write(t.Segment.Value(source))
				}
			}
			text = strings.TrimSpace(buf.String())
			found = true
			return gast.WalkStop, nil
		}
		return gast.WalkContinue, nil
	})
	return text
}

// extractFirstImageRef returns the first markdown image destination or the
// first wikilink embed target encountered, in document order.
func extractFirstImageRef(doc gast.Node) string {
	var ref string
	_ = gast.Walk(doc, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if ref != "" || !entering {
			return gast.WalkContinue, nil
		}
		if img, ok := n.(*gast.Image); ok {
			ref = string(img.Destination)
			return gast.WalkStop, nil
		}
		if wl, ok := n.(*render.WikiLink); ok && wl.Embed {
			ref = wl.Target
			return gast.WalkStop, nil
		}
		return gast.WalkContinue, nil
	})
	return ref
}
