package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/standardbeagle/vaultproc/internal/config"
)

// mermaidFence matches a highlighted mermaid code block as goldmark-
// highlighting renders it: <pre ...><code class="language-mermaid" ...>...
var mermaidFence = regexp.MustCompile(`(?s)<pre[^>]*><code class="language-mermaid"[^>]*>(.*?)</code></pre>`)

// rewriteMermaidBlocks replaces rendered mermaid code fences per the
// configured strategy. pre-mermaid leaves the highlighted block untouched;
// the other strategies wrap the raw source in a container a client-side
// (or build-time) mermaid renderer picks up by class name, since actually
// rasterizing the diagram requires an external mermaid CLI outside this
// module's scope.
func rewriteMermaidBlocks(html string, cfg *config.Config) string {
	if !cfg.Mermaid.Enabled || cfg.Mermaid.Strategy == config.MermaidPre {
		return html
	}
	return mermaidFence.ReplaceAllStringFunc(html, func(match string) string {
		sub := mermaidFence.FindStringSubmatch(match)
		if sub == nil {
			return match
		}
		source := unescapeCodeBlock(sub[1])
		class := "mermaid"
		if cfg.Mermaid.Prefix != "" {
			class = cfg.Mermaid.Prefix + "-mermaid"
		}
		switch cfg.Mermaid.Strategy {
		case config.MermaidImgPNG, config.MermaidImgSVG:
			return fmt.Sprintf(`<div class="%s" data-mermaid-source="%s"></div>`, class, escapeAttr(source))
		case config.MermaidInlineSVG:
			return fmt.Sprintf(`<div class="%s" data-mermaid-inline="true">%s</div>`, class, source)
		default:
			return match
		}
	})
}

var htmlUnescaper = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
)

func unescapeCodeBlock(s string) string {
	return htmlUnescaper.Replace(s)
}

// externalLink matches an anchor whose href starts with an external
// scheme, so it can gain target/rel attributes without risking a false
// match against internal hrefs.
var externalLink = regexp.MustCompile(`<a href="(https?://[^"]*)">`)

// rewriteExternalLinks adds target="_blank" rel="noopener noreferrer" to
// every external anchor, a plain string post-process rather than an AST
// rewrite since it only needs to touch attributes goldmark's own Link
// renderer already serialized.
func rewriteExternalLinks(html string) string {
	return externalLink.ReplaceAllString(html, `<a href="$1" target="_blank" rel="noopener noreferrer">`)
}
