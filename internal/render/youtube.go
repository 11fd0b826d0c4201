package render

import (
	"regexp"

	"github.com/standardbeagle/vaultproc/internal/config"
	gast "github.com/yuin/goldmark/ast"
)

// youtubeLink recognizes a youtube.com/watch or youtu.be URL, capturing the
// video ID, for the "YouTube expansion" render-plugin step (spec.md §4.5),
// which runs after wiki-link/markdown-link resolution since it only ever
// touches external links resolution never rewrites.
var youtubeLink = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtube\.com/embed/|youtu\.be/)([\w-]+)`)

func youtubeEmbedURL(dest string) (string, bool) {
	m := youtubeLink.FindStringSubmatch(dest)
	if m == nil {
		return "", false
	}
	return "https://www.youtube.com/embed/" + m[1], true
}

// rewriteYouTubeEmbeds replaces any remaining ast.Link whose destination is
// a YouTube watch URL with an IframeEmbed, mutating doc in place like
// rewriteMarkdownLinks does.
func rewriteYouTubeEmbeds(doc gast.Node, cfg *config.Config) {
	if !cfg.Iframe.Allows("youtube") {
		return
	}
	var targets []*gast.Link
	_ = gast.Walk(doc, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if entering {
			if link, ok := n.(*gast.Link); ok {
				targets = append(targets, link)
			}
		}
		return gast.WalkContinue, nil
	})
	for _, link := range targets {
		embedURL, ok := youtubeEmbedURL(string(link.Destination))
		if !ok {
			continue
		}
		parent := link.Parent()
		if parent == nil {
			continue
		}
		parent.ReplaceChild(parent, link, &IframeEmbed{Src: embedURL, Kind: "youtube"})
	}
}
