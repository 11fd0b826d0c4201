package render

import (
	"regexp"
	"strings"

	"github.com/standardbeagle/vaultproc/internal/catalog"
	"github.com/standardbeagle/vaultproc/internal/config"
	"github.com/standardbeagle/vaultproc/internal/issues"
)

// wikiEmbed matches a `![[target]]` token anywhere inside a string, per
// spec.md §3's "Wiki-link expressions ![[target]] in any string field, at
// any depth, are expanded".
var wikiEmbed = regexp.MustCompile(`!\[\[([^\]]+)\]\]`)

// wikiEmbedWhole matches a string that is *exactly* one `![[target]]`
// token, the shape spec.md §4.5 names as a "top-level wiki-link field"
// eligible for `<field>-<size>` auxiliary entries.
var wikiEmbedWhole = regexp.MustCompile(`^!\[\[([^\]]+)\]\]$`)

// expandFrontmatter resolves every `![[target]]` media embed found in fm,
// at any nesting depth, against mediaCat, and — for top-level fields whose
// entire value is a single embed token — adds `<field>-<size>` auxiliary
// entries for every size variant C2 produced, per spec.md §4.5.
func expandFrontmatter(fm *catalog.Frontmatter, file catalog.FileDescriptor, mediaCat *catalog.MediaCatalog, coll *issues.Collector) *catalog.Frontmatter {
	if fm == nil {
		return fm
	}
	out := catalog.NewFrontmatter()
	for _, key := range fm.Keys {
		v, _ := fm.Get(key)
		if v.Kind == catalog.ValueString {
			if target, ok := wholeEmbedTarget(v.Str); ok {
				url := resolveFrontmatterMediaTarget(target, file, mediaCat, coll)
				out.Set(key, catalog.Value{Kind: catalog.ValueString, Str: url})
				addSizeAuxEntries(out, key, target, file, mediaCat)
				continue
			}
			out.Set(key, catalog.Value{Kind: catalog.ValueString, Str: expandStringWikiLinks(v.Str, file, mediaCat, coll)})
			continue
		}
		out.Set(key, expandValueWikiLinks(v, file, mediaCat, coll))
	}
	return out
}

func expandValueWikiLinks(v catalog.Value, file catalog.FileDescriptor, mediaCat *catalog.MediaCatalog, coll *issues.Collector) catalog.Value {
	switch v.Kind {
	case catalog.ValueString:
		return catalog.Value{Kind: catalog.ValueString, Str: expandStringWikiLinks(v.Str, file, mediaCat, coll)}
	case catalog.ValueSequence:
		seq := make([]catalog.Value, len(v.Sequence))
		for i, item := range v.Sequence {
			seq[i] = expandValueWikiLinks(item, file, mediaCat, coll)
		}
		return catalog.Value{Kind: catalog.ValueSequence, Sequence: seq}
	case catalog.ValueMapping:
		sub := catalog.NewFrontmatter()
		for _, k := range v.Mapping.Keys {
			mv, _ := v.Mapping.Get(k)
			sub.Set(k, expandValueWikiLinks(mv, file, mediaCat, coll))
		}
		return catalog.Value{Kind: catalog.ValueMapping, Mapping: sub}
	default:
		return v
	}
}

func expandStringWikiLinks(s string, file catalog.FileDescriptor, mediaCat *catalog.MediaCatalog, coll *issues.Collector) string {
	if !strings.Contains(s, "![[") {
		return s
	}
	return wikiEmbed.ReplaceAllStringFunc(s, func(match string) string {
		sub := wikiEmbed.FindStringSubmatch(match)
		return resolveFrontmatterMediaTarget(sub[1], file, mediaCat, coll)
	})
}

func wholeEmbedTarget(s string) (string, bool) {
	m := wikiEmbedWhole.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", false
	}
	return m[1], true
}

func resolveFrontmatterMediaTarget(target string, file catalog.FileDescriptor, mediaCat *catalog.MediaCatalog, coll *issues.Collector) string {
	return ResolveMediaLink(target, file.ParentFolder, file.RelPath, mediaCat, coll, issues.FromFrontmatter)
}

// addSizeAuxEntries sets "<key>-<size>" for every size variant the
// resolved media descriptor carries, in the configured size preference
// order; implicitly a no-op when the reference didn't resolve to a
// catalogued media descriptor (a broken reference already got its
// diagnostic from resolveFrontmatterMediaTarget).
func addSizeAuxEntries(out *catalog.Frontmatter, key, target string, file catalog.FileDescriptor, mediaCat *catalog.MediaCatalog) {
	desc, ok := findMediaDescriptor(target, file.ParentFolder, mediaCat)
	if !ok || len(desc.Sizes) <= 1 {
		return
	}
	for _, size := range config.BestSizeOrder {
		variant, ok := desc.BestInSize(size, config.BestFormatOrder)
		if !ok {
			continue
		}
		out.Set(key+"-"+size, catalog.Value{Kind: catalog.ValueString, Str: variant.PublicPath})
	}
}
