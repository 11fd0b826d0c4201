package mdparse

import (
	"regexp"
	"strconv"
	"time"

	"github.com/standardbeagle/vaultproc/internal/catalog"
	"gopkg.in/yaml.v3"
)

// frontmatterFence matches a leading "---\n...\n---" YAML block, the only
// frontmatter delimiter spec.md recognizes.
var frontmatterFence = regexp.MustCompile(`(?s)\A---\r?\n(.*?)\r?\n---\r?\n?`)

// dateLike matches strings of the shape YYYY[-M[M]]-D[D], reinterpreted as
// UTC dates with strict calendar validation (no day overflow).
var dateLike = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)

// SplitFrontmatter separates a leading YAML frontmatter block from the
// remaining markdown body. If no fence is present, body is the whole input
// and frontmatter is empty.
func SplitFrontmatter(content []byte) (raw []byte, body []byte) {
	loc := frontmatterFence.FindSubmatchIndex(content)
	if loc == nil {
		return nil, content
	}
	raw = content[loc[2]:loc[3]]
	body = content[loc[1]:]
	return raw, body
}

// ParseFrontmatter decodes a raw YAML frontmatter block into an ordered
// catalog.Frontmatter, using yaml.v3's Node API to preserve key order
// (goldmark-meta's map[string]interface{} output would lose it).
func ParseFrontmatter(raw []byte) (*catalog.Frontmatter, error) {
	fm := catalog.NewFrontmatter()
	if len(raw) == 0 {
		return fm, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return fm, nil
	}

	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return fm, nil
	}

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i].Value
		fm.Set(key, nodeToValue(mapping.Content[i+1]))
	}
	return fm, nil
}

func nodeToValue(n *yaml.Node) catalog.Value {
	switch n.Kind {
	case yaml.SequenceNode:
		seq := make([]catalog.Value, 0, len(n.Content))
		for _, item := range n.Content {
			seq = append(seq, nodeToValue(item))
		}
		return catalog.Value{Kind: catalog.ValueSequence, Sequence: seq}

	case yaml.MappingNode:
		sub := catalog.NewFrontmatter()
		for i := 0; i+1 < len(n.Content); i += 2 {
			sub.Set(n.Content[i].Value, nodeToValue(n.Content[i+1]))
		}
		return catalog.Value{Kind: catalog.ValueMapping, Mapping: sub}

	case yaml.ScalarNode:
		return scalarToValue(n)

	default:
		return catalog.Value{Kind: catalog.ValueNil}
	}
}

func scalarToValue(n *yaml.Node) catalog.Value {
	switch n.Tag {
	case "!!bool":
		b, _ := strconv.ParseBool(n.Value)
		return catalog.Value{Kind: catalog.ValueBool, Bool: b}
	case "!!int":
		i, err := strconv.ParseInt(n.Value, 10, 64)
		if err == nil {
			return catalog.Value{Kind: catalog.ValueInt, Int: i}
		}
	case "!!float":
		f, err := strconv.ParseFloat(n.Value, 64)
		if err == nil {
			return catalog.Value{Kind: catalog.ValueFloat, Float: f}
		}
	case "!!null":
		return catalog.Value{Kind: catalog.ValueNil}
	}

	if d, ok := parseStrictDate(n.Value); ok {
		return catalog.Value{Kind: catalog.ValueDate, Date: d}
	}
	return catalog.Value{Kind: catalog.ValueString, Str: n.Value}
}

// parseStrictDate reinterprets a YYYY[-M[M]]-D[D] string as a UTC date,
// rejecting calendar overflow (e.g. 2024-02-30) instead of rolling it over
// into March the way time.Parse would.
func parseStrictDate(s string) (time.Time, bool) {
	m := dateLike.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}
