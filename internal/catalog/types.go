// Package catalog defines the shared record types that flow between every
// pipeline phase: file descriptors, frontmatter values, parsed and final
// posts, media descriptors and variants, slug info, and the output
// catalogues each phase contributes to.
package catalog

import (
	"bytes"
	"encoding/json"
	"time"
)

// FileDescriptor is what C1 produces for every included Markdown file.
type FileDescriptor struct {
	AbsPath      string     `json:"absPath"`
	RelPath      string     `json:"relPath"` // vault-relative, slash-separated
	ParentFolder string     `json:"parentFolder"`
	Filename     string     `json:"filename"` // base name without extension
	Ext          string     `json:"ext"`
	ModTime      time.Time  `json:"modTime"`
	CreatedTime  time.Time  `json:"createdTime"`
	VCSTime      *time.Time `json:"vcsTime,omitempty"`
}

// ValueKind tags the polymorphic shape of a Frontmatter value.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueInt
	ValueFloat
	ValueBool
	ValueDate
	ValueSequence
	ValueMapping
	ValueNil
)

// Value is the polymorphic tagged union a frontmatter field decodes into.
// Strings matching YYYY[-M[M]]-D[D] are reinterpreted as ValueDate with
// strict calendar validation (no day overflow: 2024-02-30 stays a string).
type Value struct {
	Kind     ValueKind
	Str      string
	Int      int64
	Float    float64
	Bool     bool
	Date     time.Time
	Sequence []Value
	Mapping  *Frontmatter
}

// Frontmatter is an ordered mapping of string keys to polymorphic values.
// Order is preserved via Keys so re-serialization is deterministic.
type Frontmatter struct {
	Keys   []string
	Values map[string]Value
}

// MarshalJSON emits the mapping in insertion order instead of Go's
// randomized map order, so posts.json stays diff-stable across runs.
func (f *Frontmatter) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range f.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(f.Values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON converts the tagged union into the plain JSON shape its Kind
// implies: a string, number, bool, ISO date string, array, or object.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueString:
		return json.Marshal(v.Str)
	case ValueInt:
		return json.Marshal(v.Int)
	case ValueFloat:
		return json.Marshal(v.Float)
	case ValueBool:
		return json.Marshal(v.Bool)
	case ValueDate:
		return json.Marshal(v.Date.Format(time.RFC3339))
	case ValueSequence:
		return json.Marshal(v.Sequence)
	case ValueMapping:
		return json.Marshal(v.Mapping)
	default:
		return []byte("null"), nil
	}
}

// NewFrontmatter returns an empty, ready-to-use Frontmatter.
func NewFrontmatter() *Frontmatter {
	return &Frontmatter{Values: map[string]Value{}}
}

// Set inserts or overwrites a key, recording insertion order for new keys.
func (f *Frontmatter) Set(key string, v Value) {
	if _, exists := f.Values[key]; !exists {
		f.Keys = append(f.Keys, key)
	}
	f.Values[key] = v
}

// Get returns the value for key and whether it was present.
func (f *Frontmatter) Get(key string) (Value, bool) {
	v, ok := f.Values[key]
	return v, ok
}

// StringOr returns the string form of key, or def if absent/non-string.
func (f *Frontmatter) StringOr(key, def string) string {
	v, ok := f.Get(key)
	if !ok || v.Kind != ValueString {
		return def
	}
	return v.Str
}

// Truthy reports whether key holds a truthy value (bool true, non-zero
// number, or a non-empty string other than "false"/"0").
func (f *Frontmatter) Truthy(key string) bool {
	v, ok := f.Get(key)
	if !ok {
		return false
	}
	switch v.Kind {
	case ValueBool:
		return v.Bool
	case ValueInt:
		return v.Int != 0
	case ValueFloat:
		return v.Float != 0
	case ValueString:
		return v.Str != "" && v.Str != "false" && v.Str != "0"
	default:
		return false
	}
}

// MediaVariant is one (size, format) encoded output of a source image.
type MediaVariant struct {
	SizeName            string `json:"sizeName"`
	Width               int    `json:"width"`
	Height              int    `json:"height"`
	Format              string `json:"format"`
	PublicPath          string `json:"publicPath"`
	AbsolutePublicPath  string `json:"absolutePublicPath,omitempty"` // present iff a domain is configured
	ByteSize            int64  `json:"byteSize"`
	SkippedOptimization bool   `json:"skippedOptimization"`
}

// MediaDescriptor is C2's per-source-image record.
type MediaDescriptor struct {
	OriginalRelPath string                    `json:"originalRelPath"`
	Filename        string                    `json:"filename"`
	Ext             string                    `json:"ext"`
	MIME            string                    `json:"mime"`
	ContentHash     string                    `json:"contentHash,omitempty"` // empty only if the source could not be read
	EffectivePath   string                    `json:"effectivePath"`
	HashPath        string                    `json:"hashPath,omitempty"` // set iff hashing enabled; EffectivePath == HashPath then
	Sizes           map[string][]MediaVariant `json:"sizes"`
	Format          string                    `json:"format"`
	Width           int                       `json:"width"`
	Height          int                       `json:"height"`
	ByteSize        int64                     `json:"byteSize"`
}

// BestVariant returns the variant C5 should link to for this media, per the
// documented size/format preference order, honoring the skippedOptimization
// override.
func (m *MediaDescriptor) BestVariant(sizeOrder, formatOrder []string) (MediaVariant, bool) {
	for _, variants := range m.Sizes {
		for _, v := range variants {
			if v.SkippedOptimization {
				return v, true
			}
		}
	}

	for _, size := range sizeOrder {
		variants, ok := m.Sizes[size]
		if !ok {
			continue
		}
		for _, format := range formatOrder {
			for _, v := range variants {
				if v.Format == format {
					return v, true
				}
			}
		}
		if len(variants) > 0 {
			return variants[0], true
		}
	}
	return MediaVariant{}, false
}

// BestInSize returns the preferred-format variant within a single named
// size, per formatOrder, falling back to whatever variant that size has.
func (m *MediaDescriptor) BestInSize(size string, formatOrder []string) (MediaVariant, bool) {
	variants, ok := m.Sizes[size]
	if !ok || len(variants) == 0 {
		return MediaVariant{}, false
	}
	for _, format := range formatOrder {
		for _, v := range variants {
			if v.Format == format {
				return v, true
			}
		}
	}
	return variants[0], true
}

// SlugInfo records a single file's slug allocation outcome.
type SlugInfo struct {
	Desired         string `json:"desired"`
	Disambiguated   string `json:"disambiguated,omitempty"`
	Final           string `json:"final"`
	IsDisambiguated bool   `json:"isDisambiguated"`
}

// ParsedPost is C3's output: descriptor + frontmatter + derived metrics,
// before slug allocation or link resolution.
type ParsedPost struct {
	File           FileDescriptor `json:"file"`
	Frontmatter    *Frontmatter   `json:"frontmatter"`
	ASTSource      []byte         `json:"-"` // raw markdown bytes, reparsed by C5
	Title          string         `json:"title"`
	FirstParagraph string         `json:"firstParagraph"`
	Plaintext      string         `json:"plaintext"`
	WordCount      int            `json:"wordCount"`
	FirstImageRef  string         `json:"firstImageRef,omitempty"` // unresolved target string, "" if none
}

// Post is the final, fully resolved record C5 produces.
type Post struct {
	File           FileDescriptor `json:"file"`
	Frontmatter    *Frontmatter   `json:"frontmatter"`
	Title          string         `json:"title"`
	FirstParagraph string         `json:"firstParagraph"`
	Plaintext      string         `json:"plaintext"`
	WordCount      int            `json:"wordCount"`
	Slug           string         `json:"slug"`
	URL            string         `json:"url"`
	Hash           string         `json:"hash"`
	HTML           string         `json:"html"`
	TOC            []TOCEntry     `json:"toc"`
	Links          []string       `json:"links"` // post hashes referenced
	Folder         string         `json:"folder"`
}

// TOCEntry is one heading entry in a post's table of contents.
type TOCEntry struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	Slug  string `json:"slug"`
}

// GraphNode is one node in the relationship graph.
type GraphNode struct {
	ID    string `json:"id"` // hash
	Type  string `json:"type"`
	Label string `json:"label"`
}

// GraphEdgeType enumerates the two edge kinds C6 produces.
type GraphEdgeType string

const (
	EdgePostLinksToPost GraphEdgeType = "POST_LINKS_TO_POST"
	EdgePostUsesImage   GraphEdgeType = "POST_USE_IMAGE"
)

// GraphEdge connects two graph nodes by hash.
type GraphEdge struct {
	Source string        `json:"source"`
	Target string        `json:"target"`
	Type   GraphEdgeType `json:"type"`
}

// Graph is C6's output.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}
