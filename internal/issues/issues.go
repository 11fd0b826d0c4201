// Package issues implements C7, the append-only diagnostic collector every
// worker in every later phase writes to, modeled on lci/internal/errors's
// typed-error shape but sink-based rather than return-based: diagnostics
// never abort a run, they accumulate for the final processor-issues.json.
package issues

import "sync"

// Kind enumerates the diagnostic kinds spec.md §4.7 names.
type Kind string

const (
	KindSlugConflict       Kind = "slug-conflict"
	KindMissingMedia       Kind = "missing-media"
	KindMediaProcessingErr Kind = "media-processing-error"
	KindBrokenLink         Kind = "broken-link"
	KindParseError         Kind = "parse-error"
)

// ReferencedFrom distinguishes where a missing-media reference came from.
type ReferencedFrom string

const (
	FromFrontmatter ReferencedFrom = "frontmatter"
	FromBody        ReferencedFrom = "body"
)

// MediaOperation tags which C2 step produced a media-processing-error.
type MediaOperation string

const (
	OpRead     MediaOperation = "read"
	OpOptimize MediaOperation = "optimize"
)

// LinkKind distinguishes broken-link sources.
type LinkKind string

const (
	LinkWiki     LinkKind = "wiki"
	LinkMarkdown LinkKind = "markdown"
)

// Issue is one diagnostic record. Only the fields relevant to Kind are
// populated; the rest stay zero.
type Issue struct {
	Kind Kind `json:"kind"`

	// slug-conflict
	FilePath         string   `json:"filePath,omitempty"`
	Desired          string   `json:"desired,omitempty"`
	Final            string   `json:"final,omitempty"`
	ConflictingFiles []string `json:"conflictingFiles,omitempty"`

	// missing-media
	MediaPath         string         `json:"mediaPath,omitempty"`
	ReferencedFrom    ReferencedFrom `json:"referencedFrom,omitempty"`
	OriginalReference string         `json:"originalReference,omitempty"`
	Module            string         `json:"module,omitempty"`

	// media-processing-error
	Operation MediaOperation `json:"operation,omitempty"`
	Message   string         `json:"message,omitempty"`
	Code      string         `json:"code,omitempty"`

	// broken-link (parse-error uses FilePath and Message)
	SourceFile string   `json:"sourceFile,omitempty"`
	Target     string   `json:"target,omitempty"`
	LinkKind   LinkKind `json:"linkKind,omitempty"`
}

// Collector is the single thread-safe sink every worker appends to.
type Collector struct {
	mu     sync.Mutex
	issues []Issue
}

// New returns an empty Collector.
func New() *Collector {
	return &Collector{}
}

func (c *Collector) add(i Issue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issues = append(c.issues, i)
}

// SlugConflict records a disambiguation.
func (c *Collector) SlugConflict(filePath, desired, final string, conflicting []string) {
	c.add(Issue{Kind: KindSlugConflict, FilePath: filePath, Desired: desired, Final: final, ConflictingFiles: conflicting})
}

// MissingMedia records an unresolvable media reference.
func (c *Collector) MissingMedia(filePath, mediaPath string, from ReferencedFrom, original, module string) {
	c.add(Issue{Kind: KindMissingMedia, FilePath: filePath, MediaPath: mediaPath, ReferencedFrom: from, OriginalReference: original, Module: module})
}

// MediaProcessingError records an encoder/read failure.
func (c *Collector) MediaProcessingError(filePath, mediaPath string, op MediaOperation, message, code string) {
	c.add(Issue{Kind: KindMediaProcessingErr, FilePath: filePath, MediaPath: mediaPath, Operation: op, Message: message, Code: code})
}

// BrokenLink records an unresolvable wiki/markdown link.
func (c *Collector) BrokenLink(sourceFile, target string, kind LinkKind) {
	c.add(Issue{Kind: KindBrokenLink, SourceFile: sourceFile, Target: target, LinkKind: kind})
}

// ParseError records a Markdown file C3 could not read or parse; the file
// is skipped but the run continues.
func (c *Collector) ParseError(filePath, message string) {
	c.add(Issue{Kind: KindParseError, FilePath: filePath, Message: message})
}

// All returns a snapshot of every collected issue, in append order.
func (c *Collector) All() []Issue {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Issue, len(c.issues))
	copy(out, c.issues)
	return out
}

// Len reports how many issues have been collected.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.issues)
}
