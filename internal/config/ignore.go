package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// IgnoreEngine matches paths against a gitignore-style pattern set for the
// vault walker, generalized from lci/internal/config.GitignoreParser: same
// pattern semantics (directory prefixes prune recursion, negation,
// single-segment globs), but sourced from .repoignore instead of .gitignore
// and seeded with a fixed default list the walker always applies. Glob
// matching itself is `doublestar.Match`, the same call
// lci/internal/indexing/pipeline_types.go's shouldExcludeFast/shouldIncludeFast
// make for this exact concern.
type IgnoreEngine struct {
	patterns []IgnorePattern
}

// IgnorePattern is one parsed rule.
type IgnorePattern struct {
	Pattern   string
	Negate    bool
	Directory bool
	Absolute  bool
}

// DefaultIgnorePatterns is the fixed base list always applied to a vault
// walk: VCS metadata, editor dotfolders, build outputs, OS junk, test and
// coverage directories, and caches.
func DefaultIgnorePatterns() []string {
	return []string{
		".git/",
		".svn/",
		".hg/",
		".obsidian/",
		".trash/",
		".vscode/",
		".idea/",
		"node_modules/",
		"dist/",
		"build/",
		"out/",
		"test/",
		"tests/",
		"coverage/",
		".cache/",
		"__pycache__/",
		"*.tmp",
		"*.swp",
		"Thumbs.db",
		".DS_Store",
	}
}

// NewIgnoreEngine builds an engine seeded with the default patterns.
func NewIgnoreEngine() *IgnoreEngine {
	e := &IgnoreEngine{}
	for _, p := range DefaultIgnorePatterns() {
		e.AddPattern(p)
	}
	return e
}

// LoadIgnoreRules builds the walker's ignore engine for a vault root,
// following spec order: defaults are always applied; then <root>/.repoignore
// if present; else explicitPatterns; else nothing additional.
func LoadIgnoreRules(rootDir string, explicitPatterns []string) (*IgnoreEngine, error) {
	engine := NewIgnoreEngine()

	repoIgnorePath := filepath.Join(rootDir, ".repoignore")
	f, err := os.Open(repoIgnorePath)
	if err == nil {
		defer f.Close()
		if scanErr := engine.scanAndParsePatterns(f); scanErr != nil {
			return nil, scanErr
		}
		return engine, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	for _, p := range explicitPatterns {
		engine.AddPattern(p)
	}
	return engine, nil
}

func (e *IgnoreEngine) scanAndParsePatterns(f *os.File) error {
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		e.AddPattern(line)
	}
	return scanner.Err()
}

// AddPattern parses and appends a single pattern line.
func (e *IgnoreEngine) AddPattern(line string) {
	p := IgnorePattern{}

	if strings.HasPrefix(line, "!") {
		p.Negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.Directory = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		p.Absolute = true
		line = line[1:]
	}

	p.Pattern = line
	e.patterns = append(e.patterns, p)
}

// ShouldIgnore reports whether path (vault-relative, slash-separated)
// should be excluded from the walk. Hidden directories (name starting
// with '.') are always pruned regardless of pattern matches.
func (e *IgnoreEngine) ShouldIgnore(path string, isDir bool) bool {
	path = filepath.ToSlash(path)

	if hasHiddenComponent(path) {
		return true
	}

	ignored := false
	for _, p := range e.patterns {
		if e.matchesPattern(p, path, isDir) {
			ignored = !p.Negate
		}
	}
	return ignored
}

func hasHiddenComponent(path string) bool {
	for _, part := range strings.Split(path, "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

func (e *IgnoreEngine) matchesPattern(p IgnorePattern, path string, isDir bool) bool {
	if p.Directory {
		if isDir {
			return e.matchDirectoryPattern(p, path)
		}
		return e.matchInsideDirectoryPattern(p, path)
	}

	if p.Absolute {
		return globMatch(p.Pattern, path)
	}

	if globMatch(p.Pattern, path) {
		return true
	}
	parts := strings.Split(path, "/")
	for i := range parts {
		if globMatch(p.Pattern, strings.Join(parts[i:], "/")) {
			return true
		}
	}
	return false
}

// globMatch reports whether path matches pattern using gitignore-style
// doublestar semantics: a pattern with no "/" matches against the path's
// final segment too (doublestar.Match alone is anchored to the whole
// string), mirroring the teacher's shouldExcludeFast/shouldIncludeFast.
func globMatch(pattern, path string) bool {
	matched, err := doublestar.Match(pattern, path)
	if err != nil {
		return false
	}
	if matched {
		return true
	}
	if !strings.Contains(pattern, "/") {
		matched, err = doublestar.Match(pattern, filepath.Base(path))
		if err == nil && matched {
			return true
		}
	}
	return false
}

func (e *IgnoreEngine) matchDirectoryPattern(p IgnorePattern, path string) bool {
	if globMatch(p.Pattern, path) {
		return true
	}
	if strings.HasSuffix(p.Pattern, "/**") {
		base := strings.TrimSuffix(p.Pattern, "/**")
		if path == base || strings.HasPrefix(path, base+"/") {
			return true
		}
	}
	return false
}

func (e *IgnoreEngine) matchInsideDirectoryPattern(p IgnorePattern, path string) bool {
	if strings.HasPrefix(path, p.Pattern+"/") {
		return true
	}
	return globMatch(p.Pattern, path)
}
