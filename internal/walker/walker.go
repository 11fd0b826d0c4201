// Package walker implements C1, the Vault Walker: it enumerates the input
// tree, applies ignore rules, classifies Markdown vs. media, and decides
// inclusion from frontmatter, grounded on
// lci/internal/indexing/pipeline.go's ScanDirectory (deterministic, sorted
// directory traversal; unreadable entries log and continue rather than
// aborting the walk).
package walker

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/standardbeagle/vaultproc/internal/catalog"
	"github.com/standardbeagle/vaultproc/internal/config"
	"github.com/standardbeagle/vaultproc/internal/debug"
	"github.com/standardbeagle/vaultproc/internal/mdparse"
	"github.com/standardbeagle/vaultproc/pkg/pathutil"
)

// mediaExtensions are the candidate extensions C1 hands to C2.
var mediaExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".webp": true, ".avif": true, ".svg": true,
	".mp4": true, ".webm": true,
}

// Result is C1's output: the ordered Markdown files to process and every
// discovered media path.
type Result struct {
	Markdown []catalog.FileDescriptor
	Media    []string // vault-relative paths
}

// Walk enumerates root (the absolute vault path) applying cfg's ignore
// rules and inclusion policy.
func Walk(root string, cfg *config.Config) (*Result, error) {
	engine, err := config.LoadIgnoreRules(root, cfg.IgnorePatterns)
	if err != nil {
		return nil, err
	}

	result := &Result{}

	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			debug.LogWalk("cannot read directory %s: %v", dir, err)
			return nil
		}

		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

		for _, entry := range entries {
			absPath := filepath.Join(dir, entry.Name())
			relPath := toSlashRel(absPath, root)

			if entry.IsDir() {
				if engine.ShouldIgnore(relPath, true) {
					debug.LogWalk("pruning directory %s", relPath)
					continue
				}
				if err := walk(absPath); err != nil {
					return err
				}
				continue
			}

			if engine.ShouldIgnore(relPath, false) {
				continue
			}

			ext := strings.ToLower(filepath.Ext(entry.Name()))
			if ext == ".md" || ext == ".markdown" {
				desc, include, err := classifyMarkdown(absPath, relPath, entry, cfg)
				if err != nil {
					debug.LogWalk("skipping unreadable file %s: %v", relPath, err)
					continue
				}
				if include {
					result.Markdown = append(result.Markdown, desc)
				}
				continue
			}

			if mediaExtensions[ext] {
				result.Media = append(result.Media, relPath)
			}
		}
		return nil
	}

	if err := walk(root); err != nil {
		return nil, err
	}
	return result, nil
}

func classifyMarkdown(absPath, relPath string, entry os.DirEntry, cfg *config.Config) (catalog.FileDescriptor, bool, error) {
	info, err := entry.Info()
	if err != nil {
		return catalog.FileDescriptor{}, false, err
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return catalog.FileDescriptor{}, false, err
	}

	raw, _ := mdparse.SplitFrontmatter(content)
	fm, err := mdparse.ParseFrontmatter(raw)
	if err != nil {
		debug.LogWalk("frontmatter parse error in %s: %v", relPath, err)
		fm = catalog.NewFrontmatter()
	}

	filename := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
	parentFolder := filepath.ToSlash(filepath.Dir(relPath))
	if parentFolder == "." {
		parentFolder = ""
	}
	desc := catalog.FileDescriptor{
		AbsPath:      absPath,
		RelPath:      relPath,
		ParentFolder: parentFolder,
		Filename:     filename,
		Ext:          filepath.Ext(entry.Name()),
		ModTime:      info.ModTime(),
	}

	include := cfg.Posts.ProcessAllFiles || fm.Truthy("public")
	return desc, include, nil
}

func toSlashRel(absPath, root string) string {
	return pathutil.ToSlashRel(absPath, root)
}
