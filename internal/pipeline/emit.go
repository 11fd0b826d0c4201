package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/standardbeagle/vaultproc/internal/catalog"
	"github.com/standardbeagle/vaultproc/internal/config"
	"github.com/standardbeagle/vaultproc/internal/debug"
	"github.com/standardbeagle/vaultproc/internal/issues"
	"github.com/standardbeagle/vaultproc/pkg/pathutil"
)

// emit implements C7's file-writing side: every output file spec.md §6
// names, pretty-printed UTF-8 JSON with stable keys. Struct fields keep
// declaration order and frontmatter keeps insertion order; the plain map
// outputs (slug, path and media index maps) are written with their keys
// sorted, not in insertion order.
// Files are written to a temp path and renamed into place, so a killed
// process leaves no half-written output file behind.
func emit(outputDir string, posts []*catalog.Post, mediaCat *catalog.MediaCatalog, g *catalog.Graph, allIssues []issues.Issue, cfg *config.Config) error {
	if err := writeJSON(outputDir, cfg.Naming.PostsFilename, posts); err != nil {
		return err
	}

	slugMap := make(map[string]string, len(posts))
	pathMap := make(map[string]string, len(posts))
	for _, p := range posts {
		slugMap[p.Slug] = p.Hash
		pathMap[p.File.RelPath] = p.Hash
	}
	if err := writeJSON(outputDir, cfg.Naming.SlugMapFilename, slugMap); err != nil {
		return err
	}
	if err := writeJSON(outputDir, cfg.Naming.PathMapFilename, pathMap); err != nil {
		return err
	}

	if cfg.Posts.ExportEnabled {
		if err := exportPerPost(outputDir, posts, cfg); err != nil {
			debug.LogEmit("per-post export disabled for this run: %v", err)
		}
	}

	if err := writeJSON(outputDir, cfg.Naming.MediaResultsFilename, mediaCat.Media); err != nil {
		return err
	}
	if err := writeJSON(outputDir, cfg.Naming.MediaPathMapFilename, mediaCat.PathMap); err != nil {
		return err
	}
	if err := writeJSON(outputDir, cfg.Naming.MediaPathUrlMapFilename, mediaCat.PathUrlMap); err != nil {
		return err
	}
	if err := writeJSON(outputDir, cfg.Naming.MediaPathHashMapFilename, mediaCat.PathHashMap); err != nil {
		return err
	}
	if err := writeJSON(outputDir, "media-hash-url-map.json", mediaCat.HashUrlMap); err != nil {
		return err
	}

	if len(g.Nodes) > 0 || len(g.Edges) > 0 {
		if err := writeJSON(outputDir, "graph.json", g); err != nil {
			return err
		}
	}

	if err := writeJSON(outputDir, "processor-issues.json", allIssues); err != nil {
		return err
	}

	debug.LogEmit("wrote outputs for %d posts, %d media records", len(posts), len(mediaCat.Media))
	return nil
}

// exportPerPost writes hash- and slug-named JSON files under
// <output>/<postsFolder>, refusing the whole export (but not the rest of
// the run) when the configured export folder is unsafe.
func exportPerPost(outputDir string, posts []*catalog.Post, cfg *config.Config) error {
	folder := filepath.Join(outputDir, cfg.Naming.PostsFolder)
	inputAbs, err := filepath.Abs(cfg.Directories.Input)
	if err != nil {
		return err
	}
	folderAbs, err := filepath.Abs(folder)
	if err != nil {
		return err
	}
	if folderAbs == inputAbs || isWithinDir(folderAbs, inputAbs) {
		return &unsafeExportError{folder: folderAbs}
	}

	hashDir := filepath.Join(folder, "hash")
	slugDir := filepath.Join(folder, "slug")
	if err := os.MkdirAll(hashDir, 0o755); err != nil {
		return err
	}
	if err := os.MkdirAll(slugDir, 0o755); err != nil {
		return err
	}

	type indexEntry struct {
		Slug  string `json:"slug"`
		Hash  string `json:"hash"`
		Title string `json:"title"`
	}
	var index []indexEntry

	for _, p := range posts {
		if err := writeJSONFile(filepath.Join(hashDir, p.Hash+".json"), p); err != nil {
			return err
		}
		if err := writeJSONFile(filepath.Join(slugDir, p.Slug+".json"), p); err != nil {
			return err
		}
		index = append(index, indexEntry{Slug: p.Slug, Hash: p.Hash, Title: p.Title})
	}
	return writeJSONFile(filepath.Join(folder, "index.json"), index)
}

type unsafeExportError struct{ folder string }

func (e *unsafeExportError) Error() string {
	return "export folder " + e.folder + " is inside the input vault; per-post export refused"
}

func isWithinDir(candidate, root string) bool {
	return candidate != root && pathutil.IsWithin(candidate, root)
}

func writeJSON(outputDir, filename string, v interface{}) error {
	return writeJSONFile(filepath.Join(outputDir, filename), v)
}

// writeJSONFile serializes v as pretty-printed UTF-8 JSON to a temp file
// beside dest, then renames atomically into place.
func writeJSONFile(dest string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := dest + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, dest)
}
