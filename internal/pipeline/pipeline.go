// Package pipeline wires C1 through C7 into the single library entry
// point the spec names: Run(ctx, cfg) (*Result, error). Grounded on
// lci/internal/indexing/pipeline.go's phase-ordered orchestration style
// (scan -> process -> aggregate), generalized to the walk -> transcode ->
// parse -> allocate -> render -> graph -> emit chain spec.md §5 requires.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/standardbeagle/vaultproc/internal/catalog"
	"github.com/standardbeagle/vaultproc/internal/config"
	"github.com/standardbeagle/vaultproc/internal/debug"
	"github.com/standardbeagle/vaultproc/internal/graph"
	"github.com/standardbeagle/vaultproc/internal/issues"
	"github.com/standardbeagle/vaultproc/internal/mdparse"
	"github.com/standardbeagle/vaultproc/internal/media"
	"github.com/standardbeagle/vaultproc/internal/render"
	"github.com/standardbeagle/vaultproc/internal/slug"
	"github.com/standardbeagle/vaultproc/internal/vaulterrors"
	"github.com/standardbeagle/vaultproc/internal/walker"
	"golang.org/x/sync/errgroup"
)

// Result is everything a run produced, returned alongside whatever output
// files were written.
type Result struct {
	Posts     []*catalog.Post
	PostCat   *catalog.PostCatalog
	MediaCat  *catalog.MediaCatalog
	Graph     *catalog.Graph
	Issues    []issues.Issue
	OutputDir string
}

// Run executes every phase in spec.md §5's strict order: Walker ->
// Transcoder -> Parser -> Slug Allocator -> Link Resolver -> Graph ->
// Emit. Fatal errors (invalid config, unreadable input root) abort before
// any output is written; everything else is recorded in the issue
// collector and the run proceeds to produce best-effort outputs.
func Run(ctx context.Context, cfg config.Config) (*Result, error) {
	if err := config.ValidateConfig(&cfg); err != nil {
		return nil, vaulterrors.Fatal(vaulterrors.ErrorTypeConfig, "run", err)
	}
	if cfg.DebugLevel > 0 {
		debug.SetLevel(cfg.DebugLevel)
	}

	inputRoot, err := filepath.Abs(cfg.Directories.Input)
	if err != nil {
		return nil, vaulterrors.Fatal(vaulterrors.ErrorTypeConfig, "run", err)
	}
	if _, err := os.Stat(inputRoot); err != nil {
		return nil, vaulterrors.Fatal(vaulterrors.ErrorTypeWalk, "stat-input", err)
	}
	outputDir, err := filepath.Abs(cfg.Directories.Output)
	if err != nil {
		return nil, vaulterrors.Fatal(vaulterrors.ErrorTypeConfig, "run", err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, vaulterrors.Fatal(vaulterrors.ErrorTypeInternal, "mkdir-output", err)
	}

	coll := issues.New()

	// C1: Vault Walker.
	walked, err := walker.Walk(inputRoot, &cfg)
	if err != nil {
		return nil, vaulterrors.Fatal(vaulterrors.ErrorTypeWalk, "walk", err)
	}
	debug.LogWalk("discovered %d markdown files, %d media files", len(walked.Markdown), len(walked.Media))

	// C2: Media Transcoder. Independent of C3/C4/C5, so it can run
	// alongside parsing; both only need the frozen walk result.
	var mediaCat *catalog.MediaCatalog
	var mediaErr error
	var parsed []*catalog.ParsedPost
	var parseErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if cfg.Media.Skip {
			mediaCat = catalog.NewMediaCatalog(nil, config.BestSizeOrder, config.BestFormatOrder)
			return nil
		}
		mediaCat, mediaErr = media.Process(gctx, inputRoot, outputDir, walked.Media, &cfg, coll)
		return mediaErr
	})
	g.Go(func() error {
		parsed, parseErr = parseAll(walked.Markdown, coll)
		return parseErr
	})
	if err := g.Wait(); err != nil {
		return nil, vaulterrors.Fatal(vaulterrors.ErrorTypeInternal, "phase-c2-c3", err)
	}

	// C4: Slug Allocator, single-threaded, in walker enumeration order.
	assignments := slug.Allocate(parsed, &cfg, coll)

	// C5: Link Resolver & Renderer. filesBySlug etc. require a post set,
	// but resolution only needs slugs and file identity, not HTML yet, so
	// build a provisional catalog from ParsedPost-derived stand-ins first.
	provisional := buildProvisionalCatalog(assignments)

	posts, err := renderAll(assignments, provisional, mediaCat, &cfg, coll)
	if err != nil {
		return nil, vaulterrors.Fatal(vaulterrors.ErrorTypeLink, "render", err)
	}

	sortPostsByWalkOrder(posts, walked.Markdown)

	postCat := catalog.NewPostCatalog(posts)

	// C6: Relationship/Graph Builder.
	g6 := graph.Build(posts, mediaCat, &cfg)

	if err := emit(outputDir, posts, mediaCat, g6, coll.All(), &cfg); err != nil {
		return nil, vaulterrors.Fatal(vaulterrors.ErrorTypeInternal, "emit", err)
	}

	return &Result{
		Posts:     posts,
		PostCat:   postCat,
		MediaCat:  mediaCat,
		Graph:     g6,
		Issues:    coll.All(),
		OutputDir: outputDir,
	}, nil
}

func parseAll(files []catalog.FileDescriptor, coll *issues.Collector) ([]*catalog.ParsedPost, error) {
	out := make([]*catalog.ParsedPost, len(files))
	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			content, err := os.ReadFile(f.AbsPath)
			if err != nil {
				debug.LogParse("skipping unreadable file %s: %v", f.RelPath, err)
				coll.ParseError(f.RelPath, err.Error())
				return nil
			}
			p, err := mdparse.Parse(f, content)
			if err != nil {
				debug.LogParse("skipping unparseable file %s: %v", f.RelPath, err)
				coll.ParseError(f.RelPath, err.Error())
				return nil
			}
			out[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	compact := out[:0]
	for _, p := range out {
		if p != nil {
			compact = append(compact, p)
		}
	}
	return compact, nil
}

// buildProvisionalCatalog lets C5's resolvers look up slugs/filenames/
// paths/aliases before HTML exists, by building the same index maps over
// placeholder posts carrying only identity fields.
func buildProvisionalCatalog(assignments []slug.Assignment) *catalog.PostCatalog {
	posts := make([]*catalog.Post, len(assignments))
	for i, a := range assignments {
		posts[i] = &catalog.Post{
			File:        a.File.File,
			Frontmatter: a.File.Frontmatter,
			Slug:        a.Slug,
		}
	}
	return catalog.NewPostCatalog(posts)
}

func renderAll(assignments []slug.Assignment, postCat *catalog.PostCatalog, mediaCat *catalog.MediaCatalog, cfg *config.Config, coll *issues.Collector) ([]*catalog.Post, error) {
	out := make([]*catalog.Post, len(assignments))
	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for i, a := range assignments {
		i, a := i, a
		g.Go(func() error {
			p, err := render.Render(a.Slug, &a.File, postCat, mediaCat, cfg, coll)
			if err != nil {
				return fmt.Errorf("rendering %s: %w", a.File.File.RelPath, err)
			}
			out[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// sortPostsByWalkOrder restores the deterministic walker enumeration
// order, since the render fan-out above does not preserve ordering
// beyond its own index slice once posts are handed to downstream maps.
func sortPostsByWalkOrder(posts []*catalog.Post, walked []catalog.FileDescriptor) {
	order := make(map[string]int, len(walked))
	for i, f := range walked {
		order[f.RelPath] = i
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return order[posts[i].File.RelPath] < order[posts[j].File.RelPath]
	})
}
