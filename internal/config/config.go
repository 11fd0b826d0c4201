// Package config defines the pipeline's configuration record, its defaults,
// and validation, following lci/internal/config's grouped-substruct shape.
package config

import (
	"path/filepath"

	"github.com/standardbeagle/vaultproc/internal/vaulterrors"
	"github.com/standardbeagle/vaultproc/pkg/pathutil"
)

// MermaidStrategy selects how mermaid code fences are rendered.
type MermaidStrategy string

const (
	MermaidImgPNG    MermaidStrategy = "img-png"
	MermaidImgSVG    MermaidStrategy = "img-svg"
	MermaidInlineSVG MermaidStrategy = "inline-svg"
	MermaidPre       MermaidStrategy = "pre-mermaid"
)

// Directories groups the three root paths a run operates on.
type Directories struct {
	Base   string // process cwd by default
	Input  string // required, the vault root
	Output string // build output root
}

// Naming groups every configurable output filename.
type Naming struct {
	PostsFilename            string
	PostsFolder              string
	SlugMapFilename          string
	PathMapFilename          string
	MediaFolderName          string
	MediaResultsFilename     string
	MediaPathMapFilename     string
	MediaPathUrlMapFilename  string
	MediaPathHashMapFilename string
}

// Paths groups the public URL prefixes used when rendering links and media.
type Paths struct {
	NotesPrefix      string
	AssetsPrefix     string
	MediaPrefix      string
	Domain           string
	UseAbsolutePaths bool
}

// MediaSize names one entry of the resize matrix. Width is unused (zero)
// for the "original" pseudo-size, a pass-through at source dimensions.
type MediaSize struct {
	Name  string
	Width int
}

// Media groups the transcoder's knobs.
type Media struct {
	Skip            bool
	Optimize        bool
	SkipExisting    bool
	ForceReprocess  bool
	Sizes           []MediaSize
	Formats         []string
	UseHash         bool
	UseHashSharding bool
	SkipHashes      []string
	PreferredSize   string
}

// Posts groups export behavior for the rendered post catalogue.
type Posts struct {
	ExportEnabled    bool
	IncludeMediaData bool
	ProcessAllFiles  bool
}

// Iframe toggles which embed kinds the renderer recognizes.
type Iframe struct {
	Mermaid  bool
	HTML     bool
	Markdown bool
	Code     bool
	Video    bool
	Midi     bool
	Model3D  bool
}

// Allows reports whether the given iframe embed kind ("video", "midi",
// "model3d", "youtube") is enabled for this run.
func (i Iframe) Allows(kind string) bool {
	switch kind {
	case "video":
		return i.Video
	case "midi":
		return i.Midi
	case "model3d":
		return i.Model3D
	case "youtube":
		return i.Video
	default:
		return false
	}
}

// Mermaid groups mermaid-fence rendering settings.
type Mermaid struct {
	Enabled       bool
	Strategy      MermaidStrategy
	Dark          bool
	Prefix        string
	MermaidConfig map[string]interface{}
}

// Config is the single record the pipeline's entry point accepts.
type Config struct {
	Directories Directories
	Naming      Naming
	Paths       Paths
	Media       Media
	Posts       Posts
	Iframe      Iframe
	Mermaid     Mermaid

	// SlugStrategy picks the disambiguation scheme C4 uses on a slug
	// collision: "number" (default, appends 2, 3, ...) or "hash" (appends
	// the first 8 hex chars of the file's content hash).
	SlugStrategy string

	// IgnorePatterns is the explicit fallback pattern list honored when the
	// input root carries no .repoignore file. See internal/config/ignore.go.
	IgnorePatterns []string

	// DebugLevel ranges 0..3; see internal/debug.
	DebugLevel int
}

// Default returns a Config populated with every documented default. Input
// is left empty — callers must set it before Validate.
func Default() Config {
	cwd, _ := filepath.Abs(".")
	return Config{
		Directories: Directories{
			Base:   cwd,
			Output: "build",
		},
		Naming: Naming{
			PostsFilename:            "posts.json",
			PostsFolder:              "posts",
			SlugMapFilename:          "slug-map.json",
			PathMapFilename:          "path-map.json",
			MediaFolderName:          "media",
			MediaResultsFilename:     "media.json",
			MediaPathMapFilename:     "media-path-map.json",
			MediaPathUrlMapFilename:  "media-path-url-map.json",
			MediaPathHashMapFilename: "media-path-hash-map.json",
		},
		Paths: Paths{
			NotesPrefix:  "/notes",
			AssetsPrefix: "/assets",
			MediaPrefix:  "/media",
		},
		Media: Media{
			Optimize:      true,
			Sizes:         DefaultMediaSizes(),
			Formats:       []string{"webp", "jpeg"},
			PreferredSize: "lg",
		},
		Iframe: Iframe{
			Mermaid: false,
			Video:   true,
			Midi:    true,
			Model3D: true,
		},
		Mermaid: Mermaid{
			Enabled:  true,
			Strategy: MermaidImgPNG,
		},
		SlugStrategy: "number",
		DebugLevel:   0,
	}
}

// DefaultMediaSizes is the documented resize matrix: width in px, height
// unbounded, fit-inside, no enlargement, plus the "original" pass-through.
func DefaultMediaSizes() []MediaSize {
	return []MediaSize{
		{Name: "xs", Width: 320},
		{Name: "sm", Width: 640},
		{Name: "md", Width: 1024},
		{Name: "lg", Width: 1920},
		{Name: "xl", Width: 3840},
		{Name: "original", Width: 0},
	}
}

// BestSizeOrder and BestFormatOrder are the preference orders the link
// resolver uses to pick the best media variant for a given source
// reference, before the skippedOptimization override.
var BestSizeOrder = []string{"md", "sm", "lg", "xl", "xs", "original"}
var BestFormatOrder = []string{"webp", "avif", "jpeg", "jpg"}

// Validate collects every configuration violation instead of failing on the
// first, mirroring lci/internal/config/validator.go, and returns them as a
// *vaulterrors.MultiError (nil if the config is valid).
func (c *Config) Validate() error {
	var errs []error

	if c.Directories.Input == "" {
		errs = append(errs, vaulterrors.New(vaulterrors.ErrorTypeConfig, "validate", errNoInput))
	}
	if c.Directories.Output == "" {
		errs = append(errs, vaulterrors.New(vaulterrors.ErrorTypeConfig, "validate", errNoOutput))
	}

	if c.Directories.Input != "" && c.Directories.Output != "" {
		absInput, errIn := filepath.Abs(c.Directories.Input)
		absOutput, errOut := filepath.Abs(c.Directories.Output)
		if errIn == nil && errOut == nil {
			absInput = filepath.Clean(absInput)
			absOutput = filepath.Clean(absOutput)
			if absOutput == absInput || isWithinDir(absOutput, absInput) {
				errs = append(errs, vaulterrors.New(vaulterrors.ErrorTypeConfig, "validate", errOutputInsideInput))
			}
		}
	}

	if c.Media.PreferredSize == "" {
		errs = append(errs, vaulterrors.New(vaulterrors.ErrorTypeConfig, "validate", errNoPreferredSize))
	}

	if c.Mermaid.Enabled {
		switch c.Mermaid.Strategy {
		case MermaidImgPNG, MermaidImgSVG, MermaidInlineSVG, MermaidPre:
		default:
			errs = append(errs, vaulterrors.New(vaulterrors.ErrorTypeConfig, "validate", errBadMermaidStrategy))
		}
	}

	if c.DebugLevel < 0 || c.DebugLevel > 3 {
		errs = append(errs, vaulterrors.New(vaulterrors.ErrorTypeConfig, "validate", errBadDebugLevel))
	}

	if c.SlugStrategy != "" && c.SlugStrategy != "number" && c.SlugStrategy != "hash" {
		errs = append(errs, vaulterrors.New(vaulterrors.ErrorTypeConfig, "validate", errBadSlugStrategy))
	}

	me := vaulterrors.NewMultiError(errs)
	if !me.HasErrors() {
		return nil
	}
	return me
}

// ApplyDefaults fills zero-valued fields with documented defaults without
// overwriting anything the caller already set, the role
// lci/internal/config/validator.go's setSmartDefaults plays for our shape.
func (c *Config) ApplyDefaults() {
	def := Default()

	if c.Directories.Base == "" {
		c.Directories.Base = def.Directories.Base
	}
	if c.Directories.Output == "" {
		c.Directories.Output = def.Directories.Output
	}
	if c.Naming == (Naming{}) {
		c.Naming = def.Naming
	}
	if c.Paths.NotesPrefix == "" {
		c.Paths.NotesPrefix = def.Paths.NotesPrefix
	}
	if c.Paths.AssetsPrefix == "" {
		c.Paths.AssetsPrefix = def.Paths.AssetsPrefix
	}
	if c.Paths.MediaPrefix == "" {
		c.Paths.MediaPrefix = def.Paths.MediaPrefix
	}
	if len(c.Media.Sizes) == 0 {
		c.Media.Sizes = def.Media.Sizes
	}
	if len(c.Media.Formats) == 0 {
		c.Media.Formats = def.Media.Formats
	}
	if c.Media.PreferredSize == "" {
		c.Media.PreferredSize = def.Media.PreferredSize
	}
	if c.Mermaid.Strategy == "" {
		c.Mermaid.Strategy = def.Mermaid.Strategy
	}
	if c.SlugStrategy == "" {
		c.SlugStrategy = def.SlugStrategy
	}
}

// isWithinDir reports whether candidate is a strict descendant of root.
func isWithinDir(candidate, root string) bool {
	return candidate != root && pathutil.IsWithin(candidate, root)
}
