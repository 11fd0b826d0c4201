// Package media implements C2, the Media Transcoder: for each discovered
// image it produces a (size x format) variant matrix under a
// content-addressed or path-mirroring layout, grounded on
// ellingwood-forge/internal/image/processor.go's Processor.Process
// (resize matrix, format matrix, content-hash cache lookup) and bounded by
// an errgroup worker pool the way lci/internal/mcp already uses errgroup
// for cancellation-aware fan-out.
package media

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/webp"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/vaultproc/internal/catalog"
	"github.com/standardbeagle/vaultproc/internal/config"
	"github.com/standardbeagle/vaultproc/internal/debug"
	"github.com/standardbeagle/vaultproc/internal/issues"
)

// rasterOnlyExt are extensions the resize/format matrix never applies to;
// they are passed through as a single "original" variant because
// disintegration/imaging cannot decode vector/video sources.
var rasterOnlyExt = map[string]bool{
	".svg": true, ".mp4": true, ".webm": true,
}

// Process transcodes every discovered media path under root, writing
// variants to <output>/<mediaFolderName>, and returns the frozen catalog
// C5/C7 consume.
func Process(ctx context.Context, root, outputDir string, mediaRelPaths []string, cfg *config.Config, coll *issues.Collector) (*catalog.MediaCatalog, error) {
	mediaOutputDir := filepath.Join(outputDir, cfg.Naming.MediaFolderName)

	descriptors := make([]*catalog.MediaDescriptor, len(mediaRelPaths))

	workers := runtime.NumCPU()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, relPath := range mediaRelPaths {
		i, relPath := i, relPath
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			desc := processOne(root, mediaOutputDir, relPath, cfg, coll)
			descriptors[i] = desc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*catalog.MediaDescriptor, 0, len(descriptors))
	for _, d := range descriptors {
		if d != nil {
			out = append(out, d)
		}
	}

	return catalog.NewMediaCatalog(out, config.BestSizeOrder, config.BestFormatOrder), nil
}

func processOne(root, mediaOutputDir, relPath string, cfg *config.Config, coll *issues.Collector) *catalog.MediaDescriptor {
	debug.LogMedia("processing %s", relPath)

	srcPath := filepath.Join(root, filepath.FromSlash(relPath))
	data, err := os.ReadFile(srcPath)
	if err != nil {
		coll.MediaProcessingError(relPath, relPath, issues.OpRead, err.Error(), "")
		return passthroughDescriptor(relPath, nil, cfg)
	}

	hash := contentHash(data)
	ext := strings.ToLower(filepath.Ext(relPath))
	stem := strings.TrimSuffix(filepath.Base(relPath), ext)
	sourceRelDir := filepath.ToSlash(filepath.Dir(relPath))
	if sourceRelDir == "." {
		sourceRelDir = ""
	}

	for _, skip := range cfg.Media.SkipHashes {
		if skip == hash {
			return skippedOptimizationDescriptor(relPath, data, hash, cfg)
		}
	}

	desc := &catalog.MediaDescriptor{
		OriginalRelPath: relPath,
		Filename:        filepath.Base(relPath),
		Ext:             ext,
		MIME:            mimeFor(ext),
		ContentHash:     hash,
		Sizes:           map[string][]catalog.MediaVariant{},
	}
	if cfg.Media.UseHash {
		hashRelPath := layout(cfg, sourceRelDir, stem, hash, "", "")
		desc.HashPath = filepath.ToSlash(filepath.Dir(hashRelPath))
		desc.EffectivePath = desc.HashPath
	} else {
		desc.EffectivePath = sourceRelDir
	}

	if rasterOnlyExt[ext] {
		v := passthroughVariant(cfg, sourceRelDir, stem, hash, ext, data, mediaOutputDir, relPath, coll)
		desc.Sizes["original"] = []catalog.MediaVariant{v}
		desc.Format = strings.TrimPrefix(ext, ".")
		desc.ByteSize = int64(len(data))
		return desc
	}

	srcImg, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		coll.MediaProcessingError(relPath, relPath, issues.OpOptimize, err.Error(), "")
		v := passthroughVariant(cfg, sourceRelDir, stem, hash, ext, data, mediaOutputDir, relPath, coll)
		desc.Sizes["original"] = []catalog.MediaVariant{v}
		return desc
	}
	bounds := srcImg.Bounds()
	desc.Width, desc.Height = bounds.Dx(), bounds.Dy()
	desc.Format = strings.TrimPrefix(ext, ".")
	desc.ByteSize = int64(len(data))

	formats := cfg.Media.Formats
	if len(formats) == 0 {
		formats = []string{"webp", "jpeg"}
	}

	fh := fastHash(data)

	for _, size := range cfg.Media.Sizes {
		if size.Width > 0 && size.Width > bounds.Dx() {
			continue // no upscaling
		}
		var variants []catalog.MediaVariant
		for _, format := range formats {
			if format == "avif" && ext == ".svg" {
				continue // SVG -> AVIF always skipped
			}
			v := encodeVariant(cfg, srcImg, sourceRelDir, stem, hash, fh, size, format, mediaOutputDir, srcPath, relPath, coll)
			variants = append(variants, v)
		}
		desc.Sizes[size.Name] = variants
	}

	return desc
}

func encodeVariant(cfg *config.Config, src image.Image, sourceRelDir, stem, hash string, fh uint64, size config.MediaSize, format string, mediaOutputDir, srcAbsPath, sourceRelPath string, coll *issues.Collector) catalog.MediaVariant {
	destRel := layout(cfg, sourceRelDir, stem, hash, size.Name, format)
	destAbs := filepath.Join(mediaOutputDir, filepath.FromSlash(destRel))
	sidecarAbs := destAbs + ".fasthash"

	if !cfg.Media.ForceReprocess && cfg.Media.SkipExisting {
		if destInfo, err := os.Stat(destAbs); err == nil {
			// Fast pre-check: if the recorded source digest still matches,
			// the encode is known unchanged without touching srcAbsPath at
			// all, mirroring the teacher's FastHash short-circuit ahead of
			// its full content hash comparison.
			if readFastHashSidecar(sidecarAbs) == fh {
				w, h, byteSize, _ := readImageMeta(destAbs)
				return buildVariantFull(cfg, size.Name, w, h, format, byteSize, destRel)
			}
			if srcInfo, serr := os.Stat(srcAbsPath); serr == nil && !destInfo.ModTime().Before(srcInfo.ModTime()) {
				w, h, byteSize, _ := readImageMeta(destAbs)
				writeFastHashSidecar(sidecarAbs, fh)
				return buildVariantFull(cfg, size.Name, w, h, format, byteSize, destRel)
			}
		}
	}

	resized := src
	if size.Width > 0 {
		resized = imaging.Resize(src, size.Width, 0, imaging.Lanczos)
	}

	if err := os.MkdirAll(filepath.Dir(destAbs), 0o755); err != nil {
		coll.MediaProcessingError(sourceRelPath, sourceRelPath, issues.OpOptimize, err.Error(), "")
		return catalog.MediaVariant{SizeName: size.Name, Format: format}
	}

	byteSize, err := encodeToFile(destAbs, resized, format)
	if err != nil {
		coll.MediaProcessingError(sourceRelPath, sourceRelPath, issues.OpOptimize, err.Error(), "")
	} else {
		writeFastHashSidecar(sidecarAbs, fh)
	}

	b := resized.Bounds()
	return buildVariantFull(cfg, size.Name, b.Dx(), b.Dy(), format, byteSize, destRel)
}

func buildVariantFull(cfg *config.Config, sizeName string, w, h int, format string, byteSize int64, destRel string) catalog.MediaVariant {
	pub := publicPath(cfg, destRel)
	return catalog.MediaVariant{
		SizeName:           sizeName,
		Width:              w,
		Height:             h,
		Format:             format,
		PublicPath:         pub,
		AbsolutePublicPath: absolutePublicPath(cfg, pub),
		ByteSize:           byteSize,
	}
}

func encodeToFile(destAbs string, img image.Image, format string) (int64, error) {
	f, err := os.Create(destAbs)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	switch format {
	case "webp":
		if err := webp.Encode(f, img, webp.Options{Quality: 80}); err != nil {
			return 0, err
		}
	case "jpeg", "jpg":
		if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 85}); err != nil {
			return 0, err
		}
	case "png":
		if err := png.Encode(f, img); err != nil {
			return 0, err
		}
	default:
		if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 85}); err != nil {
			return 0, err
		}
	}

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func readImageMeta(path string) (w, h int, byteSize int64, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, 0, 0, err
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, 0, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, info.Size(), err
	}
	return cfg.Width, cfg.Height, info.Size(), nil
}

func passthroughVariant(cfg *config.Config, sourceRelDir, stem, hash, ext string, data []byte, mediaOutputDir, sourceRelPath string, coll *issues.Collector) catalog.MediaVariant {
	format := strings.TrimPrefix(ext, ".")
	destRel := layout(cfg, sourceRelDir, stem, hash, "original", format)
	destAbs := filepath.Join(mediaOutputDir, filepath.FromSlash(destRel))

	if err := os.MkdirAll(filepath.Dir(destAbs), 0o755); err != nil {
		coll.MediaProcessingError(sourceRelPath, sourceRelPath, issues.OpOptimize, err.Error(), "")
	} else if err := os.WriteFile(destAbs, data, 0o644); err != nil {
		coll.MediaProcessingError(sourceRelPath, sourceRelPath, issues.OpOptimize, err.Error(), "")
	}

	return buildVariantFull(cfg, "original", 0, 0, format, int64(len(data)), destRel)
}

// skippedOptimizationDescriptor implements the skipHashes gate: no bytes
// are written; the variant references the source file directly.
func skippedOptimizationDescriptor(relPath string, data []byte, hash string, cfg *config.Config) *catalog.MediaDescriptor {
	ext := strings.ToLower(filepath.Ext(relPath))
	pub := publicPath(cfg, relPath)
	v := catalog.MediaVariant{
		SizeName:            "original",
		Format:              strings.TrimPrefix(ext, "."),
		PublicPath:          pub,
		AbsolutePublicPath:  absolutePublicPath(cfg, pub),
		ByteSize:            int64(len(data)),
		SkippedOptimization: true,
	}
	return &catalog.MediaDescriptor{
		OriginalRelPath: relPath,
		Filename:        filepath.Base(relPath),
		Ext:             ext,
		MIME:            mimeFor(ext),
		ContentHash:     hash,
		EffectivePath:   relPath,
		Sizes:           map[string][]catalog.MediaVariant{"original": {v}},
		Format:          strings.TrimPrefix(ext, "."),
		ByteSize:        int64(len(data)),
	}
}

func passthroughDescriptor(relPath string, data []byte, cfg *config.Config) *catalog.MediaDescriptor {
	ext := strings.ToLower(filepath.Ext(relPath))
	pub := publicPath(cfg, relPath)
	return &catalog.MediaDescriptor{
		OriginalRelPath: relPath,
		Filename:        filepath.Base(relPath),
		Ext:             ext,
		MIME:            mimeFor(ext),
		EffectivePath:   relPath,
		Sizes: map[string][]catalog.MediaVariant{"original": {{
			SizeName:           "original",
			Format:             strings.TrimPrefix(ext, "."),
			PublicPath:         pub,
			AbsolutePublicPath: absolutePublicPath(cfg, pub),
		}}},
	}
}

func mimeFor(ext string) string {
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".avif":
		return "image/avif"
	case ".svg":
		return "image/svg+xml"
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	default:
		return "application/octet-stream"
	}
}
