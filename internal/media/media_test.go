package media

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/standardbeagle/vaultproc/internal/config"
	"github.com/standardbeagle/vaultproc/internal/issues"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 255), G: uint8(y % 255), B: 100, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func baseConfig() *config.Config {
	cfg := config.Default()
	cfg.Media.Sizes = []config.MediaSize{{Name: "sm", Width: 64}, {Name: "original"}}
	cfg.Media.Formats = []string{"jpeg"}
	return &cfg
}

func TestProcess_GeneratesVariantMatrix(t *testing.T) {
	root := t.TempDir()
	outputDir := t.TempDir()
	writePNG(t, filepath.Join(root, "img.png"), 200, 100)

	cfg := baseConfig()
	coll := issues.New()

	cat, err := Process(context.Background(), root, outputDir, []string{"img.png"}, cfg, coll)
	require.NoError(t, err)
	require.Len(t, cat.Media, 1)

	desc := cat.Media[0]
	assert.Equal(t, "img.png", desc.OriginalRelPath)
	assert.Contains(t, desc.Sizes, "sm")
	assert.Contains(t, desc.Sizes, "original")
	assert.Equal(t, 0, coll.Len())
}

func TestProcess_SkipHashesWritesNoBytes(t *testing.T) {
	root := t.TempDir()
	outputDir := t.TempDir()
	writePNG(t, filepath.Join(root, "img.png"), 50, 50)
	data, err := os.ReadFile(filepath.Join(root, "img.png"))
	require.NoError(t, err)
	hash := contentHash(data)

	cfg := baseConfig()
	cfg.Media.SkipHashes = []string{hash}
	coll := issues.New()

	cat, err := Process(context.Background(), root, outputDir, []string{"img.png"}, cfg, coll)
	require.NoError(t, err)
	require.Len(t, cat.Media, 1)

	desc := cat.Media[0]
	require.Len(t, desc.Sizes["original"], 1)
	assert.True(t, desc.Sizes["original"][0].SkippedOptimization)

	entries, _ := os.ReadDir(filepath.Join(outputDir, cfg.Naming.MediaFolderName))
	assert.Empty(t, entries)
}

func TestProcess_NoUpscalingAboveSourceWidth(t *testing.T) {
	root := t.TempDir()
	outputDir := t.TempDir()
	writePNG(t, filepath.Join(root, "small.png"), 40, 40)

	cfg := baseConfig()
	cfg.Media.Sizes = []config.MediaSize{{Name: "xl", Width: 3840}, {Name: "original"}}
	coll := issues.New()

	cat, err := Process(context.Background(), root, outputDir, []string{"small.png"}, cfg, coll)
	require.NoError(t, err)
	require.Len(t, cat.Media, 1)
	_, hasXL := cat.Media[0].Sizes["xl"]
	assert.False(t, hasXL)
}

func TestProcess_RasterOnlyExtensionPassesThrough(t *testing.T) {
	root := t.TempDir()
	outputDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "diagram.svg"), []byte("<svg></svg>"), 0o644))

	cfg := baseConfig()
	coll := issues.New()

	cat, err := Process(context.Background(), root, outputDir, []string{"diagram.svg"}, cfg, coll)
	require.NoError(t, err)
	require.Len(t, cat.Media, 1)
	assert.Equal(t, "svg", cat.Media[0].Format)
	assert.Len(t, cat.Media[0].Sizes["original"], 1)
}

func TestProcess_SkipExistingReusesDestination(t *testing.T) {
	root := t.TempDir()
	outputDir := t.TempDir()
	writePNG(t, filepath.Join(root, "img.png"), 200, 100)

	cfg := baseConfig()
	cfg.Media.SkipExisting = true
	coll := issues.New()

	_, err := Process(context.Background(), root, outputDir, []string{"img.png"}, cfg, coll)
	require.NoError(t, err)

	cat, err := Process(context.Background(), root, outputDir, []string{"img.png"}, cfg, coll)
	require.NoError(t, err)
	require.Len(t, cat.Media, 1)
	assert.Equal(t, 0, coll.Len())
}

func TestProcess_HashLayoutShardsByPrefix(t *testing.T) {
	root := t.TempDir()
	outputDir := t.TempDir()
	writePNG(t, filepath.Join(root, "img.png"), 200, 100)

	cfg := baseConfig()
	cfg.Media.UseHash = true
	cfg.Media.UseHashSharding = true
	coll := issues.New()

	cat, err := Process(context.Background(), root, outputDir, []string{"img.png"}, cfg, coll)
	require.NoError(t, err)
	require.Len(t, cat.Media, 1)
	assert.NotEmpty(t, cat.Media[0].HashPath)
	assert.Equal(t, cat.Media[0].ContentHash[:2], cat.Media[0].HashPath)
}
