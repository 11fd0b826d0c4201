package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/standardbeagle/vaultproc/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeVaultFile(t *testing.T, root, relPath, content string) {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(relPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
}

func TestRun_ProcessesVaultAndWritesOutputs(t *testing.T) {
	vault := t.TempDir()
	output := filepath.Join(t.TempDir(), "build")

	writeVaultFile(t, vault, "alpha.md", "---\ntitle: Alpha\n---\n\nSee [[Beta]].\n")
	writeVaultFile(t, vault, "beta.md", "# Beta\n\nNothing links here.\n")

	cfg := config.Default()
	cfg.Directories.Input = vault
	cfg.Directories.Output = output
	cfg.Media.Skip = true
	cfg.Posts.ProcessAllFiles = true

	result, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, result.Posts, 2)

	assert.FileExists(t, filepath.Join(output, "posts.json"))
	assert.FileExists(t, filepath.Join(output, "slug-map.json"))
	assert.FileExists(t, filepath.Join(output, "path-map.json"))

	var alpha, beta *string
	for _, p := range result.Posts {
		html := p.HTML
		switch p.File.Filename {
		case "alpha":
			alpha = &html
		case "beta":
			beta = &html
		}
	}
	require.NotNil(t, alpha)
	require.NotNil(t, beta)
	assert.Contains(t, *alpha, `href="/notes/beta"`)
}

func TestRun_RejectsOutputInsideInput(t *testing.T) {
	vault := t.TempDir()
	writeVaultFile(t, vault, "a.md", "body")

	cfg := config.Default()
	cfg.Directories.Input = vault
	cfg.Directories.Output = filepath.Join(vault, "build")
	cfg.Media.Skip = true

	_, err := Run(context.Background(), cfg)
	require.Error(t, err)
}

func TestRun_UnparseableFileIsSkippedButRunContinues(t *testing.T) {
	vault := t.TempDir()
	output := filepath.Join(t.TempDir(), "build")

	writeVaultFile(t, vault, "good.md", "Plain body.\n")
	writeVaultFile(t, vault, "bad.md", "---\ntitle: [unterminated\n---\nbody\n")

	cfg := config.Default()
	cfg.Directories.Input = vault
	cfg.Directories.Output = output
	cfg.Media.Skip = true
	cfg.Posts.ProcessAllFiles = true

	result, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(result.Posts), 1)
}
