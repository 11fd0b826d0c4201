package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIgnoreEngine_Defaults(t *testing.T) {
	e := NewIgnoreEngine()

	assert.True(t, e.ShouldIgnore(".git", true))
	assert.True(t, e.ShouldIgnore("node_modules", true))
	assert.True(t, e.ShouldIgnore("notes/.obsidian/workspace.json", false))
	assert.True(t, e.ShouldIgnore("build/out.json", false))
	assert.False(t, e.ShouldIgnore("notes/daily.md", false))
}

func TestIgnoreEngine_HiddenDirectoryAlwaysPruned(t *testing.T) {
	e := NewIgnoreEngine()
	assert.True(t, e.ShouldIgnore(".config/settings.md", false))
}

func TestIgnoreEngine_Negation(t *testing.T) {
	e := &IgnoreEngine{}
	e.AddPattern("*.log")
	e.AddPattern("!keep.log")

	assert.True(t, e.ShouldIgnore("debug.log", false))
	assert.False(t, e.ShouldIgnore("keep.log", false))
}

func TestIgnoreEngine_DirectoryPrefixPrunesSubtree(t *testing.T) {
	e := &IgnoreEngine{}
	e.AddPattern("archive/")

	assert.True(t, e.ShouldIgnore("archive", true))
	assert.True(t, e.ShouldIgnore("archive/2020/jan.md", false))
	assert.False(t, e.ShouldIgnore("archived.md", false))
}

func TestLoadIgnoreRules_PrefersRepoIgnore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".repoignore"), []byte("scratch/\n*.bak\n"), 0o644))

	e, err := LoadIgnoreRules(dir, []string{"should-not-apply/"})
	require.NoError(t, err)

	assert.True(t, e.ShouldIgnore("scratch", true))
	assert.True(t, e.ShouldIgnore("notes.bak", false))
	assert.False(t, e.ShouldIgnore("should-not-apply", true))
	// Defaults are always applied underneath .repoignore.
	assert.True(t, e.ShouldIgnore(".git", true))
}

func TestLoadIgnoreRules_FallsBackToExplicitPatterns(t *testing.T) {
	dir := t.TempDir()

	e, err := LoadIgnoreRules(dir, []string{"drafts/"})
	require.NoError(t, err)

	assert.True(t, e.ShouldIgnore("drafts", true))
	assert.False(t, e.ShouldIgnore("published", true))
}

func TestLoadIgnoreRules_NoPatternsWhenNeitherProvided(t *testing.T) {
	dir := t.TempDir()

	e, err := LoadIgnoreRules(dir, nil)
	require.NoError(t, err)

	assert.False(t, e.ShouldIgnore("anything.md", false))
	assert.True(t, e.ShouldIgnore(".git", true))
}
