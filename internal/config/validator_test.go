package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAndSetDefaults_FillsMissingFields(t *testing.T) {
	cfg := &Config{
		Directories: Directories{Input: "/vault"},
	}

	err := NewValidator().ValidateAndSetDefaults(cfg)
	require.NoError(t, err)

	assert.Equal(t, "build", cfg.Directories.Output)
	assert.Equal(t, "/notes", cfg.Paths.NotesPrefix)
	assert.Equal(t, "/media", cfg.Paths.MediaPrefix)
	assert.NotEmpty(t, cfg.Media.Sizes)
	assert.Equal(t, "lg", cfg.Media.PreferredSize)
	assert.Equal(t, MermaidImgPNG, cfg.Mermaid.Strategy)
}

func TestValidateConfig_MissingInputFails(t *testing.T) {
	cfg := &Config{}
	err := ValidateConfig(cfg)
	require.Error(t, err)
}

func TestValidateConfig_OutputInsideInputFails(t *testing.T) {
	cfg := &Config{
		Directories: Directories{Input: "/vault", Output: "/vault/build"},
	}
	err := ValidateConfig(cfg)
	require.Error(t, err)
}

func TestValidateConfig_OutputEqualsInputFails(t *testing.T) {
	cfg := &Config{
		Directories: Directories{Input: "/vault", Output: "/vault"},
	}
	err := ValidateConfig(cfg)
	require.Error(t, err)
}

func TestValidateConfig_BadMermaidStrategyFails(t *testing.T) {
	cfg := Default()
	cfg.Directories.Input = "/vault"
	cfg.Mermaid.Enabled = true
	cfg.Mermaid.Strategy = "not-a-strategy"

	err := cfg.Validate()
	require.Error(t, err)
}

func TestValidateConfig_BadDebugLevelFails(t *testing.T) {
	cfg := Default()
	cfg.Directories.Input = "/vault"
	cfg.DebugLevel = 7

	err := cfg.Validate()
	require.Error(t, err)
}

func TestValidateConfig_CollectsMultipleViolations(t *testing.T) {
	cfg := &Config{
		Media: Media{PreferredSize: ""},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "errors")
}
