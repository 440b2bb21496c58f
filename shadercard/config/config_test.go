package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-shadercard/shadercard/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shadercard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	s := config.Default()
	require.NoError(t, s.Validate())

	assert.False(t, s.Preview)
	assert.Equal(t, 145.0, s.PrintSize)
	assert.Equal(t, 8192, s.Resolution)
	assert.Equal(t, 98, s.Quality)
	assert.Equal(t, config.BackendGLFW, s.Backend)

	level, err := s.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
preview: true
print_size_mm: 100
resolution: 512
backend: terminal
log_level: debug
window:
  width: 640
terminal:
  fps: 12
`)
	s, err := config.Load(path)
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	assert.True(t, s.Preview)
	assert.Equal(t, 100.0, s.PrintSize)
	assert.Equal(t, 512, s.Resolution)
	assert.Equal(t, config.BackendTerminal, s.Backend)
	assert.Equal(t, 640, s.Window.Width)
	assert.Equal(t, 720, s.Window.Height, "unset keys keep their default")
	assert.Equal(t, config.DefaultWindowTitle, s.Window.Title)
	assert.Equal(t, 12.0, s.Terminal.FPS)
	assert.Equal(t, 98, s.Quality)
}

func TestLoadEmptyFile(t *testing.T) {
	s, err := config.Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), s)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
	t.Run("unknown key", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, "resolutoin: 512\n"))
		assert.Error(t, err)
	})
	t.Run("wrong type", func(t *testing.T) {
		_, err := config.Load(writeConfig(t, "resolution: big\n"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Settings)
	}{
		{"zero resolution", func(s *config.Settings) { s.Resolution = 0 }},
		{"negative print size", func(s *config.Settings) { s.PrintSize = -1 }},
		{"quality", func(s *config.Settings) { s.Quality = 0 }},
		{"backend", func(s *config.Settings) { s.Backend = "vulkan" }},
		{"log level", func(s *config.Settings) { s.LogLevel = "chatty" }},
		{"window", func(s *config.Settings) { s.Window.Height = 0 }},
		{"fps", func(s *config.Settings) { s.Terminal.FPS = 0 }},
		{"output dir", func(s *config.Settings) { s.OutputDir = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := config.Default()
			tt.modify(&s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestDerivedConfigs(t *testing.T) {
	s := config.Default()
	s.Resolution = 512
	s.PrintSize = 100
	s.OutputDir = "out"
	s.ProofSize = 64

	ec := s.ExportConfig()
	assert.Equal(t, 512, ec.Resolution)
	assert.Equal(t, "out", ec.OutputDir)
	assert.Equal(t, 64, ec.ProofSize)
	assert.InDelta(t, 130.048, ec.DPI(), 0.001)

	bc := s.BackendConfig()
	assert.True(t, bc.Hidden, "export runs without a visible window")
	assert.Equal(t, config.DefaultWindowTitle, bc.Title)

	s.Preview = true
	assert.False(t, s.BackendConfig().Hidden)
}
