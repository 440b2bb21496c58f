// Package config holds the run settings, loaded from defaults, an optional
// YAML file and command line flags, in increasing precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/valerio/go-shadercard/shadercard/backend"
	"github.com/valerio/go-shadercard/shadercard/export"
	"github.com/valerio/go-shadercard/shadercard/imaging"
	"gopkg.in/yaml.v3"
)

// Backend names accepted by the backend setting.
const (
	BackendGLFW     = "glfw"
	BackendSDL2     = "sdl2"
	BackendTerminal = "terminal"
)

const (
	DefaultPrintSize   = 145.0
	DefaultResolution  = 8192
	DefaultWindowTitle = "Holiday card (press 0 - 4 to change mode)"
	DefaultFPS         = 30
)

// Window configures the preview window.
type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	VSync  bool   `yaml:"vsync"`
}

// Terminal configures the terminal preview.
type Terminal struct {
	FPS float64 `yaml:"fps"`
}

// Settings is the complete run configuration.
type Settings struct {
	Preview    bool     `yaml:"preview"`
	PrintSize  float64  `yaml:"print_size_mm"`
	Resolution int      `yaml:"resolution"`
	OutputDir  string   `yaml:"output_dir"`
	ProofSize  int      `yaml:"proof_size"`
	Quality    int      `yaml:"quality"`
	Backend    string   `yaml:"backend"`
	LogLevel   string   `yaml:"log_level"`
	Progress   bool     `yaml:"progress"`
	Window     Window   `yaml:"window"`
	Terminal   Terminal `yaml:"terminal"`
}

// Default returns the settings used when nothing else is configured.
func Default() Settings {
	return Settings{
		Preview:    false,
		PrintSize:  DefaultPrintSize,
		Resolution: DefaultResolution,
		OutputDir:  ".",
		ProofSize:  0,
		Quality:    imaging.DefaultQuality,
		Backend:    BackendGLFW,
		LogLevel:   "info",
		Progress:   true,
		Window: Window{
			Title:  DefaultWindowTitle,
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Terminal: Terminal{
			FPS: DefaultFPS,
		},
	}
}

// Load overlays the YAML file at path on the defaults. Unknown keys are
// rejected.
func Load(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("failed to read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return s, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	slog.Debug("Loaded config", "path", path)
	return s, nil
}

// Level parses LogLevel.
func (s Settings) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s.LogLevel, err)
	}
	return level, nil
}

// Validate checks every setting and reports all problems at once.
func (s Settings) Validate() error {
	var errs []error
	if err := s.ExportConfig().Validate(); err != nil {
		errs = append(errs, err)
	}
	switch s.Backend {
	case BackendGLFW, BackendSDL2, BackendTerminal:
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", s.Backend))
	}
	if _, err := s.Level(); err != nil {
		errs = append(errs, err)
	}
	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", s.Window.Width, s.Window.Height))
	}
	if s.Terminal.FPS <= 0 {
		errs = append(errs, fmt.Errorf("terminal fps must be positive, got %g", s.Terminal.FPS))
	}
	return errors.Join(errs...)
}

// ExportConfig returns the export parameters.
func (s Settings) ExportConfig() export.Config {
	return export.Config{
		Resolution: s.Resolution,
		PrintSize:  s.PrintSize,
		OutputDir:  s.OutputDir,
		ProofSize:  s.ProofSize,
		Quality:    s.Quality,
		Progress:   s.Progress,
	}
}

// BackendConfig returns the backend parameters. Export runs use a hidden
// context.
func (s Settings) BackendConfig() backend.BackendConfig {
	return backend.BackendConfig{
		Title:  s.Window.Title,
		Width:  s.Window.Width,
		Height: s.Window.Height,
		VSync:  s.Window.VSync,
		Hidden: !s.Preview,
	}
}
