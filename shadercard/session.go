// Package shadercard renders a GLSL fragment shader into print-ready
// background and foreground layers, or previews it live.
package shadercard

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/valerio/go-shadercard/shadercard/backend"
	"github.com/valerio/go-shadercard/shadercard/config"
	"github.com/valerio/go-shadercard/shadercard/export"
	"github.com/valerio/go-shadercard/shadercard/gpu"
	"github.com/valerio/go-shadercard/shadercard/input"
	"github.com/valerio/go-shadercard/shadercard/preview"
	"github.com/valerio/go-shadercard/shadercard/shader"
	"github.com/valerio/go-shadercard/shadercard/timing"
)

// DeviceFactory creates a device bound to the context made current by the
// backend.
type DeviceFactory func() (gpu.Device, error)

// Session holds everything bound to one GL context: the backend, device,
// compiled program and point buffer.
type Session struct {
	settings config.Settings
	backend  backend.Backend
	manager  *input.Manager
	dev      gpu.Device
	program  *shader.Program
	points   *shader.PointBuffer
}

// Open initializes b, creates the device and compiles fragment. Nothing is
// written to disk before Open succeeds.
func Open(b backend.Backend, settings config.Settings, fragment string, newDevice DeviceFactory) (*Session, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	s := &Session{
		settings: settings,
		backend:  b,
		manager:  input.NewManager(),
	}

	cfg := settings.BackendConfig()
	cfg.InputManager = s.manager
	if err := b.Init(cfg); err != nil {
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	dev, err := newDevice()
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create device: %w", err), b.Cleanup())
	}
	s.dev = dev

	program, err := shader.Compile(dev, fragment)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to build shader program: %w", err), b.Cleanup())
	}
	s.program = program

	s.points = shader.NewPointBuffer(dev)

	return s, nil
}

// Run exports or previews depending on the settings.
func (s *Session) Run() error {
	if s.settings.Preview {
		return s.Preview()
	}
	_, err := s.Export()
	return err
}

// Export renders both layers to the configured output directory.
func (s *Session) Export() ([]string, error) {
	ex := export.New(s.dev, s.program, s.points)
	paths, err := ex.Export(s.settings.ExportConfig())
	if err != nil {
		return nil, fmt.Errorf("export failed: %w", err)
	}
	return paths, nil
}

// Preview runs the interactive loop until the user quits.
func (s *Session) Preview(opts ...preview.Option) error {
	if s.settings.Backend == config.BackendTerminal {
		limiter, err := timing.NewTickerLimiter(s.settings.Terminal.FPS)
		if err != nil {
			return err
		}
		opts = append([]preview.Option{preview.WithLimiter(limiter)}, opts...)
	}

	loop := preview.New(s.dev, s.program, s.points, s.backend, s.manager, opts...)
	if err := loop.Run(); err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}
	return nil
}

// Close releases the GPU objects and then the backend.
func (s *Session) Close() error {
	if s.points != nil {
		s.points.Delete()
		s.points = nil
	}
	if s.program != nil {
		s.program.Delete()
		s.program = nil
	}
	if s.backend == nil {
		return nil
	}
	slog.Debug("Closing session")
	err := s.backend.Cleanup()
	s.backend = nil
	return err
}
