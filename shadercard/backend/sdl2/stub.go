//go:build !sdl2

package sdl2

import (
	"errors"
	"fmt"

	"github.com/valerio/go-shadercard/shadercard/backend"
	"github.com/valerio/go-shadercard/shadercard/gpu"
)

// ErrUnavailable is returned by every stub method that needs SDL2.
var ErrUnavailable = errors.New("SDL2 backend not available - build with -tags sdl2 to enable")

// Backend stub for when SDL2 is not available
type Backend struct{}

// New creates a stub SDL2 backend that returns an error
func New() *Backend {
	return &Backend{}
}

// Init returns an error indicating SDL2 is not available
func (s *Backend) Init(config backend.BackendConfig) error {
	return &backend.ContextInitError{Backend: "sdl2", Err: ErrUnavailable}
}

// Update returns an error
func (s *Backend) Update() error {
	return fmt.Errorf("update: %w", ErrUnavailable)
}

// Size reports an empty surface
func (s *Backend) Size() (int, int) {
	return 0, 0
}

// BeginFrame returns an error
func (s *Backend) BeginFrame(dev gpu.Device) error {
	return ErrUnavailable
}

// EndFrame returns an error
func (s *Backend) EndFrame(dev gpu.Device) error {
	return ErrUnavailable
}

// Cleanup does nothing
func (s *Backend) Cleanup() error {
	return nil
}
