// Package backend defines the platform layer that owns the GL context, the
// presentation surface and native input.
package backend

import (
	"fmt"

	"github.com/valerio/go-shadercard/shadercard/gpu"
	"github.com/valerio/go-shadercard/shadercard/input"
)

// Backend represents a complete platform (GL context + surface + input).
// Backends are responsible for:
// - Creating and owning the GL context the gpu.Device talks to
// - Translating platform events to Actions via InputManager
// - Presenting frames rendered by the preview loop
type Backend interface {
	// Init creates the context and, unless Hidden is set, the visible
	// surface. It must succeed before a gpu.Device is created.
	Init(config BackendConfig) error

	// Update polls platform events and forwards them to the InputManager.
	Update() error

	// Size returns the current drawable size in pixels.
	Size() (width, height int)

	// BeginFrame binds the framebuffer the next frame should be drawn into.
	BeginFrame(dev gpu.Device) error

	// EndFrame presents the frame drawn since BeginFrame.
	EndFrame(dev gpu.Device) error

	// Cleanup releases the context and surface.
	Cleanup() error
}

// BackendConfig holds configuration for backends
type BackendConfig struct {
	Title  string
	Width  int
	Height int
	VSync  bool
	// Hidden creates an offscreen context only, used for export.
	Hidden bool
	// InputManager receives translated input; may be nil when Hidden.
	InputManager *input.Manager
}

// ContextInitError reports that a backend could not create its window or
// GL context.
type ContextInitError struct {
	Backend string
	Err     error
}

func (e *ContextInitError) Error() string {
	return fmt.Sprintf("%s: failed to initialize context: %v", e.Backend, e.Err)
}

func (e *ContextInitError) Unwrap() error {
	return e.Err
}
