//go:build sdl2

package sdl2

import (
	"log/slog"

	"github.com/valerio/go-shadercard/shadercard/backend"
	"github.com/valerio/go-shadercard/shadercard/gpu"
	"github.com/valerio/go-shadercard/shadercard/input"
	"github.com/valerio/go-shadercard/shadercard/input/action"
	"github.com/valerio/go-shadercard/shadercard/input/event"
	"github.com/veandco/go-sdl2/sdl"
)

const name = "sdl2"

// Backend implements the Backend interface using SDL2 bindings
// Note: building this requires SDL2 development libraries installed.
// Default builds skip this and use a stub, see build tags (sdl2)
type Backend struct {
	window       *sdl.Window
	context      sdl.GLContext
	config       backend.BackendConfig
	inputManager *input.Manager
	width        int
	height       int
}

// New creates a new SDL2 backend
func New() *Backend {
	return &Backend{}
}

// Init initializes SDL2 and creates an OpenGL 3.3 core context
func (s *Backend) Init(config backend.BackendConfig) error {
	s.config = config
	s.inputManager = config.InputManager

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return &backend.ContextInitError{Backend: name, Err: err}
	}

	attrs := []struct {
		attr  sdl.GLattr
		value int
	}{
		{sdl.GL_CONTEXT_MAJOR_VERSION, 3},
		{sdl.GL_CONTEXT_MINOR_VERSION, 3},
		{sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE},
		{sdl.GL_CONTEXT_FLAGS, sdl.GL_CONTEXT_FORWARD_COMPATIBLE_FLAG},
		{sdl.GL_DOUBLEBUFFER, 1},
		{sdl.GL_DEPTH_SIZE, 24},
	}
	for _, a := range attrs {
		if err := sdl.GLSetAttribute(a.attr, a.value); err != nil {
			sdl.Quit()
			return &backend.ContextInitError{Backend: name, Err: err}
		}
	}

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if config.Hidden {
		flags |= sdl.WINDOW_HIDDEN
	} else {
		flags |= sdl.WINDOW_SHOWN
	}

	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(config.Width),
		int32(config.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return &backend.ContextInitError{Backend: name, Err: err}
	}
	s.window = window

	ctx, err := window.GLCreateContext()
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return &backend.ContextInitError{Backend: name, Err: err}
	}
	s.context = ctx

	interval := 0
	if config.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		slog.Warn("Failed to set swap interval", "interval", interval, "error", err)
	}

	s.updateSize()

	slog.Info("SDL2 backend initialized",
		"width", s.width,
		"height", s.height,
		"hidden", config.Hidden)
	return nil
}

func (s *Backend) updateSize() {
	w, h := s.window.GLGetDrawableSize()
	s.width, s.height = int(w), int(h)
}

// Update processes pending SDL events
func (s *Backend) Update() error {
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		s.handleEvent(e)
	}
	return nil
}

func (s *Backend) handleEvent(e sdl.Event) {
	switch e := e.(type) {
	case *sdl.QuitEvent:
		if s.inputManager != nil {
			s.inputManager.Trigger(action.PreviewQuit, event.Press)
		}

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			s.updateSize()
			if s.inputManager != nil {
				s.inputManager.Resize(s.width, s.height)
			}
		}

	case *sdl.KeyboardEvent:
		// Ignore key repeat events
		if e.Repeat != 0 || s.inputManager == nil {
			return
		}
		act, ok := input.GetDefaultMapping(sdl.GetKeyName(e.Keysym.Sym))
		if !ok {
			return
		}
		if e.Type == sdl.KEYDOWN {
			s.inputManager.Trigger(act, event.Press)
		} else if e.Type == sdl.KEYUP {
			s.inputManager.Trigger(act, event.Release)
		}
	}
}

// Size returns the drawable size in pixels
func (s *Backend) Size() (int, int) {
	return s.width, s.height
}

// BeginFrame targets the window's default framebuffer
func (s *Backend) BeginFrame(dev gpu.Device) error {
	dev.BindFramebuffer(gpu.DefaultFramebuffer)
	return nil
}

// EndFrame swaps the window buffers
func (s *Backend) EndFrame(dev gpu.Device) error {
	s.window.GLSwap()
	return nil
}

// Cleanup cleans up SDL2 resources
func (s *Backend) Cleanup() error {
	slog.Debug("Cleaning up SDL2 backend")

	if s.context != nil {
		sdl.GLDeleteContext(s.context)
		s.context = nil
	}
	if s.window != nil {
		s.window.Destroy()
		s.window = nil
	}
	sdl.Quit()

	return nil
}
