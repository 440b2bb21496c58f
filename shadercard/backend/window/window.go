// Package window implements the default backend on top of GLFW.
package window

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/valerio/go-shadercard/shadercard/backend"
	"github.com/valerio/go-shadercard/shadercard/gpu"
	"github.com/valerio/go-shadercard/shadercard/input"
	"github.com/valerio/go-shadercard/shadercard/input/action"
	"github.com/valerio/go-shadercard/shadercard/input/event"
)

const name = "glfw"

// keyNames covers keys GLFW has no printable name for.
var keyNames = map[glfw.Key]string{
	glfw.KeyEscape: "Escape",
	glfw.KeyKP0:    "Keypad 0",
	glfw.KeyKP1:    "Keypad 1",
	glfw.KeyKP2:    "Keypad 2",
	glfw.KeyKP3:    "Keypad 3",
	glfw.KeyKP4:    "Keypad 4",
}

// Backend owns a GLFW window and its OpenGL 3.3 core context.
type Backend struct {
	window       *glfw.Window
	config       backend.BackendConfig
	inputManager *input.Manager
	width        int
	height       int
}

// New creates a GLFW backend. Init must be called from the main thread.
func New() *Backend {
	return &Backend{}
}

// Init creates the window and makes its context current.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
func (b *Backend) Init(config backend.BackendConfig) error {
	b.config = config
	b.inputManager = config.InputManager

	if err := glfw.Init(); err != nil {
		return &backend.ContextInitError{Backend: name, Err: err}
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	if config.Hidden {
		glfw.WindowHint(glfw.Visible, glfw.False)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.True)
	}

	win, err := glfw.CreateWindow(config.Width, config.Height, config.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return &backend.ContextInitError{Backend: name, Err: fmt.Errorf("failed to create window: %w", err)}
	}
	b.window = win
	win.MakeContextCurrent()

	if config.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	// Framebuffer size differs from window size on high-DPI displays.
	b.width, b.height = win.GetFramebufferSize()

	b.setupCallbacks()

	slog.Info("GLFW backend initialized",
		"width", b.width,
		"height", b.height,
		"hidden", config.Hidden)
	return nil
}

func (b *Backend) setupCallbacks() {
	b.window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, act glfw.Action, _ glfw.ModifierKey) {
		if b.inputManager == nil {
			return
		}
		mapped, ok := input.GetDefaultMapping(keyName(key, scancode))
		if !ok {
			return
		}
		switch act {
		case glfw.Press:
			b.inputManager.Trigger(mapped, event.Press)
		case glfw.Release:
			b.inputManager.Trigger(mapped, event.Release)
		}
	})

	b.window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		b.width, b.height = width, height
		if b.inputManager != nil {
			b.inputManager.Resize(width, height)
		}
	})

	b.window.SetCloseCallback(func(_ *glfw.Window) {
		if b.inputManager != nil {
			b.inputManager.Trigger(action.PreviewQuit, event.Press)
		}
	})
}

func keyName(key glfw.Key, scancode int) string {
	if n, ok := keyNames[key]; ok {
		return n
	}
	return glfw.GetKeyName(key, scancode)
}

// Update polls GLFW for pending events without blocking.
func (b *Backend) Update() error {
	glfw.PollEvents()
	return nil
}

// Size returns the framebuffer size in pixels.
func (b *Backend) Size() (int, int) {
	return b.width, b.height
}

// BeginFrame targets the window's default framebuffer.
func (b *Backend) BeginFrame(dev gpu.Device) error {
	dev.BindFramebuffer(gpu.DefaultFramebuffer)
	return nil
}

// EndFrame swaps the window buffers.
func (b *Backend) EndFrame(dev gpu.Device) error {
	b.window.SwapBuffers()
	return nil
}

// Cleanup destroys the window and terminates GLFW.
func (b *Backend) Cleanup() error {
	if b.window == nil {
		return nil
	}
	slog.Debug("Cleaning up GLFW backend")
	b.window.Destroy()
	b.window = nil
	glfw.Terminate()
	return nil
}
