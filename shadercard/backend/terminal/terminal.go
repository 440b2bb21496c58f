// Package terminal previews the shader in a terminal using tcell. Frames are
// rendered offscreen at cell resolution and drawn with half-block glyphs.
package terminal

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-shadercard/shadercard/backend"
	"github.com/valerio/go-shadercard/shadercard/backend/terminal/render"
	"github.com/valerio/go-shadercard/shadercard/gpu"
	"github.com/valerio/go-shadercard/shadercard/input"
	"github.com/valerio/go-shadercard/shadercard/input/action"
	"github.com/valerio/go-shadercard/shadercard/input/event"
	"github.com/valerio/go-shadercard/shadercard/target"
)

const (
	name          = "terminal"
	logBufferSize = 200
)

var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyEscape: "Escape",
}

// Backend borrows the GL context of a hidden backend and presents frames on
// a tcell screen.
type Backend struct {
	context      backend.Backend
	screen       tcell.Screen
	config       backend.BackendConfig
	inputManager *input.Manager
	logBuffer    *render.LogBuffer
	logLevel     slog.Leveler
	prevLogger   *slog.Logger
	target       *target.Target
	cols         int
	rows         int
}

// Option configures a terminal Backend.
type Option func(*Backend)

// WithScreen uses screen instead of the controlling terminal.
func WithScreen(screen tcell.Screen) Option {
	return func(t *Backend) {
		t.screen = screen
	}
}

// WithLogLevel sets the minimum level captured while the screen is active.
func WithLogLevel(level slog.Leveler) Option {
	return func(t *Backend) {
		t.logLevel = level
	}
}

// New creates a terminal backend. context supplies the GL context and is
// always initialized hidden.
func New(context backend.Backend, opts ...Option) *Backend {
	t := &Backend{
		context:  context,
		logLevel: slog.LevelInfo,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Backend) Init(config backend.BackendConfig) error {
	t.config = config
	t.inputManager = config.InputManager

	ctxConfig := config
	ctxConfig.Hidden = true
	ctxConfig.InputManager = nil
	if err := t.context.Init(ctxConfig); err != nil {
		return err
	}

	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			t.context.Cleanup()
			return &backend.ContextInitError{Backend: name, Err: err}
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		t.context.Cleanup()
		return &backend.ContextInitError{Backend: name, Err: err}
	}

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.HideCursor()
	t.screen.Clear()
	t.cols, t.rows = t.screen.Size()

	// Log lines would corrupt the screen, keep them until Cleanup.
	t.logBuffer = render.NewLogBuffer(logBufferSize)
	t.prevLogger = slog.Default()
	slog.SetDefault(slog.New(render.NewLogHandler(t.logBuffer, t.logLevel)))

	slog.Info("Terminal backend initialized", "cols", t.cols, "rows", t.rows)
	return nil
}

func (t *Backend) Update() error {
	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev)
		case *tcell.EventResize:
			t.screen.Sync()
			t.cols, t.rows = t.screen.Size()
			if t.inputManager != nil {
				w, h := t.Size()
				t.inputManager.Resize(w, h)
			}
		}
	}
	return nil
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey) {
	if t.inputManager == nil {
		return
	}
	if ev.Key() == tcell.KeyCtrlC {
		t.inputManager.Trigger(action.PreviewQuit, event.Press)
		return
	}

	key, ok := tcellKeyNameMap[ev.Key()]
	if !ok && ev.Key() == tcell.KeyRune {
		key, ok = string(ev.Rune()), true
	}
	if !ok {
		return
	}
	if act, exists := input.GetDefaultMapping(key); exists {
		// Terminals report no key release.
		t.inputManager.Trigger(act, event.Press)
	}
}

// Size returns the drawable size: one pixel per column, two per row.
func (t *Backend) Size() (int, int) {
	return t.cols, t.rows * 2
}

// BeginFrame binds an offscreen target matching the terminal size,
// recreating it after a resize.
func (t *Backend) BeginFrame(dev gpu.Device) error {
	w, h := t.Size()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("terminal too small: %dx%d", t.cols, t.rows)
	}
	if t.target != nil && (t.target.Width() != w || t.target.Height() != h) {
		t.target.Destroy()
		t.target = nil
	}
	if t.target == nil {
		tg, err := target.Create(dev, w, h)
		if err != nil {
			return err
		}
		t.target = tg
	}
	return t.target.Bind()
}

// EndFrame reads the frame back and draws it onto the screen.
func (t *Backend) EndFrame(dev gpu.Device) error {
	if t.target == nil {
		return fmt.Errorf("no frame to present")
	}
	buf, err := t.target.ReadPixels()
	if err != nil {
		return err
	}
	if err := dev.Err(); err != nil {
		return fmt.Errorf("readback: %w", err)
	}
	buf.FlipVertical()

	render.HalfBlocks(t.screen, &buf)
	t.screen.Show()
	return nil
}

// Cleanup restores the terminal, replays buffered log lines to stderr and
// releases the GL context.
func (t *Backend) Cleanup() error {
	if t.target != nil {
		t.target.Destroy()
		t.target = nil
	}
	if t.screen != nil {
		slog.Info("Cleaning up terminal backend")
		t.screen.Fini()
		t.screen = nil
	}
	if t.prevLogger != nil {
		slog.SetDefault(t.prevLogger)
		t.prevLogger = nil
		if err := t.logBuffer.Replay(os.Stderr); err != nil {
			slog.Warn("Failed to replay terminal log", "error", err)
		}
	}
	return t.context.Cleanup()
}
