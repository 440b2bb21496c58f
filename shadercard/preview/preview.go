// Package preview runs the interactive render loop.
package preview

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/valerio/go-shadercard/shadercard/gpu"
	"github.com/valerio/go-shadercard/shadercard/input"
	"github.com/valerio/go-shadercard/shadercard/input/action"
	"github.com/valerio/go-shadercard/shadercard/input/event"
	"github.com/valerio/go-shadercard/shadercard/shader"
	"github.com/valerio/go-shadercard/shadercard/timing"
)

// Surface is where frames are drawn and input comes from. backend.Backend
// satisfies it.
type Surface interface {
	Update() error
	Size() (width, height int)
	BeginFrame(dev gpu.Device) error
	EndFrame(dev gpu.Device) error
}

// Loop owns the preview state: current mode, surface size and start time.
type Loop struct {
	dev     gpu.Device
	program *shader.Program
	points  *shader.PointBuffer
	surface Surface
	limiter timing.Limiter
	now     func() time.Time

	start  time.Time
	mode   int
	width  int
	height int
	quit   bool
	frames uint64
}

// Option configures a Loop.
type Option func(*Loop)

// WithClock replaces the wall clock used for iTime.
func WithClock(now func() time.Time) Option {
	return func(l *Loop) {
		l.now = now
	}
}

// WithLimiter paces frames; the default does not wait.
func WithLimiter(limiter timing.Limiter) Option {
	return func(l *Loop) {
		l.limiter = limiter
	}
}

// WithMode sets the mode shown before any key is pressed.
func WithMode(mode int) Option {
	return func(l *Loop) {
		l.mode = mode
	}
}

// New creates a loop drawing program onto surface and registers its
// handlers on manager.
func New(dev gpu.Device, program *shader.Program, points *shader.PointBuffer, surface Surface, manager *input.Manager, opts ...Option) *Loop {
	l := &Loop{
		dev:     dev,
		program: program,
		points:  points,
		surface: surface,
		limiter: timing.NewNoOpLimiter(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.start = l.now()
	l.width, l.height = surface.Size()

	for n := 0; n < action.ModeCount; n++ {
		n := n
		act, _ := action.ModeSelect(n)
		manager.On(act, event.Press, func(input.Event) {
			l.mode = n
			slog.Debug("Mode selected", "mode", n)
		})
	}
	manager.On(action.WindowResize, event.Change, func(e input.Event) {
		l.width, l.height = e.Width, e.Height
		slog.Debug("Surface resized", "width", e.Width, "height", e.Height)
	})
	manager.On(action.PreviewQuit, event.Press, func(input.Event) {
		l.quit = true
	})

	return l
}

// Mode returns the mode written to iMode on the next frame.
func (l *Loop) Mode() int {
	return l.mode
}

// Done reports whether quit was requested.
func (l *Loop) Done() bool {
	return l.quit
}

// Run draws frames until quit is requested or a frame fails.
func (l *Loop) Run() error {
	defer l.limiter.Stop()

	slog.Info("Preview started", "width", l.width, "height", l.height, "mode", l.mode)
	for !l.quit {
		if err := l.Frame(); err != nil {
			return err
		}
		l.limiter.WaitForNextFrame()
	}
	slog.Info("Preview stopped", "frames", l.frames)
	return nil
}

// Frame polls input and, unless that requested quit, draws and presents one
// frame.
func (l *Loop) Frame() error {
	if err := l.surface.Update(); err != nil {
		return fmt.Errorf("failed to poll input: %w", err)
	}
	if l.quit {
		return nil
	}
	// Minimized windows report an empty framebuffer.
	if l.width <= 0 || l.height <= 0 {
		return nil
	}

	if err := l.surface.BeginFrame(l.dev); err != nil {
		return fmt.Errorf("failed to begin frame: %w", err)
	}

	l.program.Use()
	l.dev.Viewport(0, 0, l.width, l.height)
	l.program.SetResolution(l.width, l.height)
	l.program.SetMode(l.mode)
	l.program.SetTime(float32(l.now().Sub(l.start).Seconds()))

	l.dev.ClearColor(0, 0, 1, 1)
	l.dev.Clear()
	l.points.Draw()
	if err := l.dev.Err(); err != nil {
		return fmt.Errorf("draw: %w", err)
	}

	if err := l.surface.EndFrame(l.dev); err != nil {
		return fmt.Errorf("failed to present frame: %w", err)
	}
	l.frames++
	return nil
}
