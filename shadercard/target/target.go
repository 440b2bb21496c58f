// Package target manages offscreen framebuffers used for export and for the
// terminal preview.
package target

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/valerio/go-shadercard/shadercard/gpu"
	"github.com/valerio/go-shadercard/shadercard/imaging"
)

// ErrDestroyed is returned when a destroyed target is used.
var ErrDestroyed = errors.New("render target already destroyed")

// Target is a framebuffer with one RGBA8 color and one depth renderbuffer.
// The attachments exist exactly as long as the framebuffer does.
type Target struct {
	dev    gpu.Device
	fbo    uint32
	color  uint32
	depth  uint32
	width  int
	height int
}

// Create allocates and attaches a complete target of the given size. The
// framebuffer is left bound. On failure nothing is leaked.
func Create(dev gpu.Device, width, height int) (*Target, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid render target size %dx%d", width, height)
	}

	t := &Target{dev: dev, width: width, height: height}
	t.fbo = dev.CreateFramebuffer()
	dev.BindFramebuffer(t.fbo)

	t.color = dev.CreateRenderbuffer(gpu.FormatRGBA8, width, height)
	dev.AttachRenderbuffer(gpu.AttachColor0, t.color)

	t.depth = dev.CreateRenderbuffer(gpu.FormatDepth, width, height)
	dev.AttachRenderbuffer(gpu.AttachDepth, t.depth)

	if err := dev.CheckFramebuffer(); err != nil {
		t.Destroy()
		return nil, fmt.Errorf("failed to create %dx%d render target: %w", width, height, err)
	}

	slog.Debug("Render target created", "fbo", t.fbo, "width", width, "height", height)
	return t, nil
}

// Width returns the target width in pixels.
func (t *Target) Width() int {
	return t.width
}

// Height returns the target height in pixels.
func (t *Target) Height() int {
	return t.height
}

func (t *Target) destroyed() bool {
	return t.fbo == 0
}

// Bind redirects subsequent drawing into the target.
func (t *Target) Bind() error {
	if t.destroyed() {
		return ErrDestroyed
	}
	t.dev.BindFramebuffer(t.fbo)
	return nil
}

// ReadPixels reads the color attachment back as packed RGB8, bottom row first.
func (t *Target) ReadPixels() (imaging.PixelBuffer, error) {
	if t.destroyed() {
		return imaging.PixelBuffer{}, ErrDestroyed
	}
	t.dev.BindFramebuffer(t.fbo)
	pix := t.dev.ReadPixels(gpu.AttachColor0, t.width, t.height)
	return imaging.NewPixelBuffer(pix, t.width, t.height)
}

// Destroy restores the default framebuffer and releases the attachments and
// then the framebuffer. Calling it again has no effect.
func (t *Target) Destroy() {
	if t.destroyed() {
		return
	}
	t.dev.BindFramebuffer(gpu.DefaultFramebuffer)
	t.dev.DeleteRenderbuffer(t.color)
	t.dev.DeleteRenderbuffer(t.depth)
	t.dev.DeleteFramebuffer(t.fbo)
	slog.Debug("Render target destroyed", "fbo", t.fbo)
	t.fbo, t.color, t.depth = 0, 0, 0
}
