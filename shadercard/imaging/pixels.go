// Package imaging turns raw framebuffer readbacks into print-ready image
// files: orientation fixes, JPEG encoding with physical density metadata, and
// staged (temp file + rename) output.
package imaging

import (
	"fmt"
	"image"

	"github.com/valerio/go-shadercard/shadercard/layer"
)

// BytesPerPixel is the size of one packed RGB8 pixel.
const BytesPerPixel = 3

// PixelBuffer is a tightly packed RGB8 readback. Rows are stored in GL order,
// bottom row first, until FlipVertical is applied.
type PixelBuffer struct {
	Pix    []byte
	Width  int
	Height int
}

// NewPixelBuffer wraps pix after checking it holds exactly width*height pixels.
func NewPixelBuffer(pix []byte, width, height int) (PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return PixelBuffer{}, fmt.Errorf("invalid pixel buffer size %dx%d", width, height)
	}
	if want := width * height * BytesPerPixel; len(pix) != want {
		return PixelBuffer{}, fmt.Errorf("pixel buffer holds %d bytes, want %d for %dx%d", len(pix), want, width, height)
	}
	return PixelBuffer{Pix: pix, Width: width, Height: height}, nil
}

// Stride is the number of bytes in one row.
func (b *PixelBuffer) Stride() int {
	return b.Width * BytesPerPixel
}

// FlipVertical reverses the row order in place.
func (b *PixelBuffer) FlipVertical() {
	stride := b.Stride()
	tmp := make([]byte, stride)
	for top, bottom := 0, b.Height-1; top < bottom; top, bottom = top+1, bottom-1 {
		t := b.Pix[top*stride : (top+1)*stride]
		u := b.Pix[bottom*stride : (bottom+1)*stride]
		copy(tmp, t)
		copy(t, u)
		copy(u, tmp)
	}
}

// MirrorHorizontal reverses the pixel order of every row in place.
func (b *PixelBuffer) MirrorHorizontal() {
	stride := b.Stride()
	for y := 0; y < b.Height; y++ {
		row := b.Pix[y*stride : (y+1)*stride]
		for l, r := 0, (b.Width-1)*BytesPerPixel; l < r; l, r = l+BytesPerPixel, r-BytesPerPixel {
			row[l], row[r] = row[r], row[l]
			row[l+1], row[r+1] = row[r+1], row[l+1]
			row[l+2], row[r+2] = row[r+2], row[l+2]
		}
	}
}

// Image copies the buffer into an opaque RGBA image, first row at the top.
func (b *PixelBuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for i, j := 0, 0; i < len(b.Pix); i, j = i+BytesPerPixel, j+4 {
		img.Pix[j] = b.Pix[i]
		img.Pix[j+1] = b.Pix[i+1]
		img.Pix[j+2] = b.Pix[i+2]
		img.Pix[j+3] = 0xFF
	}
	return img
}

// Process fixes the readback orientation for the layer and returns the
// finished image. The buffer is modified in place and must not be reused.
func Process(buf *PixelBuffer, spec layer.Spec) *image.RGBA {
	buf.FlipVertical()
	if spec.Mirror {
		buf.MirrorHorizontal()
	}
	return buf.Image()
}
