package imaging

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// WriteProof writes a downscaled PNG of img whose longer side is size pixels.
func WriteProof(w io.Writer, img image.Image, size int) error {
	if size <= 0 {
		return fmt.Errorf("invalid proof size %d", size)
	}
	b := img.Bounds()
	width, height := size, size
	if b.Dx() > b.Dy() {
		height = max(1, size*b.Dy()/b.Dx())
	} else if b.Dy() > b.Dx() {
		width = max(1, size*b.Dx()/b.Dy())
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return png.Encode(w, dst)
}
