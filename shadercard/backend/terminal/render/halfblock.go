package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-shadercard/shadercard/imaging"
)

// HalfBlock is drawn with the upper pixel as foreground and the lower one as
// background, packing two pixel rows into each terminal row.
const HalfBlock = '▀'

// HalfBlocks draws buf, rows top to bottom, onto screen. Each cell covers one
// column and two rows of buf; an odd last row is drawn on black.
func HalfBlocks(screen tcell.Screen, buf *imaging.PixelBuffer) {
	stride := buf.Stride()
	pixel := func(x, y int) tcell.Color {
		if y >= buf.Height {
			return tcell.ColorBlack
		}
		i := y*stride + x*imaging.BytesPerPixel
		return tcell.NewRGBColor(int32(buf.Pix[i]), int32(buf.Pix[i+1]), int32(buf.Pix[i+2]))
	}

	for row := 0; row*2 < buf.Height; row++ {
		for x := 0; x < buf.Width; x++ {
			style := tcell.StyleDefault.
				Foreground(pixel(x, row*2)).
				Background(pixel(x, row*2+1))
			screen.SetContent(x, row, HalfBlock, nil, style)
		}
	}
}
