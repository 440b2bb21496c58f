package imaging

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-shadercard/shadercard/layer"
)

func randomBuffer(t *testing.T, w, h int, seed int64) PixelBuffer {
	t.Helper()
	pix := make([]byte, w*h*BytesPerPixel)
	rand.New(rand.NewSource(seed)).Read(pix)
	buf, err := NewPixelBuffer(pix, w, h)
	require.NoError(t, err)
	return buf
}

func TestNewPixelBuffer(t *testing.T) {
	_, err := NewPixelBuffer(make([]byte, 12), 2, 2)
	assert.NoError(t, err)

	_, err = NewPixelBuffer(make([]byte, 11), 2, 2)
	assert.Error(t, err)

	_, err = NewPixelBuffer(nil, 0, 2)
	assert.Error(t, err)
}

func TestFlipVertical(t *testing.T) {
	// 2x3, one byte value per row to make the order obvious.
	buf, err := NewPixelBuffer([]byte{
		1, 1, 1, 1, 1, 1,
		2, 2, 2, 2, 2, 2,
		3, 3, 3, 3, 3, 3,
	}, 2, 3)
	require.NoError(t, err)

	buf.FlipVertical()
	assert.Equal(t, []byte{
		3, 3, 3, 3, 3, 3,
		2, 2, 2, 2, 2, 2,
		1, 1, 1, 1, 1, 1,
	}, buf.Pix)
}

func TestMirrorHorizontal(t *testing.T) {
	buf, err := NewPixelBuffer([]byte{
		1, 2, 3, 4, 5, 6, 7, 8, 9,
		10, 11, 12, 13, 14, 15, 16, 17, 18,
	}, 3, 2)
	require.NoError(t, err)

	buf.MirrorHorizontal()
	assert.Equal(t, []byte{
		7, 8, 9, 4, 5, 6, 1, 2, 3,
		16, 17, 18, 13, 14, 15, 10, 11, 12,
	}, buf.Pix)
}

func TestInvolutions(t *testing.T) {
	sizes := [][2]int{{1, 1}, {1, 7}, {7, 1}, {4, 4}, {5, 3}, {33, 17}}
	for i, s := range sizes {
		buf := randomBuffer(t, s[0], s[1], int64(i))
		orig := append([]byte(nil), buf.Pix...)

		buf.FlipVertical()
		buf.FlipVertical()
		assert.Equal(t, orig, buf.Pix, "flip twice %dx%d", s[0], s[1])

		buf.MirrorHorizontal()
		buf.MirrorHorizontal()
		assert.Equal(t, orig, buf.Pix, "mirror twice %dx%d", s[0], s[1])
	}
}

func TestImage(t *testing.T) {
	buf, err := NewPixelBuffer([]byte{
		10, 20, 30, 40, 50, 60,
	}, 2, 1)
	require.NoError(t, err)

	img := buf.Image()
	assert.Equal(t, 2, img.Bounds().Dx())
	assert.Equal(t, 1, img.Bounds().Dy())
	assert.Equal(t, []uint8{10, 20, 30, 255, 40, 50, 60, 255}, img.Pix)
}

func TestProcess(t *testing.T) {
	const w, h = 6, 4
	a := randomBuffer(t, w, h, 42)
	b := PixelBuffer{Pix: append([]byte(nil), a.Pix...), Width: w, Height: h}

	bg := Process(&a, layer.Background)
	fg := Process(&b, layer.Foreground)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			assert.Equal(t, bg.RGBAAt(x, y), fg.RGBAAt(w-1-x, y), "pixel (%d,%d)", x, y)
		}
	}

	// The bottom GL row ends up at the top of the image.
	orig := randomBuffer(t, w, h, 42)
	last := (h - 1) * w * BytesPerPixel
	assert.Equal(t, orig.Pix[last], bg.Pix[0])
}
