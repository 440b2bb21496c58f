//go:build gl

package shadercard_test

import (
	"errors"
	"image"
	"image/jpeg"
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-shadercard/shadercard"
	"github.com/valerio/go-shadercard/shadercard/backend"
	"github.com/valerio/go-shadercard/shadercard/backend/window"
	"github.com/valerio/go-shadercard/shadercard/gpu"
	"github.com/valerio/go-shadercard/shadercard/gpu/opengl"
)

func decode(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := jpeg.Decode(f)
	require.NoError(t, err)
	return img
}

func red(img image.Image, x, y int) uint32 {
	r, _, _, _ := img.At(x, y).RGBA()
	return r >> 8
}

func green(img image.Image, x, y int) uint32 {
	_, g, _, _ := img.At(x, y).RGBA()
	return g >> 8
}

func TestExportWithRealContext(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	st := settings(t.TempDir())
	st.Resolution = 256
	newDevice := func() (gpu.Device, error) { return opengl.New() }

	s, err := shadercard.Open(window.New(), st, fragment, newDevice)
	var cerr *backend.ContextInitError
	if errors.As(err, &cerr) {
		t.Skipf("no GL context available: %v", err)
	}
	require.NoError(t, err)
	defer s.Close()

	paths, err := s.Export()
	require.NoError(t, err)
	require.Len(t, paths, 2)

	bg := decode(t, paths[0])
	fg := decode(t, paths[1])
	assert.Equal(t, image.Rect(0, 0, 256, 256), bg.Bounds())

	// Red follows x: increasing in the background, mirrored in the foreground.
	assert.Less(t, red(bg, 8, 128), uint32(32))
	assert.Greater(t, red(bg, 247, 128), uint32(223))
	assert.Greater(t, red(fg, 8, 128), uint32(223))
	assert.Less(t, red(fg, 247, 128), uint32(32))

	// Green follows GL's bottom-up y, so the stored top row is bright.
	assert.Greater(t, green(bg, 128, 8), uint32(223))
	assert.Less(t, green(bg, 128, 247), uint32(32))
}
