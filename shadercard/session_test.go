package shadercard_test

import (
	"errors"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-shadercard/shadercard"
	"github.com/valerio/go-shadercard/shadercard/backend"
	"github.com/valerio/go-shadercard/shadercard/config"
	"github.com/valerio/go-shadercard/shadercard/gpu"
	"github.com/valerio/go-shadercard/shadercard/gpu/gputest"
	"github.com/valerio/go-shadercard/shadercard/imaging"
	"github.com/valerio/go-shadercard/shadercard/input/action"
	"github.com/valerio/go-shadercard/shadercard/input/event"
	"github.com/valerio/go-shadercard/shadercard/shader"
)

const fragment = `#version 330 core
uniform vec2 iResolution;
uniform int iMode;
uniform float iTime;
out vec4 fragColor;
void main() { fragColor = vec4(gl_FragCoord.xy / iResolution, float(iMode), 1.0); }
`

// fakeBackend is a hidden context with no real window.
type fakeBackend struct {
	config  backend.BackendConfig
	initErr error
	updates int
	cleaned int
}

func (b *fakeBackend) Init(config backend.BackendConfig) error {
	b.config = config
	return b.initErr
}

func (b *fakeBackend) Update() error {
	b.updates++
	if b.updates == 1 {
		b.config.InputManager.Trigger(action.ModeSelect3, event.Press)
	} else {
		b.config.InputManager.Trigger(action.PreviewQuit, event.Press)
	}
	return nil
}

func (b *fakeBackend) Size() (int, int) {
	return b.config.Width, b.config.Height
}

func (b *fakeBackend) BeginFrame(dev gpu.Device) error {
	dev.BindFramebuffer(gpu.DefaultFramebuffer)
	return nil
}

func (b *fakeBackend) EndFrame(dev gpu.Device) error {
	return nil
}

func (b *fakeBackend) Cleanup() error {
	b.cleaned++
	return nil
}

func settings(dir string) config.Settings {
	s := config.Default()
	s.Resolution = 512
	s.PrintSize = 100
	s.OutputDir = dir
	s.Progress = false
	return s
}

func factory(dev *gputest.Device) shadercard.DeviceFactory {
	return func() (gpu.Device, error) {
		return dev, nil
	}
}

func TestExportScenario(t *testing.T) {
	dir := t.TempDir()
	dev := gputest.New()
	b := &fakeBackend{}

	s, err := shadercard.Open(b, settings(dir), fragment, factory(dev))
	require.NoError(t, err)
	assert.True(t, b.config.Hidden, "export uses a hidden context")

	paths, err := s.Export()
	require.NoError(t, err)
	require.Len(t, paths, 2)

	for _, name := range []string{"background.jpg", "foreground.jpg"} {
		f, err := os.Open(filepath.Join(dir, name))
		require.NoError(t, err)
		cfg, err := jpeg.DecodeConfig(f)
		f.Close()
		require.NoError(t, err)
		assert.Equal(t, 512, cfg.Width)
		assert.Equal(t, 512, cfg.Height)

		f, err = os.Open(filepath.Join(dir, name))
		require.NoError(t, err)
		d, err := imaging.ReadDensity(f)
		f.Close()
		require.NoError(t, err)
		assert.InDelta(t, 130.048, d.X, 0.001)
	}

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 1, b.cleaned)
	assert.Equal(t, 0, dev.Live("program"))
	assert.Equal(t, 0, dev.Live("buffer"))
	assert.Equal(t, 0, dev.Live("vertexarray"))
}

func TestRunExports(t *testing.T) {
	dir := t.TempDir()
	s, err := shadercard.Open(&fakeBackend{}, settings(dir), fragment, factory(gputest.New()))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Run())
	_, err = os.Stat(filepath.Join(dir, "foreground.jpg"))
	assert.NoError(t, err)
}

func TestCompileErrorBeforeAnyFile(t *testing.T) {
	dir := t.TempDir()
	dev := gputest.New()
	dev.CompileErrors = map[gpu.Stage]string{gpu.StageFragment: "0:3: syntax error"}
	b := &fakeBackend{}

	s, err := shadercard.Open(b, settings(dir), "not glsl", factory(dev))
	require.Error(t, err)
	assert.Nil(t, s)

	var cerr *shader.CompileError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, gpu.StageFragment, cerr.Stage)
	assert.Equal(t, 1, b.cleaned, "backend is released on failure")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestContextError(t *testing.T) {
	b := &fakeBackend{initErr: &backend.ContextInitError{Backend: "glfw", Err: errors.New("no display")}}
	called := false
	newDevice := func() (gpu.Device, error) {
		called = true
		return gputest.New(), nil
	}

	_, err := shadercard.Open(b, settings(t.TempDir()), fragment, newDevice)
	var cerr *backend.ContextInitError
	require.True(t, errors.As(err, &cerr))
	assert.False(t, called)
}

func TestDeviceError(t *testing.T) {
	b := &fakeBackend{}
	newDevice := func() (gpu.Device, error) {
		return nil, errors.New("gl loader failed")
	}

	_, err := shadercard.Open(b, settings(t.TempDir()), fragment, newDevice)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gl loader failed")
	assert.Equal(t, 1, b.cleaned)
}

func TestInvalidSettings(t *testing.T) {
	s := settings(t.TempDir())
	s.Resolution = -1
	b := &fakeBackend{}

	_, err := shadercard.Open(b, s, fragment, factory(gputest.New()))
	require.Error(t, err)
	assert.Nil(t, b.config.InputManager, "backend is not initialized")
}

func TestPreview(t *testing.T) {
	dev := gputest.New()
	b := &fakeBackend{}
	st := settings(t.TempDir())
	st.Preview = true

	s, err := shadercard.Open(b, st, fragment, factory(dev))
	require.NoError(t, err)
	defer s.Close()
	assert.False(t, b.config.Hidden)

	require.NoError(t, s.Run())
	assert.Equal(t, 2, b.updates)
	assert.Equal(t, int32(3), dev.Mode())
	assert.Equal(t, [2]float32{1280, 720}, dev.Uniforms["iResolution"])
}
