//go:build !sdl2

package sdl2

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-shadercard/shadercard/backend"
)

func TestStubReportsUnavailable(t *testing.T) {
	var b backend.Backend = New()

	err := b.Init(backend.BackendConfig{Title: "test", Width: 64, Height: 64})
	var cerr *backend.ContextInitError
	assert.True(t, errors.As(err, &cerr))
	assert.Equal(t, "sdl2", cerr.Backend)
	assert.ErrorIs(t, err, ErrUnavailable)

	assert.ErrorIs(t, b.Update(), ErrUnavailable)
	assert.NoError(t, b.Cleanup())
}
