// Package shader builds the fixed vertex/geometry/fragment program used for
// both preview and export.
package shader

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/valerio/go-shadercard/shadercard/gpu"
)

// Program is a linked shader program with its uniform locations resolved.
type Program struct {
	dev gpu.Device
	id  uint32

	resolution int32
	mode       int32
	time       int32
}

// Load reads fragment shader source from disk.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read fragment shader: %w", err)
	}
	return string(data), nil
}

// Compile builds the program from the fixed vertex and geometry stages and
// the caller's fragment source. Any failure is returned as a *CompileError
// and leaves no GPU objects behind.
func Compile(dev gpu.Device, fragmentSource string) (*Program, error) {
	stages := []struct {
		stage  gpu.Stage
		source string
	}{
		{gpu.StageVertex, VertexSource},
		{gpu.StageFragment, fragmentSource},
		{gpu.StageGeometry, GeometrySource},
	}

	shaders := make([]uint32, 0, len(stages))
	defer func() {
		for _, s := range shaders {
			dev.DeleteShader(s)
		}
	}()

	for _, st := range stages {
		id, err := dev.CompileShader(st.stage, st.source)
		if err != nil {
			return nil, &CompileError{Stage: st.stage, Log: err.Error()}
		}
		shaders = append(shaders, id)
	}

	id, err := dev.LinkProgram(shaders...)
	if err != nil {
		return nil, &CompileError{Stage: gpu.StageLink, Log: err.Error()}
	}

	p := &Program{dev: dev, id: id}
	p.resolution = p.lookup(UniformResolution)
	p.mode = p.lookup(UniformMode)
	p.time = p.lookup(UniformTime)

	slog.Debug("Shader program linked", "program", id)
	return p, nil
}

func (p *Program) lookup(name string) int32 {
	loc := p.dev.UniformLocation(p.id, name)
	if loc < 0 {
		slog.Warn("Uniform not active in fragment shader", "uniform", name)
	}
	return loc
}

// ID returns the GL program handle.
func (p *Program) ID() uint32 {
	return p.id
}

// Use makes the program current.
func (p *Program) Use() {
	p.dev.UseProgram(p.id)
}

// SetResolution writes iResolution.
func (p *Program) SetResolution(width, height int) {
	if p.resolution >= 0 {
		p.dev.Uniform2f(p.resolution, float32(width), float32(height))
	}
}

// SetMode writes iMode.
func (p *Program) SetMode(mode int) {
	if p.mode >= 0 {
		p.dev.Uniform1i(p.mode, int32(mode))
	}
}

// SetTime writes iTime in seconds.
func (p *Program) SetTime(seconds float32) {
	if p.time >= 0 {
		p.dev.Uniform1f(p.time, seconds)
	}
}

// Delete releases the program.
func (p *Program) Delete() {
	if p.id != 0 {
		p.dev.DeleteProgram(p.id)
		p.id = 0
	}
}
