// Package opengl implements gpu.Device on top of an OpenGL 3.3 core context.
// Note: building this requires cgo and the OpenGL development headers.
package opengl

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/valerio/go-shadercard/shadercard/gpu"
)

// Device issues GL calls against the context current on the calling thread.
type Device struct{}

var _ gpu.Device = (*Device)(nil)

// New loads the GL function pointers. A context must already be current.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to load OpenGL functions: %w", err)
	}
	slog.Info("OpenGL initialized",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))
	return &Device{}, nil
}

var stageTypes = map[gpu.Stage]uint32{
	gpu.StageVertex:   gl.VERTEX_SHADER,
	gpu.StageGeometry: gl.GEOMETRY_SHADER,
	gpu.StageFragment: gl.FRAGMENT_SHADER,
}

func (d *Device) CompileShader(stage gpu.Stage, source string) (uint32, error) {
	shaderType, ok := stageTypes[stage]
	if !ok {
		return 0, fmt.Errorf("cannot compile %s stage", stage)
	}

	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s", strings.TrimRight(log, "\x00\n"))
	}
	return shader, nil
}

func (d *Device) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (d *Device) LinkProgram(shaders ...uint32) (uint32, error) {
	program := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(program, s)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("%s", strings.TrimRight(log, "\x00\n"))
	}

	for _, s := range shaders {
		gl.DetachShader(program, s)
	}
	return program, nil
}

func (d *Device) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (d *Device) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (d *Device) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *Device) Uniform1i(location int32, v int32) {
	gl.Uniform1i(location, v)
}

func (d *Device) Uniform1f(location int32, v float32) {
	gl.Uniform1f(location, v)
}

func (d *Device) Uniform2f(location int32, x, y float32) {
	gl.Uniform2f(location, x, y)
}

func (d *Device) CreateVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	return vao
}

func (d *Device) DeleteVertexArray(vao uint32) {
	gl.BindVertexArray(0)
	gl.DeleteVertexArrays(1, &vao)
}

func (d *Device) CreateBuffer(data []float32) uint32 {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}
	return vbo
}

func (d *Device) DeleteBuffer(buffer uint32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.DeleteBuffers(1, &buffer)
}

func (d *Device) VertexAttrib2f(location uint32) {
	gl.VertexAttribPointer(location, 2, gl.FLOAT, false, 0, nil)
	gl.EnableVertexAttribArray(location)
}

func (d *Device) CreateFramebuffer() uint32 {
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	return fbo
}

func (d *Device) BindFramebuffer(fbo uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
}

func (d *Device) DeleteFramebuffer(fbo uint32) {
	gl.DeleteFramebuffers(1, &fbo)
}

func (d *Device) CheckFramebuffer() error {
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return &gpu.FramebufferError{Status: status}
	}
	return nil
}

var formats = map[gpu.Format]uint32{
	gpu.FormatRGBA8: gl.RGBA8,
	gpu.FormatDepth: gl.DEPTH_COMPONENT24,
}

var attachments = map[gpu.Attachment]uint32{
	gpu.AttachColor0: gl.COLOR_ATTACHMENT0,
	gpu.AttachDepth:  gl.DEPTH_ATTACHMENT,
}

func (d *Device) CreateRenderbuffer(format gpu.Format, width, height int) uint32 {
	var rb uint32
	gl.GenRenderbuffers(1, &rb)
	gl.BindRenderbuffer(gl.RENDERBUFFER, rb)
	gl.RenderbufferStorage(gl.RENDERBUFFER, formats[format], int32(width), int32(height))
	return rb
}

func (d *Device) AttachRenderbuffer(attachment gpu.Attachment, renderbuffer uint32) {
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, attachments[attachment], gl.RENDERBUFFER, renderbuffer)
}

func (d *Device) DeleteRenderbuffer(renderbuffer uint32) {
	gl.DeleteRenderbuffers(1, &renderbuffer)
}

func (d *Device) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (d *Device) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (d *Device) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (d *Device) DrawPoints(count int) {
	gl.DrawArrays(gl.POINTS, 0, int32(count))
}

func (d *Device) ReadPixels(attachment gpu.Attachment, width, height int) []byte {
	pixels := make([]byte, width*height*3)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadBuffer(attachments[attachment])
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGB, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

func (d *Device) Err() error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return &gpu.Error{Code: code}
	}
	return nil
}
