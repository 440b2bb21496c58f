// Package gputest provides a recording gpu.Device for tests that have no GL
// context available.
package gputest

import (
	"errors"
	"fmt"

	"github.com/valerio/go-shadercard/shadercard/gpu"
)

// Call is a single recorded Device invocation.
type Call struct {
	Name string
	Args []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Name, c.Args)
}

// Device records every call and simulates just enough state to make the
// export and preview paths observable. ReadPixels synthesizes a pattern where
// each pixel is (x, y, iMode) with y counted from the bottom row.
type Device struct {
	Calls []Call

	// CompileErrors fails compilation of the listed stages with the given log.
	CompileErrors map[gpu.Stage]string
	// LinkError fails program linking with the given log when non-empty.
	LinkError string
	// FramebufferErr is returned by CheckFramebuffer when set.
	FramebufferErr error
	// DrawErr is queued as the pending GL error after the Nth DrawPoints call
	// (1-based) when FailDrawAt is non-zero.
	DrawErr    error
	FailDrawAt int

	Uniforms  map[string]any
	Viewports [][4]int

	nextID    uint32
	locations map[string]int32
	names     map[int32]string
	bound     uint32
	live      map[string]map[uint32]bool
	draws     int
	pending   error
}

var _ gpu.Device = (*Device)(nil)

// New returns an empty recording device.
func New() *Device {
	return &Device{
		Uniforms:  make(map[string]any),
		locations: make(map[string]int32),
		names:     make(map[int32]string),
		live: map[string]map[uint32]bool{
			"shader":       {},
			"program":      {},
			"vertexarray":  {},
			"buffer":       {},
			"framebuffer":  {},
			"renderbuffer": {},
		},
	}
}

func (d *Device) record(name string, args ...any) {
	d.Calls = append(d.Calls, Call{Name: name, Args: args})
}

func (d *Device) alloc(kind string) uint32 {
	d.nextID++
	d.live[kind][d.nextID] = true
	return d.nextID
}

func (d *Device) free(kind string, id uint32) {
	delete(d.live[kind], id)
}

// Live reports how many objects of the kind ("shader", "program",
// "vertexarray", "buffer", "framebuffer", "renderbuffer") are allocated.
func (d *Device) Live(kind string) int {
	return len(d.live[kind])
}

// Names returns the recorded call names in order.
func (d *Device) Names() []string {
	names := make([]string, len(d.Calls))
	for i, c := range d.Calls {
		names[i] = c.Name
	}
	return names
}

// Count returns how many times the named call was recorded.
func (d *Device) Count(name string) int {
	n := 0
	for _, c := range d.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Bound returns the currently bound framebuffer.
func (d *Device) Bound() uint32 {
	return d.bound
}

// Mode returns the last value written to iMode, or -1.
func (d *Device) Mode() int32 {
	if v, ok := d.Uniforms["iMode"].(int32); ok {
		return v
	}
	return -1
}

func (d *Device) CompileShader(stage gpu.Stage, source string) (uint32, error) {
	d.record("CompileShader", stage)
	if msg, ok := d.CompileErrors[stage]; ok {
		return 0, errors.New(msg)
	}
	return d.alloc("shader"), nil
}

func (d *Device) DeleteShader(shader uint32) {
	d.record("DeleteShader", shader)
	d.free("shader", shader)
}

func (d *Device) LinkProgram(shaders ...uint32) (uint32, error) {
	d.record("LinkProgram", len(shaders))
	if d.LinkError != "" {
		return 0, errors.New(d.LinkError)
	}
	return d.alloc("program"), nil
}

func (d *Device) UseProgram(program uint32) {
	d.record("UseProgram", program)
}

func (d *Device) DeleteProgram(program uint32) {
	d.record("DeleteProgram", program)
	d.free("program", program)
}

func (d *Device) UniformLocation(program uint32, name string) int32 {
	if loc, ok := d.locations[name]; ok {
		return loc
	}
	loc := int32(len(d.locations))
	d.locations[name] = loc
	d.names[loc] = name
	return loc
}

func (d *Device) setUniform(call string, location int32, v any) {
	name := d.names[location]
	d.record(call, name, v)
	d.Uniforms[name] = v
}

func (d *Device) Uniform1i(location int32, v int32) {
	d.setUniform("Uniform1i", location, v)
}

func (d *Device) Uniform1f(location int32, v float32) {
	d.setUniform("Uniform1f", location, v)
}

func (d *Device) Uniform2f(location int32, x, y float32) {
	d.setUniform("Uniform2f", location, [2]float32{x, y})
}

func (d *Device) CreateVertexArray() uint32 {
	d.record("CreateVertexArray")
	return d.alloc("vertexarray")
}

func (d *Device) DeleteVertexArray(vao uint32) {
	d.record("DeleteVertexArray", vao)
	d.free("vertexarray", vao)
}

func (d *Device) CreateBuffer(data []float32) uint32 {
	d.record("CreateBuffer", len(data))
	return d.alloc("buffer")
}

func (d *Device) DeleteBuffer(buffer uint32) {
	d.record("DeleteBuffer", buffer)
	d.free("buffer", buffer)
}

func (d *Device) VertexAttrib2f(location uint32) {
	d.record("VertexAttrib2f", location)
}

func (d *Device) CreateFramebuffer() uint32 {
	d.record("CreateFramebuffer")
	return d.alloc("framebuffer")
}

func (d *Device) BindFramebuffer(fbo uint32) {
	d.record("BindFramebuffer", fbo)
	d.bound = fbo
}

func (d *Device) DeleteFramebuffer(fbo uint32) {
	d.record("DeleteFramebuffer", fbo)
	d.free("framebuffer", fbo)
}

func (d *Device) CheckFramebuffer() error {
	d.record("CheckFramebuffer")
	return d.FramebufferErr
}

func (d *Device) CreateRenderbuffer(format gpu.Format, width, height int) uint32 {
	d.record("CreateRenderbuffer", format, width, height)
	return d.alloc("renderbuffer")
}

func (d *Device) AttachRenderbuffer(attachment gpu.Attachment, renderbuffer uint32) {
	d.record("AttachRenderbuffer", attachment, renderbuffer)
}

func (d *Device) DeleteRenderbuffer(renderbuffer uint32) {
	d.record("DeleteRenderbuffer", renderbuffer)
	d.free("renderbuffer", renderbuffer)
}

func (d *Device) Viewport(x, y, width, height int) {
	d.record("Viewport", x, y, width, height)
	d.Viewports = append(d.Viewports, [4]int{x, y, width, height})
}

func (d *Device) ClearColor(r, g, b, a float32) {
	d.record("ClearColor", r, g, b, a)
}

func (d *Device) Clear() {
	d.record("Clear")
}

func (d *Device) DrawPoints(count int) {
	d.record("DrawPoints", count)
	d.draws++
	if d.FailDrawAt > 0 && d.draws == d.FailDrawAt {
		d.pending = d.DrawErr
	}
}

func (d *Device) ReadPixels(attachment gpu.Attachment, width, height int) []byte {
	d.record("ReadPixels", attachment, width, height)
	mode := byte(d.Mode())
	pix := make([]byte, width*height*3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * 3
			pix[i] = byte(x)
			pix[i+1] = byte(y)
			pix[i+2] = mode
		}
	}
	return pix
}

func (d *Device) Err() error {
	err := d.pending
	d.pending = nil
	return err
}
