package shader

import "github.com/valerio/go-shadercard/shadercard/gpu"

// PointBuffer holds the single vertex that every draw call submits. The
// geometry stage ignores its position; it only needs one point primitive.
type PointBuffer struct {
	dev gpu.Device
	vao uint32
	vbo uint32
}

// NewPointBuffer creates and binds the vertex array used for point draws.
func NewPointBuffer(dev gpu.Device) *PointBuffer {
	b := &PointBuffer{dev: dev}
	b.vao = dev.CreateVertexArray()
	b.vbo = dev.CreateBuffer([]float32{0, 0})
	dev.VertexAttrib2f(PositionLocation)
	return b
}

// Draw submits exactly one point.
func (b *PointBuffer) Draw() {
	b.dev.DrawPoints(1)
}

// Delete releases the buffer and vertex array.
func (b *PointBuffer) Delete() {
	if b.vbo != 0 {
		b.dev.DeleteBuffer(b.vbo)
		b.vbo = 0
	}
	if b.vao != 0 {
		b.dev.DeleteVertexArray(b.vao)
		b.vao = 0
	}
}
