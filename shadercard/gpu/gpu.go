// Package gpu describes the small slice of the OpenGL API the card renderer
// depends on. Keeping it behind an interface lets the export and preview paths
// run against a recording fake in tests.
package gpu

import "fmt"

// Stage identifies a step of the fixed shader pipeline.
type Stage int

const (
	StageVertex Stage = iota
	StageGeometry
	StageFragment
	StageLink
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageGeometry:
		return "geometry"
	case StageFragment:
		return "fragment"
	case StageLink:
		return "link"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Attachment is a framebuffer attachment point.
type Attachment int

const (
	AttachColor0 Attachment = iota
	AttachDepth
)

// Format is a renderbuffer storage format.
type Format int

const (
	FormatRGBA8 Format = iota
	FormatDepth
)

// DefaultFramebuffer is the window-system provided framebuffer.
const DefaultFramebuffer uint32 = 0

// Device is the set of GPU operations used by the renderer. All calls must be
// made from the goroutine that owns the current GL context.
type Device interface {
	// CompileShader compiles source for the given stage. The error carries the
	// compiler info log on failure.
	CompileShader(stage Stage, source string) (uint32, error)
	DeleteShader(shader uint32)
	// LinkProgram links the shaders into a program. The error carries the
	// linker info log on failure.
	LinkProgram(shaders ...uint32) (uint32, error)
	UseProgram(program uint32)
	DeleteProgram(program uint32)
	UniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform2f(location int32, x, y float32)

	CreateVertexArray() uint32
	DeleteVertexArray(vao uint32)
	// CreateBuffer uploads data into a new static array buffer and leaves it bound.
	CreateBuffer(data []float32) uint32
	DeleteBuffer(buffer uint32)
	// VertexAttrib2f points the attribute at tightly packed vec2 floats in the
	// bound array buffer and enables it.
	VertexAttrib2f(location uint32)

	CreateFramebuffer() uint32
	BindFramebuffer(fbo uint32)
	DeleteFramebuffer(fbo uint32)
	// CheckFramebuffer reports whether the bound framebuffer is complete.
	CheckFramebuffer() error
	// CreateRenderbuffer allocates storage of the given format and size.
	CreateRenderbuffer(format Format, width, height int) uint32
	AttachRenderbuffer(attachment Attachment, renderbuffer uint32)
	DeleteRenderbuffer(renderbuffer uint32)

	Viewport(x, y, width, height int)
	ClearColor(r, g, b, a float32)
	Clear()
	DrawPoints(count int)
	// ReadPixels reads the attachment of the bound framebuffer as tightly
	// packed RGB8, bottom row first.
	ReadPixels(attachment Attachment, width, height int) []byte

	// Err returns the oldest pending GL error, or nil.
	Err() error
}

// Error is a GL error code reported by glGetError.
type Error struct {
	Code uint32
}

func (e *Error) Error() string {
	name, ok := errorNames[e.Code]
	if !ok {
		name = "unknown error"
	}
	return fmt.Sprintf("gl error 0x%04X (%s)", e.Code, name)
}

var errorNames = map[uint32]string{
	0x0500: "invalid enum",
	0x0501: "invalid value",
	0x0502: "invalid operation",
	0x0503: "stack overflow",
	0x0504: "stack underflow",
	0x0505: "out of memory",
	0x0506: "invalid framebuffer operation",
}

// FramebufferError reports an incomplete framebuffer status.
type FramebufferError struct {
	Status uint32
}

func (e *FramebufferError) Error() string {
	return fmt.Sprintf("framebuffer incomplete: status 0x%04X", e.Status)
}
