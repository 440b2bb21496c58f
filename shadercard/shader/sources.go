package shader

import (
	"fmt"
	"strings"
)

// QuadCorners are the clip-space positions the geometry stage emits, in
// triangle-strip order, for every input point.
var QuadCorners = [4][2]float32{
	{1, 1},
	{-1, 1},
	{1, -1},
	{-1, -1},
}

// QuadDepth is the clip-space z of every emitted corner.
const QuadDepth = 0.5

// PositionLocation is the fixed attribute location of the vertex input fed by
// the point buffer. The geometry stage never reads it, so the location is
// pinned in the source rather than queried after linking.
const PositionLocation = 0

// Uniform names the fragment stage is expected to declare.
const (
	UniformResolution = "iResolution"
	UniformMode       = "iMode"
	UniformTime       = "iTime"
)

// VertexSource passes the 2D input attribute through to clip space.
const VertexSource = `#version 330 core
layout(location = 0) in vec2 vertexIn;
void main() {
    gl_Position = vec4(vertexIn.xy, 0.0, 1.0);
}
`

// GeometrySource turns a single point into a viewport-covering quad.
var GeometrySource = geometrySource()

func geometrySource() string {
	var b strings.Builder
	b.WriteString("#version 330 core\n\n")
	b.WriteString("layout(points) in;\n")
	b.WriteString("layout(triangle_strip, max_vertices = 4) out;\n\n")
	b.WriteString("void main()\n{\n")
	for _, c := range QuadCorners {
		fmt.Fprintf(&b, "    gl_Position = vec4(%4.1f, %4.1f, %.1f, 1.0);\n", c[0], c[1], QuadDepth)
		b.WriteString("    EmitVertex();\n\n")
	}
	b.WriteString("    EndPrimitive();\n}\n")
	return b.String()
}
