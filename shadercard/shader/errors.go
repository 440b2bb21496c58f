package shader

import (
	"fmt"

	"github.com/valerio/go-shadercard/shadercard/gpu"
)

// CompileError reports a shader stage that failed to compile, or a program
// that failed to link, together with the driver's diagnostic text.
type CompileError struct {
	Stage gpu.Stage
	Log   string
}

func (e *CompileError) Error() string {
	if e.Stage == gpu.StageLink {
		return fmt.Sprintf("shader program failed to link: %s", e.Log)
	}
	return fmt.Sprintf("%s shader failed to compile: %s", e.Stage, e.Log)
}
