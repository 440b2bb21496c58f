// Package layer defines the two print layers rendered by an export.
package layer

// Spec describes one exported layer.
type Spec struct {
	// Mode is the value written to iMode while rendering the layer.
	Mode int
	// Mirror flips the finished image left to right.
	Mirror bool
	// Name is the output file name without extension.
	Name string
}

var (
	// Background is rendered with iMode=1 and stored as-is.
	Background = Spec{Mode: 1, Mirror: false, Name: "background"}
	// Foreground is rendered with iMode=2 and stored mirrored left to right.
	Foreground = Spec{Mode: 2, Mirror: true, Name: "foreground"}
)

// All returns the layers in export order.
func All() []Spec {
	return []Spec{Background, Foreground}
}
