package event

// Type represents the type of input event
type Type int

const (
	Press   Type = iota // Button pressed down
	Release             // Button released
	Change              // Surface state changed, e.g. resized (not debounced)
)
