package export

// State tracks where an export is in its render/readback cycle.
type State int

const (
	StateIdle State = iota
	StateTargetBound
	StateLayerDrawn
	StateRead
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTargetBound:
		return "target-bound"
	case StateLayerDrawn:
		return "layer-drawn"
	case StateRead:
		return "read"
	default:
		return "unknown"
	}
}
