package action

import "fmt"

// Action represents input actions understood by the preview
type Action int

const (
	// Mode selection, written to the iMode uniform
	ModeSelect0 Action = iota
	ModeSelect1
	ModeSelect2
	ModeSelect3
	ModeSelect4

	// Window and session control
	WindowResize
	PreviewQuit
)

// ModeCount is the number of selectable preview modes.
const ModeCount = 5

var names = map[Action]string{
	ModeSelect0:  "mode-0",
	ModeSelect1:  "mode-1",
	ModeSelect2:  "mode-2",
	ModeSelect3:  "mode-3",
	ModeSelect4:  "mode-4",
	WindowResize: "window-resize",
	PreviewQuit:  "quit",
}

func (a Action) String() string {
	if name, ok := names[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Mode returns the mode selected by a ModeSelect action.
func (a Action) Mode() (int, bool) {
	if a >= ModeSelect0 && a <= ModeSelect4 {
		return int(a - ModeSelect0), true
	}
	return 0, false
}

// ModeSelect returns the action selecting mode n.
func ModeSelect(n int) (Action, bool) {
	if n < 0 || n >= ModeCount {
		return 0, false
	}
	return ModeSelect0 + Action(n), true
}
