package input

import (
	"strings"

	"github.com/valerio/go-shadercard/shadercard/input/action"
)

// DefaultKeyMap provides default key mappings that work across backends.
// Backends translate their native key names to these before lookup.
var DefaultKeyMap = map[string]action.Action{
	// Mode selection
	"0": action.ModeSelect0,
	"1": action.ModeSelect1,
	"2": action.ModeSelect2,
	"3": action.ModeSelect3,
	"4": action.ModeSelect4,

	// Numeric keypad
	"Keypad 0": action.ModeSelect0,
	"Keypad 1": action.ModeSelect1,
	"Keypad 2": action.ModeSelect2,
	"Keypad 3": action.ModeSelect3,
	"Keypad 4": action.ModeSelect4,

	"Escape": action.PreviewQuit,
	"q":      action.PreviewQuit,
}

// GetDefaultMapping returns the default action for a key, if one exists.
// Single letters match regardless of case.
func GetDefaultMapping(key string) (action.Action, bool) {
	if act, ok := DefaultKeyMap[key]; ok {
		return act, true
	}
	if len(key) == 1 {
		act, ok := DefaultKeyMap[strings.ToLower(key)]
		return act, ok
	}
	return 0, false
}
