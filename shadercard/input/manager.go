package input

import (
	"log/slog"
	"time"

	"github.com/valerio/go-shadercard/shadercard/input/action"
	"github.com/valerio/go-shadercard/shadercard/input/event"
)

const (
	// debounceDuration is the minimum time between debounced events
	debounceDuration = 300 * time.Millisecond
)

// Event is a single input occurrence as delivered to callbacks.
type Event struct {
	Action action.Action
	Type   event.Type

	// Width and Height carry the new surface size for WindowResize.
	Width  int
	Height int
}

// Callback handles a dispatched event.
type Callback func(Event)

// Manager handles input actions and their associated callbacks
type Manager struct {
	handlers      map[action.Action]map[event.Type][]Callback
	lastTriggered map[action.Action]map[event.Type]time.Time
	now           func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		handlers:      make(map[action.Action]map[event.Type][]Callback),
		lastTriggered: make(map[action.Action]map[event.Type]time.Time),
		now:           time.Now,
	}
}

// On registers a callback for a specific action and event type
func (m *Manager) On(act action.Action, evt event.Type, callback Callback) {
	if m.handlers[act] == nil {
		m.handlers[act] = make(map[event.Type][]Callback)
	}
	m.handlers[act][evt] = append(m.handlers[act][evt], callback)
}

// Trigger handles the given action and event type.
func (m *Manager) Trigger(act action.Action, evt event.Type) {
	m.Dispatch(Event{Action: act, Type: evt})
}

// Resize reports a new surface size.
func (m *Manager) Resize(width, height int) {
	m.Dispatch(Event{Action: action.WindowResize, Type: event.Change, Width: width, Height: height})
}

// Dispatch runs the callbacks registered for e, dropping Press and Release
// events that repeat within the debounce window. Mode selections are never
// debounced: every digit press must land.
func (m *Manager) Dispatch(e Event) {
	if debounced(e) {
		now := m.now()
		if m.lastTriggered[e.Action] == nil {
			m.lastTriggered[e.Action] = make(map[event.Type]time.Time)
		}
		lastTime, seen := m.lastTriggered[e.Action][e.Type]
		if seen && now.Sub(lastTime) < debounceDuration {
			return
		}
		m.lastTriggered[e.Action][e.Type] = now
	}

	callbacks := m.handlers[e.Action][e.Type]
	if len(callbacks) == 0 {
		slog.Debug("Unhandled input", "action", e.Action, "type", e.Type)
		return
	}
	for _, callback := range callbacks {
		callback(e)
	}
}

func debounced(e Event) bool {
	if e.Type != event.Press && e.Type != event.Release {
		return false
	}
	_, isMode := e.Action.Mode()
	return !isMode
}
