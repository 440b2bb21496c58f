package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-shadercard/shadercard/input/action"
	"github.com/valerio/go-shadercard/shadercard/input/event"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestManager() (*Manager, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	m := NewManager()
	m.now = clock.now
	return m, clock
}

func TestManager_Debouncing(t *testing.T) {
	tests := []struct {
		name        string
		act         action.Action
		eventType   event.Type
		timeBetween time.Duration
		expectCalls int
	}{
		{
			name:        "rapid press - should debounce",
			act:         action.PreviewQuit,
			eventType:   event.Press,
			timeBetween: 100 * time.Millisecond,
			expectCalls: 1,
		},
		{
			name:        "slow press - should not debounce",
			act:         action.PreviewQuit,
			eventType:   event.Press,
			timeBetween: 400 * time.Millisecond,
			expectCalls: 2,
		},
		{
			name:        "rapid release - should debounce",
			act:         action.PreviewQuit,
			eventType:   event.Release,
			timeBetween: 10 * time.Millisecond,
			expectCalls: 1,
		},
		{
			name:        "rapid mode press - should not debounce",
			act:         action.ModeSelect2,
			eventType:   event.Press,
			timeBetween: 0,
			expectCalls: 2,
		},
		{
			name:        "change event type - should not debounce",
			act:         action.WindowResize,
			eventType:   event.Change,
			timeBetween: 0,
			expectCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, clock := newTestManager()
			calls := 0
			m.On(tt.act, tt.eventType, func(Event) { calls++ })

			m.Trigger(tt.act, tt.eventType)
			clock.advance(tt.timeBetween)
			m.Trigger(tt.act, tt.eventType)

			assert.Equal(t, tt.expectCalls, calls)
		})
	}
}

func TestManager_ModeSequence(t *testing.T) {
	m, clock := newTestManager()

	var got []action.Action
	record := func(e Event) { got = append(got, e.Action) }
	for n := 0; n < action.ModeCount; n++ {
		act, _ := action.ModeSelect(n)
		m.On(act, event.Press, record)
	}

	m.Trigger(action.ModeSelect2, event.Press)
	clock.advance(16 * time.Millisecond)
	m.Trigger(action.ModeSelect3, event.Press)
	clock.advance(16 * time.Millisecond)
	m.Trigger(action.ModeSelect2, event.Press)

	assert.Equal(t, []action.Action{action.ModeSelect2, action.ModeSelect3, action.ModeSelect2}, got)
}

func TestManager_MultipleActions(t *testing.T) {
	m, _ := newTestManager()

	var got []action.Action
	record := func(e Event) { got = append(got, e.Action) }
	m.On(action.PreviewQuit, event.Press, record)
	m.On(action.ModeSelect2, event.Press, record)

	// Different actions shouldn't interfere with each other
	m.Trigger(action.PreviewQuit, event.Press)
	m.Trigger(action.ModeSelect2, event.Press)
	m.Trigger(action.PreviewQuit, event.Press)

	assert.Equal(t, []action.Action{action.PreviewQuit, action.ModeSelect2}, got)
}

func TestManager_Resize(t *testing.T) {
	m, _ := newTestManager()

	var sizes [][2]int
	m.On(action.WindowResize, event.Change, func(e Event) {
		sizes = append(sizes, [2]int{e.Width, e.Height})
	})

	m.Resize(800, 600)
	m.Resize(1024, 768)

	assert.Equal(t, [][2]int{{800, 600}, {1024, 768}}, sizes)
}

func TestManager_UnhandledAndMultipleCallbacks(t *testing.T) {
	m, _ := newTestManager()

	// No handler registered, must not panic
	m.Trigger(action.PreviewQuit, event.Press)

	first, second := false, false
	m.On(action.PreviewQuit, event.Release, func(Event) { first = true })
	m.On(action.PreviewQuit, event.Release, func(Event) { second = true })
	m.Trigger(action.PreviewQuit, event.Release)

	assert.True(t, first)
	assert.True(t, second)
}

func TestGetDefaultMapping(t *testing.T) {
	tests := []struct {
		key    string
		want   action.Action
		mapped bool
	}{
		{"0", action.ModeSelect0, true},
		{"1", action.ModeSelect1, true},
		{"2", action.ModeSelect2, true},
		{"3", action.ModeSelect3, true},
		{"4", action.ModeSelect4, true},
		{"Keypad 2", action.ModeSelect2, true},
		{"Escape", action.PreviewQuit, true},
		{"q", action.PreviewQuit, true},
		{"Q", action.PreviewQuit, true},
		{"5", 0, false},
		{"x", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			act, ok := GetDefaultMapping(tt.key)
			assert.Equal(t, tt.mapped, ok)
			if tt.mapped {
				assert.Equal(t, tt.want, act)
			}
		})
	}
}
