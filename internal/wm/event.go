package wm

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
)

// EventType identifies what an Event describes.
type EventType string

const (
	// Lifecycle events emitted by windows and the manager.
	EventCreated      EventType = "created"
	EventClosing      EventType = "closing"
	EventDestroyed    EventType = "destroyed"
	EventCloseRequest EventType = "close_request"
	EventFocusGained  EventType = "focus_gained"
	EventFocusLost    EventType = "focus_lost"
	EventMoved        EventType = "moved"
	EventResized      EventType = "resized"
	EventStateChanged EventType = "state_changed"

	// Input events injected from a display backend or dispatch call.
	EventMouseEnter   EventType = "mouse_enter"
	EventMouseLeave   EventType = "mouse_leave"
	EventMouseMove    EventType = "mouse_move"
	EventMousePress   EventType = "mouse_press"
	EventMouseRelease EventType = "mouse_release"
	EventMouseWheel   EventType = "mouse_wheel"
	EventKeyPress     EventType = "key_press"
	EventKeyRelease   EventType = "key_release"

	// Drag events for interactive move/resize gestures.
	EventDragBegin EventType = "drag_begin"
	EventDragMove  EventType = "drag_move"
	EventDragEnd   EventType = "drag_end"
)

// Modifier is a bitmask of held modifier keys.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModControl
	ModAlt
	ModSuper
)

// MouseButton identifies a pointer button.
type MouseButton int

const (
	ButtonNone MouseButton = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// Payload carries event-specific data. The marker method keeps the
// set of payload types closed within this package.
type Payload interface {
	isPayload()
}

// MousePayload accompanies mouse events. Coordinates are
// window-local; WheelDelta is only meaningful for wheel events.
type MousePayload struct {
	X          int         `json:"x"`
	Y          int         `json:"y"`
	Button     MouseButton `json:"button"`
	Modifiers  Modifier    `json:"modifiers"`
	WheelDelta int         `json:"wheel_delta,omitempty"`
}

// KeyPayload accompanies key events.
type KeyPayload struct {
	KeyCode   int      `json:"key_code"`
	Modifiers Modifier `json:"modifiers"`
	Text      string   `json:"text,omitempty"`
}

// GeometryPayload accompanies moved and resized events with the
// before and after geometry.
type GeometryPayload struct {
	Old Geometry `json:"old"`
	New Geometry `json:"new"`
}

// DragPayload accompanies drag events with root-relative coordinates.
type DragPayload struct {
	X         int      `json:"x"`
	Y         int      `json:"y"`
	Modifiers Modifier `json:"modifiers"`
}

// StatePayload accompanies state transitions with the state being
// left behind.
type StatePayload struct {
	Previous State `json:"previous"`
}

func (MousePayload) isPayload()    {}
func (KeyPayload) isPayload()      {}
func (GeometryPayload) isPayload() {}
func (DragPayload) isPayload()     {}
func (StatePayload) isPayload()    {}

// eventClock issues strictly increasing timestamps. Values are
// ordinals for ordering only, not wall-clock time.
var eventClock atomic.Uint64

func nextTimestamp() uint64 {
	return eventClock.Add(1)
}

// Event is a single notification about a window. Timestamps are
// monotonically increasing across all windows in the process.
type Event struct {
	Type      EventType `json:"type"`
	Window    WindowID  `json:"window"`
	Timestamp uint64    `json:"timestamp"`
	Payload   Payload   `json:"payload,omitempty"`
}

// NewEvent builds an event stamped with the next timestamp.
func NewEvent(t EventType, id WindowID, payload Payload) Event {
	return Event{Type: t, Window: id, Timestamp: nextTimestamp(), Payload: payload}
}

// UnmarshalJSON decodes the payload into the concrete type implied by
// the event type. Events arriving over IPC round-trip through this.
func (e *Event) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type      EventType       `json:"type"`
		Window    WindowID        `json:"window"`
		Timestamp uint64          `json:"timestamp"`
		Payload   json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Type = raw.Type
	e.Window = raw.Window
	e.Timestamp = raw.Timestamp
	e.Payload = nil
	if len(raw.Payload) == 0 || string(raw.Payload) == "null" {
		return nil
	}
	switch raw.Type {
	case EventMouseEnter, EventMouseLeave, EventMouseMove,
		EventMousePress, EventMouseRelease, EventMouseWheel:
		var p MousePayload
		if err := json.Unmarshal(raw.Payload, &p); err != nil {
			return fmt.Errorf("decoding mouse payload: %w", err)
		}
		e.Payload = p
	case EventKeyPress, EventKeyRelease:
		var p KeyPayload
		if err := json.Unmarshal(raw.Payload, &p); err != nil {
			return fmt.Errorf("decoding key payload: %w", err)
		}
		e.Payload = p
	case EventMoved, EventResized:
		var p GeometryPayload
		if err := json.Unmarshal(raw.Payload, &p); err != nil {
			return fmt.Errorf("decoding geometry payload: %w", err)
		}
		e.Payload = p
	case EventDragBegin, EventDragMove, EventDragEnd:
		var p DragPayload
		if err := json.Unmarshal(raw.Payload, &p); err != nil {
			return fmt.Errorf("decoding drag payload: %w", err)
		}
		e.Payload = p
	case EventStateChanged:
		var p StatePayload
		if err := json.Unmarshal(raw.Payload, &p); err != nil {
			return fmt.Errorf("decoding state payload: %w", err)
		}
		e.Payload = p
	default:
		// Lifecycle events carry no payload; ignore anything extra.
	}
	return nil
}

// EventHandler receives events. Handlers run synchronously on the
// goroutine that triggered the event.
type EventHandler func(Event)
