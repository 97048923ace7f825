package wm

import (
	"encoding/json"
	"testing"
)

func TestTimestampsStrictlyIncrease(t *testing.T) {
	var last uint64
	for i := 0; i < 100; i++ {
		ev := NewEvent(EventMouseMove, 1, MousePayload{X: i})
		if ev.Timestamp <= last {
			t.Fatalf("timestamp %d not greater than previous %d", ev.Timestamp, last)
		}
		last = ev.Timestamp
	}
}

func TestEventJSONRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
	}{
		{"mouse", NewEvent(EventMousePress, 3, MousePayload{X: 10, Y: 20, Button: ButtonRight, Modifiers: ModControl | ModShift})},
		{"wheel", NewEvent(EventMouseWheel, 3, MousePayload{X: 5, Y: 5, WheelDelta: -120})},
		{"key", NewEvent(EventKeyPress, 2, KeyPayload{KeyCode: 36, Modifiers: ModAlt, Text: "\n"})},
		{"geometry", NewEvent(EventResized, 1, GeometryPayload{
			Old: Geometry{Width: 800, Height: 600, MinWidth: 100, MinHeight: 100, MaxWidth: 4096, MaxHeight: 4096},
			New: Geometry{Width: 640, Height: 480, MinWidth: 100, MinHeight: 100, MaxWidth: 4096, MaxHeight: 4096},
		})},
		{"drag", NewEvent(EventDragMove, 4, DragPayload{X: 300, Y: 200, Modifiers: ModSuper})},
		{"state", NewEvent(EventStateChanged, 5, StatePayload{Previous: StateMaximized})},
		{"lifecycle", NewEvent(EventCreated, 6, nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.ev)
			if err != nil {
				t.Fatalf("marshal failed: %v", err)
			}
			var got Event
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if got.Type != tt.ev.Type || got.Window != tt.ev.Window || got.Timestamp != tt.ev.Timestamp {
				t.Fatalf("header mismatch: got %+v, want %+v", got, tt.ev)
			}
			if got.Payload != tt.ev.Payload {
				t.Fatalf("payload mismatch: got %#v, want %#v", got.Payload, tt.ev.Payload)
			}
		})
	}
}

func TestEventUnmarshalRejectsBadPayload(t *testing.T) {
	bad := `{"type":"key_press","window":1,"timestamp":5,"payload":{"key_code":"not a number"}}`
	var ev Event
	if err := json.Unmarshal([]byte(bad), &ev); err == nil {
		t.Fatal("unmarshal accepted a mistyped payload")
	}
}

func TestStateJSONNames(t *testing.T) {
	data, err := json.Marshal(StateFullscreen)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `"fullscreen"` {
		t.Fatalf("marshaled state = %s, want \"fullscreen\"", data)
	}
	var s State
	if err := json.Unmarshal([]byte(`"minimized"`), &s); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if s != StateMinimized {
		t.Fatalf("state = %v, want minimized", s)
	}
	if err := json.Unmarshal([]byte(`"sideways"`), &s); err == nil {
		t.Fatal("unmarshal accepted an unknown state name")
	}
}

func TestParseHelpers(t *testing.T) {
	for _, s := range []State{StateNormal, StateMinimized, StateMaximized, StateFullscreen, StateHidden} {
		got, err := ParseState(s.String())
		if err != nil || got != s {
			t.Fatalf("ParseState(%q) = %v, %v", s.String(), got, err)
		}
	}
	for _, c := range []Category{CategoryNormal, CategoryDialog, CategoryTooltip, CategoryPopup, CategoryUtility} {
		got, err := ParseCategory(c.String())
		if err != nil || got != c {
			t.Fatalf("ParseCategory(%q) = %v, %v", c.String(), got, err)
		}
	}
	if _, err := ParseState("floating"); err == nil {
		t.Fatal("ParseState accepted an unknown name")
	}
	if _, err := ParseCategory("splash"); err == nil {
		t.Fatal("ParseCategory accepted an unknown name")
	}
}
