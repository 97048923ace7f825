package wm

import (
	"errors"
	"testing"
)

func newTestWindow(t *testing.T, title string, w, h int, cat Category) *Window {
	t.Helper()
	win, err := NewWindow(1, title, w, h, cat)
	if err != nil {
		t.Fatalf("NewWindow(%q, %d, %d, %v) failed: %v", title, w, h, cat, err)
	}
	return win
}

func TestNewWindowValidation(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		width   int
		height  int
		wantErr error
	}{
		{"valid", "editor", 800, 600, nil},
		{"empty title", "", 800, 600, ErrEmptyTitle},
		{"zero width", "editor", 0, 600, ErrInvalidDimensions},
		{"zero height", "editor", 800, 0, ErrInvalidDimensions},
		{"negative width", "editor", -10, 600, ErrInvalidDimensions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWindow(1, tt.title, tt.width, tt.height, CategoryNormal)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewWindow error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewWindowDefaults(t *testing.T) {
	w := newTestWindow(t, "editor", 800, 600, CategoryNormal)

	if w.State() != StateNormal {
		t.Errorf("state = %v, want %v", w.State(), StateNormal)
	}
	if !w.Visible() {
		t.Error("new window should be visible")
	}
	if w.Focused() {
		t.Error("new window should not have focus before arbitration")
	}
	g := w.Geometry()
	if g.X != 0 || g.Y != 0 || g.Width != 800 || g.Height != 600 {
		t.Errorf("geometry = %+v, want 0,0 800x600", g)
	}
	if g.MinWidth != DefaultMinDimension || g.MaxWidth != DefaultMaxDimension {
		t.Errorf("constraints = %d..%d, want defaults", g.MinWidth, g.MaxWidth)
	}
	if w.Opacity() != 1.0 {
		t.Errorf("opacity = %v, want 1.0", w.Opacity())
	}
}

func TestNewWindowSmallerThanDefaultMin(t *testing.T) {
	w := newTestWindow(t, "tip", 40, 20, CategoryTooltip)

	g := w.Geometry()
	if g.Width != 40 || g.Height != 20 {
		t.Fatalf("size = %dx%d, want 40x20", g.Width, g.Height)
	}
	if !g.fitsConstraints(g.Width, g.Height) {
		t.Fatalf("initial size %dx%d violates constraints %+v", g.Width, g.Height, g)
	}
}

func TestCategoryCapabilities(t *testing.T) {
	tests := []struct {
		category  Category
		resizable bool
		movable   bool
		onTop     bool
	}{
		{CategoryNormal, true, true, false},
		{CategoryDialog, false, true, true},
		{CategoryTooltip, false, false, true},
		{CategoryPopup, true, true, true},
		{CategoryUtility, false, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.category.String(), func(t *testing.T) {
			w := newTestWindow(t, "w", 200, 200, tt.category)
			if w.Resizable() != tt.resizable {
				t.Errorf("resizable = %v, want %v", w.Resizable(), tt.resizable)
			}
			if w.Movable() != tt.movable {
				t.Errorf("movable = %v, want %v", w.Movable(), tt.movable)
			}
			if w.AlwaysOnTop() != tt.onTop {
				t.Errorf("alwaysOnTop = %v, want %v", w.AlwaysOnTop(), tt.onTop)
			}
		})
	}
}

func TestMoveEmitsGeometry(t *testing.T) {
	w := newTestWindow(t, "editor", 800, 600, CategoryNormal)
	var got []Event
	w.SetHandler(func(ev Event) { got = append(got, ev) })

	w.Move(-100, 50)

	g := w.Geometry()
	if g.X != -100 || g.Y != 50 {
		t.Fatalf("position = %d,%d, want -100,50", g.X, g.Y)
	}
	if len(got) != 1 || got[0].Type != EventMoved {
		t.Fatalf("events = %v, want one moved event", got)
	}
	p, ok := got[0].Payload.(GeometryPayload)
	if !ok {
		t.Fatalf("payload = %T, want GeometryPayload", got[0].Payload)
	}
	if p.Old.X != 0 || p.New.X != -100 {
		t.Errorf("payload old.X=%d new.X=%d, want 0 and -100", p.Old.X, p.New.X)
	}
}

func TestResizeConstraints(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		height  int
		wantErr error
	}{
		{"in range", 500, 400, nil},
		{"at min", DefaultMinDimension, DefaultMinDimension, nil},
		{"at max", DefaultMaxDimension, DefaultMaxDimension, nil},
		{"below min", DefaultMinDimension - 1, 400, ErrSizeOutOfBounds},
		{"above max", DefaultMaxDimension + 1, 400, ErrSizeOutOfBounds},
		{"zero", 0, 400, ErrInvalidDimensions},
		{"negative", 500, -1, ErrInvalidDimensions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWindow(t, "editor", 800, 600, CategoryNormal)
			err := w.Resize(tt.width, tt.height)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Resize(%d, %d) = %v, want %v", tt.width, tt.height, err, tt.wantErr)
			}
			g := w.Geometry()
			if tt.wantErr != nil {
				if g.Width != 800 || g.Height != 600 {
					t.Errorf("failed resize mutated size to %dx%d", g.Width, g.Height)
				}
			} else if g.Width != tt.width || g.Height != tt.height {
				t.Errorf("size = %dx%d, want %dx%d", g.Width, g.Height, tt.width, tt.height)
			}
		})
	}
}

func TestSetMinimumSizeClampsCurrent(t *testing.T) {
	w := newTestWindow(t, "editor", 300, 300, CategoryNormal)

	if err := w.SetMinimumSize(400, 350); err != nil {
		t.Fatalf("SetMinimumSize failed: %v", err)
	}
	g := w.Geometry()
	if g.Width != 400 || g.Height != 350 {
		t.Fatalf("size = %dx%d, want clamped to 400x350", g.Width, g.Height)
	}
}

func TestSetMaximumSizeClampsCurrent(t *testing.T) {
	w := newTestWindow(t, "editor", 800, 600, CategoryNormal)

	if err := w.SetMaximumSize(640, 480); err != nil {
		t.Fatalf("SetMaximumSize failed: %v", err)
	}
	g := w.Geometry()
	if g.Width != 640 || g.Height != 480 {
		t.Fatalf("size = %dx%d, want clamped to 640x480", g.Width, g.Height)
	}
}

func TestConstraintCrossingRejected(t *testing.T) {
	w := newTestWindow(t, "editor", 800, 600, CategoryNormal)

	if err := w.SetMaximumSize(500, 500); err != nil {
		t.Fatalf("SetMaximumSize failed: %v", err)
	}
	if err := w.SetMinimumSize(600, 600); !errors.Is(err, ErrInvalidConstraint) {
		t.Fatalf("SetMinimumSize above max = %v, want ErrInvalidConstraint", err)
	}
	if err := w.SetMaximumSize(50, 50); !errors.Is(err, ErrInvalidConstraint) {
		t.Fatalf("SetMaximumSize below min = %v, want ErrInvalidConstraint", err)
	}
	if err := w.SetMinimumSize(0, 100); !errors.Is(err, ErrInvalidConstraint) {
		t.Fatalf("SetMinimumSize zero = %v, want ErrInvalidConstraint", err)
	}
}

func TestMaximizeRestoreRoundTrip(t *testing.T) {
	w := newTestWindow(t, "editor", 800, 600, CategoryNormal)
	w.Move(120, 80)

	w.Maximize()
	if w.State() != StateMaximized {
		t.Fatalf("state = %v, want maximized", w.State())
	}
	ext := DefaultExtent()
	g := w.Geometry()
	if g.Width != ext.Width || g.Height != ext.Height {
		t.Fatalf("maximized size = %dx%d, want %dx%d", g.Width, g.Height, ext.Width, ext.Height)
	}

	w.Restore()
	if w.State() != StateNormal {
		t.Fatalf("state = %v, want normal", w.State())
	}
	g = w.Geometry()
	if g.X != 120 || g.Y != 80 || g.Width != 800 || g.Height != 600 {
		t.Fatalf("restored geometry = %+v, want 120,80 800x600", g)
	}
}

func TestMaximizeFromMinimizedRestoresFloatingGeometry(t *testing.T) {
	w := newTestWindow(t, "editor", 800, 600, CategoryNormal)
	w.Move(40, 50)

	w.Minimize()
	w.Maximize()
	w.Restore()

	g := w.Geometry()
	if g.X != 40 || g.Y != 50 || g.Width != 800 || g.Height != 600 {
		t.Fatalf("restored geometry = %+v, want the pre-minimize geometry", g)
	}
}

func TestMaximizeRespectsMaximumSize(t *testing.T) {
	w := newTestWindow(t, "panel", 400, 300, CategoryNormal)
	if err := w.SetMaximumSize(1000, 700); err != nil {
		t.Fatalf("SetMaximumSize failed: %v", err)
	}

	w.Maximize()

	g := w.Geometry()
	if g.Width != 1000 || g.Height != 700 {
		t.Fatalf("maximized size = %dx%d, want clamped to 1000x700", g.Width, g.Height)
	}
}

func TestFullscreenEntrySnapshotsCurrentGeometry(t *testing.T) {
	w := newTestWindow(t, "editor", 800, 600, CategoryNormal)
	w.Move(10, 20)

	// Entering fullscreen snapshots whatever geometry is current,
	// even when that is the maximized extent.
	w.Maximize()
	w.SetFullscreen(true)
	if w.State() != StateFullscreen {
		t.Fatalf("state = %v, want fullscreen", w.State())
	}

	w.Restore()
	g := w.Geometry()
	if g.X != 0 || g.Y != 0 || g.Width != 1920 || g.Height != 1080 {
		t.Fatalf("restored geometry = %+v, want the maximized extent", g)
	}
}

func TestSetFullscreenOffRestores(t *testing.T) {
	w := newTestWindow(t, "video", 640, 480, CategoryNormal)

	w.SetFullscreen(true)
	w.SetFullscreen(false)

	if w.State() != StateNormal {
		t.Fatalf("state = %v, want normal", w.State())
	}
	g := w.Geometry()
	if g.Width != 640 || g.Height != 480 {
		t.Fatalf("size = %dx%d, want 640x480", g.Width, g.Height)
	}
}

func TestStateTransitionsIdempotent(t *testing.T) {
	w := newTestWindow(t, "editor", 800, 600, CategoryNormal)
	var count int
	w.SetHandler(func(Event) { count++ })

	w.Minimize()
	w.Minimize()
	if count != 1 {
		t.Fatalf("double minimize emitted %d events, want 1", count)
	}

	count = 0
	w.Restore()
	w.Restore()
	if count != 1 {
		t.Fatalf("double restore emitted %d events, want 1", count)
	}

	count = 0
	w.SetFullscreen(false)
	if count != 0 {
		t.Fatalf("fullscreen off while normal emitted %d events, want 0", count)
	}
}

func TestMinimizeKeepsGeometry(t *testing.T) {
	w := newTestWindow(t, "editor", 800, 600, CategoryNormal)
	w.Move(55, 66)

	w.Minimize()
	g := w.Geometry()
	if g.X != 55 || g.Y != 66 || g.Width != 800 {
		t.Fatalf("minimize changed geometry: %+v", g)
	}

	w.Restore()
	if !w.Visible() {
		t.Error("restored window should be visible")
	}
}

func TestMinimizeHidesWindow(t *testing.T) {
	w := newTestWindow(t, "editor", 800, 600, CategoryNormal)

	w.Minimize()
	if w.Visible() {
		t.Fatal("minimized window still visible")
	}

	// Show only flips visibility; the window stays minimized.
	w.Show()
	if !w.Visible() || w.State() != StateMinimized {
		t.Fatalf("after show: visible=%v state=%v", w.Visible(), w.State())
	}
}

func TestStateChangedCarriesPrevious(t *testing.T) {
	w := newTestWindow(t, "editor", 800, 600, CategoryNormal)
	var got []Event
	w.SetHandler(func(ev Event) { got = append(got, ev) })

	w.Maximize()
	w.Minimize()
	w.Restore()

	wantPrev := []State{StateNormal, StateMaximized, StateMinimized}
	if len(got) != len(wantPrev) {
		t.Fatalf("got %d events, want %d", len(got), len(wantPrev))
	}
	for i, ev := range got {
		if ev.Type != EventStateChanged {
			t.Fatalf("event %d type = %v, want state_changed", i, ev.Type)
		}
		p, ok := ev.Payload.(StatePayload)
		if !ok {
			t.Fatalf("event %d payload = %T, want StatePayload", i, ev.Payload)
		}
		if p.Previous != wantPrev[i] {
			t.Errorf("event %d previous = %v, want %v", i, p.Previous, wantPrev[i])
		}
	}
}

func TestShowHideTogglesVisibilityOnly(t *testing.T) {
	w := newTestWindow(t, "editor", 800, 600, CategoryNormal)
	var count int
	w.SetHandler(func(Event) { count++ })

	w.Hide()
	if w.Visible() || w.State() != StateNormal {
		t.Fatalf("after hide: visible=%v state=%v", w.Visible(), w.State())
	}
	w.Hide()
	if count != 1 {
		t.Fatalf("double hide emitted %d events, want 1", count)
	}

	w.Show()
	if !w.Visible() || w.State() != StateNormal {
		t.Fatalf("after show: visible=%v state=%v", w.Visible(), w.State())
	}
	w.Show()
	if count != 2 {
		t.Fatalf("double show emitted %d events, want 2", count)
	}
}

func TestHiddenMaximizedKeepsStateAndRestoreTarget(t *testing.T) {
	w := newTestWindow(t, "editor", 800, 600, CategoryNormal)
	w.Move(10, 20)
	w.Maximize()

	w.Hide()
	w.Show()
	if w.State() != StateMaximized {
		t.Fatalf("state after hide/show = %v, want maximized", w.State())
	}

	w.Restore()
	g := w.Geometry()
	if g.X != 10 || g.Y != 20 || g.Width != 800 || g.Height != 600 {
		t.Fatalf("restored geometry = %+v, want the pre-maximize geometry", g)
	}
}

func TestCloseEmitsRequestOnly(t *testing.T) {
	w := newTestWindow(t, "editor", 800, 600, CategoryNormal)
	var got []Event
	w.SetHandler(func(ev Event) { got = append(got, ev) })

	w.Close()

	if len(got) != 1 || got[0].Type != EventCloseRequest {
		t.Fatalf("events = %v, want one close_request", got)
	}
	if w.State() != StateNormal {
		t.Errorf("close mutated state to %v", w.State())
	}
}

func TestSetTitle(t *testing.T) {
	w := newTestWindow(t, "old", 800, 600, CategoryNormal)
	var count int
	w.SetHandler(func(Event) { count++ })

	if err := w.SetTitle(""); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("SetTitle(\"\") = %v, want ErrEmptyTitle", err)
	}
	if err := w.SetTitle("new"); err != nil {
		t.Fatalf("SetTitle failed: %v", err)
	}
	if w.Title() != "new" {
		t.Fatalf("title = %q, want %q", w.Title(), "new")
	}
	if count != 1 {
		t.Fatalf("emitted %d events, want 1", count)
	}

	// Every accepted call announces itself, even with an unchanged title.
	if err := w.SetTitle("new"); err != nil {
		t.Fatalf("SetTitle failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("emitted %d events, want 2", count)
	}
}

func TestSetOpacity(t *testing.T) {
	w := newTestWindow(t, "editor", 800, 600, CategoryNormal)

	if err := w.SetOpacity(0.5); err != nil {
		t.Fatalf("SetOpacity(0.5) failed: %v", err)
	}
	if w.Opacity() != 0.5 {
		t.Fatalf("opacity = %v, want 0.5", w.Opacity())
	}
	if err := w.SetOpacity(1.5); !errors.Is(err, ErrInvalidOpacity) {
		t.Fatalf("SetOpacity(1.5) = %v, want ErrInvalidOpacity", err)
	}
	if err := w.SetOpacity(-0.1); !errors.Is(err, ErrInvalidOpacity) {
		t.Fatalf("SetOpacity(-0.1) = %v, want ErrInvalidOpacity", err)
	}
}

func TestHandleEventUpdatesFocus(t *testing.T) {
	w := newTestWindow(t, "editor", 800, 600, CategoryNormal)

	w.HandleEvent(NewEvent(EventFocusGained, w.ID(), nil))
	if !w.Focused() {
		t.Fatal("focus_gained did not set focus flag")
	}
	w.HandleEvent(NewEvent(EventFocusLost, w.ID(), nil))
	if w.Focused() {
		t.Fatal("focus_lost did not clear focus flag")
	}
}

func TestHandleEventReemitsUnchanged(t *testing.T) {
	w := newTestWindow(t, "editor", 800, 600, CategoryNormal)
	var got []Event
	w.SetHandler(func(ev Event) { got = append(got, ev) })

	in := NewEvent(EventMousePress, w.ID(), MousePayload{X: 10, Y: 20, Button: ButtonLeft})
	w.HandleEvent(in)

	if len(got) != 1 {
		t.Fatalf("got %d events, want 1", len(got))
	}
	if got[0].Timestamp != in.Timestamp {
		t.Errorf("timestamp changed: %d -> %d", in.Timestamp, got[0].Timestamp)
	}
	p, ok := got[0].Payload.(MousePayload)
	if !ok || p.X != 10 || p.Button != ButtonLeft {
		t.Errorf("payload = %#v, want original mouse payload", got[0].Payload)
	}
}

func TestSetFocusEmitsRequestOnce(t *testing.T) {
	w := newTestWindow(t, "editor", 800, 600, CategoryNormal)
	var got []Event
	w.SetHandler(func(ev Event) { got = append(got, ev) })

	w.SetFocus()
	if len(got) != 1 || got[0].Type != EventFocusGained {
		t.Fatalf("events = %v, want one focus_gained request", got)
	}

	w.HandleEvent(NewEvent(EventFocusGained, w.ID(), nil))
	got = nil
	w.SetFocus()
	if len(got) != 0 {
		t.Fatalf("SetFocus on focused window emitted %d events, want 0", len(got))
	}
}
