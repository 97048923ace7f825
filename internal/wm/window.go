package wm

import "errors"

// WindowID identifies a window within a Manager. IDs start at 1 and
// are never reused; InvalidWindow doubles as the no-focus sentinel.
type WindowID int

const InvalidWindow WindowID = -1

var (
	ErrEmptyTitle        = errors.New("window title must not be empty")
	ErrInvalidDimensions = errors.New("window dimensions must be positive")
	ErrSizeOutOfBounds   = errors.New("requested size violates window constraints")
	ErrInvalidConstraint = errors.New("invalid size constraint")
	ErrInvalidOpacity    = errors.New("opacity must be between 0 and 1")
	ErrUnknownWindow     = errors.New("unknown window")
)

// Window is a single managed window. It is not safe for concurrent
// use on its own; a Manager serializes all access to the windows it
// owns.
type Window struct {
	id       int
	title    string
	category Category

	geometry Geometry

	// normalGeometry remembers the floating geometry to return to
	// when leaving maximized or fullscreen.
	normalGeometry Geometry

	state    State
	visible  bool
	hasFocus bool

	resizable   bool
	movable     bool
	alwaysOnTop bool
	opacity     float64

	extent  ExtentFunc
	handler EventHandler
}

// NewWindow builds a window in the Normal state with capability
// defaults fixed by its category.
func NewWindow(id WindowID, title string, width, height int, category Category) (*Window, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	w := &Window{
		id:        int(id),
		title:     title,
		category:  category,
		geometry:  defaultGeometry(width, height),
		state:     StateNormal,
		visible:   true,
		resizable: true,
		movable:   true,
		opacity:   1.0,
		extent:    DefaultExtent,
	}
	w.normalGeometry = w.geometry
	switch category {
	case CategoryDialog:
		w.alwaysOnTop = true
		w.resizable = false
	case CategoryTooltip:
		w.alwaysOnTop = true
		w.resizable = false
		w.movable = false
	case CategoryPopup:
		w.alwaysOnTop = true
	case CategoryUtility:
		w.resizable = false
	}
	return w, nil
}

func (w *Window) ID() WindowID { return WindowID(w.id) }
func (w *Window) Title() string { return w.title }
func (w *Window) Category() Category { return w.category }
func (w *Window) Geometry() Geometry { return w.geometry }
func (w *Window) State() State { return w.state }
func (w *Window) Visible() bool { return w.visible }
func (w *Window) Focused() bool { return w.hasFocus }
func (w *Window) Resizable() bool { return w.resizable }
func (w *Window) Movable() bool { return w.movable }
func (w *Window) AlwaysOnTop() bool { return w.alwaysOnTop }
func (w *Window) Opacity() float64 { return w.opacity }

// SetHandler installs the event sink. Passing nil silences the
// window.
func (w *Window) SetHandler(h EventHandler) { w.handler = h }

// setExtentFunc is called by the manager so maximize and fullscreen
// track the live display extent.
func (w *Window) setExtentFunc(fn ExtentFunc) {
	if fn != nil {
		w.extent = fn
	}
}

func (w *Window) emit(ev Event) {
	if w.handler != nil {
		w.handler(ev)
	}
}

// SetTitle renames the window. The empty title is rejected.
func (w *Window) SetTitle(title string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	w.title = title
	w.emit(NewEvent(EventStateChanged, w.ID(), nil))
	return nil
}

// Move repositions the window. Any coordinates are accepted,
// including negative ones; the movable flag gates interactive drags,
// not programmatic moves.
func (w *Window) Move(x, y int) {
	old := w.geometry
	w.geometry.X = x
	w.geometry.Y = y
	w.emit(NewEvent(EventMoved, w.ID(), GeometryPayload{Old: old, New: w.geometry}))
}

// Resize changes the window's size. Sizes outside the constraint
// band are rejected without mutation.
func (w *Window) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidDimensions
	}
	if !w.geometry.fitsConstraints(width, height) {
		return ErrSizeOutOfBounds
	}
	old := w.geometry
	w.geometry.Width = width
	w.geometry.Height = height
	w.emit(NewEvent(EventResized, w.ID(), GeometryPayload{Old: old, New: w.geometry}))
	return nil
}

// SetMinimumSize tightens the lower size bound. Constraints that are
// non-positive or exceed the current maximum are rejected; the
// current size is clamped up if it now falls below the bound.
func (w *Window) SetMinimumSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidConstraint
	}
	if width > w.geometry.MaxWidth || height > w.geometry.MaxHeight {
		return ErrInvalidConstraint
	}
	w.geometry.MinWidth = width
	w.geometry.MinHeight = height
	w.geometry.clampSize()
	return nil
}

// SetMaximumSize tightens the upper size bound. Constraints that are
// non-positive or fall below the current minimum are rejected; the
// current size is clamped down if it now exceeds the bound.
func (w *Window) SetMaximumSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidConstraint
	}
	if width < w.geometry.MinWidth || height < w.geometry.MinHeight {
		return ErrInvalidConstraint
	}
	w.geometry.MaxWidth = width
	w.geometry.MaxHeight = height
	w.geometry.clampSize()
	return nil
}

// SetResizable toggles interactive resizing.
func (w *Window) SetResizable(v bool) { w.resizable = v }

// SetMovable toggles interactive moves.
func (w *Window) SetMovable(v bool) { w.movable = v }

// SetAlwaysOnTop toggles the stacking hint.
func (w *Window) SetAlwaysOnTop(v bool) { w.alwaysOnTop = v }

// SetOpacity sets the window's opacity in [0, 1].
func (w *Window) SetOpacity(opacity float64) error {
	if opacity < 0 || opacity > 1 {
		return ErrInvalidOpacity
	}
	w.opacity = opacity
	return nil
}

// Minimize iconifies the window. Geometry is untouched so Restore
// puts the window back exactly where it was.
func (w *Window) Minimize() {
	if w.state == StateMinimized {
		return
	}
	prev := w.state
	w.state = StateMinimized
	w.visible = false
	w.emit(NewEvent(EventStateChanged, w.ID(), StatePayload{Previous: prev}))
}

// Maximize grows the window to the display extent, clamped into its
// own constraint band. The floating geometry is snapshotted unless
// the window is already maximized or fullscreen, where geometry holds
// the extent and the earlier snapshot is the real restore target.
func (w *Window) Maximize() {
	if w.state == StateMaximized {
		return
	}
	prev := w.state
	if w.state != StateFullscreen {
		w.normalGeometry = w.geometry
	}
	w.applyExtent()
	w.state = StateMaximized
	w.visible = true
	w.emit(NewEvent(EventStateChanged, w.ID(), StatePayload{Previous: prev}))
}

// SetFullscreen enters or leaves fullscreen. Entering snapshots the
// current geometry from any non-fullscreen state; leaving restores
// the snapshot.
func (w *Window) SetFullscreen(on bool) {
	if on {
		if w.state == StateFullscreen {
			return
		}
		prev := w.state
		w.normalGeometry = w.geometry
		w.applyExtent()
		w.state = StateFullscreen
		w.visible = true
		w.emit(NewEvent(EventStateChanged, w.ID(), StatePayload{Previous: prev}))
		return
	}
	if w.state != StateFullscreen {
		return
	}
	w.Restore()
}

// Restore returns the window to the Normal state. Geometry saved at
// maximize or fullscreen time comes back; a minimized or hidden
// window becomes visible at its existing geometry.
func (w *Window) Restore() {
	if w.state == StateNormal {
		return
	}
	prev := w.state
	if prev == StateMaximized || prev == StateFullscreen {
		w.geometry = w.normalGeometry
	}
	w.state = StateNormal
	w.visible = true
	w.emit(NewEvent(EventStateChanged, w.ID(), StatePayload{Previous: prev}))
}

// Show makes the window visible again. Only visibility changes; the
// window keeps whatever state it had when it was hidden.
func (w *Window) Show() {
	if w.visible {
		return
	}
	w.visible = true
	w.emit(NewEvent(EventStateChanged, w.ID(), nil))
}

// Hide removes the window from view without destroying it or
// touching its state.
func (w *Window) Hide() {
	if !w.visible {
		return
	}
	w.visible = false
	w.emit(NewEvent(EventStateChanged, w.ID(), nil))
}

// Close requests that the window be closed. The window itself is not
// torn down; the manager (or any listener) decides what to do with
// the request.
func (w *Window) Close() {
	w.emit(NewEvent(EventCloseRequest, w.ID(), nil))
}

// SetFocus asks for focus. The request travels as a focus_gained
// event; the manager arbitrates and delivers the definitive
// focus_lost/focus_gained pair back through HandleEvent.
func (w *Window) SetFocus() {
	if w.hasFocus {
		return
	}
	w.emit(NewEvent(EventFocusGained, w.ID(), nil))
}

// HandleEvent delivers an event to the window. Focus events update
// the focus flag; every event is then re-emitted unchanged to the
// handler so listeners observe delivered input.
func (w *Window) HandleEvent(ev Event) {
	switch ev.Type {
	case EventFocusGained:
		w.hasFocus = true
	case EventFocusLost:
		w.hasFocus = false
	}
	w.emit(ev)
}

func (w *Window) applyExtent() {
	ext := w.extent()
	w.geometry.X = ext.X
	w.geometry.Y = ext.Y
	w.geometry.Width = ext.Width
	w.geometry.Height = ext.Height
	w.geometry.clampSize()
}
