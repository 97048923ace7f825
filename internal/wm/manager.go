package wm

import (
	"fmt"
	"sort"
	"sync"

	"github.com/driftwm/driftwm/internal/session"
)

// WindowInfo is a point-in-time snapshot of a window, safe to hand
// out past the manager's lock.
type WindowInfo struct {
	ID          WindowID `json:"id"`
	Title       string   `json:"title"`
	Geometry    Geometry `json:"geometry"`
	State       State    `json:"state"`
	Category    Category `json:"category"`
	Visible     bool     `json:"visible"`
	Focused     bool     `json:"focused"`
	Resizable   bool     `json:"resizable"`
	Movable     bool     `json:"movable"`
	AlwaysOnTop bool     `json:"always_on_top"`
	Opacity     float64  `json:"opacity"`
}

// Manager owns a set of windows and arbitrates focus among them. At
// most one window is focused at a time; focus handoff always delivers
// focus_lost to the old window before focus_gained to the new one.
// All methods are safe for concurrent use.
type Manager struct {
	mu      sync.Mutex
	windows map[WindowID]*Window
	nextID  WindowID
	focused WindowID
	extent  ExtentFunc
	sink    EventHandler
}

// ManagerOption configures a Manager at construction.
type ManagerOption func(*Manager)

// WithExtent supplies the display extent used for maximize and
// fullscreen transitions.
func WithExtent(fn ExtentFunc) ManagerOption {
	return func(m *Manager) {
		if fn != nil {
			m.extent = fn
		}
	}
}

// WithEventSink installs the handler that receives every event the
// manager or its windows emit. The sink runs with the manager lock
// held; it must not call back into the manager.
func WithEventSink(h EventHandler) ManagerOption {
	return func(m *Manager) { m.sink = h }
}

// SetEventSink replaces the registered event sink. Only one sink is
// supported; passing nil silences event delivery. The sink runs with
// the manager lock held and must not call back into the manager.
func (m *Manager) SetEventSink(h EventHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sink = h
}

// NewManager builds an empty manager. IDs start at 1 and never
// repeat, even after windows close.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		windows: make(map[WindowID]*Window),
		nextID:  1,
		focused: InvalidWindow,
		extent:  DefaultExtent,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) emit(ev Event) {
	if m.sink != nil {
		m.sink(ev)
	}
}

// onWindowEvent receives everything a managed window emits. Called
// with the manager lock held. A focus_gained event from a window that
// is not currently focused is a focus request and triggers
// arbitration; the delivered events then flow back through here and
// out to the sink.
func (m *Manager) onWindowEvent(ev Event) {
	if ev.Type == EventFocusGained && ev.Window != m.focused {
		m.focusLocked(ev.Window)
		return
	}
	m.emit(ev)
}

// focusLocked hands focus to id, which must exist in the window map
// or be InvalidWindow to clear focus. Caller holds the lock.
func (m *Manager) focusLocked(id WindowID) {
	if id == m.focused {
		return
	}
	old := m.focused
	m.focused = id
	if prev, ok := m.windows[old]; ok {
		prev.HandleEvent(NewEvent(EventFocusLost, old, nil))
	}
	if next, ok := m.windows[id]; ok {
		next.HandleEvent(NewEvent(EventFocusGained, id, nil))
	}
}

// CreateWindow makes a new managed window, focuses it, and announces
// it. A rejected creation never consumes an ID.
func (m *Manager) CreateWindow(title string, width, height int, category Category) (WindowID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, err := NewWindow(m.nextID, title, width, height, category)
	if err != nil {
		return InvalidWindow, err
	}
	id := m.nextID
	m.nextID++
	w.setExtentFunc(m.extent)
	w.SetHandler(m.onWindowEvent)
	m.windows[id] = w

	m.focusLocked(id)
	m.emit(NewEvent(EventCreated, id, nil))
	return id, nil
}

// CloseWindow destroys a window. The window sees closing before it is
// removed; if it held focus, focus falls back to the lowest surviving
// ID. destroyed is announced last.
func (m *Manager) CloseWindow(id WindowID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.windows[id]
	if !ok {
		return fmt.Errorf("closing window %d: %w", id, ErrUnknownWindow)
	}
	m.emit(NewEvent(EventClosing, id, nil))

	delete(m.windows, id)
	w.SetHandler(nil)
	w.hasFocus = false

	if m.focused == id {
		m.focused = InvalidWindow
		if next := m.lowestIDLocked(); next != InvalidWindow {
			m.focusLocked(next)
		}
	}
	m.emit(NewEvent(EventDestroyed, id, nil))
	return nil
}

func (m *Manager) lowestIDLocked() WindowID {
	lowest := InvalidWindow
	for id := range m.windows {
		if lowest == InvalidWindow || id < lowest {
			lowest = id
		}
	}
	return lowest
}

// SetFocus moves focus to the given window. Focusing the already
// focused window is a no-op.
func (m *Manager) SetFocus(id WindowID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == m.focused {
		return nil
	}
	if _, ok := m.windows[id]; !ok {
		return fmt.Errorf("focusing window %d: %w", id, ErrUnknownWindow)
	}
	m.focusLocked(id)
	return nil
}

// FocusedWindow returns the focused window's ID, or InvalidWindow
// when nothing is focused.
func (m *Manager) FocusedWindow() WindowID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.focused
}

// WindowCount returns the number of live windows.
func (m *Manager) WindowCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.windows)
}

// WindowIDs returns the live window IDs in ascending order.
func (m *Manager) WindowIDs() []WindowID {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]WindowID, 0, len(m.windows))
	for id := range m.windows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// WindowGeometry returns the window's geometry, or the zero Geometry
// for an unknown ID.
func (m *Manager) WindowGeometry(id WindowID) Geometry {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.windows[id]; ok {
		return w.Geometry()
	}
	return Geometry{}
}

func snapshot(w *Window) WindowInfo {
	return WindowInfo{
		ID:          w.ID(),
		Title:       w.Title(),
		Geometry:    w.Geometry(),
		State:       w.State(),
		Category:    w.Category(),
		Visible:     w.Visible(),
		Focused:     w.Focused(),
		Resizable:   w.Resizable(),
		Movable:     w.Movable(),
		AlwaysOnTop: w.AlwaysOnTop(),
		Opacity:     w.Opacity(),
	}
}

// Window returns a snapshot of one window.
func (m *Manager) Window(id WindowID) (WindowInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.windows[id]
	if !ok {
		return WindowInfo{}, fmt.Errorf("window %d: %w", id, ErrUnknownWindow)
	}
	return snapshot(w), nil
}

// Windows returns snapshots of every live window in ascending ID
// order.
func (m *Manager) Windows() []WindowInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	infos := make([]WindowInfo, 0, len(m.windows))
	for _, w := range m.windows {
		infos = append(infos, snapshot(w))
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// withWindow runs fn on the named window under the lock.
func (m *Manager) withWindow(id WindowID, fn func(*Window) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.windows[id]
	if !ok {
		return fmt.Errorf("window %d: %w", id, ErrUnknownWindow)
	}
	return fn(w)
}

// MoveWindow repositions a window.
func (m *Manager) MoveWindow(id WindowID, x, y int) error {
	return m.withWindow(id, func(w *Window) error {
		w.Move(x, y)
		return nil
	})
}

// ResizeWindow resizes a window within its constraints.
func (m *Manager) ResizeWindow(id WindowID, width, height int) error {
	return m.withWindow(id, func(w *Window) error {
		return w.Resize(width, height)
	})
}

// MinimizeWindow iconifies a window.
func (m *Manager) MinimizeWindow(id WindowID) error {
	return m.withWindow(id, func(w *Window) error {
		w.Minimize()
		return nil
	})
}

// MaximizeWindow grows a window to the display extent.
func (m *Manager) MaximizeWindow(id WindowID) error {
	return m.withWindow(id, func(w *Window) error {
		w.Maximize()
		return nil
	})
}

// RestoreWindow returns a window to the Normal state.
func (m *Manager) RestoreWindow(id WindowID) error {
	return m.withWindow(id, func(w *Window) error {
		w.Restore()
		return nil
	})
}

// SetWindowFullscreen enters or leaves fullscreen on a window.
func (m *Manager) SetWindowFullscreen(id WindowID, on bool) error {
	return m.withWindow(id, func(w *Window) error {
		w.SetFullscreen(on)
		return nil
	})
}

// ShowWindow makes a hidden window visible.
func (m *Manager) ShowWindow(id WindowID) error {
	return m.withWindow(id, func(w *Window) error {
		w.Show()
		return nil
	})
}

// HideWindow hides a window without destroying it.
func (m *Manager) HideWindow(id WindowID) error {
	return m.withWindow(id, func(w *Window) error {
		w.Hide()
		return nil
	})
}

// SetWindowTitle renames a window.
func (m *Manager) SetWindowTitle(id WindowID, title string) error {
	return m.withWindow(id, func(w *Window) error {
		return w.SetTitle(title)
	})
}

// SetWindowOpacity sets a window's opacity.
func (m *Manager) SetWindowOpacity(id WindowID, opacity float64) error {
	return m.withWindow(id, func(w *Window) error {
		return w.SetOpacity(opacity)
	})
}

// SetWindowMinimumSize tightens a window's lower size bound.
func (m *Manager) SetWindowMinimumSize(id WindowID, width, height int) error {
	return m.withWindow(id, func(w *Window) error {
		return w.SetMinimumSize(width, height)
	})
}

// SetWindowMaximumSize tightens a window's upper size bound.
func (m *Manager) SetWindowMaximumSize(id WindowID, width, height int) error {
	return m.withWindow(id, func(w *Window) error {
		return w.SetMaximumSize(width, height)
	})
}

// SetWindowResizable toggles interactive resizing on a window.
func (m *Manager) SetWindowResizable(id WindowID, v bool) error {
	return m.withWindow(id, func(w *Window) error {
		w.SetResizable(v)
		return nil
	})
}

// SetWindowMovable toggles interactive moves on a window.
func (m *Manager) SetWindowMovable(id WindowID, v bool) error {
	return m.withWindow(id, func(w *Window) error {
		w.SetMovable(v)
		return nil
	})
}

// SetWindowAlwaysOnTop toggles a window's stacking hint.
func (m *Manager) SetWindowAlwaysOnTop(id WindowID, v bool) error {
	return m.withWindow(id, func(w *Window) error {
		w.SetAlwaysOnTop(v)
		return nil
	})
}

// HandleEvent routes an event to its target window. Events for
// windows that no longer exist are dropped; input can race window
// destruction and must not fail.
func (m *Manager) HandleEvent(ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.windows[ev.Window]; ok {
		w.HandleEvent(ev)
	}
}

// SaveState writes every window plus the focus pointer to a session
// file.
func (m *Manager) SaveState(path string) error {
	m.mu.Lock()
	doc := session.Document{FocusedWindow: session.NoFocus}
	if m.focused != InvalidWindow {
		doc.FocusedWindow = int(m.focused)
	}
	ids := make([]WindowID, 0, len(m.windows))
	for id := range m.windows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		w := m.windows[id]
		g := w.Geometry()
		doc.Windows = append(doc.Windows, session.WindowRecord{
			ID:     int(id),
			Title:  w.Title(),
			X:      g.X,
			Y:      g.Y,
			Width:  g.Width,
			Height: g.Height,
			State:  int(w.State()),
		})
	}
	m.mu.Unlock()

	return session.Save(path, doc)
}

// RestoreState replaces the manager's windows with the session file's
// contents. The document is validated up front: a malformed file
// leaves the manager untouched. No events are emitted during the
// replay.
func (m *Manager) RestoreState(path string) error {
	doc, err := session.Load(path)
	if err != nil {
		return err
	}

	windows := make(map[WindowID]*Window, len(doc.Windows))
	maxID := WindowID(0)
	for _, rec := range doc.Windows {
		id := WindowID(rec.ID)
		w, err := NewWindow(id, rec.Title, rec.Width, rec.Height, CategoryNormal)
		if err != nil {
			return fmt.Errorf("restoring window %d: %w", rec.ID, err)
		}
		w.setExtentFunc(m.extent)
		w.Move(rec.X, rec.Y)
		switch State(rec.State) {
		case StateMinimized:
			w.Minimize()
		case StateMaximized:
			w.Maximize()
		case StateFullscreen:
			w.SetFullscreen(true)
		case StateHidden:
			// No operation produces the hidden state, so a record
			// carrying it is applied directly.
			w.state = StateHidden
			w.visible = false
		}
		windows[id] = w
		if id > maxID {
			maxID = id
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, w := range m.windows {
		w.SetHandler(nil)
	}
	m.windows = windows
	m.focused = InvalidWindow
	if m.nextID <= maxID {
		m.nextID = maxID + 1
	}
	for _, w := range m.windows {
		w.SetHandler(m.onWindowEvent)
	}
	if doc.FocusedWindow != session.NoFocus {
		id := WindowID(doc.FocusedWindow)
		m.focused = id
		m.windows[id].hasFocus = true
	}
	return nil
}
