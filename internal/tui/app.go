// Package tui is an interactive window monitor. It polls the daemon
// over IPC and lets the user drive focus and state changes from the
// keyboard.
package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/driftwm/driftwm/internal/ipc"
	"github.com/driftwm/driftwm/internal/wm"
)

const pollInterval = time.Second

// model is the root bubbletea model for the TUI.
type model struct {
	client *ipc.Client

	windows []wm.WindowInfo
	status  *ipc.StatusData
	cursor  int

	daemonConnected bool
	lastError       string

	width  int
	height int
}

type tickMsg time.Time

type refreshMsg struct {
	windows []wm.WindowInfo
	status  *ipc.StatusData
	err     error
}

type actionDoneMsg struct{ err error }

func newModel() model {
	return model{client: ipc.NewClient()}
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) refresh() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		status, err := client.GetStatus()
		if err != nil {
			return refreshMsg{err: err}
		}
		windows, err := client.ListWindows()
		if err != nil {
			return refreshMsg{err: err}
		}
		return refreshMsg{windows: windows, status: status}
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), tick())
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.refresh(), tick())

	case refreshMsg:
		if msg.err != nil {
			m.daemonConnected = false
			m.lastError = msg.err.Error()
			return m, nil
		}
		m.daemonConnected = true
		m.lastError = ""
		m.windows = msg.windows
		m.status = msg.status
		if m.cursor >= len(m.windows) {
			m.cursor = len(m.windows) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.lastError = msg.err.Error()
		}
		return m, m.refresh()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.windows)-1 {
			m.cursor++
		}
		return m, nil
	}

	w, ok := m.selected()
	if !ok {
		return m, nil
	}
	id := int(w.ID)

	switch msg.String() {
	case "enter", "f":
		return m, m.action(func(c *ipc.Client) error { return c.SetFocus(id) })
	case "n":
		return m, m.action(func(c *ipc.Client) error { return c.MinimizeWindow(id) })
	case "m":
		return m, m.action(func(c *ipc.Client) error { return c.MaximizeWindow(id) })
	case "r":
		return m, m.action(func(c *ipc.Client) error { return c.RestoreWindow(id) })
	case "F":
		on := w.State != wm.StateFullscreen
		return m, m.action(func(c *ipc.Client) error { return c.SetFullscreen(id, on) })
	case "h":
		if w.Visible {
			return m, m.action(func(c *ipc.Client) error { return c.HideWindow(id) })
		}
		return m, m.action(func(c *ipc.Client) error { return c.ShowWindow(id) })
	case "x":
		return m, m.action(func(c *ipc.Client) error { return c.CloseWindow(id) })
	}
	return m, nil
}

func (m model) selected() (wm.WindowInfo, bool) {
	if m.cursor < 0 || m.cursor >= len(m.windows) {
		return wm.WindowInfo{}, false
	}
	return m.windows[m.cursor], true
}

func (m model) action(fn func(*ipc.Client) error) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return actionDoneMsg{err: fn(client)}
	}
}

// Run starts the TUI, blocking until the user quits.
func Run() error {
	p := tea.NewProgram(newModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("246"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("237"))

	focusedMark = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Render("●")

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// View implements tea.Model.
func (m model) View() string {
	var out string

	out += titleStyle.Render("driftwm") + "  "
	if m.daemonConnected && m.status != nil {
		out += fmt.Sprintf("%d windows · display %s · up %ds",
			m.status.WindowCount, m.status.Display, m.status.UptimeSeconds)
	} else {
		out += errorStyle.Render("daemon not reachable")
	}
	out += "\n\n"

	out += headerStyle.Render(fmt.Sprintf("  %-4s %-24s %-11s %-18s %s",
		"ID", "TITLE", "STATE", "GEOMETRY", "FOCUS")) + "\n"

	for i, w := range m.windows {
		geom := fmt.Sprintf("%d,%d %dx%d", w.Geometry.X, w.Geometry.Y, w.Geometry.Width, w.Geometry.Height)
		focus := " "
		if w.Focused {
			focus = focusedMark
		}
		line := fmt.Sprintf("  %-4d %-24s %-11s %-18s %s",
			w.ID, truncate(w.Title, 24), w.State, geom, focus)
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		out += line + "\n"
	}
	if len(m.windows) == 0 && m.daemonConnected {
		out += helpStyle.Render("  no windows") + "\n"
	}

	out += "\n"
	if m.lastError != "" {
		out += errorStyle.Render("error: "+m.lastError) + "\n"
	}
	out += helpStyle.Render("j/k move · f focus · n min · m max · r restore · F fullscreen · h hide/show · x close · q quit")
	return out
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
