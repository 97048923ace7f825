package mcp

import "github.com/driftwm/driftwm/internal/wm"

// CreateWindowInput is the input for the create_window tool.
type CreateWindowInput struct {
	Title    string `json:"title" jsonschema:"required,Window title (must not be empty)"`
	Width    int    `json:"width" jsonschema:"required,Initial width in pixels (positive)"`
	Height   int    `json:"height" jsonschema:"required,Initial height in pixels (positive)"`
	Category string `json:"category,omitempty" jsonschema:"Window category: normal, dialog, tooltip, popup, or utility (default: normal)"`
}

// CreateWindowOutput is the output for the create_window tool.
type CreateWindowOutput struct {
	ID int `json:"id"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []wm.WindowInfo `json:"windows"`
	Focused int             `json:"focused"`
}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	ID int `json:"id" jsonschema:"required,Window ID"`
	X  int `json:"x" jsonschema:"required,New X position"`
	Y  int `json:"y" jsonschema:"required,New Y position"`
}

// ResizeWindowInput is the input for the resize_window tool.
type ResizeWindowInput struct {
	ID     int `json:"id" jsonschema:"required,Window ID"`
	Width  int `json:"width" jsonschema:"required,New width in pixels"`
	Height int `json:"height" jsonschema:"required,New height in pixels"`
}

// SetWindowStateInput is the input for the set_window_state tool.
type SetWindowStateInput struct {
	ID    int    `json:"id" jsonschema:"required,Window ID"`
	State string `json:"state" jsonschema:"required,Target state: minimize, maximize, restore, fullscreen, show, or hide"`
}

// WindowIDInput addresses a single window.
type WindowIDInput struct {
	ID int `json:"id" jsonschema:"required,Window ID"`
}

// SetWindowTitleInput is the input for the set_window_title tool.
type SetWindowTitleInput struct {
	ID    int    `json:"id" jsonschema:"required,Window ID"`
	Title string `json:"title" jsonschema:"required,New window title (must not be empty)"`
}

// SessionInput is the input for save_session and restore_session.
type SessionInput struct {
	Path string `json:"path,omitempty" jsonschema:"Session file path (default: the daemon's configured session file)"`
}

// OKOutput is the output for tools that return no data.
type OKOutput struct {
	OK bool `json:"ok"`
}

// WindowOutput echoes the affected window's snapshot after a mutation.
type WindowOutput struct {
	Window wm.WindowInfo `json:"window"`
}
