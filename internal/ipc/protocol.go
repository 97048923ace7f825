package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/driftwm/driftwm/internal/wm"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload         CommandType = "RELOAD"
	CommandGetStatus      CommandType = "GET_STATUS"
	CommandCreateWindow   CommandType = "CREATE_WINDOW"
	CommandCloseWindow    CommandType = "CLOSE_WINDOW"
	CommandSetFocus       CommandType = "SET_FOCUS"
	CommandListWindows    CommandType = "LIST_WINDOWS"
	CommandGetWindow      CommandType = "GET_WINDOW"
	CommandMoveWindow     CommandType = "MOVE_WINDOW"
	CommandResizeWindow   CommandType = "RESIZE_WINDOW"
	CommandMinimizeWindow CommandType = "MINIMIZE_WINDOW"
	CommandMaximizeWindow CommandType = "MAXIMIZE_WINDOW"
	CommandRestoreWindow  CommandType = "RESTORE_WINDOW"
	CommandSetFullscreen  CommandType = "SET_FULLSCREEN"
	CommandShowWindow     CommandType = "SHOW_WINDOW"
	CommandHideWindow     CommandType = "HIDE_WINDOW"
	CommandSetTitle       CommandType = "SET_TITLE"
	CommandSetOpacity     CommandType = "SET_OPACITY"
	CommandSetMinimumSize CommandType = "SET_MINIMUM_SIZE"
	CommandSetMaximumSize CommandType = "SET_MAXIMUM_SIZE"
	CommandSetResizable   CommandType = "SET_RESIZABLE"
	CommandSetMovable     CommandType = "SET_MOVABLE"
	CommandSetAlwaysOnTop CommandType = "SET_ALWAYS_ON_TOP"
	CommandSaveSession    CommandType = "SAVE_SESSION"
	CommandRestoreSession CommandType = "RESTORE_SESSION"
	CommandDispatchEvent  CommandType = "DISPATCH_EVENT"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	WindowCount   int    `json:"window_count"`
	FocusedWindow int    `json:"focused_window"`
	Display       string `json:"display"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	DaemonRunning bool   `json:"daemon_running"`
}

// CreateWindowPayload is the payload for CREATE_WINDOW.
type CreateWindowPayload struct {
	Title    string `json:"title"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Category string `json:"category,omitempty"`
}

// CreateWindowData is the data returned by CREATE_WINDOW.
type CreateWindowData struct {
	ID int `json:"id"`
}

// WindowPayload addresses a single window.
type WindowPayload struct {
	ID int `json:"id"`
}

// MovePayload is the payload for MOVE_WINDOW.
type MovePayload struct {
	ID int `json:"id"`
	X  int `json:"x"`
	Y  int `json:"y"`
}

// SizePayload is the payload for RESIZE_WINDOW, SET_MINIMUM_SIZE, and
// SET_MAXIMUM_SIZE.
type SizePayload struct {
	ID     int `json:"id"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// FlagPayload is the payload for SET_FULLSCREEN, SET_RESIZABLE,
// SET_MOVABLE, and SET_ALWAYS_ON_TOP.
type FlagPayload struct {
	ID int  `json:"id"`
	On bool `json:"on"`
}

// TitlePayload is the payload for SET_TITLE.
type TitlePayload struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// OpacityPayload is the payload for SET_OPACITY.
type OpacityPayload struct {
	ID      int     `json:"id"`
	Opacity float64 `json:"opacity"`
}

// SessionPayload is the payload for SAVE_SESSION and RESTORE_SESSION.
// An empty path means the daemon's configured session file.
type SessionPayload struct {
	Path string `json:"path,omitempty"`
}

// WindowsData is the data returned by LIST_WINDOWS.
type WindowsData struct {
	Windows []wm.WindowInfo `json:"windows"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
