package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/driftwm/driftwm/internal/runtimepath"
	"github.com/driftwm/driftwm/internal/wm"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// send marshals a payload and issues a command expecting no data back.
func (c *Client) send(cmd CommandType, payload interface{}) error {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		req.Payload = data
	}
	_, err := c.sendRequest(req)
	return err
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	return c.send(CommandReload, nil)
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}

	return &status, nil
}

// CreateWindow asks the daemon to create a window and returns its ID.
func (c *Client) CreateWindow(title string, width, height int, category string) (int, error) {
	payload, err := json.Marshal(CreateWindowPayload{
		Title:    title,
		Width:    width,
		Height:   height,
		Category: category,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal create payload: %w", err)
	}

	resp, err := c.sendRequest(&Request{Command: CommandCreateWindow, Payload: payload})
	if err != nil {
		return 0, err
	}

	var data CreateWindowData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return 0, fmt.Errorf("failed to parse create data: %w", err)
	}
	return data.ID, nil
}

// CloseWindow destroys a window.
func (c *Client) CloseWindow(id int) error {
	return c.send(CommandCloseWindow, WindowPayload{ID: id})
}

// SetFocus moves focus to a window.
func (c *Client) SetFocus(id int) error {
	return c.send(CommandSetFocus, WindowPayload{ID: id})
}

// ListWindows retrieves snapshots of all windows.
func (c *Client) ListWindows() ([]wm.WindowInfo, error) {
	resp, err := c.sendRequest(&Request{Command: CommandListWindows})
	if err != nil {
		return nil, err
	}

	var data WindowsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse windows data: %w", err)
	}
	return data.Windows, nil
}

// GetWindow retrieves one window's snapshot.
func (c *Client) GetWindow(id int) (*wm.WindowInfo, error) {
	payload, err := json.Marshal(WindowPayload{ID: id})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal window payload: %w", err)
	}

	resp, err := c.sendRequest(&Request{Command: CommandGetWindow, Payload: payload})
	if err != nil {
		return nil, err
	}

	var info wm.WindowInfo
	if err := json.Unmarshal(resp.Data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse window data: %w", err)
	}
	return &info, nil
}

// MoveWindow repositions a window.
func (c *Client) MoveWindow(id, x, y int) error {
	return c.send(CommandMoveWindow, MovePayload{ID: id, X: x, Y: y})
}

// ResizeWindow resizes a window.
func (c *Client) ResizeWindow(id, width, height int) error {
	return c.send(CommandResizeWindow, SizePayload{ID: id, Width: width, Height: height})
}

// MinimizeWindow iconifies a window.
func (c *Client) MinimizeWindow(id int) error {
	return c.send(CommandMinimizeWindow, WindowPayload{ID: id})
}

// MaximizeWindow grows a window to the display extent.
func (c *Client) MaximizeWindow(id int) error {
	return c.send(CommandMaximizeWindow, WindowPayload{ID: id})
}

// RestoreWindow returns a window to the normal state.
func (c *Client) RestoreWindow(id int) error {
	return c.send(CommandRestoreWindow, WindowPayload{ID: id})
}

// SetFullscreen enters or leaves fullscreen on a window.
func (c *Client) SetFullscreen(id int, on bool) error {
	return c.send(CommandSetFullscreen, FlagPayload{ID: id, On: on})
}

// SetResizable toggles whether a window accepts resize requests.
func (c *Client) SetResizable(id int, on bool) error {
	return c.send(CommandSetResizable, FlagPayload{ID: id, On: on})
}

// SetMovable toggles whether a window accepts move requests.
func (c *Client) SetMovable(id int, on bool) error {
	return c.send(CommandSetMovable, FlagPayload{ID: id, On: on})
}

// SetAlwaysOnTop toggles a window's always-on-top flag.
func (c *Client) SetAlwaysOnTop(id int, on bool) error {
	return c.send(CommandSetAlwaysOnTop, FlagPayload{ID: id, On: on})
}

// ShowWindow makes a hidden window visible.
func (c *Client) ShowWindow(id int) error {
	return c.send(CommandShowWindow, WindowPayload{ID: id})
}

// HideWindow hides a window without destroying it.
func (c *Client) HideWindow(id int) error {
	return c.send(CommandHideWindow, WindowPayload{ID: id})
}

// SetTitle renames a window.
func (c *Client) SetTitle(id int, title string) error {
	return c.send(CommandSetTitle, TitlePayload{ID: id, Title: title})
}

// SetOpacity sets a window's opacity.
func (c *Client) SetOpacity(id int, opacity float64) error {
	return c.send(CommandSetOpacity, OpacityPayload{ID: id, Opacity: opacity})
}

// SetMinimumSize tightens a window's lower size bound.
func (c *Client) SetMinimumSize(id, width, height int) error {
	return c.send(CommandSetMinimumSize, SizePayload{ID: id, Width: width, Height: height})
}

// SetMaximumSize tightens a window's upper size bound.
func (c *Client) SetMaximumSize(id, width, height int) error {
	return c.send(CommandSetMaximumSize, SizePayload{ID: id, Width: width, Height: height})
}

// SaveSession writes the daemon's windows to a session file. An empty
// path uses the daemon's configured location.
func (c *Client) SaveSession(path string) error {
	return c.send(CommandSaveSession, SessionPayload{Path: path})
}

// RestoreSession replaces the daemon's windows from a session file.
func (c *Client) RestoreSession(path string) error {
	return c.send(CommandRestoreSession, SessionPayload{Path: path})
}

// DispatchEvent injects an input event into the daemon.
func (c *Client) DispatchEvent(ev wm.Event) error {
	return c.send(CommandDispatchEvent, ev)
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
