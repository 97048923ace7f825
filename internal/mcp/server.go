// Package mcp exposes window management to MCP clients. The server
// is a thin bridge: every tool call becomes an IPC request to the
// running driftwm daemon.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/driftwm/driftwm/internal/ipc"
)

const (
	ServerName    = "driftwm"
	ServerVersion = "0.1.0"
)

// Server is the MCP server for driftwm window control.
type Server struct {
	mcpServer *mcpsdk.Server
	client    *ipc.Client
}

// NewServer creates an MCP server backed by the daemon's IPC socket.
func NewServer() *Server {
	s := &Server{
		client: ipc.NewClient(),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "create_window",
		Description: "Create a new managed window with a title, size, and optional category (normal, dialog, tooltip, popup, utility). The new window receives focus. Returns the window ID for future reference.",
	}, s.handleCreateWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List all managed windows with their geometry, state, focus, and capability flags.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Move a window to a new position. Negative coordinates are allowed for multi-monitor layouts.",
	}, s.handleMoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_window",
		Description: "Resize a window. The size must lie within the window's minimum/maximum constraints or the call fails.",
	}, s.handleResizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_window_state",
		Description: "Change a window's state: minimize, maximize, restore, fullscreen, show, or hide.",
	}, s.handleSetWindowState)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Move keyboard focus to a window. The previously focused window loses focus first.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close and destroy a window. If it held focus, focus falls back to the lowest surviving window ID.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_window_title",
		Description: "Rename a window. The title must not be empty.",
	}, s.handleSetWindowTitle)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "save_session",
		Description: "Save all windows and the focus pointer to the session file. Pass a path to save somewhere other than the configured location.",
	}, s.handleSaveSession)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "restore_session",
		Description: "Replace all windows from a saved session file. A malformed file leaves the current windows untouched.",
	}, s.handleRestoreSession)
}
