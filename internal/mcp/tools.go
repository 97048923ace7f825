package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) handleCreateWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args CreateWindowInput) (*mcpsdk.CallToolResult, CreateWindowOutput, error) {
	id, err := s.client.CreateWindow(args.Title, args.Width, args.Height, args.Category)
	if err != nil {
		return nil, CreateWindowOutput{}, err
	}
	return nil, CreateWindowOutput{ID: id}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	windows, err := s.client.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	return nil, ListWindowsOutput{Windows: windows, Focused: status.FocusedWindow}, nil
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if err := s.client.MoveWindow(args.ID, args.X, args.Y); err != nil {
		return nil, WindowOutput{}, err
	}
	return s.windowSnapshot(args.ID)
}

func (s *Server) handleResizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ResizeWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if err := s.client.ResizeWindow(args.ID, args.Width, args.Height); err != nil {
		return nil, WindowOutput{}, err
	}
	return s.windowSnapshot(args.ID)
}

func (s *Server) handleSetWindowState(_ context.Context, _ *mcpsdk.CallToolRequest, args SetWindowStateInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	var err error
	switch args.State {
	case "minimize":
		err = s.client.MinimizeWindow(args.ID)
	case "maximize":
		err = s.client.MaximizeWindow(args.ID)
	case "restore":
		err = s.client.RestoreWindow(args.ID)
	case "fullscreen":
		err = s.client.SetFullscreen(args.ID, true)
	case "show":
		err = s.client.ShowWindow(args.ID)
	case "hide":
		err = s.client.HideWindow(args.ID)
	default:
		return nil, WindowOutput{}, fmt.Errorf("unknown state %q; want minimize, maximize, restore, fullscreen, show, or hide", args.State)
	}
	if err != nil {
		return nil, WindowOutput{}, err
	}
	return s.windowSnapshot(args.ID)
}

func (s *Server) handleFocusWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowIDInput) (*mcpsdk.CallToolResult, OKOutput, error) {
	if err := s.client.SetFocus(args.ID); err != nil {
		return nil, OKOutput{}, err
	}
	return nil, OKOutput{OK: true}, nil
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowIDInput) (*mcpsdk.CallToolResult, OKOutput, error) {
	if err := s.client.CloseWindow(args.ID); err != nil {
		return nil, OKOutput{}, err
	}
	return nil, OKOutput{OK: true}, nil
}

func (s *Server) handleSetWindowTitle(_ context.Context, _ *mcpsdk.CallToolRequest, args SetWindowTitleInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if err := s.client.SetTitle(args.ID, args.Title); err != nil {
		return nil, WindowOutput{}, err
	}
	return s.windowSnapshot(args.ID)
}

func (s *Server) handleSaveSession(_ context.Context, _ *mcpsdk.CallToolRequest, args SessionInput) (*mcpsdk.CallToolResult, OKOutput, error) {
	if err := s.client.SaveSession(args.Path); err != nil {
		return nil, OKOutput{}, err
	}
	return nil, OKOutput{OK: true}, nil
}

func (s *Server) handleRestoreSession(_ context.Context, _ *mcpsdk.CallToolRequest, args SessionInput) (*mcpsdk.CallToolResult, OKOutput, error) {
	if err := s.client.RestoreSession(args.Path); err != nil {
		return nil, OKOutput{}, err
	}
	return nil, OKOutput{OK: true}, nil
}

func (s *Server) windowSnapshot(id int) (*mcpsdk.CallToolResult, WindowOutput, error) {
	info, err := s.client.GetWindow(id)
	if err != nil {
		return nil, WindowOutput{}, err
	}
	return nil, WindowOutput{Window: *info}, nil
}
