package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/driftwm/driftwm/internal/config"
	"github.com/driftwm/driftwm/internal/runtimepath"
	"github.com/driftwm/driftwm/internal/wm"
)

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	cfg          *config.Config
	cfgMu        sync.RWMutex
	manager      *wm.Manager
	displayName  string
	startTime    time.Time
	reloadChan   chan struct{}
	shuttingDown bool
	shutdownMu   sync.Mutex
	log          *logrus.Logger
}

// NewServer creates a new IPC server
func NewServer(cfg *config.Config, manager *wm.Manager, displayName string, reloadChan chan struct{}, log *logrus.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	if log == nil {
		log = logrus.New()
	}

	return &Server{
		socketPath:  socketPath,
		cfg:         cfg,
		manager:     manager,
		displayName: displayName,
		startTime:   time.Now(),
		reloadChan:  reloadChan,
		log:         log,
	}, nil
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.log.WithField("socket", s.socketPath).Info("IPC server listening")

	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.log.WithError(err).Warn("IPC accept error")
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.log.WithError(err).Warn("IPC read error")
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.log.WithError(err).Error("failed to marshal response")
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.log.WithError(err).Warn("failed to send response")
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandCreateWindow:
		return s.handleCreateWindow(req.Payload)
	case CommandCloseWindow:
		return s.handleCloseWindow(req.Payload)
	case CommandSetFocus:
		return s.handleSetFocus(req.Payload)
	case CommandListWindows:
		return s.handleListWindows()
	case CommandGetWindow:
		return s.handleGetWindow(req.Payload)
	case CommandMoveWindow:
		return s.handleMoveWindow(req.Payload)
	case CommandResizeWindow:
		return s.handleResizeWindow(req.Payload)
	case CommandMinimizeWindow:
		return s.windowAction(req.Payload, s.manager.MinimizeWindow)
	case CommandMaximizeWindow:
		return s.windowAction(req.Payload, s.manager.MaximizeWindow)
	case CommandRestoreWindow:
		return s.windowAction(req.Payload, s.manager.RestoreWindow)
	case CommandShowWindow:
		return s.windowAction(req.Payload, s.manager.ShowWindow)
	case CommandHideWindow:
		return s.windowAction(req.Payload, s.manager.HideWindow)
	case CommandSetFullscreen:
		return s.flagAction(req.Payload, s.manager.SetWindowFullscreen)
	case CommandSetResizable:
		return s.flagAction(req.Payload, s.manager.SetWindowResizable)
	case CommandSetMovable:
		return s.flagAction(req.Payload, s.manager.SetWindowMovable)
	case CommandSetAlwaysOnTop:
		return s.flagAction(req.Payload, s.manager.SetWindowAlwaysOnTop)
	case CommandSetTitle:
		return s.handleSetTitle(req.Payload)
	case CommandSetOpacity:
		return s.handleSetOpacity(req.Payload)
	case CommandSetMinimumSize:
		return s.handleSetSizeBound(req.Payload, s.manager.SetWindowMinimumSize)
	case CommandSetMaximumSize:
		return s.handleSetSizeBound(req.Payload, s.manager.SetWindowMaximumSize)
	case CommandSaveSession:
		return s.handleSaveSession(req.Payload)
	case CommandRestoreSession:
		return s.handleRestoreSession(req.Payload)
	case CommandDispatchEvent:
		return s.handleDispatchEvent(req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

// handleReload reloads the configuration
func (s *Server) handleReload() *Response {
	s.log.Info("IPC: received RELOAD command")

	newCfg, err := config.Load()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}

	s.cfgMu.Lock()
	s.cfg = newCfg
	s.cfgMu.Unlock()

	// Notify the main daemon via channel (non-blocking)
	select {
	case s.reloadChan <- struct{}{}:
	default:
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

// handleGetStatus returns current daemon status
func (s *Server) handleGetStatus() *Response {
	status := StatusData{
		WindowCount:   s.manager.WindowCount(),
		FocusedWindow: int(s.manager.FocusedWindow()),
		Display:       s.displayName,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	}

	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) handleCreateWindow(payload json.RawMessage) *Response {
	var req CreateWindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid create payload: %v", err))
	}

	category := wm.CategoryNormal
	if req.Category != "" {
		var err error
		category, err = wm.ParseCategory(req.Category)
		if err != nil {
			return NewErrorResponse(err.Error())
		}
	}

	id, err := s.manager.CreateWindow(req.Title, req.Width, req.Height, category)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to create window: %v", err))
	}

	resp, _ := NewOKResponse(CreateWindowData{ID: int(id)})
	return resp
}

func (s *Server) handleCloseWindow(payload json.RawMessage) *Response {
	var req WindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid close payload: %v", err))
	}
	if err := s.manager.CloseWindow(wm.WindowID(req.ID)); err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleSetFocus(payload json.RawMessage) *Response {
	var req WindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid focus payload: %v", err))
	}
	if err := s.manager.SetFocus(wm.WindowID(req.ID)); err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleListWindows() *Response {
	resp, _ := NewOKResponse(WindowsData{Windows: s.manager.Windows()})
	return resp
}

func (s *Server) handleGetWindow(payload json.RawMessage) *Response {
	var req WindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid window payload: %v", err))
	}
	info, err := s.manager.Window(wm.WindowID(req.ID))
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, _ := NewOKResponse(info)
	return resp
}

func (s *Server) handleMoveWindow(payload json.RawMessage) *Response {
	var req MovePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid move payload: %v", err))
	}
	if err := s.manager.MoveWindow(wm.WindowID(req.ID), req.X, req.Y); err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleResizeWindow(payload json.RawMessage) *Response {
	var req SizePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid resize payload: %v", err))
	}
	if err := s.manager.ResizeWindow(wm.WindowID(req.ID), req.Width, req.Height); err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

// windowAction handles commands whose payload is just a window ID.
func (s *Server) windowAction(payload json.RawMessage, fn func(wm.WindowID) error) *Response {
	var req WindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid window payload: %v", err))
	}
	if err := fn(wm.WindowID(req.ID)); err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

// flagAction handles commands whose payload is a window ID plus an
// on/off flag.
func (s *Server) flagAction(payload json.RawMessage, fn func(wm.WindowID, bool) error) *Response {
	var req FlagPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid flag payload: %v", err))
	}
	if err := fn(wm.WindowID(req.ID), req.On); err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleSetTitle(payload json.RawMessage) *Response {
	var req TitlePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid title payload: %v", err))
	}
	if err := s.manager.SetWindowTitle(wm.WindowID(req.ID), req.Title); err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleSetOpacity(payload json.RawMessage) *Response {
	var req OpacityPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid opacity payload: %v", err))
	}
	if err := s.manager.SetWindowOpacity(wm.WindowID(req.ID), req.Opacity); err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleSetSizeBound(payload json.RawMessage, fn func(wm.WindowID, int, int) error) *Response {
	var req SizePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid size payload: %v", err))
	}
	if err := fn(wm.WindowID(req.ID), req.Width, req.Height); err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

// sessionPath resolves the request's path, falling back to the
// configured session file.
func (s *Server) sessionPath(requested string) (string, error) {
	if requested != "" {
		return requested, nil
	}
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg.SessionPath()
}

func (s *Server) handleSaveSession(payload json.RawMessage) *Response {
	var req SessionPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid session payload: %v", err))
		}
	}
	path, err := s.sessionPath(req.Path)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	if err := s.manager.SaveState(path); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to save session: %v", err))
	}
	s.log.WithField("path", path).Info("session saved")
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleRestoreSession(payload json.RawMessage) *Response {
	var req SessionPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid session payload: %v", err))
		}
	}
	path, err := s.sessionPath(req.Path)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	if err := s.manager.RestoreState(path); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to restore session: %v", err))
	}
	s.log.WithField("path", path).Info("session restored")
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleDispatchEvent(payload json.RawMessage) *Response {
	var ev wm.Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid event payload: %v", err))
	}
	s.manager.HandleEvent(ev)
	resp, _ := NewOKResponse(nil)
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

// GetConfig returns the current config (thread-safe)
func (s *Server) GetConfig() *config.Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// UpdateConfig updates the config (thread-safe)
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	s.cfg = cfg
}
