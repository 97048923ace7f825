package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/driftwm/driftwm/internal/config"
	"github.com/driftwm/driftwm/internal/display"
	"github.com/driftwm/driftwm/internal/eventlog"
	"github.com/driftwm/driftwm/internal/ipc"
	"github.com/driftwm/driftwm/internal/stream"
	"github.com/driftwm/driftwm/internal/wm"
)

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "config file path (default: standard location)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: driftwm daemon [--config PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Start the driftwm daemon in the foreground.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := loadConfigArg(*configPath)
	if err != nil {
		logger.WithError(err).Error("Failed to load configuration")
		return 1
	}
	logger.WithField("display", cfg.Display.Provider).Info("Configuration loaded")

	// Connect to the display provider
	provider, err := display.New(cfg.Display)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to display")
		return 1
	}
	defer provider.Close()
	extent := provider.Extent()
	logger.WithFields(logrus.Fields{
		"provider": provider.Name(),
		"width":    extent.Width,
		"height":   extent.Height,
	}).Info("Display connected")

	// Window event log
	logPath, err := cfg.LogPath()
	if err != nil {
		logger.WithError(err).Error("Failed to resolve log path")
		return 1
	}
	eventLogger, err := eventlog.NewLogger(eventlog.LogConfig{
		Enabled:   cfg.Logging.Enabled,
		Level:     eventlog.ParseLogLevel(cfg.Logging.Level),
		FilePath:  logPath,
		MaxSizeMB: cfg.Logging.MaxSizeMB,
		MaxFiles:  cfg.Logging.MaxFiles,
	})
	if err != nil {
		logger.WithError(err).Error("Failed to open event log")
		return 1
	}
	defer eventLogger.Close()

	// Optional websocket event stream
	var hub *stream.Hub
	if cfg.Stream.Enabled {
		hub = stream.NewHub(logger)
		if err := hub.Start(cfg.Stream.Listen); err != nil {
			logger.WithError(err).Error("Failed to start event stream")
			return 1
		}
		defer hub.Stop()
		logger.WithField("listen", cfg.Stream.Listen).Info("Event stream listening")
	}

	// The sink runs with the manager lock held, so it must not call
	// back into the manager. Logging and broadcasting are both safe.
	manager := wm.NewManager(
		wm.WithExtent(provider.Extent),
		wm.WithEventSink(func(ev wm.Event) {
			eventLogger.Log(ev)
			if hub != nil {
				hub.Broadcast(ev)
			}
		}),
	)

	sessionPath, err := cfg.SessionPath()
	if err != nil {
		logger.WithError(err).Error("Failed to resolve session path")
		return 1
	}
	if cfg.Session.RestoreOnStart {
		if _, statErr := os.Stat(sessionPath); statErr == nil {
			if err := manager.RestoreState(sessionPath); err != nil {
				logger.WithError(err).Warn("Session restore failed, starting empty")
			} else {
				logger.WithField("windows", manager.WindowCount()).Info("Session restored")
			}
		}
	}

	// Config reload channel, written by the IPC RELOAD handler
	reloadChan := make(chan struct{}, 1)

	ipcServer, err := ipc.NewServer(cfg, manager, provider.Name(), reloadChan, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to create IPC server")
		return 1
	}
	if err := ipcServer.Start(); err != nil {
		logger.WithError(err).Error("Failed to start IPC server")
		return 1
	}
	defer ipcServer.Stop()

	// Watch the config file for edits and reload automatically.
	fileChanged := make(chan struct{}, 1)
	watcher, err := newConfigWatcher(*configPath, fileChanged, logger)
	if err != nil {
		logger.WithError(err).Warn("Config watching disabled")
	} else {
		defer watcher.Close()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	logger.Info("driftwm daemon started")

	for {
		select {
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGHUP:
				logger.Info("Received SIGHUP, reloading config")
				newCfg, err := loadConfigArg(*configPath)
				if err != nil {
					logger.WithError(err).Error("Config reload failed")
					continue
				}
				ipcServer.UpdateConfig(newCfg)
				logger.Info("Config reloaded")

			case os.Interrupt, syscall.SIGTERM:
				logger.Info("Shutting down driftwm daemon")
				if ipcServer.GetConfig().Session.Autosave {
					if err := manager.SaveState(sessionPath); err != nil {
						logger.WithError(err).Error("Session autosave failed")
					} else {
						logger.WithField("windows", manager.WindowCount()).Info("Session saved")
					}
				}
				return 0
			}

		case <-fileChanged:
			newCfg, err := loadConfigArg(*configPath)
			if err != nil {
				logger.WithError(err).Error("Config reload failed")
				continue
			}
			ipcServer.UpdateConfig(newCfg)
			logger.Info("Config reloaded")

		case <-reloadChan:
			// The IPC RELOAD handler already swapped the server
			// config. Display, stream, and log file settings take
			// effect on the next start.
			logger.Info("Configuration updated")
		}
	}
}

// newConfigWatcher watches the config file for writes and signals
// changed. Watching the parent directory survives editors that
// replace the file instead of rewriting it.
func newConfigWatcher(explicit string, changed chan struct{}, logger *logrus.Logger) (*fsnotify.Watcher, error) {
	path := explicit
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Name != path {
					continue
				}
				if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
					continue
				}
				logger.WithField("path", path).Info("Config file changed")
				select {
				case changed <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.WithError(err).Warn("Config watcher error")
			}
		}
	}()
	return watcher, nil
}
