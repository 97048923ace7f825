// Package display supplies the extent windows maximize and
// fullscreen into. The static provider serves headless and test
// setups; the x11 provider queries a live X server.
package display

import (
	"fmt"

	"github.com/driftwm/driftwm/internal/config"
	"github.com/driftwm/driftwm/internal/wm"
)

// Provider reports the usable display area.
type Provider interface {
	// Name identifies the provider for status output.
	Name() string
	// Extent returns the current usable area.
	Extent() wm.Extent
	// Close releases backend resources.
	Close() error
}

// Static is a fixed-extent provider.
type Static struct {
	extent wm.Extent
}

// NewStatic builds a provider that always reports the given area.
func NewStatic(width, height int) *Static {
	return &Static{extent: wm.Extent{X: 0, Y: 0, Width: width, Height: height}}
}

func (s *Static) Name() string { return "static" }
func (s *Static) Extent() wm.Extent { return s.extent }
func (s *Static) Close() error { return nil }

// New builds the provider named by the configuration.
func New(cfg config.DisplayConfig) (Provider, error) {
	switch cfg.Provider {
	case "static":
		return NewStatic(cfg.Width, cfg.Height), nil
	case "x11":
		return NewX11()
	default:
		return nil, fmt.Errorf("unknown display provider %q", cfg.Provider)
	}
}
