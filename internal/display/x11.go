package display

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"

	"github.com/driftwm/driftwm/internal/wm"
)

// X11 reports the primary monitor's geometry from a live X server.
type X11 struct {
	mu   sync.Mutex
	xu   *xgbutil.XUtil
	root xproto.Window
}

// NewX11 connects to the X server named by $DISPLAY.
func NewX11() (*X11, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connecting to X server: %w", err)
	}
	if err := randr.Init(xu.Conn()); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("randr init failed: %w", err)
	}
	return &X11{xu: xu, root: xu.RootWin()}, nil
}

func (x *X11) Name() string { return "x11" }

// Extent returns the first active CRTC's geometry, falling back to
// the root window size when RandR reports nothing usable.
func (x *X11) Extent() wm.Extent {
	x.mu.Lock()
	defer x.mu.Unlock()

	if ext, ok := x.firstCrtcExtent(); ok {
		return ext
	}

	setup := xproto.Setup(x.xu.Conn())
	screen := setup.DefaultScreen(x.xu.Conn())
	return wm.Extent{
		X:      0,
		Y:      0,
		Width:  int(screen.WidthInPixels),
		Height: int(screen.HeightInPixels),
	}
}

func (x *X11) firstCrtcExtent() (wm.Extent, bool) {
	resources, err := randr.GetScreenResources(x.xu.Conn(), x.root).Reply()
	if err != nil {
		return wm.Extent{}, false
	}
	for _, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(x.xu.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}
		return wm.Extent{
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		}, true
	}
	return wm.Extent{}, false
}

// Close disconnects from the X server.
func (x *X11) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.xu.Conn().Close()
	return nil
}
