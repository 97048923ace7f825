package wm

// Default size constraints applied to new windows. Constraints are
// widened as needed so a window's initial size always satisfies them.
const (
	DefaultMinDimension = 100
	DefaultMaxDimension = 4096
)

// Geometry is a window's position, size, and size constraints.
// Position may be negative (multi-head layouts place monitors at
// negative offsets); sizes are always at least 1 and within bounds.
type Geometry struct {
	X         int `json:"x"`
	Y         int `json:"y"`
	Width     int `json:"width"`
	Height    int `json:"height"`
	MinWidth  int `json:"min_width"`
	MinHeight int `json:"min_height"`
	MaxWidth  int `json:"max_width"`
	MaxHeight int `json:"max_height"`
}

// defaultGeometry builds the initial geometry for a window of the
// given size. The default constraint band is widened when the initial
// size falls outside it, so the bounds invariant holds from birth.
func defaultGeometry(width, height int) Geometry {
	g := Geometry{
		X:         0,
		Y:         0,
		Width:     width,
		Height:    height,
		MinWidth:  DefaultMinDimension,
		MinHeight: DefaultMinDimension,
		MaxWidth:  DefaultMaxDimension,
		MaxHeight: DefaultMaxDimension,
	}
	if width < g.MinWidth {
		g.MinWidth = width
	}
	if height < g.MinHeight {
		g.MinHeight = height
	}
	if width > g.MaxWidth {
		g.MaxWidth = width
	}
	if height > g.MaxHeight {
		g.MaxHeight = height
	}
	return g
}

// fitsConstraints reports whether a size lies within the geometry's
// min/max band.
func (g Geometry) fitsConstraints(width, height int) bool {
	return width >= g.MinWidth && width <= g.MaxWidth &&
		height >= g.MinHeight && height <= g.MaxHeight
}

// clampSize snaps the current size back into the constraint band.
// Called after a constraint changes.
func (g *Geometry) clampSize() {
	if g.Width < g.MinWidth {
		g.Width = g.MinWidth
	}
	if g.Width > g.MaxWidth {
		g.Width = g.MaxWidth
	}
	if g.Height < g.MinHeight {
		g.Height = g.MinHeight
	}
	if g.Height > g.MaxHeight {
		g.Height = g.MaxHeight
	}
}

// Extent is the usable area a maximized or fullscreen window expands
// to fill.
type Extent struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ExtentFunc supplies the current display extent. Managers query it
// at maximize/fullscreen time so monitor changes take effect on the
// next transition.
type ExtentFunc func() Extent

// DefaultExtent is used when no display backend is wired up.
func DefaultExtent() Extent {
	return Extent{X: 0, Y: 0, Width: 1920, Height: 1080}
}
