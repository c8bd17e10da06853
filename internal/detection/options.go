package detection

import (
	"fmt"
	"io"
	"log/slog"
)

// Connectivity selects which neighbours count as touching when labelling.
type Connectivity int

const (
	// Conn4 treats only orthogonal neighbours (N, E, S, W) as connected.
	Conn4 Connectivity = 4
	// Conn8 also treats diagonal neighbours as connected.
	Conn8 Connectivity = 8
)

// String returns "4" or "8".
func (c Connectivity) String() string {
	return fmt.Sprintf("%d", int(c.normalize()))
}

// ParseConnectivity accepts 4 or 8.
func ParseConnectivity(v int) (Connectivity, error) {
	switch v {
	case 4:
		return Conn4, nil
	case 8:
		return Conn8, nil
	}
	return 0, fmt.Errorf("connectivity must be 4 or 8, got %d", v)
}

// normalize maps the zero value to the default Conn8.
func (c Connectivity) normalize() Connectivity {
	if c == Conn4 {
		return Conn4
	}
	return Conn8
}

// offset is a relative neighbour position.
type offset struct{ dx, dy int }

var (
	// Already-visited neighbours in the order pass 1 evaluates them.
	window4 = []offset{{-1, 0}, {0, -1}}
	window8 = []offset{{-1, 0}, {-1, -1}, {0, -1}, {1, -1}}

	neighbors4 = []offset{{-1, 0}, {0, -1}, {1, 0}, {0, 1}}
	neighbors8 = []offset{
		{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
		{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	}
)

// scanWindow returns the pass 1 neighbour window.
func (c Connectivity) scanWindow() []offset {
	if c.normalize() == Conn4 {
		return window4
	}
	return window8
}

// neighborhood returns every neighbour for the connectivity.
func (c Connectivity) neighborhood() []offset {
	if c.normalize() == Conn4 {
		return neighbors4
	}
	return neighbors8
}

// Options configures a detection run. The zero value is usable: 8-connected
// labelling, no border-line color, no size checks and no debug output.
type Options struct {
	// Connectivity selects the pass 1 window. Zero means Conn8.
	Connectivity Connectivity

	// MergeConnectivity selects the BorderMerger neighbourhood. Zero means
	// the same as Connectivity. A wider merger than pass 1 (Conn4 labelling
	// with a Conn8 merger) joins same-colored regions that touch only
	// diagonally and reports each join as a merge repair.
	MergeConnectivity Connectivity

	// MinShapeSize flags shapes with this many pixels or fewer. Zero disables
	// the check.
	MinShapeSize int

	// MaxShapeRatio flags shapes whose bounding box width or height reaches
	// 1/MaxShapeRatio of the image. Zero disables the check.
	MaxShapeRatio int

	// BorderColor, when set, marks pixels of that color as province border
	// lines. They are excluded from labelling and absorbed into neighbouring
	// shapes during MERGE_BORDERS.
	BorderColor *Color

	// OutputStages enables the OUTPUT_PASS1 and OUTPUT_PASS2 snapshots.
	OutputStages bool

	// Worker receives debug output. Nil disables it.
	Worker GraphicsWorker

	// Logger receives progress and anomaly messages. Nil discards them.
	Logger *slog.Logger
}

// DefaultOptions mirrors the province map rules of the game: 8-connected
// labelling, provinces need more than 8 pixels, and no province may span an
// eighth of the map.
func DefaultOptions() Options {
	return Options{
		Connectivity:  Conn8,
		MinShapeSize:  8,
		MaxShapeRatio: 8,
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mergeConnectivity resolves the BorderMerger neighbourhood.
func (o Options) mergeConnectivity() Connectivity {
	if o.MergeConnectivity == 0 {
		return o.Connectivity.normalize()
	}
	return o.MergeConnectivity.normalize()
}

func (o Options) isLine(c Color) bool {
	return o.BorderColor != nil && *o.BorderColor == c
}
