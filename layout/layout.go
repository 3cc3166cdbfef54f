// Package layout keeps the monitor set of a session, the canvas size derived
// from it and the view transform for the monitor currently on screen.
package layout

import (
	"errors"
	"fmt"
	"sort"

	"xwebview/protocol"
)

var (
	ErrMonitorIndex   = errors.New("monitor index out of range")
	ErrNoMonitor      = errors.New("no monitor registered")
	ErrInvalidMonitor = errors.New("invalid monitor geometry")
	ErrViewportWidth  = errors.New("viewport width must be positive")
)

// View is the pan/zoom applied to the canvas so the selected monitor fills
// the viewport width.
type View struct {
	Index      int              `json:"index"`
	Monitor    protocol.Monitor `json:"monitor"`
	Scale      float64          `json:"scale"`
	TranslateX int              `json:"translate_x"`
	TranslateY int              `json:"translate_y"`
	OriginX    int              `json:"origin_x"`
	OriginY    int              `json:"origin_y"`
	CanPrev    bool             `json:"can_prev"`
	CanNext    bool             `json:"can_next"`
}

// Layout is not safe for concurrent use; the owning agent serialises access.
type Layout struct {
	monitors      []protocol.Monitor
	index         int
	viewportWidth int

	canvasW int
	canvasH int
	view    View
}

func New(viewportWidth int) *Layout {
	if viewportWidth <= 0 {
		viewportWidth = 1
	}
	return &Layout{viewportWidth: viewportWidth}
}

// AddMonitor inserts m after every monitor whose x is <= m.X, recomputes the
// canvas size and reapplies the view for the current selection.
func (l *Layout) AddMonitor(m protocol.Monitor) error {
	if m.W <= 0 || m.H <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidMonitor, m.W, m.H)
	}
	i := sort.Search(len(l.monitors), func(i int) bool { return l.monitors[i].X > m.X })
	l.monitors = append(l.monitors, protocol.Monitor{})
	copy(l.monitors[i+1:], l.monitors[i:])
	l.monitors[i] = m

	l.canvasW, l.canvasH = 0, 0
	for _, mon := range l.monitors {
		l.canvasW += mon.W
		l.canvasH += mon.H
	}
	l.apply()
	return nil
}

// Select switches the view to monitor ind.
func (l *Layout) Select(ind int) error {
	if ind < 0 || ind >= len(l.monitors) {
		return fmt.Errorf("%w: %d (have %d)", ErrMonitorIndex, ind, len(l.monitors))
	}
	l.index = ind
	l.apply()
	return nil
}

// Prev moves one monitor to the left. It reports whether the selection
// changed; on the first monitor it does nothing.
func (l *Layout) Prev() bool {
	if l.index <= 0 || len(l.monitors) == 0 {
		return false
	}
	l.index--
	l.apply()
	return true
}

// Next moves one monitor to the right; a no-op on the last monitor.
func (l *Layout) Next() bool {
	if l.index >= len(l.monitors)-1 {
		return false
	}
	l.index++
	l.apply()
	return true
}

// Resize records a new viewport width and recomputes the view. Monitor data
// is left untouched.
func (l *Layout) Resize(viewportWidth int) error {
	if viewportWidth <= 0 {
		return fmt.Errorf("%w: %d", ErrViewportWidth, viewportWidth)
	}
	l.viewportWidth = viewportWidth
	l.apply()
	return nil
}

func (l *Layout) apply() {
	if len(l.monitors) == 0 {
		l.view = View{}
		return
	}
	mon := l.monitors[l.index]
	l.view = View{
		Index:      l.index,
		Monitor:    mon,
		Scale:      float64(l.viewportWidth) / float64(mon.W),
		TranslateX: -mon.X,
		TranslateY: -mon.Y,
		OriginX:    mon.X,
		OriginY:    mon.Y,
		CanPrev:    l.index > 0,
		CanNext:    l.index < len(l.monitors)-1,
	}
}

// View returns the current transform, or ErrNoMonitor before the first
// monitor is announced.
func (l *Layout) View() (View, error) {
	if len(l.monitors) == 0 {
		return View{}, ErrNoMonitor
	}
	return l.view, nil
}

func (l *Layout) Monitors() []protocol.Monitor {
	out := make([]protocol.Monitor, len(l.monitors))
	copy(out, l.monitors)
	return out
}

func (l *Layout) Len() int { return len(l.monitors) }

func (l *Layout) Index() int { return l.index }

func (l *Layout) ViewportWidth() int { return l.viewportWidth }

// CanvasSize is the sum of all monitor widths and the sum of all heights.
func (l *Layout) CanvasSize() (int, int) { return l.canvasW, l.canvasH }
