package vagent

import (
	"context"
	"errors"
	"fmt"
	"image"

	"xwebview/compositor"
	"xwebview/layout"
	"xwebview/protocol"
)

func (a *Agent) Status(ctx context.Context) (Status, error) {
	var st Status
	err := a.do(ctx, func() {
		w, h := a.layout.CanvasSize()
		st = Status{
			SessionID:     a.id,
			Connected:     a.connected,
			Title:         TitleConnected,
			Opacity:       OpacityConnected,
			Monitors:      a.layout.Monitors(),
			CanvasWidth:   w,
			CanvasHeight:  h,
			ViewportWidth: a.layout.ViewportWidth(),
			FramesDrawn:   a.framesDrawn,
			FramesDropped: a.framesDropped,
		}
		if !a.connected {
			st.Title = TitleDisconnected
			st.Opacity = OpacityDisconnected
		}
		if v, err := a.layout.View(); err == nil {
			st.View = &v
		}
		if a.haveHeader {
			h := a.header
			st.Header = &h
		}
	})
	return st, err
}

func (a *Agent) Monitors(ctx context.Context) ([]protocol.Monitor, error) {
	var out []protocol.Monitor
	err := a.do(ctx, func() { out = a.layout.Monitors() })
	return out, err
}

func (a *Agent) SelectMonitor(ctx context.Context, ind int) (layout.View, error) {
	var v layout.View
	var opErr error
	err := a.do(ctx, func() {
		if opErr = a.layout.Select(ind); opErr != nil {
			return
		}
		v, opErr = a.layout.View()
	})
	if err != nil {
		return layout.View{}, err
	}
	return v, opErr
}

// PrevMonitor moves the view one monitor left. changed is false on the
// first monitor.
func (a *Agent) PrevMonitor(ctx context.Context) (v layout.View, changed bool, err error) {
	return a.navigate(ctx, a.layout.Prev)
}

// NextMonitor moves the view one monitor right. changed is false on the
// last monitor.
func (a *Agent) NextMonitor(ctx context.Context) (v layout.View, changed bool, err error) {
	return a.navigate(ctx, a.layout.Next)
}

func (a *Agent) navigate(ctx context.Context, step func() bool) (layout.View, bool, error) {
	var v layout.View
	var changed bool
	var opErr error
	err := a.do(ctx, func() {
		changed = step()
		v, opErr = a.layout.View()
	})
	if err != nil {
		return layout.View{}, false, err
	}
	return v, changed, opErr
}

// Resize sets the viewport width and returns the recomputed view.
func (a *Agent) Resize(ctx context.Context, width int) (layout.View, error) {
	var v layout.View
	var opErr error
	err := a.do(ctx, func() {
		if opErr = a.layout.Resize(width); opErr != nil {
			return
		}
		v, opErr = a.layout.View()
	})
	if err != nil {
		return layout.View{}, err
	}
	if errors.Is(opErr, layout.ErrNoMonitor) {
		// width is stored; there is just nothing to show yet
		return layout.View{}, nil
	}
	return v, opErr
}

// Pointer encodes a pointer event against the selected monitor and sends it.
func (a *Agent) Pointer(ctx context.Context, ev protocol.PointerEvent) (string, error) {
	var cmd string
	var opErr error
	err := a.do(ctx, func() {
		if !a.connected {
			opErr = ErrDisconnected
			return
		}
		v, verr := a.layout.View()
		if verr != nil {
			opErr = verr
			return
		}
		cmd, opErr = a.encoder.Pointer(v, ev)
		if opErr == nil {
			a.metrics.InputEvents.WithLabelValues(ev.Action.String()).Inc()
		}
	})
	if err != nil {
		return "", err
	}
	return cmd, opErr
}

// Key encodes and sends a key event. suppress tells the caller whether the
// key's local default action should be prevented.
func (a *Agent) Key(ctx context.Context, ev protocol.KeyEvent) (cmd string, suppress bool, err error) {
	var opErr error
	err = a.do(ctx, func() {
		if !a.connected {
			suppress = a.encoder.SuppressDefault(ev)
			opErr = ErrDisconnected
			return
		}
		cmd, suppress, opErr = a.encoder.Key(ev)
		if opErr == nil {
			a.metrics.InputEvents.WithLabelValues(ev.Action.String()).Inc()
		}
	})
	if err != nil {
		return "", false, err
	}
	return cmd, suppress, opErr
}

// Snapshot copies the selected monitor's region of the canvas, or the whole
// canvas when full is set or no monitor is known. Disconnected sessions are
// rendered dimmed.
func (a *Agent) Snapshot(ctx context.Context, full bool) (*image.RGBA, error) {
	var img *image.RGBA
	err := a.do(ctx, func() {
		canvas := a.compositor.Canvas()
		r := canvas.Bounds()
		if v, verr := a.layout.View(); verr == nil && !full {
			m := v.Monitor
			r = image.Rect(m.X, m.Y, m.X+m.W, m.Y+m.H)
		}
		img = canvas.Snapshot(r)
		if !a.connected {
			compositor.Dim(img)
		}
	})
	return img, err
}

// Command forwards an already encoded wire command unchanged.
func (a *Agent) Command(ctx context.Context, cmd protocol.Command) (string, error) {
	wire := cmd.String()
	var opErr error
	err := a.do(ctx, func() {
		if !a.connected {
			opErr = ErrDisconnected
			return
		}
		if opErr = a.source.SendText(wire); opErr != nil {
			opErr = fmt.Errorf("send %s: %w", cmd.Action, opErr)
			return
		}
		a.metrics.InputEvents.WithLabelValues(cmd.Action.String()).Inc()
	})
	if err != nil {
		return "", err
	}
	return wire, opErr
}
