// Package input turns local pointer and keyboard events into wire commands
// and sends them to the source. Nothing is awaited in return.
package input

import (
	"errors"
	"fmt"
	"math"

	"xwebview/layout"
	"xwebview/protocol"
)

// DefaultEscapeKey keeps its local meaning (fullscreen toggle).
const DefaultEscapeKey = "F11"

var ErrAction = errors.New("action does not match event kind")

// Sender delivers one text command to the source.
type Sender interface {
	SendText(cmd string) error
}

type Encoder struct {
	sender    Sender
	escapeKey string
}

func NewEncoder(sender Sender, escapeKey string) *Encoder {
	if escapeKey == "" {
		escapeKey = DefaultEscapeKey
	}
	return &Encoder{sender: sender, escapeKey: escapeKey}
}

// Pointer encodes a press/release relative to the monitor shown in v and
// sends it.
func (e *Encoder) Pointer(v layout.View, ev protocol.PointerEvent) (string, error) {
	if !ev.Action.IsPointer() {
		return "", fmt.Errorf("%w: %s on pointer event", ErrAction, ev.Action)
	}
	x, y := MapPoint(v, ev.PageX, ev.PageY)
	cmd := protocol.EncodePointerCommand(ev.Action, ev.Button+1, x, y)
	if err := e.sender.SendText(cmd); err != nil {
		return cmd, fmt.Errorf("send %s: %w", ev.Action, err)
	}
	return cmd, nil
}

// Key encodes and sends a key event. suppress reports whether the local
// default handling of the key should be prevented; only key-down events of
// keys other than the escape key are suppressed.
func (e *Encoder) Key(ev protocol.KeyEvent) (cmd string, suppress bool, err error) {
	if !ev.Action.IsKey() {
		return "", false, fmt.Errorf("%w: %s on key event", ErrAction, ev.Action)
	}
	suppress = e.SuppressDefault(ev)
	cmd = protocol.EncodeKeyCommand(ev.Action, protocol.KeySymbol(ev.Key))
	if err := e.sender.SendText(cmd); err != nil {
		return cmd, suppress, fmt.Errorf("send %s: %w", ev.Action, err)
	}
	return cmd, suppress, nil
}

func (e *Encoder) SuppressDefault(ev protocol.KeyEvent) bool {
	return ev.Action == protocol.ActionKeyDown && ev.Key != e.escapeKey
}

// MapPoint converts page coordinates to the selected monitor's desktop
// coordinates: round(page/scale) + origin, rounding halves up.
func MapPoint(v layout.View, pageX, pageY float64) (int, int) {
	scale := v.Scale
	if scale <= 0 {
		scale = 1
	}
	x := math.Floor(pageX/scale+0.5) + float64(v.Monitor.X)
	y := math.Floor(pageY/scale+0.5) + float64(v.Monitor.Y)
	return int(x), int(y)
}
