package input

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xwebview/layout"
	"xwebview/protocol"
)

type recordSender struct {
	sent []string
	err  error
}

func (r *recordSender) SendText(cmd string) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, cmd)
	return nil
}

func viewFor(t *testing.T, viewport int, monitors ...protocol.Monitor) *layout.Layout {
	t.Helper()
	l := layout.New(viewport)
	for _, m := range monitors {
		require.NoError(t, l.AddMonitor(m))
	}
	return l
}

func TestPointerScaledToMonitor(t *testing.T) {
	s := &recordSender{}
	enc := NewEncoder(s, "")
	l := viewFor(t, 960, protocol.Monitor{X: 0, Y: 0, W: 1920, H: 1080})
	v, err := l.View()
	require.NoError(t, err)

	cmd, err := enc.Pointer(v, protocol.PointerEvent{Action: protocol.ActionMouseDown, Button: 0, PageX: 100, PageY: 50})
	require.NoError(t, err)
	assert.Equal(t, "0:1:200:100", cmd)

	cmd, err = enc.Pointer(v, protocol.PointerEvent{Action: protocol.ActionMouseUp, Button: 2, PageX: 100, PageY: 50})
	require.NoError(t, err)
	assert.Equal(t, "1:3:200:100", cmd)
	assert.Equal(t, []string{"0:1:200:100", "1:3:200:100"}, s.sent)
}

func TestPointerOnSecondMonitor(t *testing.T) {
	enc := NewEncoder(&recordSender{}, "")
	l := viewFor(t, 640,
		protocol.Monitor{X: 0, Y: 0, W: 1920, H: 1080},
		protocol.Monitor{X: 1920, Y: 200, W: 1280, H: 1024},
	)
	require.True(t, l.Next())
	v, _ := l.View()

	// scale 0.5: (10.25/0.5)=20.5 rounds up to 21
	cmd, err := enc.Pointer(v, protocol.PointerEvent{Action: protocol.ActionMouseDown, PageX: 10.25, PageY: 3})
	require.NoError(t, err)
	assert.Equal(t, "0:1:1941:206", cmd)
}

func TestKeyEncoding(t *testing.T) {
	s := &recordSender{}
	enc := NewEncoder(s, "")
	tests := []struct {
		ev       protocol.KeyEvent
		cmd      string
		suppress bool
	}{
		{protocol.KeyEvent{Action: protocol.ActionKeyDown, Key: "ArrowLeft"}, "2:0:0:0:Left", true},
		{protocol.KeyEvent{Action: protocol.ActionKeyDown, Key: "a"}, "2:0:0:0:a", true},
		{protocol.KeyEvent{Action: protocol.ActionKeyUp, Key: "a"}, "3:0:0:0:a", false},
		{protocol.KeyEvent{Action: protocol.ActionKeyDown, Key: "F5"}, "2:0:0:0:", true},
		{protocol.KeyEvent{Action: protocol.ActionKeyDown, Key: "F11"}, "2:0:0:0:", false},
		{protocol.KeyEvent{Action: protocol.ActionKeyDown, Key: " "}, "2:0:0:0:KP_Space", true},
	}
	for _, tt := range tests {
		cmd, suppress, err := enc.Key(tt.ev)
		require.NoError(t, err)
		assert.Equal(t, tt.cmd, cmd, tt.ev.Key)
		assert.Equal(t, tt.suppress, suppress, tt.ev.Key)
	}
	assert.Len(t, s.sent, len(tests))
}

func TestCustomEscapeKey(t *testing.T) {
	enc := NewEncoder(&recordSender{}, "Escape")
	assert.False(t, enc.SuppressDefault(protocol.KeyEvent{Action: protocol.ActionKeyDown, Key: "Escape"}))
	assert.True(t, enc.SuppressDefault(protocol.KeyEvent{Action: protocol.ActionKeyDown, Key: "F11"}))
}

func TestWrongActionRejected(t *testing.T) {
	s := &recordSender{}
	enc := NewEncoder(s, "")
	_, err := enc.Pointer(layout.View{Scale: 1}, protocol.PointerEvent{Action: protocol.ActionKeyDown})
	assert.ErrorIs(t, err, ErrAction)
	_, _, err = enc.Key(protocol.KeyEvent{Action: protocol.ActionMouseDown, Key: "a"})
	assert.ErrorIs(t, err, ErrAction)
	assert.Empty(t, s.sent)
}

func TestSendErrorWrapped(t *testing.T) {
	boom := errors.New("socket closed")
	enc := NewEncoder(&recordSender{err: boom}, "")
	_, _, err := enc.Key(protocol.KeyEvent{Action: protocol.ActionKeyUp, Key: "a"})
	assert.ErrorIs(t, err, boom)
}
