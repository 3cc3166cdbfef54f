package vagent

import (
	"xwebview/compositor"
	"xwebview/layout"
	"xwebview/protocol"
)

const (
	TitleConnected    = "xwebview"
	TitleDisconnected = "xwebview | Connection Closed"

	OpacityConnected    = 1.0
	OpacityDisconnected = 0.5
)

type AgentConfig struct {
	ViewportWidth int
	Compression   string
	LengthCheck   compositor.LengthCheck
	EscapeKey     string
	// log every dropped frame
	Debug bool
}

// Status is a point-in-time copy of the session state.
type Status struct {
	SessionID     string                `json:"session_id"`
	Connected     bool                  `json:"connected"`
	Title         string                `json:"title"`
	Opacity       float64               `json:"opacity"`
	Monitors      []protocol.Monitor    `json:"monitors"`
	CanvasWidth   int                   `json:"canvas_width"`
	CanvasHeight  int                   `json:"canvas_height"`
	ViewportWidth int                   `json:"viewport_width"`
	View          *layout.View          `json:"view,omitempty"`
	Header        *protocol.FrameHeader `json:"header,omitempty"`
	FramesDrawn   uint64                `json:"frames_drawn"`
	FramesDropped uint64                `json:"frames_dropped"`
}
