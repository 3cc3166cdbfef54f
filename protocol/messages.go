package protocol

import (
	"bytes"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
)

// control message markers
const (
	MarkerMonitor  = "MONITOR:"
	MarkerGetReady = "GETREADY:"
)

// Messages above this size are never scanned for markers.
const ControlMaxSize = 64

// RGBA-style 4 channel pixels
const BytesPerPixel = 4

var ErrMalformedControl = errors.New("malformed control message")

type MessageClass uint8

const (
	ClassPayload MessageClass = iota
	ClassMonitor
	ClassFrameHeader
)

func (c MessageClass) String() string {
	switch c {
	case ClassMonitor:
		return "monitor"
	case ClassFrameHeader:
		return "frame_header"
	default:
		return "payload"
	}
}

// Classify decides what an inbound message is. Only short messages are
// inspected; everything else is a pixel payload.
func Classify(data []byte) MessageClass {
	if len(data) > ControlMaxSize {
		return ClassPayload
	}
	if bytes.Contains(data, []byte(MarkerMonitor)) {
		return ClassMonitor
	}
	if bytes.Contains(data, []byte(MarkerGetReady)) {
		return ClassFrameHeader
	}
	return ClassPayload
}

// ParseMonitor decodes the JSON object following the MONITOR: marker.
func ParseMonitor(data []byte) (Monitor, error) {
	var m Monitor
	if err := unmarshalAfter(data, MarkerMonitor, &m); err != nil {
		return Monitor{}, err
	}
	return m, nil
}

// ParseFrameHeader decodes the JSON object following the GETREADY: marker.
func ParseFrameHeader(data []byte) (FrameHeader, error) {
	var h FrameHeader
	if err := unmarshalAfter(data, MarkerGetReady, &h); err != nil {
		return FrameHeader{}, err
	}
	return h, nil
}

func unmarshalAfter(data []byte, marker string, v any) error {
	i := bytes.Index(data, []byte(marker))
	if i < 0 {
		return fmt.Errorf("%w: missing %q", ErrMalformedControl, marker)
	}
	body := data[i+len(marker):]
	// the source never sends more than one marker per message
	if j := bytes.Index(body, []byte(marker)); j >= 0 {
		body = body[:j]
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedControl, err)
	}
	return nil
}

// EncodeMonitor renders a monitor announcement the way the source does.
func EncodeMonitor(m Monitor) string {
	return fmt.Sprintf("%s{\"x\":%d,\"y\":%d,\"w\":%d,\"h\":%d}", MarkerMonitor, m.X, m.Y, m.W, m.H)
}

// EncodeFrameHeader renders a frame header the way the source does.
func EncodeFrameHeader(h FrameHeader) string {
	return fmt.Sprintf("%s{\"x\":%d,\"y\":%d,\"w\":%d,\"h\":%d,\"length\":%d}", MarkerGetReady, h.X, h.Y, h.W, h.H, h.Length)
}
