package sdriver

import "errors"

// MessageKind is how the transport framed a message, when it knows.
type MessageKind uint8

const (
	KindUnknown MessageKind = 0
	KindText    MessageKind = 1
	KindBinary  MessageKind = 2
)

func (k MessageKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBinary:
		return "binary"
	default:
		return "unknown"
	}
}

type Message struct {
	Kind MessageKind
	Data []byte
}

var ErrClosed = errors.New("source closed")
