package sdriver

// Source is one connection to a streaming source. ReadMessage returns
// messages in arrival order and must only be called from one goroutine.
// SendText may be called concurrently with ReadMessage.
type Source interface {
	ReadMessage() (Message, error)
	SendText(cmd string) error
	Close() error
}
