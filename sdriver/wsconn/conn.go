// Package wsconn is the live WebSocket source driver.
package wsconn

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"xwebview/sdriver"
)

const closeTimeout = time.Second

type Conn struct {
	ws *websocket.Conn

	// gorilla allows one concurrent writer
	writeMu   sync.Mutex
	closeOnce sync.Once
}

// URL builds ws://host:port/path.
func URL(host string, port int, path string) string {
	u := url.URL{Scheme: "ws", Host: net.JoinHostPort(host, strconv.Itoa(port)), Path: path}
	return u.String()
}

func Dial(ctx context.Context, rawURL string) (*Conn, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", rawURL, err)
	}
	log.Printf("Connected to source %s", rawURL)
	return &Conn{ws: ws}, nil
}

// New wraps an established connection.
func New(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

func (c *Conn) ReadMessage() (sdriver.Message, error) {
	mt, data, err := c.ws.ReadMessage()
	if err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) || errors.Is(err, net.ErrClosed) {
			return sdriver.Message{}, fmt.Errorf("%w: %v", sdriver.ErrClosed, err)
		}
		return sdriver.Message{}, err
	}
	kind := sdriver.KindUnknown
	switch mt {
	case websocket.TextMessage:
		kind = sdriver.KindText
	case websocket.BinaryMessage:
		kind = sdriver.KindBinary
	}
	return sdriver.Message{Kind: kind, Data: data}, nil
}

func (c *Conn) SendText(cmd string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, []byte(cmd))
}

// Close sends a normal close frame before dropping the connection.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		if werr := c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeTimeout)); werr != nil && !errors.Is(werr, websocket.ErrCloseSent) {
			log.Printf("close frame not sent: %v", werr)
		}
		c.writeMu.Unlock()
		err = c.ws.Close()
	})
	return err
}
