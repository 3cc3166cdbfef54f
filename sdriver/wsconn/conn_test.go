package wsconn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xwebview/sdriver"
)

func TestURL(t *testing.T) {
	assert.Equal(t, "ws://localhost:8080", URL("localhost", 8080, ""))
	assert.Equal(t, "ws://[::1]:9000/stream", URL("::1", 9000, "/stream"))
}

func TestConnRoundTrip(t *testing.T) {
	upgrader := websocket.Upgrader{}
	received := make(chan string, 1)
	closeCode := make(chan int, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		ws.WriteMessage(websocket.TextMessage, []byte(`MONITOR:{"x":0,"y":0,"w":10,"h":10}`))
		ws.WriteMessage(websocket.BinaryMessage, []byte{1, 2, 3})
		_, msg, err := ws.ReadMessage()
		if err != nil {
			return
		}
		received <- string(msg)
		_, _, err = ws.ReadMessage()
		if ce, ok := err.(*websocket.CloseError); ok {
			closeCode <- ce.Code
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"))
	require.NoError(t, err)

	m, err := c.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, sdriver.KindText, m.Kind)
	assert.Contains(t, string(m.Data), "MONITOR:")

	m, err = c.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, sdriver.KindBinary, m.Kind)
	assert.Equal(t, []byte{1, 2, 3}, m.Data)

	require.NoError(t, c.SendText("2:0:0:0:a"))
	select {
	case got := <-received:
		assert.Equal(t, "2:0:0:0:a", got)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not receive command")
	}

	require.NoError(t, c.Close())
	select {
	case code := <-closeCode:
		assert.Equal(t, websocket.CloseNormalClosure, code)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not see close frame")
	}
	assert.NoError(t, c.Close())
}
