package webservice

import (
	"bytes"
	"image/png"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	vagent "xwebview/viewAgent"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // viewer clients are local
	},
}

// /screen.png?full=1
func (wm *WebMaster) handleScreenPNG(c *gin.Context) {
	full := c.Query("full") == "1" || c.Query("full") == "true"
	img, err := wm.agent.Snapshot(c.Request.Context(), full)
	if err != nil {
		abortWithError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		log.Println("Failed to encode snapshot:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"result": "error", "message": err.Error()})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// wsClient serializes writes to one viewer websocket.
type wsClient struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsClient) send(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteJSON(v)
}

// /ws carries JSON input events from a viewer client, one per text frame.
// Each event is answered with its result; the client is told once when the
// source connection closes.
func (wm *WebMaster) handleScreenWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("Failed to upgrade to websocket:", err)
		return
	}
	defer conn.Close()
	client := &wsClient{conn: conn}
	log.Printf("Viewer client %s connected to session %s", c.ClientIP(), wm.agent.ID())

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-wm.agent.Disconnected():
			client.send(gin.H{
				"status":  "closed",
				"title":   vagent.TitleDisconnected,
				"opacity": vagent.OpacityDisconnected,
			})
		case <-done:
		}
	}()

	ctx := c.Request.Context()
	for {
		messageType, p, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Println("WebSocket read error:", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			client.send(gin.H{"status": "error", "message": "input events must be text frames"})
			continue
		}
		var ev InputEvent
		if err := json.Unmarshal(p, &ev); err != nil {
			client.send(gin.H{"status": "error", "message": "Invalid event: " + err.Error()})
			continue
		}
		res, err := wm.applyInput(ctx, ev)
		if err != nil {
			client.send(gin.H{"status": "error", "message": err.Error(), "code": statusCode(err)})
			continue
		}
		if err := client.send(gin.H{"status": "ok", "command": res.Command, "suppress_default": res.SuppressDefault}); err != nil {
			log.Println("WebSocket write error:", err)
			return
		}
	}
}
