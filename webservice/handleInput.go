package webservice

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"xwebview/input"
	"xwebview/protocol"
)

// Input event kinds accepted on /ws.
const (
	EventPointer = "pointer"
	EventKey     = "key"
	EventCommand = "command"
)

// InputEvent is one local input event. Mode is the wire mode: 0/1 for
// pointer press/release, 2/3 for key down/up. Command carries a raw wire
// string for EventCommand.
type InputEvent struct {
	Type    string  `json:"type,omitempty"`
	Mode    int     `json:"mode"`
	Button  int     `json:"button"`
	PageX   float64 `json:"page_x"`
	PageY   float64 `json:"page_y"`
	Key     string  `json:"key,omitempty"`
	Command string  `json:"command,omitempty"`
}

type InputResult struct {
	Command         string `json:"command"`
	SuppressDefault bool   `json:"suppress_default"`
}

func (wm *WebMaster) applyInput(ctx context.Context, ev InputEvent) (InputResult, error) {
	if ev.Type != EventCommand && (ev.Mode < 0 || ev.Mode > int(protocol.ActionKeyUp)) {
		return InputResult{}, fmt.Errorf("%w: mode %d", input.ErrAction, ev.Mode)
	}
	switch ev.Type {
	case EventPointer:
		cmd, err := wm.agent.Pointer(ctx, protocol.PointerEvent{
			Action: protocol.Action(ev.Mode),
			Button: ev.Button,
			PageX:  ev.PageX,
			PageY:  ev.PageY,
		})
		return InputResult{Command: cmd}, err
	case EventKey:
		cmd, suppress, err := wm.agent.Key(ctx, protocol.KeyEvent{
			Action: protocol.Action(ev.Mode),
			Key:    ev.Key,
		})
		return InputResult{Command: cmd, SuppressDefault: suppress}, err
	case EventCommand:
		parsed, err := protocol.ParseCommand(ev.Command)
		if err != nil {
			return InputResult{}, err
		}
		cmd, err := wm.agent.Command(ctx, parsed)
		return InputResult{Command: cmd}, err
	default:
		return InputResult{}, fmt.Errorf("%w: unknown event type %q", protocol.ErrMalformedCommand, ev.Type)
	}
}

func (wm *WebMaster) handleInput(c *gin.Context, kind string) {
	var ev InputEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"result": "error", "message": "Invalid request"})
		return
	}
	ev.Type = kind
	res, err := wm.applyInput(c.Request.Context(), ev)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": "ok", "command": res.Command, "suppress_default": res.SuppressDefault})
}

func (wm *WebMaster) handlePointer(c *gin.Context) { wm.handleInput(c, EventPointer) }

func (wm *WebMaster) handleKey(c *gin.Context) { wm.handleInput(c, EventKey) }

func (wm *WebMaster) handleCommand(c *gin.Context) { wm.handleInput(c, EventCommand) }

// /api/input/keys lists the named keys and their wire symbols. Single
// printable characters are sent literally and are not listed.
func (wm *WebMaster) handleKeys(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"keys": protocol.MappedKeys()})
}
