// Package webservice is the local HTTP surface of a viewer session: status,
// monitor navigation, input injection, canvas snapshots and metrics.
package webservice

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"xwebview/input"
	"xwebview/layout"
	"xwebview/metrics"
	"xwebview/protocol"
	vagent "xwebview/viewAgent"
)

type WebMaster struct {
	agent   *vagent.Agent
	metrics *metrics.Metrics
	router  *gin.Engine
}

func New(agent *vagent.Agent, m *metrics.Metrics) *WebMaster {
	wm := &WebMaster{
		agent:   agent,
		metrics: m,
		router:  gin.New(),
	}
	wm.router.Use(gin.Recovery())
	wm.routes()
	return wm
}

func (wm *WebMaster) Handler() http.Handler {
	return wm.router
}

func (wm *WebMaster) routes() {
	r := wm.router

	api := r.Group("/api")
	api.GET("/status", wm.handleStatus)
	api.GET("/monitors", wm.handleMonitors)
	api.POST("/monitor/prev", wm.handlePrevMonitor)
	api.POST("/monitor/next", wm.handleNextMonitor)
	api.POST("/monitor/select/:index", wm.handleSelectMonitor)
	api.POST("/viewport", wm.handleViewport)
	api.POST("/input/pointer", wm.handlePointer)
	api.POST("/input/key", wm.handleKey)
	api.POST("/input/command", wm.handleCommand)
	api.GET("/input/keys", wm.handleKeys)

	r.GET("/screen.png", wm.handleScreenPNG)
	r.GET("/ws", wm.handleScreenWS)
	if wm.metrics != nil {
		r.GET("/metrics", gin.WrapH(wm.metrics.Handler()))
	}
}

// statusCode maps session errors onto HTTP status codes.
func statusCode(err error) int {
	switch {
	case errors.Is(err, vagent.ErrDisconnected), errors.Is(err, layout.ErrNoMonitor):
		return http.StatusConflict
	case errors.Is(err, layout.ErrMonitorIndex),
		errors.Is(err, layout.ErrViewportWidth),
		errors.Is(err, input.ErrAction),
		errors.Is(err, protocol.ErrMalformedCommand):
		return http.StatusBadRequest
	case errors.Is(err, vagent.ErrStopped),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusCode(err), gin.H{"result": "error", "message": err.Error()})
}
