package webservice

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"xwebview/layout"
)

func (wm *WebMaster) handleStatus(c *gin.Context) {
	st, err := wm.agent.Status(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (wm *WebMaster) handleMonitors(c *gin.Context) {
	monitors, err := wm.agent.Monitors(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"monitors": monitors})
}

func (wm *WebMaster) handlePrevMonitor(c *gin.Context) {
	v, changed, err := wm.agent.PrevMonitor(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": "ok", "changed": changed, "view": v})
}

func (wm *WebMaster) handleNextMonitor(c *gin.Context) {
	v, changed, err := wm.agent.NextMonitor(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": "ok", "changed": changed, "view": v})
}

// /api/monitor/select/:index
func (wm *WebMaster) handleSelectMonitor(c *gin.Context) {
	ind, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		abortWithError(c, fmt.Errorf("%w: %q", layout.ErrMonitorIndex, c.Param("index")))
		return
	}
	v, err := wm.agent.SelectMonitor(c.Request.Context(), ind)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": "ok", "view": v})
}

func (wm *WebMaster) handleViewport(c *gin.Context) {
	var req struct {
		Width int `json:"width"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"result": "error", "message": "Invalid request"})
		return
	}
	v, err := wm.agent.Resize(c.Request.Context(), req.Width)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": "ok", "view": v})
}
