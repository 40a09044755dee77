// Package http is the REST boundary of the signaling core. Wire framing
// lives here; all pairing and relay semantics live in internal/app.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akarpov/roulette/internal/app"
	"github.com/akarpov/roulette/internal/config"
	"github.com/akarpov/roulette/internal/domain"
)

type Handlers struct {
	Service *app.Service
	Config  *config.Config
}

type idRequest struct {
	ID string `json:"id" binding:"required"`
}

type signalRequest struct {
	ID      string          `json:"id" binding:"required"`
	To      string          `json:"to" binding:"required"`
	Type    string          `json:"type" binding:"required"`
	Payload json.RawMessage `json:"payload"`
}

func (h *Handlers) register(c *gin.Context) {
	id := h.Service.Register()
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (h *Handlers) findPartner(c *gin.Context) {
	var req idRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing id"})
		return
	}
	res, err := h.Service.FindPartner(domain.ClientID(req.ID))
	if err != nil {
		writeError(c, err)
		return
	}
	writeMatchResult(c, res)
}

func (h *Handlers) nextPartner(c *gin.Context) {
	var req idRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing id"})
		return
	}
	res, err := h.Service.NextPartner(domain.ClientID(req.ID))
	if err != nil {
		writeError(c, err)
		return
	}
	writeMatchResult(c, res)
}

func (h *Handlers) leave(c *gin.Context) {
	var req idRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing id"})
		return
	}
	if err := h.Service.Leave(domain.ClientID(req.ID)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handlers) signal(c *gin.Context) {
	var req signalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing fields"})
		return
	}
	err := h.Service.Send(domain.ClientID(req.ID), domain.ClientID(req.To), req.Type, req.Payload)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// clientConfig hands out the ICE server list the media layer needs for NAT
// traversal. The list was validated at startup.
func (h *Handlers) clientConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"iceServers": h.Config.ICEServers})
}

func writeMatchResult(c *gin.Context, res app.MatchResult) {
	if res.Status == app.StatusMatched {
		c.JSON(http.StatusOK, gin.H{"status": res.Status, "room": res.Room})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": res.Status})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrUnknownIdentity), errors.Is(err, app.ErrUnknownRecipient):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
