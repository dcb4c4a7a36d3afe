package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"voicechat/internal/chat"
	"voicechat/internal/status"
)

type putStatusReq struct {
	IsRecording      bool                  `json:"is_recording"`
	IsPlaying        bool                  `json:"is_playing"`
	VolumeLevel      float64               `json:"volume_level" binding:"gte=0,lte=1"`
	ConnectionStatus chat.ConnectionStatus `json:"connection_status" binding:"required,oneof=connecting connected disconnected error"`
}

func (h *Handler) PutAudioStatus(c *gin.Context) {
	if h.Status == nil {
		fail(c, http.StatusServiceUnavailable, 50300, "status store not configured")
		return
	}

	var req putStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 10001, "invalid request: "+err.Error())
		return
	}

	st := status.AudioStatus{
		SessionID:        c.Param("session_id"),
		IsRecording:      req.IsRecording,
		IsPlaying:        req.IsPlaying,
		VolumeLevel:      req.VolumeLevel,
		ConnectionStatus: req.ConnectionStatus,
	}
	if err := h.Status.Set(c.Request.Context(), st); err != nil {
		log.Error().Err(err).Msg("put audio status failed")
		fail(c, http.StatusInternalServerError, 50009, "failed to store status")
		return
	}
	ok(c, st)
}

func (h *Handler) GetAudioStatus(c *gin.Context) {
	if h.Status == nil {
		fail(c, http.StatusServiceUnavailable, 50300, "status store not configured")
		return
	}

	st, err := h.Status.Get(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		log.Error().Err(err).Msg("get audio status failed")
		fail(c, http.StatusInternalServerError, 50010, "failed to get status")
		return
	}
	ok(c, st)
}
