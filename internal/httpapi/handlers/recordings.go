package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"voicechat/internal/chat"
)

type createRecordingReq struct {
	SessionID  string  `json:"session_id" binding:"required"`
	FilePath   string  `json:"file_path" binding:"required"`
	Duration   float64 `json:"duration" binding:"required,gt=0"`
	SampleRate int     `json:"sample_rate" binding:"required,gt=0"`
	Channels   int     `json:"channels" binding:"required,gt=0"`
	Format     string  `json:"format" binding:"required"`
	FileSize   int64   `json:"file_size" binding:"required,gt=0"`
}

func (h *Handler) CreateAudioRecording(c *gin.Context) {
	var req createRecordingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 10001, "invalid request: "+err.Error())
		return
	}

	rec, err := h.ChatSvc.CreateRecording(c.Request.Context(), chat.CreateRecordingInput{
		SessionID:  req.SessionID,
		FilePath:   req.FilePath,
		Duration:   req.Duration,
		SampleRate: req.SampleRate,
		Channels:   req.Channels,
		Format:     req.Format,
		FileSize:   req.FileSize,
	})
	if err != nil {
		log.Error().Err(err).Msg("create audio recording failed")
		fail(c, http.StatusInternalServerError, 50007, "failed to create recording")
		return
	}

	h.Metrics.RecordingsCreated.Inc()
	ok(c, rec)
}

func (h *Handler) ListAudioRecordings(c *gin.Context) {
	recs, err := h.ChatSvc.ListRecordings(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		log.Error().Err(err).Msg("list audio recordings failed")
		fail(c, http.StatusInternalServerError, 50008, "failed to list recordings")
		return
	}
	ok(c, recs)
}
