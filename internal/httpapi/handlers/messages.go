package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"voicechat/internal/chat"
)

type createMessageReq struct {
	SessionID     string           `json:"session_id" binding:"required"`
	MessageType   chat.MessageType `json:"message_type" binding:"required,oneof=user_text user_audio ai_text ai_audio"`
	Content       *string          `json:"content"`
	Transcription *string          `json:"transcription"`
	AudioDuration *float64         `json:"audio_duration" binding:"omitempty,gt=0"`
}

func (h *Handler) CreateChatMessage(c *gin.Context) {
	var req createMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 10001, "invalid request: "+err.Error())
		return
	}

	msg, err := h.ChatSvc.CreateMessage(c.Request.Context(), chat.CreateMessageInput{
		SessionID:     req.SessionID,
		MessageType:   req.MessageType,
		Content:       req.Content,
		Transcription: req.Transcription,
		AudioDuration: req.AudioDuration,
	})
	if err != nil {
		log.Error().Err(err).Msg("create chat message failed")
		fail(c, http.StatusInternalServerError, 50005, "failed to create message")
		return
	}

	h.Metrics.MessagesCreated.WithLabelValues(string(msg.MessageType)).Inc()
	ok(c, msg)
}

func (h *Handler) ListChatMessages(c *gin.Context) {
	msgs, err := h.ChatSvc.ListMessages(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		log.Error().Err(err).Msg("list chat messages failed")
		fail(c, http.StatusInternalServerError, 50006, "failed to list messages")
		return
	}
	ok(c, msgs)
}
