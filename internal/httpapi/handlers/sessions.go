package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"voicechat/internal/chat"
)

type createSessionReq struct {
	UserID           *string `json:"user_id"`
	WebsocketURL     string  `json:"websocket_url" binding:"required,url"`
	APIToken         string  `json:"api_token" binding:"required"`
	ConnectionStatus string  `json:"connection_status" binding:"omitempty,oneof=connecting connected disconnected error"`
}

func (h *Handler) CreateChatSession(c *gin.Context) {
	var req createSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 10001, "invalid request: "+err.Error())
		return
	}

	sess, err := h.ChatSvc.CreateSession(c.Request.Context(), chat.CreateSessionInput{
		UserID:           req.UserID,
		WebsocketURL:     req.WebsocketURL,
		APIToken:         req.APIToken,
		ConnectionStatus: chat.ConnectionStatus(req.ConnectionStatus),
	})
	if err != nil {
		log.Error().Err(err).Msg("create chat session failed")
		fail(c, http.StatusInternalServerError, 50001, "failed to create session")
		return
	}

	h.Metrics.SessionsCreated.Inc()
	ok(c, sess)
}

// GetChatSession answers null data for an unknown id; absence is not an
// error at this endpoint.
func (h *Handler) GetChatSession(c *gin.Context) {
	sess, err := h.ChatSvc.GetSession(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		log.Error().Err(err).Msg("get chat session failed")
		fail(c, http.StatusInternalServerError, 50002, "failed to get session")
		return
	}
	ok(c, sess)
}

type updateSessionReq struct {
	ConnectionStatus *chat.ConnectionStatus `json:"connection_status" binding:"omitempty,oneof=connecting connected disconnected error"`
	LastActivity     *time.Time             `json:"last_activity"`
}

func (h *Handler) UpdateChatSession(c *gin.Context) {
	var req updateSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, 10001, "invalid request: "+err.Error())
		return
	}

	sess, err := h.ChatSvc.UpdateSession(c.Request.Context(), chat.UpdateSessionInput{
		ID:               c.Param("session_id"),
		ConnectionStatus: req.ConnectionStatus,
		LastActivity:     req.LastActivity,
	})
	if err != nil {
		if errors.Is(err, chat.ErrSessionNotFound) {
			fail(c, http.StatusNotFound, 40004, "session not found")
			return
		}
		log.Error().Err(err).Msg("update chat session failed")
		fail(c, http.StatusInternalServerError, 50003, "failed to update session")
		return
	}
	ok(c, sess)
}

func (h *Handler) DeleteChatSession(c *gin.Context) {
	existed, err := h.ChatSvc.DeleteSession(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		log.Error().Err(err).Msg("delete chat session failed")
		fail(c, http.StatusInternalServerError, 50004, "failed to delete session")
		return
	}
	if existed {
		h.Metrics.SessionsDeleted.Inc()
	}
	ok(c, gin.H{"success": existed})
}
