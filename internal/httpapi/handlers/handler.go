package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voicechat/internal/chat"
	"voicechat/internal/metrics"
	"voicechat/internal/status"
)

type Handler struct {
	ChatSvc *chat.Service
	Status  *status.Store // nil when redis is not configured
	Metrics *metrics.Metrics
}

func NewHandler(svc *chat.Service, statusStore *status.Store) *Handler {
	return &Handler{
		ChatSvc: svc,
		Status:  statusStore,
		Metrics: metrics.Global(),
	}
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "ok",
		"data":    data,
	})
}

func fail(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
		"data":    nil,
	})
}

func (h *Handler) Ping(c *gin.Context) {
	ok(c, gin.H{"pong": true})
}
