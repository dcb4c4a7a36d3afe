package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"voicechat/internal/chat"
	"voicechat/internal/common"
	"voicechat/internal/httpapi/handlers"
	"voicechat/internal/httpapi/middleware"
	"voicechat/internal/status"
)

func NewRouter(svc *chat.Service, statusStore *status.Store, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())

	if len(allowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     allowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	h := handlers.NewHandler(svc, statusStore)

	r.GET("/ping", h.Ping)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	chatGroup := r.Group("/chat")
	{
		chatGroup.POST("/sessions", h.CreateChatSession)
		chatGroup.GET("/sessions/:session_id", h.GetChatSession)
		chatGroup.PATCH("/sessions/:session_id", h.UpdateChatSession)
		chatGroup.DELETE("/sessions/:session_id", h.DeleteChatSession)
		chatGroup.GET("/sessions/:session_id/messages", h.ListChatMessages)
		chatGroup.GET("/sessions/:session_id/recordings", h.ListAudioRecordings)
		chatGroup.PUT("/sessions/:session_id/status", h.PutAudioStatus)
		chatGroup.GET("/sessions/:session_id/status", h.GetAudioStatus)

		chatGroup.POST("/messages", h.CreateChatMessage)
		chatGroup.POST("/recordings", h.CreateAudioRecording)
	}

	return r
}
