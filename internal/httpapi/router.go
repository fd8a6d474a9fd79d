package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkrough/chat-backend/internal/chat"
	"github.com/dkrough/chat-backend/internal/common"
	"github.com/dkrough/chat-backend/internal/httpapi/handlers"
	"github.com/dkrough/chat-backend/internal/httpapi/middleware"
	"github.com/dkrough/chat-backend/internal/store/rabbitmq"
)

func NewRouter(svc *chat.Service, rabbit *rabbitmq.Publisher) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	h := handlers.NewHandler(svc, rabbit)

	r.GET("/ping", h.Ping)

	r.POST("/users/:user_id/chats", h.CreateChat)
	r.GET("/users/:user_id/chats", h.ListChats)

	r.PUT("/chats/:chat_id/name", h.RenameChat)
	r.DELETE("/chats/:chat_id", h.DeleteChat)

	r.POST("/chats/:chat_id/messages", h.PostChatMessage)
	r.GET("/chats/:chat_id/messages", h.ListMessages)
	r.POST("/chats/:chat_id/messages/async", h.PostChatMessageAsync)

	r.POST("/chats/:chat_id/images", h.GenerateImage)
	r.GET("/chats/:chat_id/images", h.ListImages)

	r.POST("/chats/:chat_id/recover", h.RecoverResult)

	r.GET("/jobs/:job_id", h.GetJob)

	return r
}
