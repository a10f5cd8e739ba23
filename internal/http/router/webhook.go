package router

import (
	"github.com/gin-gonic/gin"

	"paperdesk.app/ingress/internal/http/handler/webhook"
)

func WebhookRouter(router *gin.RouterGroup, handler *webhook.Handler) {
	router.POST("/:secret", handler.HandleUpdate)
}
