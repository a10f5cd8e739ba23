package router

import (
	"github.com/gin-gonic/gin"

	"paperdesk.app/ingress/internal/http/handler/webhook"
)

func SetupRoutes(router *gin.Engine, webhookHandler *webhook.Handler) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	WebhookRouter(router.Group("/webhook"), webhookHandler)
}
