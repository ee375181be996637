package routes

import (
	"github.com/gin-gonic/gin"

	"zetrix-gateway/internal/handler"
)

func RegisterClientRoutes(rg *gin.RouterGroup, h *handler.ClientHandler, adminAuth gin.HandlerFunc) {
	clientGroup := rg.Group("/client")
	{
		clientGroup.GET("/endpoint", h.GetEndpoint)
		clientGroup.PUT("/endpoint", adminAuth, h.SetEndpoint)
	}
}
