package routes

import (
	"github.com/gin-gonic/gin"

	"zetrix-gateway/internal/handler"
)

// RegisterTxRoutes 写接口使用服务端配置的私钥签名，需要管理令牌
func RegisterTxRoutes(rg *gin.RouterGroup, h *handler.TxHandler, adminAuth gin.HandlerFunc) {
	txGroup := rg.Group("/tx")
	{
		txGroup.POST("/transfer", adminAuth, h.Transfer)
		txGroup.POST("/invoke", adminAuth, h.Invoke)
		txGroup.GET("", h.ListSubmissions)
		txGroup.GET("/:hash", h.GetSubmission)
	}

	rg.POST("/contract/query", h.Query)
}
