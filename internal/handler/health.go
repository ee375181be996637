package handler

import (
	"github.com/gin-gonic/gin"

	"zetrix-gateway/internal/handler/response"
	"zetrix-gateway/internal/service"
)

// HealthCheck 返回服务状态，未连接节点时 ledger 为 DOWN
// @Summary Check system health
// @Tags system
// @Produce json
// @Success 200 {object} response.Response
// @Router /health [get]
func HealthCheck(ledger *service.LedgerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "UP"
		if ledger == nil || !ledger.Ready() {
			status = "DOWN"
		}
		response.Success(c, gin.H{
			"status":  "UP",
			"ledger":  status,
			"version": "1.0.0",
			"service": "ztx-server",
		})
	}
}
