package handler

import (
	"github.com/gin-gonic/gin"

	"zetrix-gateway/internal/handler/request"
	"zetrix-gateway/internal/handler/response"
	"zetrix-gateway/internal/service"
)

// ClientHandler 管理 Zetrix 节点连接
type ClientHandler struct {
	svc *service.LedgerService
}

func NewClientHandler(svc *service.LedgerService) *ClientHandler {
	return &ClientHandler{svc: svc}
}

// GetEndpoint 当前节点
// @Router /api/v1/client/endpoint [get]
func (h *ClientHandler) GetEndpoint(c *gin.Context) {
	response.Success(c, gin.H{
		"url":   h.svc.Endpoint(),
		"ready": h.svc.Ready(),
	})
}

// SetEndpoint 切换节点，正在执行的调用不受影响
// @Router /api/v1/client/endpoint [put]
func (h *ClientHandler) SetEndpoint(c *gin.Context) {
	// 1. 绑定参数
	var req request.EndpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	// 2. 切换
	if err := h.svc.Switch(req.URL); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{
		"url":   h.svc.Endpoint(),
		"ready": h.svc.Ready(),
	})
}
