package handler

import (
	"github.com/gin-gonic/gin"

	"zetrix-gateway/internal/handler/request"
	"zetrix-gateway/internal/handler/response"
	"zetrix-gateway/internal/pipeline"
	"zetrix-gateway/internal/service"
	"zetrix-gateway/pkg/errno"
	"zetrix-gateway/pkg/validator"
)

type TxHandler struct {
	svc *service.TxService
}

func NewTxHandler(svc *service.TxService) *TxHandler {
	return &TxHandler{svc: svc}
}

// bindError 将绑定/校验错误转换为 ErrBind，附带可读信息
func bindError(err error) error {
	return errno.ErrBind.WithDetail(validator.GetErrorMsg(err))
}

// Transfer 原生币转账
// @Summary 原生币转账
// @Tags Tx
// @Accept json
// @Produce json
// @Param request body pipeline.TransferRequest true "Transfer Request"
// @Success 200 {object} response.Response
// @Router /api/v1/tx/transfer [post]
func (h *TxHandler) Transfer(c *gin.Context) {
	// 1. 绑定参数，空字段使用配置默认值
	var req pipeline.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	// 2. 调用 Service
	out, err := h.svc.Transfer(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, out)
}

// Invoke 合约调用
// @Summary 按 gas 调用合约方法
// @Tags Tx
// @Accept json
// @Produce json
// @Param request body pipeline.InvokeRequest true "Invoke Request"
// @Success 200 {object} response.Response
// @Router /api/v1/tx/invoke [post]
func (h *TxHandler) Invoke(c *gin.Context) {
	var req pipeline.InvokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	out, err := h.svc.Invoke(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, out)
}

// Query 合约只读查询
// @Summary 合约只读查询
// @Tags Contract
// @Accept json
// @Produce json
// @Param request body pipeline.QueryRequest true "Query Request"
// @Success 200 {object} response.Response
// @Router /api/v1/contract/query [post]
func (h *TxHandler) Query(c *gin.Context) {
	var req pipeline.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	out, err := h.svc.Query(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, out)
}

// GetSubmission 查询本服务提交过的交易
// @Router /api/v1/tx/{hash} [get]
func (h *TxHandler) GetSubmission(c *gin.Context) {
	var uri request.SubmissionURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, bindError(err))
		return
	}

	sub, err := h.svc.Submission(c.Request.Context(), uri.Hash)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, sub)
}

// ListSubmissions 最近的提交记录
// @Router /api/v1/tx [get]
func (h *TxHandler) ListSubmissions(c *gin.Context) {
	var q request.SubmissionListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, bindError(err))
		return
	}

	subs, err := h.svc.Submissions(c.Request.Context(), q.Source, q.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"list": subs, "total": len(subs)})
}
