package request

// 交易请求体直接绑定到 pipeline.TransferRequest / InvokeRequest / QueryRequest，
// 它们需要保留原始 payload 供金额表达式使用。

// EndpointRequest 切换 Zetrix 节点
type EndpointRequest struct {
	URL string `json:"url" binding:"required"`
}

// SubmissionURI 按交易 hash 查询
type SubmissionURI struct {
	Hash string `uri:"hash" binding:"required,hexadecimal"`
}

// SubmissionListQuery 提交记录列表
type SubmissionListQuery struct {
	Source string `form:"source" binding:"omitempty,ztx_address"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
}
