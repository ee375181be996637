package event

import "encoding/json"

// 消息主题
const (
	TopicTxSubmitted = "ztx_tx_submitted"
)

// TxRequestEvent worker 消费的交易请求
// Topic: worker.request_topic
type TxRequestEvent struct {
	ID      string          `json:"id"`   // 请求方生成，用于去重与结果关联
	Kind    string          `json:"kind"` // transfer, invoke, query
	Payload json.RawMessage `json:"payload"`
}

// TxResultEvent 一次请求的处理结果
// Topic: worker.result_topic
type TxResultEvent struct {
	ID      string       `json:"id"`
	Kind    string       `json:"kind"`
	Success bool         `json:"success"`
	Hash    string       `json:"hash,omitempty"`
	Result  any          `json:"result,omitempty"`
	Error   *ResultError `json:"error,omitempty"`
}

type ResultError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// TxSubmittedEvent 交易被节点接受，经 Outbox 投递
// Topic: ztx_tx_submitted
type TxSubmittedEvent struct {
	Hash      string `json:"hash"`
	Kind      string `json:"kind"`
	Source    string `json:"source"`
	Target    string `json:"target"`
	Method    string `json:"method,omitempty"`
	Amount    string `json:"amount"` // Decimal string
	Nonce     string `json:"nonce"`
	RequestID string `json:"request_id,omitempty"`
}
