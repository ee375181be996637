package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// OptTypeQuery 合约只读调用类型 (区别于会改变状态的调用)
const OptTypeQuery = 2

// 本客户端在本地检测到问题时使用的错误码，与节点返回的 error_code 共用 Error 类型
const (
	CodeAccountNotExist        = 4
	CodeInvalidSourceAddress   = 11002
	CodeInvalidDestAddress     = 11003
	CodeSourceEqualsDest       = 11005
	CodeInvalidGasAmount       = 11026
	CodeInvalidContractAddress = 11037
	CodeInvalidNonce           = 11048
	CodeInvalidFee             = 11050
	CodeInvalidSignatureNumber = 11054
	CodeInvalidBlob            = 11056
	CodeInvalidPrivateKey      = 11057
	CodeUnexpectedResponse     = 19999
)

// Client 是流水线依赖的账本客户端能力集合。
// 网络调用接收 context；本地构造 (operation / blob / 签名) 不阻塞。
type Client interface {
	// GetNonce 查询账户当前 nonce (十进制字符串)
	GetNonce(ctx context.Context, address string) (string, error)
	// BuildGasSendOperation 构造原生币转账操作
	BuildGasSendOperation(p GasSendParams) (Operation, error)
	// BuildContractInvokeOperation 构造按 gas 调用合约的操作
	BuildContractInvokeOperation(p ContractInvokeParams) (Operation, error)
	// EvaluateFee 请求节点估算 gas price 与 fee limit
	EvaluateFee(ctx context.Context, p EvaluateFeeParams) (FeeQuote, error)
	// BuildBlob 组装未签名交易
	BuildBlob(p BlobParams) (Blob, error)
	// Sign 使用一个或多个私钥对 blob 签名
	Sign(privateKeys []string, blob Blob) ([]Signature, error)
	// Submit 提交已签名交易，返回交易哈希
	Submit(ctx context.Context, signatures []Signature, blob Blob) (string, error)
	// ContractCall 发起合约调用 (只读调用使用 OptTypeQuery)
	ContractCall(ctx context.Context, p ContractCallParams) (*CallResult, error)
}

// Error 代表账本返回的非零错误码
type Error struct {
	Code int
	Desc string
}

func (e *Error) Error() string {
	if e.Desc == "" {
		return fmt.Sprintf("ledger error %d", e.Code)
	}
	return fmt.Sprintf("ledger error %d: %s", e.Code, e.Desc)
}

// CodeOf 返回 err 链上的账本错误码，不是账本错误时返回 0
func CodeOf(err error) int {
	var le *Error
	if errors.As(err, &le) {
		return le.Code
	}
	return 0
}

type GasSendParams struct {
	SourceAddress string
	DestAddress   string
	GasAmount     string
}

type ContractInvokeParams struct {
	SourceAddress   string
	ContractAddress string
	Amount          string
	Input           string
}

type EvaluateFeeParams struct {
	SourceAddress string
	Nonce         string
	Operations    []Operation
	// SignatureNumber 签名数量提示，仅用于估算
	SignatureNumber string
}

// FeeQuote 仅对产生它的 (source, nonce, operations) 有效
type FeeQuote struct {
	FeeLimit string
	GasPrice string
}

type BlobParams struct {
	SourceAddress string
	GasPrice      string
	FeeLimit      string
	Nonce         string
	Operations    []Operation
}

// Signature 一条签名 (公钥隐含签名者)
type Signature struct {
	SignData  string `json:"sign_data"`
	PublicKey string `json:"public_key"`
}

type ContractCallParams struct {
	OptType         int
	ContractAddress string
	Input           string
}

// CallResult 合约调用结果
type CallResult struct {
	QueryRets []QueryRet `json:"query_rets"`
}

// QueryRet 合约调用返回的一项，携带结果或错误
type QueryRet struct {
	Error  json.RawMessage `json:"error,omitempty"`
	Result *QueryValue     `json:"result,omitempty"`
}

// ErrorMessage 返回该项的错误信息；字符串原样返回，其它 JSON 返回原文。
// 空串 / null / false / 0 视为没有错误。
func (q QueryRet) ErrorMessage() string {
	raw := bytes.TrimSpace(q.Error)
	switch string(raw) {
	case "", "null", "false", "0", `""`:
		return ""
	}
	if raw[0] == '"' {
		if s, err := strconv.Unquote(string(raw)); err == nil {
			return s
		}
	}
	return string(raw)
}

type QueryValue struct {
	Type  string `json:"type"`
	Value Text   `json:"value"`
}

// Text 接受 JSON 字符串或任意 JSON 值，统一保存为文本
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if string(raw) == "null" {
		*t = ""
		return nil
	}
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	*t = Text(raw)
	return nil
}
