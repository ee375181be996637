package pipeline

import (
	"encoding/json"
)

// TransferRequest 原生币转账请求，空字段使用配置默认值
type TransferRequest struct {
	SenderAddress    string `json:"senderAddress"`
	RecipientAddress string `json:"recipientAddress"`
	PrivateKey       string `json:"privateKey"`
	Amount           Amount `json:"amount"`

	// Payload 原始请求体，金额表达式以 payload.* 引用
	Payload map[string]any `json:"-"`
}

func (r *TransferRequest) UnmarshalJSON(data []byte) error {
	type plain TransferRequest
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	p.Payload = rawPayload(data)
	*r = TransferRequest(p)
	return nil
}

// InvokeRequest 合约调用请求
type InvokeRequest struct {
	Address         string `json:"address"`
	ContractAddress string `json:"contractAddress"`
	Method          string `json:"method"`
	InputParams     Params `json:"inputParams"`
	PrivateKey      string `json:"privateKey"`
	Amount          Amount `json:"amount"`

	Payload map[string]any `json:"-"`
}

func (r *InvokeRequest) UnmarshalJSON(data []byte) error {
	type plain InvokeRequest
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	p.Payload = rawPayload(data)
	*r = InvokeRequest(p)
	return nil
}

// QueryRequest 合约只读查询请求
type QueryRequest struct {
	ContractAddress string `json:"contractAddress"`
	Method          string `json:"method"`
	InputParams     Params `json:"inputParams"`
}

type TransferDefaults struct {
	SenderAddress    string
	RecipientAddress string
	PrivateKey       string
	// Amount 十进制字面量或 ${expr} 模板
	Amount string
}

type InvokeDefaults struct {
	Address         string
	ContractAddress string
	Method          string
	InputParams     string
	PrivateKey      string
	Amount          string
}

type QueryDefaults struct {
	ContractAddress string
	Method          string
	InputParams     string
}

// Defaults 请求未提供字段时使用的配置值
type Defaults struct {
	Transfer TransferDefaults
	Invoke   InvokeDefaults
	Query    QueryDefaults
}

func rawPayload(data []byte) map[string]any {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	return m
}

// payloadOf 没有原始请求体时 (例如代码中直接构造的请求) 由请求字段生成
func payloadOf(req any, payload map[string]any) map[string]any {
	if payload != nil {
		return payload
	}
	data, err := json.Marshal(req)
	if err != nil {
		return map[string]any{}
	}
	if m := rawPayload(data); m != nil {
		return m
	}
	return map[string]any{}
}

func pick(requested, configured string) string {
	if requested != "" {
		return requested
	}
	return configured
}

func pickParams(requested Params, configured string) Params {
	if !requested.IsAbsent() {
		return requested
	}
	return ParamsFromText(configured)
}

// 合并后的请求，金额仍保留请求原值，配置金额单独交给 ResolveAmount
type transferPlan struct {
	TransferRequest
	configuredAmount string
	env              map[string]any
}

func mergeTransfer(req TransferRequest, d TransferDefaults) transferPlan {
	env := map[string]any{"payload": payloadOf(req, req.Payload)}
	req.SenderAddress = pick(req.SenderAddress, d.SenderAddress)
	req.RecipientAddress = pick(req.RecipientAddress, d.RecipientAddress)
	req.PrivateKey = pick(req.PrivateKey, d.PrivateKey)
	return transferPlan{TransferRequest: req, configuredAmount: d.Amount, env: env}
}

type invokePlan struct {
	InvokeRequest
	configuredAmount string
	env              map[string]any
}

func mergeInvoke(req InvokeRequest, d InvokeDefaults) invokePlan {
	env := map[string]any{"payload": payloadOf(req, req.Payload)}
	req.Address = pick(req.Address, d.Address)
	req.ContractAddress = pick(req.ContractAddress, d.ContractAddress)
	req.Method = pick(req.Method, d.Method)
	req.InputParams = pickParams(req.InputParams, d.InputParams)
	req.PrivateKey = pick(req.PrivateKey, d.PrivateKey)
	return invokePlan{InvokeRequest: req, configuredAmount: d.Amount, env: env}
}

func mergeQuery(req QueryRequest, d QueryDefaults) QueryRequest {
	req.ContractAddress = pick(req.ContractAddress, d.ContractAddress)
	req.Method = pick(req.Method, d.Method)
	req.InputParams = pickParams(req.InputParams, d.InputParams)
	return req
}
