package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout 单次 HTTP 请求的默认超时
const DefaultTimeout = 15 * time.Second

// maxResponseSize 节点单次响应体上限
const maxResponseSize = 10 << 20

// HTTPClient 通过节点 REST 接口实现 Client。
// operation / blob / 签名在本地完成，只有查询、估算、提交、合约调用访问节点。
type HTTPClient struct {
	endpoint string
	http     *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient 未带 scheme 的地址默认使用 https
func NewHTTPClient(endpoint string, timeout time.Duration) (*HTTPClient, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("ledger endpoint is empty")
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid ledger endpoint %q", endpoint)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &HTTPClient{
		endpoint: strings.TrimRight(u.String(), "/"),
		http:     &http.Client{Timeout: timeout},
	}, nil
}

// Endpoint 规范化后的节点地址
func (c *HTTPClient) Endpoint() string {
	return c.endpoint
}

type accountBaseResponse struct {
	ErrorCode int    `json:"error_code"`
	ErrorDesc string `json:"error_desc"`
	Result    struct {
		Address string      `json:"address"`
		Nonce   json.Number `json:"nonce"`
	} `json:"result"`
}

func (c *HTTPClient) GetNonce(ctx context.Context, address string) (string, error) {
	if !IsAddress(address) {
		return "", &Error{Code: CodeInvalidSourceAddress, Desc: "invalid address"}
	}

	var resp accountBaseResponse
	if err := c.get(ctx, "/getAccountBase?address="+url.QueryEscape(address), &resp); err != nil {
		return "", err
	}
	if resp.ErrorCode != 0 {
		return "", &Error{Code: resp.ErrorCode, Desc: resp.ErrorDesc}
	}
	// 新账户没有 nonce 字段
	if resp.Result.Nonce == "" {
		return "0", nil
	}
	return resp.Result.Nonce.String(), nil
}

func (c *HTTPClient) BuildGasSendOperation(p GasSendParams) (Operation, error) {
	return NewGasSendOperation(p)
}

func (c *HTTPClient) BuildContractInvokeOperation(p ContractInvokeParams) (Operation, error) {
	return NewContractInvokeOperation(p)
}

type payCoinJSON struct {
	DestAddress string      `json:"dest_address"`
	Amount      json.Number `json:"amount"`
	Input       string      `json:"input,omitempty"`
}

type operationJSON struct {
	Type          OperationType `json:"type"`
	SourceAddress string        `json:"source_address,omitempty"`
	PayCoin       *payCoinJSON  `json:"pay_coin,omitempty"`
}

type transactionJSON struct {
	SourceAddress string          `json:"source_address"`
	Nonce         json.Number     `json:"nonce"`
	Operations    []operationJSON `json:"operations"`
}

type testTransactionItem struct {
	TransactionJSON transactionJSON `json:"transaction_json"`
	SignatureNumber json.Number     `json:"signature_number"`
}

type testTransactionRequest struct {
	Items []testTransactionItem `json:"items"`
}

type testTransactionResponse struct {
	ErrorCode int    `json:"error_code"`
	ErrorDesc string `json:"error_desc"`
	Result    struct {
		Txs []struct {
			TransactionEnv struct {
				Transaction struct {
					FeeLimit json.Number `json:"fee_limit"`
					GasPrice json.Number `json:"gas_price"`
				} `json:"transaction"`
			} `json:"transaction_env"`
		} `json:"txs"`
	} `json:"result"`
}

func (c *HTTPClient) EvaluateFee(ctx context.Context, p EvaluateFeeParams) (FeeQuote, error) {
	if !IsAddress(p.SourceAddress) {
		return FeeQuote{}, &Error{Code: CodeInvalidSourceAddress, Desc: "invalid sourceAddress"}
	}
	if _, ok := parseNonce(p.Nonce); !ok {
		return FeeQuote{}, &Error{Code: CodeInvalidNonce, Desc: "nonce must be a positive 64-bit integer"}
	}
	if _, ok := parseAmount(p.SignatureNumber); !ok {
		return FeeQuote{}, &Error{Code: CodeInvalidSignatureNumber, Desc: "invalid signatureNumber"}
	}
	if len(p.Operations) == 0 {
		return FeeQuote{}, &Error{Code: CodeInvalidBlob, Desc: "operations cannot be empty"}
	}

	tx := transactionJSON{
		SourceAddress: p.SourceAddress,
		Nonce:         json.Number(strings.TrimSpace(p.Nonce)),
		Operations:    make([]operationJSON, 0, len(p.Operations)),
	}
	for _, op := range p.Operations {
		oj := operationJSON{Type: op.Type, SourceAddress: op.SourceAddress}
		if op.PayCoin != nil {
			oj.PayCoin = &payCoinJSON{
				DestAddress: op.PayCoin.DestAddress,
				Amount:      json.Number(formatInt64(op.PayCoin.Amount)),
				Input:       op.PayCoin.Input,
			}
		}
		tx.Operations = append(tx.Operations, oj)
	}

	req := testTransactionRequest{Items: []testTransactionItem{{
		TransactionJSON: tx,
		SignatureNumber: json.Number(strings.TrimSpace(p.SignatureNumber)),
	}}}

	var resp testTransactionResponse
	if err := c.post(ctx, "/testTransaction", req, &resp); err != nil {
		return FeeQuote{}, err
	}
	if resp.ErrorCode != 0 {
		return FeeQuote{}, &Error{Code: resp.ErrorCode, Desc: resp.ErrorDesc}
	}
	if len(resp.Result.Txs) == 0 {
		return FeeQuote{}, &Error{Code: CodeUnexpectedResponse, Desc: "testTransaction returned no txs"}
	}

	tx0 := resp.Result.Txs[0].TransactionEnv.Transaction
	return FeeQuote{FeeLimit: tx0.FeeLimit.String(), GasPrice: tx0.GasPrice.String()}, nil
}

func (c *HTTPClient) BuildBlob(p BlobParams) (Blob, error) {
	return EncodeBlob(p)
}

func (c *HTTPClient) Sign(privateKeys []string, blob Blob) ([]Signature, error) {
	return SignBlob(privateKeys, blob)
}

type submitItem struct {
	TransactionBlob string      `json:"transaction_blob"`
	Signatures      []Signature `json:"signatures"`
}

type submitResponse struct {
	Results []struct {
		ErrorCode int    `json:"error_code"`
		ErrorDesc string `json:"error_desc"`
		Hash      string `json:"hash"`
	} `json:"results"`
	SuccessCount int `json:"success_count"`
}

func (c *HTTPClient) Submit(ctx context.Context, signatures []Signature, blob Blob) (string, error) {
	if len(blob) == 0 {
		return "", &Error{Code: CodeInvalidBlob, Desc: "blob cannot be empty"}
	}
	if len(signatures) == 0 {
		return "", &Error{Code: CodeInvalidPrivateKey, Desc: "signatures cannot be empty"}
	}

	req := map[string][]submitItem{
		"items": {{TransactionBlob: blob.Hex(), Signatures: signatures}},
	}
	var resp submitResponse
	if err := c.post(ctx, "/submitTransaction", req, &resp); err != nil {
		return "", err
	}
	if len(resp.Results) == 0 {
		return "", &Error{Code: CodeUnexpectedResponse, Desc: "submitTransaction returned no results"}
	}
	r := resp.Results[0]
	if r.ErrorCode != 0 {
		return "", &Error{Code: r.ErrorCode, Desc: r.ErrorDesc}
	}
	if r.Hash == "" {
		return blob.Hash(), nil
	}
	return r.Hash, nil
}

type callContractRequest struct {
	ContractAddress string `json:"contract_address"`
	Input           string `json:"input"`
	OptType         int    `json:"opt_type"`
}

type callContractResponse struct {
	ErrorCode int         `json:"error_code"`
	ErrorDesc string      `json:"error_desc"`
	Result    *CallResult `json:"result"`
}

func (c *HTTPClient) ContractCall(ctx context.Context, p ContractCallParams) (*CallResult, error) {
	if !IsAddress(p.ContractAddress) {
		return nil, &Error{Code: CodeInvalidContractAddress, Desc: "invalid contractAddress"}
	}

	req := callContractRequest{ContractAddress: p.ContractAddress, Input: p.Input, OptType: p.OptType}
	var resp callContractResponse
	if err := c.post(ctx, "/callContract", req, &resp); err != nil {
		return nil, err
	}
	// 合约执行失败时节点仍返回 query_rets，交给调用方解读
	if resp.Result != nil && len(resp.Result.QueryRets) > 0 {
		return resp.Result, nil
	}
	if resp.ErrorCode != 0 {
		return nil, &Error{Code: resp.ErrorCode, Desc: resp.ErrorDesc}
	}
	if resp.Result == nil {
		return &CallResult{}, nil
	}
	return resp.Result, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *HTTPClient) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if len(data) > maxResponseSize {
		return fmt.Errorf("ledger response exceeds %d bytes", maxResponseSize)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ledger http %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
