package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zetrix-gateway/internal/handler/response"
	"zetrix-gateway/internal/pipeline"
	"zetrix-gateway/internal/service"
	"zetrix-gateway/pkg/errno"
	"zetrix-gateway/pkg/ledger"
	"zetrix-gateway/pkg/validator"
)

const (
	sender   = "ZTX3Ta7d4GyAXD41H2kFCTd2eXhDesM83rvC3"
	receiver = "ZTX3SsZvtHugnVqGLrHqENP2cvYAVqwPHeYdg"
	contract = "ZTX3PPMnjnZiRfFTMZNuFLz5ShD1VyJUbFFx5"
)

// fakeLedger 始终成功的节点客户端
type fakeLedger struct{}

func (fakeLedger) GetNonce(context.Context, string) (string, error) { return "1", nil }
func (fakeLedger) BuildGasSendOperation(ledger.GasSendParams) (ledger.Operation, error) {
	return ledger.Operation{Type: ledger.OperationPayCoin}, nil
}
func (fakeLedger) BuildContractInvokeOperation(ledger.ContractInvokeParams) (ledger.Operation, error) {
	return ledger.Operation{Type: ledger.OperationPayCoin}, nil
}
func (fakeLedger) EvaluateFee(context.Context, ledger.EvaluateFeeParams) (ledger.FeeQuote, error) {
	return ledger.FeeQuote{FeeLimit: "10", GasPrice: "1"}, nil
}
func (fakeLedger) BuildBlob(ledger.BlobParams) (ledger.Blob, error) { return ledger.Blob{1}, nil }
func (fakeLedger) Sign([]string, ledger.Blob) ([]ledger.Signature, error) {
	return []ledger.Signature{{SignData: "s", PublicKey: "p"}}, nil
}
func (fakeLedger) Submit(context.Context, []ledger.Signature, ledger.Blob) (string, error) {
	return "0f1e2d3c", nil
}
func (fakeLedger) ContractCall(context.Context, ledger.ContractCallParams) (*ledger.CallResult, error) {
	return &ledger.CallResult{QueryRets: []ledger.QueryRet{
		{Result: &ledger.QueryValue{Type: "string", Value: `{"balance":"10"}`}},
	}}, nil
}

func newTestRouter(holder *ledger.Holder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	validator.Init()

	p := pipeline.New(holder, pipeline.Defaults{
		Transfer: pipeline.TransferDefaults{SenderAddress: sender, PrivateKey: "privBkey"},
	})
	tx := NewTxHandler(service.NewTxService(p, nil))
	ls := service.NewLedgerService(holder)
	client := NewClientHandler(ls)

	r := gin.New()
	r.GET("/health", HealthCheck(ls))
	r.POST("/tx/transfer", tx.Transfer)
	r.POST("/tx/invoke", tx.Invoke)
	r.POST("/contract/query", tx.Query)
	r.GET("/tx/:hash", tx.GetSubmission)
	r.GET("/tx", tx.ListSubmissions)
	r.GET("/client/endpoint", client.GetEndpoint)
	r.PUT("/client/endpoint", client.SetEndpoint)
	return r
}

func connectedHolder(t *testing.T) *ledger.Holder {
	h := ledger.NewHolder(func(string) (ledger.Client, error) { return fakeLedger{}, nil })
	require.NoError(t, h.Connect("node-a"))
	return h
}

func do(t *testing.T, r http.Handler, method, path, body string) response.Response {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestTxHandler(t *testing.T) {
	r := newTestRouter(connectedHolder(t))

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode int
		wantData string
	}{
		{
			name: "transfer ok", method: http.MethodPost, path: "/tx/transfer",
			body:     `{"recipientAddress":"` + receiver + `","amount":"5"}`,
			wantData: `{"success":true,"hash":"0f1e2d3c"}`,
		},
		{
			name: "transfer zero amount", method: http.MethodPost, path: "/tx/transfer",
			body:     `{"recipientAddress":"` + receiver + `","amount":0}`,
			wantCode: errno.ErrInvalidAmount.Code, wantData: `{"success":false}`,
		},
		{
			name: "invoke missing contract", method: http.MethodPost, path: "/tx/invoke",
			body:     `{"address":"` + sender + `","privateKey":"k","method":"mint","amount":"1"}`,
			wantCode: errno.ErrMissingField.Code, wantData: `{"success":false}`,
		},
		{
			name: "query ok", method: http.MethodPost, path: "/contract/query",
			body:     `{"contractAddress":"` + contract + `","method":"balanceOf","inputParams":"{\"owner\":\"x\"}"}`,
			wantData: `{"success":true,"result":{"balance":"10"}}`,
		},
		{
			name: "malformed body", method: http.MethodPost, path: "/tx/transfer",
			body:     `{"amount":`,
			wantCode: errno.ErrBind.Code, wantData: `{"success":false}`,
		},
		{
			name: "submission journal disabled", method: http.MethodGet, path: "/tx/0f1e2d3c",
			wantCode: errno.ErrSubmissionNotFound.Code, wantData: `{"success":false}`,
		},
		{
			name: "submission bad hash", method: http.MethodGet, path: "/tx/zz-top",
			wantCode: errno.ErrBind.Code, wantData: `{"success":false}`,
		},
		{
			name: "list bad source", method: http.MethodGet, path: "/tx?source=0xabc",
			wantCode: errno.ErrBind.Code, wantData: `{"success":false}`,
		},
		{
			name: "list empty", method: http.MethodGet, path: "/tx?source=" + sender + "&limit=5",
			wantData: `{"list":[],"total":0}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, r, tt.method, tt.path, tt.body)
			if resp.Code != tt.wantCode {
				t.Fatalf("code 不符: got %d want %d (%s)", resp.Code, tt.wantCode, resp.Message)
			}
			data, err := json.Marshal(resp.Data)
			require.NoError(t, err)
			assert.JSONEq(t, tt.wantData, string(data))
		})
	}
}

func TestTxHandler_ClientNotInitialized(t *testing.T) {
	r := newTestRouter(ledger.NewHolder(ledger.HTTPFactory(0)))

	resp := do(t, r, http.MethodPost, "/tx/transfer", `{"recipientAddress":"`+receiver+`","amount":"5"}`)
	assert.Equal(t, errno.ErrClientUnavailable.Code, resp.Code)

	resp = do(t, r, http.MethodGet, "/health", "")
	assert.Equal(t, "DOWN", resp.Data.(map[string]any)["ledger"])
}

func TestClientHandler(t *testing.T) {
	fail := errors.New("dial failed")
	holder := ledger.NewHolder(func(endpoint string) (ledger.Client, error) {
		if endpoint == "bad-node" {
			return nil, fail
		}
		return fakeLedger{}, nil
	})
	require.NoError(t, holder.Connect("node-a"))
	r := newTestRouter(holder)

	resp := do(t, r, http.MethodGet, "/client/endpoint", "")
	assert.Equal(t, "node-a", resp.Data.(map[string]any)["url"])

	resp = do(t, r, http.MethodPut, "/client/endpoint", `{"url":"node-b"}`)
	require.Equal(t, 0, resp.Code)
	assert.Equal(t, "node-b", resp.Data.(map[string]any)["url"])

	resp = do(t, r, http.MethodPut, "/client/endpoint", `{"url":"bad-node"}`)
	assert.Equal(t, errno.ErrEndpoint.Code, resp.Code)
	assert.Equal(t, "node-b", holder.Endpoint(), "切换失败时保留原节点")

	resp = do(t, r, http.MethodPut, "/client/endpoint", `{}`)
	assert.Equal(t, errno.ErrBind.Code, resp.Code)
	assert.Contains(t, resp.Message, "URL 不能为空")

	resp = do(t, r, http.MethodGet, "/health", "")
	assert.Equal(t, "UP", resp.Data.(map[string]any)["ledger"])
}
