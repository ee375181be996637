package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zetrix-gateway/internal/handler"
	"zetrix-gateway/internal/handler/response"
	"zetrix-gateway/internal/pipeline"
	"zetrix-gateway/internal/server/middleware"
	"zetrix-gateway/internal/service"
	"zetrix-gateway/pkg/errno"
	"zetrix-gateway/pkg/ledger"
)

func TestNewHTTPRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	holder := ledger.NewHolder(ledger.HTTPFactory(0))
	ls := service.NewLedgerService(holder)
	svc := service.NewTxService(pipeline.New(holder, pipeline.Defaults{}), nil)

	r := NewHTTPRouter(Handlers{
		Tx:     handler.NewTxHandler(svc),
		Client: handler.NewClientHandler(ls),
		Ledger: ls,
	})

	routes := map[string]bool{}
	for _, ri := range r.Routes() {
		routes[ri.Method+" "+ri.Path] = true
	}
	for _, want := range []string{
		"GET /health",
		"GET /metrics",
		"POST /api/v1/tx/transfer",
		"POST /api/v1/tx/invoke",
		"GET /api/v1/tx/:hash",
		"POST /api/v1/contract/query",
		"PUT /api/v1/client/endpoint",
	} {
		assert.True(t, routes[want], "缺少路由 %s", want)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestNewHTTPRouter_AdminAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hash, err := middleware.HashToken("s3cret")
	require.NoError(t, err)

	// 未连接节点，通过鉴权的请求返回 client not initialized
	holder := ledger.NewHolder(ledger.HTTPFactory(0))
	ls := service.NewLedgerService(holder)
	svc := service.NewTxService(pipeline.New(holder, pipeline.Defaults{}), nil)
	r := NewHTTPRouter(Handlers{
		Tx:             handler.NewTxHandler(svc),
		Client:         handler.NewClientHandler(ls),
		Ledger:         ls,
		AdminTokenHash: hash,
	})

	tests := []struct {
		name     string
		method   string
		path     string
		token    string
		wantCode int
	}{
		{"转账缺少令牌", http.MethodPost, "/api/v1/tx/transfer", "", errno.ErrTokenInvalid.Code},
		{"调用令牌错误", http.MethodPost, "/api/v1/tx/invoke", "wrong", errno.ErrTokenInvalid.Code},
		{"切换节点缺少令牌", http.MethodPut, "/api/v1/client/endpoint", "", errno.ErrTokenInvalid.Code},
		{"转账令牌正确", http.MethodPost, "/api/v1/tx/transfer", "s3cret", errno.ErrClientUnavailable.Code},
		{"调用令牌正确", http.MethodPost, "/api/v1/tx/invoke", "s3cret", errno.ErrClientUnavailable.Code},
		{"只读查询无需令牌", http.MethodPost, "/api/v1/contract/query", "", errno.ErrClientUnavailable.Code},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(`{}`))
			req.Header.Set("Content-Type", "application/json")
			if tt.token != "" {
				req.Header.Set(middleware.AdminTokenHeader, tt.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			var resp response.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			if resp.Code != tt.wantCode {
				t.Fatalf("期望 code %d, 实际 %d (%s)", tt.wantCode, resp.Code, resp.Message)
			}
		})
	}
}
