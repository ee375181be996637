package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zetrix-gateway/internal/handler/response"
	"zetrix-gateway/pkg/errno"
)

func newRouter(hash string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.PUT("/admin", AdminAuth(hash), func(c *gin.Context) {
		response.Success(c, gin.H{"ok": true})
	})
	return r
}

func TestAdminAuth(t *testing.T) {
	hash, err := HashToken("s3cret")
	require.NoError(t, err)

	tests := []struct {
		name     string
		hash     string
		token    string
		wantCode int
	}{
		{"未配置哈希时放行", "", "", errno.OK.Code},
		{"令牌正确", hash, "s3cret", errno.OK.Code},
		{"缺少令牌", hash, "", errno.ErrTokenInvalid.Code},
		{"令牌错误", hash, "wrong", errno.ErrTokenInvalid.Code},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/admin", nil)
			if tt.token != "" {
				req.Header.Set(AdminTokenHeader, tt.token)
			}
			w := httptest.NewRecorder()
			newRouter(tt.hash).ServeHTTP(w, req)

			var resp response.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			if resp.Code != tt.wantCode {
				t.Fatalf("期望 code %d, 实际 %d (%s)", tt.wantCode, resp.Code, resp.Message)
			}
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}
