package integration

import (
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 这些测试假设 ztx-server 已经在运行 (例如通过 Docker Compose)
// 运行命令: ZTX_SERVER_URL=http://localhost:8080 go test -v ./tests/integration/...

func baseURL() string {
	if u := os.Getenv("ZTX_SERVER_URL"); u != "" {
		return u
	}
	return "http://localhost:8080"
}

type envelope struct {
	Code int            `json:"code"`
	Msg  string         `json:"msg"`
	Data map[string]any `json:"data"`
}

func get(t *testing.T, path string) envelope {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(baseURL() + path)
	if err != nil {
		t.Skip("Skipping integration test: server not running? " + err.Error())
	}
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func TestHealthCheck(t *testing.T) {
	env := get(t, "/health")
	assert.Equal(t, 0, env.Code)
	assert.Equal(t, "UP", env.Data["status"])
}

func TestClientEndpoint(t *testing.T) {
	env := get(t, "/api/v1/client/endpoint")
	assert.Equal(t, 0, env.Code)
	assert.NotEmpty(t, env.Data["url"], "服务启动时应已配置节点地址")
}
