package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"zetrix-gateway/internal/handler"
	"zetrix-gateway/internal/handler/response"
	"zetrix-gateway/internal/server/middleware"
	"zetrix-gateway/internal/server/routes"
	"zetrix-gateway/internal/service"
	"zetrix-gateway/pkg/monitor"
)

// Handlers HTTP 层依赖
type Handlers struct {
	Tx     *handler.TxHandler
	Client *handler.ClientHandler
	Ledger *service.LedgerService

	// AdminTokenHash 写交易与切换节点接口的令牌哈希，为空时不校验
	AdminTokenHash string
}

// NewHTTPRouter 初始化并返回一个 Gin Engine
func NewHTTPRouter(h Handlers) *gin.Engine {
	// 0. 初始化监控指标
	monitor.Init()

	// 1. 创建 Engine (使用默认中间件: Logger, Recovery)
	r := gin.Default()

	// 2. 注册通用中间件
	r.Use(monitor.PrometheusMiddleware())

	// 3. 注册基础路由
	r.GET("/health", handler.HealthCheck(h.Ledger))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 4. 注册 API 路由组
	api := r.Group("/api/v1")
	{
		api.GET("/ping", func(c *gin.Context) {
			response.Success(c, gin.H{"pong": true})
		})

		adminAuth := middleware.AdminAuth(h.AdminTokenHash)
		routes.RegisterTxRoutes(api, h.Tx, adminAuth)
		routes.RegisterClientRoutes(api, h.Client, adminAuth)
	}

	return r
}
