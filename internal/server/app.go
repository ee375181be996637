package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"zetrix-gateway/pkg/logger"
)

type Config struct {
	HttpPort string
	// ShutdownTimeout 等待进行中的请求完成，交易提交包含多次节点往返
	ShutdownTimeout time.Duration
}

type App struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	background      []func(ctx context.Context)
}

func New(cfg Config, httpHandler *gin.Engine) *App {
	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &App{
		httpServer: &http.Server{
			Addr:              ":" + cfg.HttpPort,
			Handler:           httpHandler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: timeout,
	}
}

// Go 注册随服务启停的后台任务，ctx 在收到关闭信号时取消
func (a *App) Go(task func(ctx context.Context)) {
	a.background = append(a.background, task)
}

// Run 启动服务并阻塞，直到收到关闭信号
func (a *App) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Start background tasks
	done := make(chan struct{}, len(a.background))
	for _, task := range a.background {
		go func(task func(context.Context)) {
			defer func() { done <- struct{}{} }()
			task(ctx)
		}(task)
	}

	// 2. Start HTTP
	go func() {
		logger.Info("Starting HTTP Server", zap.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP Server failure", zap.Error(err))
		}
	}()

	// 3. Signal Handling (Blocking)
	<-ctx.Done()
	logger.Info("⚠️  Shutting down server...")

	// 4. Graceful Shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP Server forced to shutdown", zap.Error(err))
	}

	for range a.background {
		select {
		case <-done:
		case <-shutdownCtx.Done():
			logger.Warn("background tasks did not stop in time")
			return
		}
	}
	logger.Info("Server exited properly")
}
