package logger

import "go.uber.org/zap"

// AsynqLogger 将 asynq 内部日志转发到 zap
type AsynqLogger struct {
	s *zap.SugaredLogger
}

func NewAsynqLogger() *AsynqLogger {
	return &AsynqLogger{s: Named("asynq").Sugar()}
}

func (l *AsynqLogger) Debug(args ...interface{}) { l.s.Debug(args...) }
func (l *AsynqLogger) Info(args ...interface{})  { l.s.Info(args...) }
func (l *AsynqLogger) Warn(args ...interface{})  { l.s.Warn(args...) }
func (l *AsynqLogger) Error(args ...interface{}) { l.s.Error(args...) }

// Fatal asynq 在无法恢复时调用，按其约定退出进程
func (l *AsynqLogger) Fatal(args ...interface{}) { l.s.Fatal(args...) }
