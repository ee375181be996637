package service

import (
	"go.uber.org/zap"

	"zetrix-gateway/pkg/errno"
	"zetrix-gateway/pkg/ledger"
	"zetrix-gateway/pkg/logger"
	"zetrix-gateway/pkg/monitor"
)

// LedgerService 管理节点连接，供 HTTP 接口与配置热更新共用
type LedgerService struct {
	holder *ledger.Holder
}

func NewLedgerService(holder *ledger.Holder) *LedgerService {
	return &LedgerService{holder: holder}
}

// Endpoint 当前节点地址，未连接时为空
func (s *LedgerService) Endpoint() string {
	return s.holder.Endpoint()
}

func (s *LedgerService) Ready() bool {
	return s.holder.Ready()
}

// Switch 切换到新节点，失败时保留原连接
func (s *LedgerService) Switch(endpoint string) error {
	prev := s.holder.Endpoint()
	if err := s.holder.Connect(endpoint); err != nil {
		logger.Error("switch ledger endpoint failed", zap.String("endpoint", endpoint), zap.Error(err))
		return errno.ErrEndpoint.Wrap(err)
	}
	if m := monitor.Business; m != nil {
		m.EndpointSwitchTotal.Inc()
	}
	logger.Info("ledger endpoint switched", zap.String("from", prev), zap.String("to", s.holder.Endpoint()))
	return nil
}
