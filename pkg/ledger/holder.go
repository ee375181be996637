package ledger

import (
	"sync/atomic"
	"time"
)

// Source 提供当前可用的客户端，未初始化时返回 nil
type Source interface {
	Current() Client
}

// Factory 根据节点地址创建客户端
type Factory func(endpoint string) (Client, error)

// HTTPFactory 返回创建 HTTPClient 的 Factory
func HTTPFactory(timeout time.Duration) Factory {
	return func(endpoint string) (Client, error) {
		return NewHTTPClient(endpoint, timeout)
	}
}

type binding struct {
	endpoint string
	client   Client
}

// Holder 持有当前客户端，支持运行时切换节点。
// 正在执行的调用保留其开始时拿到的客户端，切换只影响之后的调用。
type Holder struct {
	factory Factory
	current atomic.Pointer[binding]
}

func NewHolder(factory Factory) *Holder {
	return &Holder{factory: factory}
}

// Connect 创建新客户端并替换当前客户端；失败时保留原客户端
func (h *Holder) Connect(endpoint string) error {
	c, err := h.factory(endpoint)
	if err != nil {
		return err
	}
	h.current.Store(&binding{endpoint: endpoint, client: c})
	return nil
}

func (h *Holder) Current() Client {
	b := h.current.Load()
	if b == nil {
		return nil
	}
	return b.client
}

// Endpoint 当前客户端的节点地址，未初始化时为空
func (h *Holder) Endpoint() string {
	b := h.current.Load()
	if b == nil {
		return ""
	}
	return b.endpoint
}

// Ready 是否已有可用客户端
func (h *Holder) Ready() bool {
	return h.current.Load() != nil
}

type staticSource struct{ c Client }

func (s staticSource) Current() Client { return s.c }

// Static 总是返回同一个客户端
func Static(c Client) Source {
	return staticSource{c: c}
}
