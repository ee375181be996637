package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 提交状态
const (
	SubmissionSubmitted = "SUBMITTED"
)

// Submission 已被节点接受的交易流水，仅记录成功提交
type Submission struct {
	ID        uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Hash      string          `gorm:"type:varchar(128);not null;uniqueIndex" json:"hash"`
	Kind      string          `gorm:"type:varchar(16);not null;index" json:"kind"` // transfer, invoke
	Source    string          `gorm:"type:varchar(64);not null;index" json:"source"`
	Target    string          `gorm:"type:varchar(64);not null" json:"target"` // 收款地址或合约地址
	Method    string          `gorm:"type:varchar(128)" json:"method,omitempty"`
	Amount    decimal.Decimal `gorm:"type:decimal(40,18);not null" json:"amount"`
	Nonce     string          `gorm:"type:varchar(32);not null" json:"nonce"`
	FeeLimit  string          `gorm:"type:varchar(32)" json:"fee_limit"`
	GasPrice  string          `gorm:"type:varchar(32)" json:"gas_price"`
	RequestID string          `gorm:"type:varchar(64);index" json:"request_id,omitempty"` // MQ 请求 ID，HTTP 提交为空
	Status    string          `gorm:"type:varchar(20);not null;default:'SUBMITTED'" json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (Submission) TableName() string {
	return "submissions"
}
