package service

import (
	"zetrix-gateway/internal/pipeline"
	"zetrix-gateway/pkg/config"
)

// DefaultsFromConfig 将配置文件中的默认值转换为流水线使用的结构
func DefaultsFromConfig(cfg config.Config) pipeline.Defaults {
	return pipeline.Defaults{
		Transfer: pipeline.TransferDefaults{
			SenderAddress:    cfg.Transfer.SenderAddress,
			RecipientAddress: cfg.Transfer.RecipientAddress,
			PrivateKey:       cfg.Transfer.PrivateKey,
			Amount:           cfg.Transfer.Amount,
		},
		Invoke: pipeline.InvokeDefaults{
			Address:         cfg.Invoke.Address,
			ContractAddress: cfg.Invoke.ContractAddress,
			Method:          cfg.Invoke.Method,
			InputParams:     cfg.Invoke.InputParams,
			PrivateKey:      cfg.Invoke.PrivateKey,
			Amount:          cfg.Invoke.Amount,
		},
		Query: pipeline.QueryDefaults{
			ContractAddress: cfg.Query.ContractAddress,
			Method:          cfg.Query.Method,
			InputParams:     cfg.Query.InputParams,
		},
	}
}

// ServerDefaults HTTP 服务使用的默认值。
// 未配置 admin_token_hash 时写接口无鉴权，不使用配置中的私钥，调用方需在请求中自带
func ServerDefaults(cfg config.Config) pipeline.Defaults {
	d := DefaultsFromConfig(cfg)
	if cfg.App.AdminTokenHash == "" {
		d.Transfer.PrivateKey = ""
		d.Invoke.PrivateKey = ""
	}
	return d
}
