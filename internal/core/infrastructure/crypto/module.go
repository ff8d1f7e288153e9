// Package crypto 提供加密相关功能
package crypto

import (
	"github.com/weisyn/dataitem/internal/core/infrastructure/crypto/key"
	"github.com/weisyn/dataitem/internal/core/infrastructure/crypto/signature"
	"github.com/weisyn/dataitem/pkg/interfaces/infrastructure/crypto"
	log "github.com/weisyn/dataitem/pkg/interfaces/infrastructure/log"
	"go.uber.org/fx"
)

// CryptoParams 定义加密模块的依赖参数
type CryptoParams struct {
	fx.In

	Logger log.Logger `optional:"true"` // 日志记录器
}

// CryptoOutput 定义加密模块的输出结构
type CryptoOutput struct {
	fx.Out

	HashManager crypto.HashManager
	Registry    *signature.Registry
	KeyLoader   *key.Loader
}

// Module 返回加密模块
func Module() fx.Option {
	return fx.Module("crypto",
		fx.Provide(ProvideCryptoServices),
	)
}

// ProvideCryptoServices 提供加密服务
func ProvideCryptoServices(params CryptoParams) (CryptoOutput, error) {
	serviceOutput, err := CreateCryptoServices(ServiceInput{Logger: params.Logger})
	if err != nil {
		return CryptoOutput{}, err
	}

	return CryptoOutput{
		HashManager: serviceOutput.HashManager,
		Registry:    serviceOutput.Registry,
		KeyLoader:   serviceOutput.KeyLoader,
	}, nil
}
