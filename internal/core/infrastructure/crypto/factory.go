// Package crypto 提供加密服务工厂实现
package crypto

import (
	"github.com/weisyn/dataitem/internal/core/infrastructure/crypto/hash"
	"github.com/weisyn/dataitem/internal/core/infrastructure/crypto/key"
	"github.com/weisyn/dataitem/internal/core/infrastructure/crypto/signature"
	"github.com/weisyn/dataitem/pkg/interfaces/infrastructure/crypto"
	log "github.com/weisyn/dataitem/pkg/interfaces/infrastructure/log"
)

// ServiceInput 定义加密服务工厂的输入参数
type ServiceInput struct {
	Logger log.Logger `optional:"true"`
}

// ServiceOutput 定义加密服务工厂的输出结果
type ServiceOutput struct {
	HashManager crypto.HashManager
	Registry    *signature.Registry
	KeyLoader   *key.Loader
}

// CreateCryptoServices 创建加密服务
//
// 🏭 **加密服务工厂**：
// 负责创建加密模块的所有服务，保持 module.go 的薄实现。
func CreateCryptoServices(input ServiceInput) (ServiceOutput, error) {
	logger := input.Logger
	if logger != nil {
		logger = logger.With("module", "crypto")
	}

	hashService := hash.NewHashService()
	registry := signature.Default()
	loader := key.NewLoader()

	if logger != nil {
		logger.Infof("加密模块已初始化，注册签名类型 %d 个", len(registry.Types()))
	}

	return ServiceOutput{
		HashManager: hashService,
		Registry:    registry,
		KeyLoader:   loader,
	}, nil
}
