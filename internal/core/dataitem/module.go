package dataitem

import (
	"go.uber.org/fx"

	dataitemconfig "github.com/weisyn/dataitem/internal/config/dataitem"
	signerconfig "github.com/weisyn/dataitem/internal/config/signer"
	"github.com/weisyn/dataitem/internal/core/infrastructure/crypto/key"
	"github.com/weisyn/dataitem/internal/core/infrastructure/crypto/signature"
	logimpl "github.com/weisyn/dataitem/internal/core/infrastructure/log"
	"github.com/weisyn/dataitem/pkg/interfaces/infrastructure/crypto"
	"github.com/weisyn/dataitem/pkg/interfaces/infrastructure/log"
)

// ModuleInput 定义数据项模块的输入依赖
type ModuleInput struct {
	fx.In

	Logger        log.Logger `optional:"true"`
	Options       *dataitemconfig.DataItemOptions
	SignerOptions *signerconfig.SignerOptions
	Registry      *signature.Registry
	HashManager   crypto.HashManager
	KeyLoader     *key.Loader
}

// ModuleOutput 定义数据项模块的输出服务
type ModuleOutput struct {
	fx.Out

	Service *Service
}

// ProvideServices 提供数据项服务
func ProvideServices(input ModuleInput) ModuleOutput {
	logger := logimpl.NewModuleLogger(input.Logger, "dataitem")
	service := NewService(logger, input.Options, input.SignerOptions, input.Registry, input.HashManager, input.KeyLoader)
	logger.Infof("数据项服务已初始化 file_threshold=%d temp_dir=%s",
		service.options.FileThresholdBytes, service.options.ResolveTempDir())
	return ModuleOutput{Service: service}
}

// Module 返回数据项模块
func Module() fx.Option {
	return fx.Module("dataitem",
		fx.Provide(ProvideServices),
	)
}
