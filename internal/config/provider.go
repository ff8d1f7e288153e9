package config

import (
	"github.com/weisyn/dataitem/internal/config/dataitem"
	"github.com/weisyn/dataitem/internal/config/log"
	"github.com/weisyn/dataitem/internal/config/signer"
	"github.com/weisyn/dataitem/pkg/interfaces/config"
	"github.com/weisyn/dataitem/pkg/types"
)

// Provider 实现配置提供者接口
type Provider struct {
	appConfig *types.AppConfig
}

// NewProvider 创建配置提供者
func NewProvider(appConfig *types.AppConfig) config.Provider {
	if appConfig == nil {
		appConfig = &types.AppConfig{}
	}
	return &Provider{
		appConfig: appConfig,
	}
}

// GetLog 获取日志配置
func (p *Provider) GetLog() *log.LogOptions {
	// log.New会处理默认值应用和用户配置覆盖
	return log.New(p.appConfig.Log).GetOptions()
}

// GetDataItem 获取数据项配置
func (p *Provider) GetDataItem() *dataitem.DataItemOptions {
	return dataitem.New(p.appConfig.DataItem).GetOptions()
}

// GetSigner 获取签名器配置
func (p *Provider) GetSigner() *signer.SignerOptions {
	return signer.New(p.appConfig.Signer).GetOptions()
}

// GetAppConfig 获取原始应用配置
func (p *Provider) GetAppConfig() *types.AppConfig {
	return p.appConfig
}
