// Package config provides configuration provider interfaces.
package config

import (
	dataitemconfig "github.com/weisyn/dataitem/internal/config/dataitem"
	logconfig "github.com/weisyn/dataitem/internal/config/log"
	signerconfig "github.com/weisyn/dataitem/internal/config/signer"
	"github.com/weisyn/dataitem/pkg/types"
)

// Provider 配置提供者接口
type Provider interface {
	// GetLog 获取日志配置
	GetLog() *logconfig.LogOptions

	// GetDataItem 获取数据项配置
	GetDataItem() *dataitemconfig.DataItemOptions

	// GetSigner 获取签名器配置
	GetSigner() *signerconfig.SignerOptions

	// GetAppConfig 获取原始应用配置
	GetAppConfig() *types.AppConfig
}
