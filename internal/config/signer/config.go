// Package signer 提供签名器配置
//
// 🎯 **配置职责**：描述命令行工具使用哪种签名类型、从哪里加载私钥。
// 密钥生成与派生不在此处理。
package signer

import (
	configtypes "github.com/weisyn/dataitem/pkg/types"
)

// SignerOptions 签名器配置选项
type SignerOptions struct {
	// SignatureType 签名类型名称
	SignatureType string `json:"signature_type"`

	// KeyPath 私钥文件路径（格式取决于签名类型，见 key 包）
	KeyPath string `json:"key_path"`
}

// Config 签名器配置实现
type Config struct {
	options *SignerOptions
}

// New 创建签名器配置
func New(userConfig *configtypes.UserSignerConfig) *Config {
	options := &SignerOptions{
		SignatureType: defaultSignatureType,
		KeyPath:       defaultKeyPath,
	}

	if userConfig != nil {
		if userConfig.SignatureType != nil && *userConfig.SignatureType != "" {
			options.SignatureType = *userConfig.SignatureType
		}
		if userConfig.KeyPath != nil {
			options.KeyPath = *userConfig.KeyPath
		}
	}

	return &Config{options: options}
}

// GetOptions 获取完整配置
func (c *Config) GetOptions() *SignerOptions {
	return c.options
}

// GetSignatureType 解析签名类型
func (c *Config) GetSignatureType() (configtypes.SignatureType, error) {
	return configtypes.ParseSignatureType(c.options.SignatureType)
}
