// Package dataitem 提供数据项构建与存放相关配置
package dataitem

import (
	"os"

	configtypes "github.com/weisyn/dataitem/pkg/types"
)

// DataItemOptions 数据项配置选项
type DataItemOptions struct {
	// FileThresholdBytes 载荷大于该值时使用文件承载的数据项
	FileThresholdBytes int64 `json:"file_threshold_bytes"`
	// TempDir 文件承载数据项的目录
	TempDir string `json:"temp_dir"`
	// StreamBufferSize 流式读取缓冲大小
	StreamBufferSize int `json:"stream_buffer_size"`
}

// Config 数据项配置实现
type Config struct {
	options *DataItemOptions
}

// New 创建数据项配置（默认值 + 用户覆盖）
func New(userConfig *configtypes.UserDataItemConfig) *Config {
	options := &DataItemOptions{
		FileThresholdBytes: defaultFileThresholdBytes,
		TempDir:            defaultTempDir,
		StreamBufferSize:   defaultStreamBufferSize,
	}

	if userConfig != nil {
		if userConfig.FileThresholdBytes != nil && *userConfig.FileThresholdBytes >= 0 {
			options.FileThresholdBytes = *userConfig.FileThresholdBytes
		}
		if userConfig.TempDir != nil {
			options.TempDir = *userConfig.TempDir
		}
		if userConfig.StreamBufferSize != nil {
			options.StreamBufferSize = *userConfig.StreamBufferSize
		}
	}

	if options.StreamBufferSize < minStreamBufferSize {
		options.StreamBufferSize = minStreamBufferSize
	}

	return &Config{options: options}
}

// GetOptions 获取完整配置
func (c *Config) GetOptions() *DataItemOptions {
	return c.options
}

// ResolveTempDir 返回实际使用的目录
func (o *DataItemOptions) ResolveTempDir() string {
	if o.TempDir == "" {
		return os.TempDir()
	}
	return o.TempDir
}
