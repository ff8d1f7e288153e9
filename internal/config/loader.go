package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/weisyn/dataitem/pkg/types"
)

// LoadAppConfig 从JSON文件加载应用配置
//
// path 为空时返回空配置（全部使用默认值）；文件不存在视为错误，
// 因为调用方显式指定了路径。
func LoadAppConfig(path string) (*types.AppConfig, error) {
	if path == "" {
		return &types.AppConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var appConfig types.AppConfig
	if err := json.Unmarshal(data, &appConfig); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	return &appConfig, nil
}
