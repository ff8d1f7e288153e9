// Package types provides configuration type definitions.
package types

// AppConfig 应用程序根配置
// 只包含JSON配置文件解析所需的结构，不包含任何内部字段
// 默认值和完整配置结构在 internal/config/*/defaults.go 和 internal/config/*/config.go 中定义
type AppConfig struct {
	// 应用程序基本信息
	AppName *string `json:"app_name,omitempty"` // 应用名称
	DataDir *string `json:"data_dir,omitempty"` // 数据目录路径

	// 日志配置
	Log *UserLogConfig `json:"log,omitempty"`

	// 数据项配置 - 对应配置文件中的 dataitem 字段
	DataItem *UserDataItemConfig `json:"dataitem,omitempty"`

	// 签名器配置 - 对应配置文件中的 signer 字段
	Signer *UserSignerConfig `json:"signer,omitempty"`
}

// UserLogConfig 用户日志配置
// 只包含JSON配置文件中实际出现的字段
type UserLogConfig struct {
	Level    *string `json:"level,omitempty"`     // 日志级别：debug, info, warn, error, fatal
	FilePath *string `json:"file_path,omitempty"` // 日志文件路径
}

// UserDataItemConfig 用户数据项配置
type UserDataItemConfig struct {
	// FileThresholdBytes 载荷超过该大小时使用文件承载的数据项
	FileThresholdBytes *int64 `json:"file_threshold_bytes,omitempty"`
	// TempDir 文件承载数据项的临时目录
	TempDir *string `json:"temp_dir,omitempty"`
	// StreamBufferSize 流式哈希的读缓冲大小（字节）
	StreamBufferSize *int `json:"stream_buffer_size,omitempty"`
}

// UserSignerConfig 用户签名器配置
type UserSignerConfig struct {
	// SignatureType 签名类型名称（arweave, ed25519, ethereum, ...）
	SignatureType *string `json:"signature_type,omitempty"`
	// KeyPath 私钥文件路径
	KeyPath *string `json:"key_path,omitempty"`
}
