// Package log 日志配置
//
// 默认输出到标准错误；配置了文件路径时写 JSON 并按大小轮转。
package log

import (
	configtypes "github.com/weisyn/dataitem/pkg/types"
	"go.uber.org/zap/zapcore"
)

// LogOptions 日志配置选项
type LogOptions struct {
	Level     string `json:"level"`      // debug, info, warn, error, fatal
	FilePath  string `json:"file_path"`  // 为空或 stdout/stderr 时只输出到控制台
	ToConsole bool   `json:"to_console"` // 写文件时是否同时输出到 stderr

	// 文件轮转
	MaxSize    int  `json:"max_size"`    // MB
	MaxBackups int  `json:"max_backups"` // 份
	MaxAge     int  `json:"max_age"`     // 天
	Compress   bool `json:"compress"`

	EnableCaller     bool `json:"enable_caller"`
	EnableStacktrace bool `json:"enable_stacktrace"`
}

// Config 日志配置
type Config struct {
	options *LogOptions
}

// New 默认值叠加配置文件中的 log 字段
func New(user *configtypes.UserLogConfig) *Config {
	options := defaultOptions()
	if user != nil {
		if user.Level != nil {
			options.Level = *user.Level
		}
		if user.FilePath != nil {
			options.FilePath = *user.FilePath
			options.ToConsole = false
		}
	}
	return &Config{options: options}
}

// NewWithOptions 直接使用调用方构造的选项，Level 为空时取默认级别
func NewWithOptions(options *LogOptions) *Config {
	if options == nil {
		return New(nil)
	}
	opts := *options
	if opts.Level == "" {
		opts.Level = defaultLogLevel
	}
	return &Config{options: &opts}
}

// NewFromProvider 从配置提供者取日志选项
func NewFromProvider(provider interface{ GetLog() *LogOptions }) *Config {
	if provider == nil {
		return New(nil)
	}
	return NewWithOptions(provider.GetLog())
}

func defaultOptions() *LogOptions {
	return &LogOptions{
		Level:            defaultLogLevel,
		FilePath:         defaultFilePath,
		ToConsole:        defaultToConsole,
		MaxSize:          defaultMaxSize,
		MaxBackups:       defaultMaxBackups,
		MaxAge:           defaultMaxAge,
		Compress:         defaultCompress,
		EnableCaller:     defaultEnableCaller,
		EnableStacktrace: defaultEnableStacktrace,
	}
}

// GetOptions 完整选项
func (c *Config) GetOptions() *LogOptions {
	return c.options
}

// ZapLevel 未知级别按 info 处理
func (c *Config) ZapLevel() zapcore.Level {
	if level, ok := levelMap[c.options.Level]; ok {
		return level
	}
	return zapcore.InfoLevel
}

// ConsoleOnly 是否只输出到控制台
func (c *Config) ConsoleOnly() bool {
	switch c.options.FilePath {
	case "", "stdout", "stderr":
		return true
	}
	return false
}

// Encoder JSON 用于文件与嵌入场景，console 用于终端
func (c *Config) Encoder(console bool) zapcore.Encoder {
	cfg := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
	}
	if console {
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(cfg)
	}
	return zapcore.NewJSONEncoder(cfg)
}
