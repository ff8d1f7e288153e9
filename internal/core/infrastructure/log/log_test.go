package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logconfig "github.com/weisyn/dataitem/internal/config/log"
	"github.com/weisyn/dataitem/pkg/types"
)

// decodeLines 将JSON日志按行解析
func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry), "日志行应为合法JSON: %s", line)
		entries = append(entries, entry)
	}
	return entries
}

// TestInfoLog 测试信息级别日志
func TestInfoLog(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, logconfig.New(nil))

	logger.Info("测试信息日志")
	require.NoError(t, logger.Sync())

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "测试信息日志", entries[0]["message"])
	assert.Equal(t, "info", entries[0]["level"])
}

// TestStructuredLogging 测试结构化日志
func TestStructuredLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, logconfig.New(nil))

	logger.With("key1", "value1", "key2", 42).Info("结构化日志测试")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "value1", entries[0]["key1"])
	assert.Equal(t, float64(42), entries[0]["key2"])
}

// TestLevelFiltering 测试日志级别过滤
func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, logconfig.NewWithOptions(&logconfig.LogOptions{Level: WarnLevel}))

	logger.Debug("不应输出")
	logger.Info("不应输出")
	logger.Warnf("应输出 %d", 1)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "应输出 1", entries[0]["message"])
}

// TestModuleLogger 测试模块字段
func TestModuleLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewModuleLogger(NewWithWriter(&buf, logconfig.New(nil)), "dataitem")
	logger.Info("带模块")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "dataitem", entries[0]["module"])

	assert.NotNil(t, NewModuleLogger(nil, "dataitem"), "nil 基础 logger 应回退到 nop")
}

// TestOddFields 测试奇数个字段参数
func TestOddFields(t *testing.T) {
	fields := toZapFields("a", 1, "dangling")
	assert.Len(t, fields, 1)
}

// TestFileOutput 测试文件输出（JSON）
func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "dataitem.log")
	logger, err := New(logconfig.New(&types.UserLogConfig{
		Level:    types.StringPtr(DebugLevel),
		FilePath: types.StringPtr(path),
	}))
	require.NoError(t, err)

	logger.Debugf("写入 %s", "文件")
	require.NoError(t, logger.Sync())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	entries := decodeLines(t, bytes.NewBuffer(raw))
	require.Len(t, entries, 1)
	assert.Equal(t, "写入 文件", entries[0]["message"])
	assert.Equal(t, "debug", entries[0]["level"])
}

// TestUnknownLevel 未知级别按 info 处理
func TestUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, logconfig.New(&types.UserLogConfig{Level: types.StringPtr("verbose")}))
	logger.Debug("不应输出")
	logger.Info("应输出")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "应输出", entries[0]["message"])
}
